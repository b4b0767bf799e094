// Package openai implements ai.Embedder against OpenAI-compatible
// embedding APIs (OpenAI itself, Ollama, vLLM, and similar servers).
package openai
