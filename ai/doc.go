// Package ai defines the embedding-service abstraction used by the
// ingestion pipeline, the embedding cache, and search.
//
// Implementations live in subpackages: openai provides a client for
// OpenAI-compatible embedding APIs, mock provides deterministic test
// doubles. Consumers depend only on the interfaces defined here.
package ai
