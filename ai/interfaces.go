package ai

import "context"

// Embedder generates vector embeddings from text for semantic similarity
// search. Implementations must be thread-safe for concurrent use.
type Embedder interface {
	// EmbedText generates a vector embedding for a single text string.
	// The returned vector represents the semantic meaning of the text.
	// Returns an error if the embedding generation fails.
	EmbedText(ctx context.Context, text string) ([]float32, error)

	// EmbedTexts generates vector embeddings for multiple text strings in a
	// batch. Batch processing is more efficient than calling EmbedText
	// multiple times. The returned slice contains embeddings in the same
	// order as the input texts.
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// EmbedderFactory constructs an Embedder on first use. The embedding cache
// defers model construction until an embedding is actually needed, so
// processes that only detect changes or chunk text never pay the
// initialization cost.
type EmbedderFactory func() (Embedder, error)
