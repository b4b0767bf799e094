package embcache

import "errors"

var (
	// ErrNoEmbedder is returned when an embedding is requested but no
	// embedder factory was configured.
	ErrNoEmbedder = errors.New("no embedder factory configured")

	// ErrEmbedderInit is returned when the embedding model could not be
	// constructed. Non-embedding operations are unaffected.
	ErrEmbedderInit = errors.New("embedder initialization failed")

	// ErrUnknownKind is returned for a Kind outside Query/Doc.
	ErrUnknownKind = errors.New("unknown cache kind")
)
