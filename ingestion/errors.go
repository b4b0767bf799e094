package ingestion

import "errors"

var (
	// ErrDocumentRepositoryRequired is returned when a document repository is not provided.
	ErrDocumentRepositoryRequired = errors.New("document repository required")

	// ErrPageStateRepositoryRequired is returned when a page-state repository is not provided.
	ErrPageStateRepositoryRequired = errors.New("page state repository required")

	// ErrCacheRequired is returned when an embedding cache is not provided.
	ErrCacheRequired = errors.New("embedding cache required")

	// ErrEmptyURL is returned when ProcessPage is called with an empty URL.
	ErrEmptyURL = errors.New("page URL required")

	// ErrInvalidMaxAttempts is returned when retry is configured with a
	// non-positive attempt count.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")
)
