package storage

import (
	"context"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
)

// Filter restricts which documents GetAllDocuments returns. The zero value
// matches every document.
type Filter struct {
	// MetadataKey/MetadataValue select documents whose metadata contains
	// the exact pair. Both must be set for the filter to apply.
	MetadataKey   string
	MetadataValue string
}

// Matches reports whether doc passes the filter.
func (f Filter) Matches(doc *core.Document) bool {
	if f.MetadataKey == "" {
		return true
	}
	return doc.Metadata[f.MetadataKey] == f.MetadataValue
}

// DocumentRepository provides operations for managing document records.
// Implementations must be thread-safe and support concurrent access.
type DocumentRepository interface {
	// UpsertDocuments inserts or replaces documents by ID.
	// Sets FetchedAt if unset and always refreshes UpdatedAt.
	UpsertDocuments(ctx context.Context, docs ...*core.Document) error

	// GetDocument retrieves a single document by ID.
	// Returns ErrNotFound if the document doesn't exist.
	GetDocument(ctx context.Context, id string) (*core.Document, error)

	// GetAllDocuments retrieves every document passing the filter, in
	// ascending ID order. Stable ordering is what makes batch numbering
	// reproducible across synchronization runs.
	GetAllDocuments(ctx context.Context, filter Filter) ([]*core.Document, error)

	// DeleteDocuments removes documents by their IDs. IDs that don't
	// exist are ignored; a page shrinking between fetches routinely
	// leaves stale chunk IDs behind.
	DeleteDocuments(ctx context.Context, ids ...string) error

	// FindSimilar finds documents similar to the given vector.
	// Returns documents with similarity >= minSimilarity, up to limit
	// results, ordered by similarity score (highest first).
	FindSimilar(ctx context.Context, vector []float32, minSimilarity float32, limit int) ([]*core.SearchResult, error)

	// Close closes the repository and releases resources.
	Close() error
}

// PageStateRepository records the last observed fingerprint per URL.
type PageStateRepository interface {
	// PutPageState inserts or replaces the state for its URL.
	PutPageState(ctx context.Context, state *core.PageState) error

	// GetPageState retrieves the state for a URL.
	// Returns ErrNotFound if the URL has never been recorded.
	GetPageState(ctx context.Context, url string) (*core.PageState, error)

	// DeletePageState removes the state for a URL.
	// Returns ErrNotFound if the URL has never been recorded.
	DeletePageState(ctx context.Context, url string) error

	// Close closes the repository and releases resources.
	Close() error
}
