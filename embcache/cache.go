package embcache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/ai"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
)

// Kind selects which of the two cache mappings an operation targets.
type Kind int

const (
	// Query targets the query-text mapping.
	Query Kind = iota + 1
	// Doc targets the document-text mapping.
	Doc
)

func (k Kind) String() string {
	switch k {
	case Query:
		return "query"
	case Doc:
		return "document"
	default:
		return "unknown"
	}
}

// Cache memoizes embeddings keyed by content fingerprint.
type Cache struct {
	mu       sync.Mutex
	query    map[core.Fingerprint][]float32
	document map[core.Fingerprint][]float32

	initMu   sync.Mutex
	factory  ai.EmbedderFactory
	embedder ai.Embedder

	snapshotPath string
	logger       *slog.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// WithSnapshotPath sets the file used by Persist and Load.
func WithSnapshotPath(path string) Option {
	return func(c *Cache) {
		c.snapshotPath = path
	}
}

// New creates a Cache. The factory is invoked at most once per Cache, on
// the first miss; a nil factory makes every miss fail with ErrNoEmbedder
// while hits keep working.
func New(factory ai.EmbedderFactory, opts ...Option) *Cache {
	c := &Cache{
		query:    make(map[core.Fingerprint][]float32),
		document: make(map[core.Fingerprint][]float32),
		factory:  factory,
		logger:   slog.Default().With("component", "embcache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetOrCompute returns the cached embedding for text under the given kind,
// computing and storing it on a miss. The embedding model is invoked at
// most once per (kind, fingerprint).
func (c *Cache) GetOrCompute(ctx context.Context, kind Kind, text string) ([]float32, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	fp := core.FingerprintText(text)

	c.mu.Lock()
	if vec, ok := c.mapping(kind)[fp]; ok {
		c.mu.Unlock()
		return vec, nil
	}
	c.mu.Unlock()

	embedder, err := c.getEmbedder()
	if err != nil {
		return nil, err
	}

	// Computed outside the lock; a concurrent caller may race to fill the
	// same key, which is harmless because computation is idempotent per key.
	vec, err := embedder.EmbedText(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embedding %s text: %w", kind, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Re-resolve under the lock: Clear and Load swap the map pointers, so a
	// map captured before computing could be a discarded generation.
	mapping := c.mapping(kind)
	if existing, ok := mapping[fp]; ok {
		return existing, nil
	}
	mapping[fp] = vec
	return vec, nil
}

// Contains reports whether an embedding for text is already cached under
// the given kind, without touching the model.
func (c *Cache) Contains(kind Kind, text string) bool {
	if validateKind(kind) != nil {
		return false
	}

	fp := core.FingerprintText(text)

	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.mapping(kind)[fp]
	return ok
}

// Stats returns the number of entries in the query and document mappings.
func (c *Cache) Stats() (queries, documents int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.query), len(c.document)
}

// Clear discards all entries from both mappings.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = make(map[core.Fingerprint][]float32)
	c.document = make(map[core.Fingerprint][]float32)
}

// getEmbedder lazily constructs the embedding model. Construction happens
// at most once; a failed construction is reported and retried on the next
// call rather than poisoning the cache.
func (c *Cache) getEmbedder() (ai.Embedder, error) {
	c.initMu.Lock()
	defer c.initMu.Unlock()

	if c.embedder != nil {
		return c.embedder, nil
	}
	if c.factory == nil {
		return nil, ErrNoEmbedder
	}

	embedder, err := c.factory()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEmbedderInit, err)
	}

	c.logger.Info("embedding model initialized")
	c.embedder = embedder
	return embedder, nil
}

func validateKind(kind Kind) error {
	switch kind {
	case Query, Doc:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnknownKind, kind)
	}
}

// mapping returns the map for a validated kind. The caller must hold mu:
// Clear and Load replace the map pointers, so a map resolved outside the
// lock can belong to a discarded generation.
func (c *Cache) mapping(kind Kind) map[core.Fingerprint][]float32 {
	if kind == Query {
		return c.query
	}
	return c.document
}
