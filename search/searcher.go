package search

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/embcache"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/storage"
)

// RemoteSearcher is the optional capability of an indexed remote search.
// When configured, queries are delegated to it instead of scanning the
// local store.
type RemoteSearcher interface {
	Search(ctx context.Context, queryVector []float32, opts Options) ([]*core.SearchResult, error)
}

// Options tunes a single search call.
type Options struct {
	// Limit caps the number of results. Values below 1 use the default of 10.
	Limit int

	// MinSimilarity drops results scoring below the threshold when set
	// above zero. The zero value applies no cutoff, so negatively
	// correlated documents still count toward Limit.
	MinSimilarity float32

	// ScopeKey/ScopeValue restrict the search to documents whose metadata
	// carries the pair, applied before ranking. Empty ScopeKey disables
	// scoping.
	ScopeKey   string
	ScopeValue string
}

// DefaultLimit is the result cap when Options.Limit is not set.
const DefaultLimit = 10

// Searcher answers semantic queries over stored documents.
type Searcher struct {
	documents storage.DocumentRepository
	cache     *embcache.Cache
	remote    RemoteSearcher
	logger    *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithRemoteSearcher enables the indexed-search capability. A nil value
// leaves the full-scan fallback in place.
func WithRemoteSearcher(remote RemoteSearcher) Option {
	return func(s *Searcher) error {
		s.remote = remote
		return nil
	}
}

// NewSearcher creates a new searcher.
func NewSearcher(
	documents storage.DocumentRepository,
	cache *embcache.Cache,
	opts ...Option,
) (*Searcher, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if cache == nil {
		return nil, ErrCacheRequired
	}

	s := &Searcher{
		documents: documents,
		cache:     cache,
		logger:    slog.Default().With("component", "search"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Search embeds the query and returns matching documents in descending
// score order. The query embedding goes through the cache's query mapping,
// so repeated queries never re-invoke the model.
func (s *Searcher) Search(ctx context.Context, query string, opts Options) ([]*core.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrEmptyQuery
	}
	if opts.Limit < 1 {
		opts.Limit = DefaultLimit
	}

	vec, err := s.cache.GetOrCompute(ctx, embcache.Query, query)
	if err != nil {
		return nil, err
	}

	if s.remote != nil {
		s.logger.Debug("delegating to remote search", "query", query)
		return s.remote.Search(ctx, vec, opts)
	}

	return s.fullScan(ctx, vec, opts)
}

// fullScan ranks every stored document against the query vector. Intended
// for modest local stores; an indexed remote takes over via the capability
// when scale demands it.
func (s *Searcher) fullScan(ctx context.Context, queryVector []float32, opts Options) ([]*core.SearchResult, error) {
	filter := storage.Filter{MetadataKey: opts.ScopeKey, MetadataValue: opts.ScopeValue}

	docs, err := s.documents.GetAllDocuments(ctx, filter)
	if err != nil {
		return nil, err
	}

	var results []*core.SearchResult
	for _, doc := range docs {
		if len(doc.Vector) == 0 {
			continue
		}
		score := embcache.Cosine(queryVector, doc.Vector)
		if opts.MinSimilarity > 0 && score < opts.MinSimilarity {
			continue
		}
		results = append(results, &core.SearchResult{Document: doc, Score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.ID < results[j].Document.ID
	})

	if len(results) > opts.Limit {
		results = results[:opts.Limit]
	}

	s.logger.Debug("full-scan search finished",
		"candidates", len(docs), "results", len(results))
	return results, nil
}
