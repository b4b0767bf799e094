package unibot

import (
	"log/slog"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/ai"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/ai/openai"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/embcache"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/ingestion"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/search"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/storage"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/storage/badger"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/syncer"
)

// Store bundles the local document store, the page-state registry, and the
// embedding cache behind one handle. It is the entry point for embedders
// and the CLI.
type Store struct {
	backend  *badger.Backend
	docRepo  storage.DocumentRepository
	pageRepo storage.PageStateRepository
	cache    *embcache.Cache
	logger   *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*storeOptions)

type storeOptions struct {
	aiConfig     *ai.Config
	factory      ai.EmbedderFactory
	snapshotPath string
	inMemory     bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(cfg *ai.Config) StoreOption {
	return func(o *storeOptions) {
		if cfg != nil {
			o.aiConfig = cfg
		}
	}
}

// WithEmbedderFactory replaces the default OpenAI-compatible embedder
// factory. Mainly for tests and alternative embedding backends.
func WithEmbedderFactory(factory ai.EmbedderFactory) StoreOption {
	return func(o *storeOptions) {
		o.factory = factory
	}
}

// WithSnapshotPath enables embedding-cache persistence at the given file.
// The snapshot is loaded on Open and written on Close.
func WithSnapshotPath(path string) StoreOption {
	return func(o *storeOptions) {
		o.snapshotPath = path
	}
}

// WithInMemory opens the store without touching disk.
func WithInMemory() StoreOption {
	return func(o *storeOptions) {
		o.inMemory = true
	}
}

// Open creates a Store backed by BadgerDB at filePath.
func Open(filePath string, opts ...StoreOption) (*Store, error) {
	options := &storeOptions{
		aiConfig: ai.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(options)
	}

	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	docRepo, err := badger.NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	pageRepo, err := badger.NewPageStateRepository(backend)
	if err != nil {
		docRepo.Close()
		backend.Close()
		return nil, err
	}

	factory := options.factory
	if factory == nil {
		factory = openai.Factory(options.aiConfig)
	}

	var cacheOpts []embcache.Option
	if options.snapshotPath != "" {
		cacheOpts = append(cacheOpts, embcache.WithSnapshotPath(options.snapshotPath))
	}
	cache := embcache.New(factory, cacheOpts...)

	if options.snapshotPath != "" {
		// Load never fails on snapshot content, only on misconfiguration.
		if err := cache.Load(); err != nil {
			pageRepo.Close()
			docRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Store{
		backend:  backend,
		docRepo:  docRepo,
		pageRepo: pageRepo,
		cache:    cache,
		logger:   slog.Default(),
	}, nil
}

// Close persists the embedding cache snapshot when configured, then closes
// repositories and the backend.
func (s *Store) Close() error {
	if err := s.cache.Persist(); err != nil {
		// Absent snapshot path is the common case, not a failure.
		s.logger.Debug("embedding cache not persisted", "err", err)
	}

	if err := s.pageRepo.Close(); err != nil {
		s.logger.Error("error closing page state repository", "err", err)
		return err
	}
	if err := s.docRepo.Close(); err != nil {
		s.logger.Error("error closing document repository", "err", err)
		return err
	}
	if err := s.backend.Close(); err != nil {
		s.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

// DocumentRepository returns the local document store.
func (s *Store) DocumentRepository() storage.DocumentRepository {
	return s.docRepo
}

// PageStateRepository returns the URL fingerprint registry.
func (s *Store) PageStateRepository() storage.PageStateRepository {
	return s.pageRepo
}

// Cache returns the shared embedding cache.
func (s *Store) Cache() *embcache.Cache {
	return s.cache
}

// NewIngestionPipeline creates an ingestion pipeline over the store.
func (s *Store) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(s.docRepo, s.pageRepo, s.cache, opts...)
}

// NewSearcher creates a searcher over the store.
func (s *Store) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	return search.NewSearcher(s.docRepo, s.cache, opts...)
}

// NewSyncer creates a synchronizer for the given remote index.
func (s *Store) NewSyncer(remote syncer.RemoteIndex, opts ...syncer.Option) (*syncer.Syncer, error) {
	return syncer.New(remote, opts...)
}
