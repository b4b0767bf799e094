package ingestion

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/chunk"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/detect"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/embcache"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/storage"
	"github.com/panjf2000/ants/v2"
)

// Pipeline orchestrates the per-page update workflow. It is safe for
// concurrent use once constructed.
type Pipeline struct {
	documents  storage.DocumentRepository
	pageStates storage.PageStateRepository
	cache      *embcache.Cache
	detector   *detect.Detector
	chunker    *chunk.Chunker

	embedPool *ants.Pool
	pending   sync.WaitGroup

	maxRecordBytes int
	embedAttempts  int
	embedBaseDelay time.Duration
	deferEmbedding bool
	logger         *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for deferred embedding fill.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		if p.embedPool != nil {
			p.embedPool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.embedPool = pool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithMaxRecordBytes sets the per-record byte ceiling that triggers
// chunking. Default is core.DefaultMaxRecordBytes.
func WithMaxRecordBytes(n int) Option {
	return func(p *Pipeline) error {
		if n < 1 {
			n = 1
		}
		p.maxRecordBytes = n
		return nil
	}
}

// WithEmbedRetry configures retry for embedding calls. Default is 3
// attempts with a 1s base delay.
func WithEmbedRetry(maxAttempts int, baseDelay time.Duration) Option {
	return func(p *Pipeline) error {
		if maxAttempts <= 0 {
			return ErrInvalidMaxAttempts
		}
		p.embedAttempts = maxAttempts
		p.embedBaseDelay = baseDelay
		return nil
	}
}

// WithDetector sets a custom change detector, typically to carry a
// normalizer tuned with site-specific volatile markers or content
// container IDs. Default is a detector over the default normalizer.
func WithDetector(d *detect.Detector) Option {
	return func(p *Pipeline) error {
		if d == nil {
			d = detect.New(nil)
		}
		p.detector = d
		return nil
	}
}

// WithDeferredEmbedding makes ProcessPage store documents without vectors
// and fill embeddings asynchronously on the worker pool. Fill errors are
// logged, not returned; call Wait to block until outstanding fills finish.
func WithDeferredEmbedding() Option {
	return func(p *Pipeline) error {
		p.deferEmbedding = true
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	documents storage.DocumentRepository,
	pageStates storage.PageStateRepository,
	cache *embcache.Cache,
	opts ...Option,
) (*Pipeline, error) {
	if documents == nil {
		return nil, ErrDocumentRepositoryRequired
	}
	if pageStates == nil {
		return nil, ErrPageStateRepositoryRequired
	}
	if cache == nil {
		return nil, ErrCacheRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		documents:      documents,
		pageStates:     pageStates,
		cache:          cache,
		detector:       detect.New(nil),
		chunker:        chunk.New(),
		embedPool:      pool,
		maxRecordBytes: core.DefaultMaxRecordBytes,
		embedAttempts:  3,
		embedBaseDelay: time.Second,
		logger:         slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// PageResult reports what ProcessPage did for one page.
type PageResult struct {
	URL         string
	Changed     bool
	Fingerprint core.Fingerprint
	DocumentIDs []string // IDs written for this page, in order
	Chunked     bool
	Deleted     int // stale documents removed from prior fetches
}

// ProcessPage runs the full update workflow for one fetched page: normalize
// the raw markup, compare the canonical fingerprint against the recorded
// page state, and when changed write the refreshed documents, clean up
// records from the prior fetch, and record the new state. Unchanged pages
// return early with Changed=false and touch neither the store nor the
// embedding model.
func (p *Pipeline) ProcessPage(ctx context.Context, url, raw string) (*PageResult, error) {
	if url == "" {
		return nil, ErrEmptyURL
	}

	prev, err := p.pageStates.GetPageState(ctx, url)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	var prevFP core.Fingerprint
	if prev != nil {
		prevFP = prev.Fingerprint
	}

	res := p.detector.Detect(raw, prevFP)
	if !res.Changed {
		p.logger.Debug("page unchanged, skipping", "url", url)
		return &PageResult{URL: url, Changed: false, Fingerprint: res.Fingerprint}, nil
	}

	// A page can normalize to nothing, e.g. markup that is all scripts and
	// chrome. It still gets page state so the next crawl skips it; it just
	// contributes no documents, and any documents from a previous fetch
	// become stale below.
	var docs []*core.Document
	if res.CanonicalText != "" {
		docs = p.buildDocuments(url, res.CanonicalText, res.Fingerprint)
	}

	if !p.deferEmbedding {
		if err := p.fillEmbeddings(ctx, docs); err != nil {
			return nil, err
		}
	}

	if len(docs) > 0 {
		if err := p.documents.UpsertDocuments(ctx, docs...); err != nil {
			return nil, err
		}
	}

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}

	// Documents from the previous fetch that no longer exist (the page
	// shrank, or went from chunked to whole) must not linger in the store.
	var stale []string
	if prev != nil {
		current := make(map[string]bool, len(ids))
		for _, id := range ids {
			current[id] = true
		}
		for _, id := range prev.DocumentIDs {
			if !current[id] {
				stale = append(stale, id)
			}
		}
	}
	if len(stale) > 0 {
		if err := p.documents.DeleteDocuments(ctx, stale...); err != nil {
			return nil, err
		}
		p.logger.Info("removed stale documents", "url", url, "count", len(stale))
	}

	state := &core.PageState{
		URL:         url,
		Fingerprint: res.Fingerprint,
		DocumentIDs: ids,
		FetchedAt:   time.Now().UTC(),
	}
	if err := p.pageStates.PutPageState(ctx, state); err != nil {
		return nil, err
	}

	if p.deferEmbedding && len(ids) > 0 {
		p.submitEmbeddingFill(ids)
	}

	p.logger.Info("page updated",
		"url", url, "documents", len(ids), "chunked", len(ids) > 1, "staleRemoved", len(stale))

	return &PageResult{
		URL:         url,
		Changed:     true,
		Fingerprint: res.Fingerprint,
		DocumentIDs: ids,
		Chunked:     len(ids) > 1,
		Deleted:     len(stale),
	}, nil
}

// Wait blocks until all outstanding deferred embedding fills finish.
func (p *Pipeline) Wait() {
	p.pending.Wait()
}

// Release releases the worker pool. The pipeline should not be used after
// calling Release.
func (p *Pipeline) Release() {
	if p.embedPool != nil {
		p.embedPool.Release()
	}
}

// buildDocuments turns canonical page text into one document, or several
// chunk documents when the record would exceed the byte ceiling.
func (p *Pipeline) buildDocuments(url, canonical string, fp core.Fingerprint) []*core.Document {
	originalID := core.IDFromURL(url)

	whole := &core.Document{
		ID:          originalID,
		Text:        canonical,
		Metadata:    map[string]string{core.MetaSourceURL: url},
		Fingerprint: fp,
	}
	if whole.RecordBytes() <= p.maxRecordBytes {
		return []*core.Document{whole}
	}

	pieces := p.chunker.Split(canonical, p.textBudget(url, originalID))

	docs := make([]*core.Document, len(pieces))
	for i, piece := range pieces {
		meta := chunk.Metadata(originalID, i, len(pieces))
		meta[core.MetaSourceURL] = url
		docs[i] = &core.Document{
			ID:          core.ChunkID(originalID, i),
			Text:        piece,
			Metadata:    meta,
			Fingerprint: core.FingerprintText(piece),
		}
	}
	return docs
}

// textBudget returns the byte budget left for chunk text after accounting
// for the metadata every chunk carries. The probe uses five-digit index
// placeholders, which over-reserves a few bytes for small chunk counts but
// keeps every produced record under the ceiling.
func (p *Pipeline) textBudget(url, originalID string) int {
	meta := chunk.Metadata(originalID, 99999, 99999)
	meta[core.MetaSourceURL] = url
	probe := &core.Document{Metadata: meta}

	budget := p.maxRecordBytes - probe.RecordBytes()
	if budget < 1 {
		budget = 1
	}
	return budget
}

// fillEmbeddings computes a vector for each document through the cache,
// retrying transient embedding failures with backoff.
func (p *Pipeline) fillEmbeddings(ctx context.Context, docs []*core.Document) error {
	for _, doc := range docs {
		var vec []float32
		err := RetryWithBackoff(ctx, func() error {
			var embedErr error
			vec, embedErr = p.cache.GetOrCompute(ctx, embcache.Doc, doc.Text)
			return embedErr
		}, p.embedAttempts, p.embedBaseDelay)
		if err != nil {
			return err
		}
		doc.Vector = vec
	}
	return nil
}

// submitEmbeddingFill schedules an asynchronous embedding fill for the
// given document IDs. Errors are logged but never fail the page update.
func (p *Pipeline) submitEmbeddingFill(ids []string) {
	p.pending.Add(1)
	err := p.embedPool.Submit(func() {
		defer p.pending.Done()

		ctx := context.Background()
		for _, id := range ids {
			doc, err := p.documents.GetDocument(ctx, id)
			if err != nil {
				p.logger.Error("embedding fill: document lookup failed", "id", id, "err", err)
				continue
			}
			if len(doc.Vector) > 0 {
				continue
			}
			if err := p.fillEmbeddings(ctx, []*core.Document{doc}); err != nil {
				p.logger.Error("embedding fill: embedding failed", "id", id, "err", err)
				continue
			}
			if err := p.documents.UpsertDocuments(ctx, doc); err != nil {
				p.logger.Error("embedding fill: update failed", "id", id, "err", err)
			}
		}
	})
	if err != nil {
		p.pending.Done()
		p.logger.Error("embedding fill: pool submit failed", "err", err)
	}
}
