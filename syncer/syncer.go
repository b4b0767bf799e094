package syncer

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
)

// Status is the outcome classification of one batch.
type Status int

const (
	// Success means the remote accepted the batch.
	Success Status = iota + 1
	// Failure means materialization or transfer failed.
	Failure
)

func (s Status) String() string {
	switch s {
	case Success:
		return "success"
	case Failure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome records what happened to one batch.
type Outcome struct {
	BatchNumber int
	Status      Status
	Err         error // nil on success
}

// Result aggregates a synchronization run. Outcomes are in batch order.
type Result struct {
	Successes int
	Failures  int
	Outcomes  []Outcome
}

// Config holds synchronization tuning.
type Config struct {
	// BatchSize is the maximum records per batch.
	BatchSize int

	// MaxRecordBytes is the per-record byte ceiling enforced at
	// materialization.
	MaxRecordBytes int

	// BatchTimeout bounds each individual transfer.
	BatchTimeout time.Duration

	// InterBatchDelay is the fixed pause between consecutive batches.
	InterBatchDelay time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		BatchSize:       25,
		MaxRecordBytes:  core.DefaultMaxRecordBytes,
		BatchTimeout:    60 * time.Second,
		InterBatchDelay: time.Second,
	}
}

// Syncer drives batch transfers against a RemoteIndex.
type Syncer struct {
	remote   RemoteIndex
	config   Config
	progress io.Writer
	logger   *slog.Logger
}

// Option configures a Syncer.
type Option func(*Syncer) error

// WithConfig replaces the default configuration.
func WithConfig(cfg Config) Option {
	return func(s *Syncer) error {
		if cfg.BatchSize < 1 {
			cfg.BatchSize = DefaultConfig().BatchSize
		}
		if cfg.MaxRecordBytes < 1 {
			cfg.MaxRecordBytes = core.DefaultMaxRecordBytes
		}
		s.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Syncer) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// WithProgress enables progress reporting to w during Synchronize.
func WithProgress(w io.Writer) Option {
	return func(s *Syncer) error {
		s.progress = w
		return nil
	}
}

// New creates a Syncer.
func New(remote RemoteIndex, opts ...Option) (*Syncer, error) {
	if remote == nil {
		return nil, ErrRemoteRequired
	}

	s := &Syncer{
		remote: remote,
		config: DefaultConfig(),
		logger: slog.Default().With("component", "syncer"),
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Synchronize transfers docs in batches of at most batchSize, numbered from
// 1 in document order. A batchSize below 1 uses the configured default.
//
// Every batch produces exactly one outcome. A failed batch never blocks the
// batches after it, and nothing is retried here; callers re-run or use
// MissingBatches to recover. Cancelling ctx stops the run after the batch
// in flight, leaving later batches unreported.
func (s *Syncer) Synchronize(ctx context.Context, docs []*core.Document, batchSize int) *Result {
	if batchSize < 1 {
		batchSize = s.config.BatchSize
	}

	result := &Result{}
	if len(docs) == 0 {
		return result
	}

	totalBatches := (len(docs) + batchSize - 1) / batchSize

	var tracker *ProgressTracker
	if s.progress != nil {
		tracker = NewProgressTracker(s.progress, totalBatches, 1)
		tracker.Start()
	}

	s.logger.Info("starting synchronization",
		"documents", len(docs), "batchSize", batchSize, "batches", totalBatches)

	for n := 1; n <= totalBatches; n++ {
		start := (n - 1) * batchSize
		end := start + batchSize
		if end > len(docs) {
			end = len(docs)
		}

		err := s.transferBatch(ctx, n, docs[start:end])
		outcome := Outcome{BatchNumber: n, Status: Success, Err: err}
		if err != nil {
			outcome.Status = Failure
			result.Failures++
			s.logger.Error("batch failed", "batch", n, "records", end-start, "err", err)
		} else {
			result.Successes++
			s.logger.Info("batch transferred", "batch", n, "records", end-start)
		}
		result.Outcomes = append(result.Outcomes, outcome)

		if tracker != nil {
			tracker.Increment(1)
		}

		// A per-batch timeout is just that batch's failure; only the run's
		// own context stops the loop.
		if ctx.Err() != nil {
			break
		}

		if n < totalBatches && s.config.InterBatchDelay > 0 {
			timer := time.NewTimer(s.config.InterBatchDelay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return result
			case <-timer.C:
			}
		}
	}

	if tracker != nil {
		tracker.Finish()
	}

	s.logger.Info("synchronization finished",
		"successes", result.Successes, "failures", result.Failures)
	return result
}

// transferBatch runs one batch through its full lifecycle. The batch is
// always discarded, whatever the outcome.
func (s *Syncer) transferBatch(ctx context.Context, number int, docs []*core.Document) error {
	batch := NewBatch(number)
	defer batch.Discard()

	if err := batch.Add(docs...); err != nil {
		return err
	}

	if err := batch.Materialize(s.config.MaxRecordBytes); err != nil {
		return err
	}

	tctx := ctx
	if s.config.BatchTimeout > 0 {
		var cancel context.CancelFunc
		tctx, cancel = context.WithTimeout(ctx, s.config.BatchTimeout)
		defer cancel()
	}

	err := s.remote.Transfer(tctx, batch)
	batch.MarkTransferred(err == nil)
	return err
}

// MissingBatches lists the remote's batches and returns every number in
// [1, expectedMax] the remote does not hold, ascending.
func (s *Syncer) MissingBatches(ctx context.Context, expectedMax int) ([]int, error) {
	names, err := s.remote.ListBatches(ctx)
	if err != nil {
		return nil, err
	}

	gaps := DetectGaps(1, expectedMax, ParseBatchNumbers(names))
	if len(gaps) > 0 {
		s.logger.Warn("remote index has batch gaps", "expectedMax", expectedMax, "missing", gaps)
	}
	return gaps, nil
}
