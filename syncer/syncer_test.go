package syncer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockRemote is a test double for RemoteIndex with function-field injection.
type mockRemote struct {
	// TransferFunc is called by Transfer if set. If nil, transfers succeed.
	TransferFunc func(ctx context.Context, batch *Batch) error

	// ListBatchesFunc is called by ListBatches if set.
	ListBatchesFunc func(ctx context.Context) ([]string, error)

	mu          sync.Mutex
	transferred []transferRecord
}

type transferRecord struct {
	number  int
	records int
}

func (m *mockRemote) Transfer(ctx context.Context, batch *Batch) error {
	if m.TransferFunc != nil {
		if err := m.TransferFunc(ctx, batch); err != nil {
			return err
		}
	}

	m.mu.Lock()
	m.transferred = append(m.transferred, transferRecord{number: batch.Number(), records: batch.Len()})
	m.mu.Unlock()
	return nil
}

func (m *mockRemote) ListBatches(ctx context.Context) ([]string, error) {
	if m.ListBatchesFunc != nil {
		return m.ListBatchesFunc(ctx)
	}
	return nil, nil
}

func (m *mockRemote) Transferred() []transferRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]transferRecord(nil), m.transferred...)
}

func fastConfig() Config {
	cfg := DefaultConfig()
	cfg.InterBatchDelay = 0
	cfg.BatchTimeout = time.Second
	return cfg
}

func makeDocs(n int) []*core.Document {
	docs := make([]*core.Document, n)
	for i := range docs {
		docs[i] = &core.Document{ID: "doc-" + strings.Repeat("a", i%3), Text: "text"}
	}
	return docs
}

func TestSynchronize_BatchCount(t *testing.T) {
	remote := &mockRemote{}
	s, err := New(remote, WithConfig(fastConfig()))
	require.NoError(t, err)

	result := s.Synchronize(context.Background(), makeDocs(237), 25)

	assert.Equal(t, 10, result.Successes)
	assert.Equal(t, 0, result.Failures)
	require.Len(t, result.Outcomes, 10)

	transferred := remote.Transferred()
	require.Len(t, transferred, 10)
	for i, tr := range transferred[:9] {
		assert.Equal(t, i+1, tr.number, "batches must run in order")
		assert.Equal(t, 25, tr.records)
	}
	assert.Equal(t, 10, transferred[9].number)
	assert.Equal(t, 12, transferred[9].records, "last batch carries the remainder")
}

func TestSynchronize_FailureIsolation(t *testing.T) {
	remote := &mockRemote{
		TransferFunc: func(ctx context.Context, batch *Batch) error {
			if batch.Number() == 3 {
				return errors.New("remote hiccup")
			}
			return nil
		},
	}
	s, err := New(remote, WithConfig(fastConfig()))
	require.NoError(t, err)

	result := s.Synchronize(context.Background(), makeDocs(5), 1)

	assert.Equal(t, 4, result.Successes)
	assert.Equal(t, 1, result.Failures)
	require.Len(t, result.Outcomes, 5)

	assert.Equal(t, Failure, result.Outcomes[2].Status)
	assert.Error(t, result.Outcomes[2].Err)
	assert.Equal(t, Success, result.Outcomes[3].Status, "batch after a failure must still run")
	assert.Equal(t, Success, result.Outcomes[4].Status)

	transferred := remote.Transferred()
	require.Len(t, transferred, 4)
	assert.Equal(t, 5, transferred[3].number)
}

func TestSynchronize_OversizeRecordFailsBatchDistinctly(t *testing.T) {
	remote := &mockRemote{}
	cfg := fastConfig()
	cfg.MaxRecordBytes = 100
	s, err := New(remote, WithConfig(cfg))
	require.NoError(t, err)

	docs := []*core.Document{
		{ID: "ok", Text: "fits"},
		{ID: "oversized", Text: strings.Repeat("x", 500)},
		{ID: "also-ok", Text: "fits too"},
	}

	result := s.Synchronize(context.Background(), docs, 1)

	assert.Equal(t, 2, result.Successes)
	assert.Equal(t, 1, result.Failures)
	assert.ErrorIs(t, result.Outcomes[1].Err, ErrRecordTooLarge)

	// The oversize batch never reached the remote.
	for _, tr := range remote.Transferred() {
		assert.NotEqual(t, 2, tr.number)
	}
}

func TestSynchronize_EmptyInput(t *testing.T) {
	s, err := New(&mockRemote{}, WithConfig(fastConfig()))
	require.NoError(t, err)

	result := s.Synchronize(context.Background(), nil, 25)

	assert.Equal(t, 0, result.Successes)
	assert.Equal(t, 0, result.Failures)
	assert.Empty(t, result.Outcomes)
}

func TestSynchronize_DefaultBatchSize(t *testing.T) {
	remote := &mockRemote{}
	cfg := fastConfig()
	cfg.BatchSize = 10
	s, err := New(remote, WithConfig(cfg))
	require.NoError(t, err)

	result := s.Synchronize(context.Background(), makeDocs(30), 0)

	assert.Equal(t, 3, result.Successes)
}

func TestSynchronize_ContextCancelStopsRun(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	remote := &mockRemote{
		TransferFunc: func(tctx context.Context, batch *Batch) error {
			if batch.Number() == 2 {
				cancel()
			}
			return nil
		},
	}
	s, err := New(remote, WithConfig(fastConfig()))
	require.NoError(t, err)

	result := s.Synchronize(ctx, makeDocs(10), 2)

	assert.Len(t, result.Outcomes, 2, "run must stop after the in-flight batch")
}

func TestNew_RequiresRemote(t *testing.T) {
	_, err := New(nil)

	assert.ErrorIs(t, err, ErrRemoteRequired)
}

func TestMissingBatches(t *testing.T) {
	remote := &mockRemote{
		ListBatchesFunc: func(ctx context.Context) ([]string, error) {
			return []string{"batch_1", "batch_2", "batch_3", "batch_5", "batch_7", "batch_8", "batch_9", "batch_10"}, nil
		},
	}
	s, err := New(remote, WithConfig(fastConfig()))
	require.NoError(t, err)

	missing, err := s.MissingBatches(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, []int{4, 6}, missing)
}

func TestMissingBatches_ListError(t *testing.T) {
	sentinel := errors.New("remote down")
	remote := &mockRemote{
		ListBatchesFunc: func(ctx context.Context) ([]string, error) {
			return nil, sentinel
		},
	}
	s, err := New(remote, WithConfig(fastConfig()))
	require.NoError(t, err)

	_, err = s.MissingBatches(context.Background(), 5)

	assert.ErrorIs(t, err, sentinel)
}
