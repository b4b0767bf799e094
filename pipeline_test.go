package unibot

import (
	"context"
	"testing"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/ai"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/ai/mock"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/embcache"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open("", WithInMemory(), WithEmbedderFactory(func() (ai.Embedder, error) {
		return mock.NewEmbedder(), nil
	}))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return store
}

func TestStore_IngestAndSearch(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	pipeline, err := store.NewIngestionPipeline()
	require.NoError(t, err)
	defer pipeline.Release()

	raw := "<html><body><main><p>The co-op program places students in industry for six months.</p></main></body></html>"
	result, err := pipeline.ProcessPage(ctx, "https://example.edu/coop", raw)
	require.NoError(t, err)
	require.True(t, result.Changed)

	searcher, err := store.NewSearcher()
	require.NoError(t, err)

	results, err := searcher.Search(ctx, "how does co-op work", search.Options{})
	require.NoError(t, err)

	require.NotEmpty(t, results)
	assert.Contains(t, results[0].Document.Text, "co-op program")
}

func TestStore_SnapshotRoundTrip(t *testing.T) {
	snapshot := t.TempDir() + "/cache.snap"

	factory := func() (ai.Embedder, error) { return mock.NewEmbedder(), nil }

	store, err := Open("", WithInMemory(), WithEmbedderFactory(factory), WithSnapshotPath(snapshot))
	require.NoError(t, err)

	_, err = store.Cache().GetOrCompute(context.Background(), embcache.Query, "remembered query")
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// A fresh store with no embedder must answer from the loaded snapshot.
	reopened, err := Open("", WithInMemory(), WithEmbedderFactory(nil), WithSnapshotPath(snapshot))
	require.NoError(t, err)
	defer reopened.Close()

	queries, _ := reopened.Cache().Stats()
	assert.Equal(t, 1, queries)
}

func TestStore_Accessors(t *testing.T) {
	store := openTestStore(t)

	assert.NotNil(t, store.DocumentRepository())
	assert.NotNil(t, store.PageStateRepository())
	assert.NotNil(t, store.Cache())
}
