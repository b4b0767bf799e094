package badger

import (
	"context"
	"testing"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/embcache"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRepos(t *testing.T) (storage.DocumentRepository, storage.PageStateRepository) {
	t.Helper()

	docRepo, pageRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)

	t.Cleanup(func() {
		docRepo.Close()
		pageRepo.Close()
		backend.Close()
	})

	return docRepo, pageRepo
}

func TestDocumentRepository_UpsertAndGet(t *testing.T) {
	repo, _ := setupTestRepos(t)
	ctx := context.Background()

	doc := &core.Document{
		ID:          "page-1",
		Text:        "Orientation schedule for incoming students.",
		Metadata:    map[string]string{core.MetaSourceURL: "https://example.edu/orientation"},
		Fingerprint: core.FingerprintText("Orientation schedule for incoming students."),
	}

	require.NoError(t, repo.UpsertDocuments(ctx, doc))
	assert.False(t, doc.UpdatedAt.IsZero(), "upsert must stamp UpdatedAt")
	assert.False(t, doc.FetchedAt.IsZero(), "upsert must default FetchedAt")

	got, err := repo.GetDocument(ctx, "page-1")
	require.NoError(t, err)
	assert.Equal(t, doc.Text, got.Text)
	assert.Equal(t, doc.Metadata, got.Metadata)
	assert.Equal(t, doc.Fingerprint, got.Fingerprint)
}

func TestDocumentRepository_UpsertReplaces(t *testing.T) {
	repo, _ := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDocuments(ctx, &core.Document{ID: "d", Text: "old"}))
	require.NoError(t, repo.UpsertDocuments(ctx, &core.Document{ID: "d", Text: "new"}))

	got, err := repo.GetDocument(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, "new", got.Text)

	all, err := repo.GetAllDocuments(ctx, storage.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 1, "upsert must replace, not duplicate")
}

func TestDocumentRepository_GetMissing(t *testing.T) {
	repo, _ := setupTestRepos(t)

	_, err := repo.GetDocument(context.Background(), "absent")

	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestDocumentRepository_UpsertRejectsInvalid(t *testing.T) {
	repo, _ := setupTestRepos(t)

	err := repo.UpsertDocuments(context.Background(), &core.Document{ID: "", Text: "x"})

	assert.ErrorIs(t, err, core.ErrInvalidDocument)
}

func TestDocumentRepository_GetAllOrderedByID(t *testing.T) {
	repo, _ := setupTestRepos(t)
	ctx := context.Background()

	// Inserted out of order
	for _, id := range []string{"c", "a", "b"} {
		require.NoError(t, repo.UpsertDocuments(ctx, &core.Document{ID: id, Text: "t"}))
	}

	all, err := repo.GetAllDocuments(ctx, storage.Filter{})
	require.NoError(t, err)

	require.Len(t, all, 3)
	assert.Equal(t, "a", all[0].ID)
	assert.Equal(t, "b", all[1].ID)
	assert.Equal(t, "c", all[2].ID)
}

func TestDocumentRepository_GetAllFiltered(t *testing.T) {
	repo, _ := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDocuments(ctx,
		&core.Document{ID: "a", Text: "t", Metadata: map[string]string{"campus": "boston"}},
		&core.Document{ID: "b", Text: "t", Metadata: map[string]string{"campus": "oakland"}},
		&core.Document{ID: "c", Text: "t"},
	))

	all, err := repo.GetAllDocuments(ctx, storage.Filter{MetadataKey: "campus", MetadataValue: "boston"})
	require.NoError(t, err)

	require.Len(t, all, 1)
	assert.Equal(t, "a", all[0].ID)
}

func TestDocumentRepository_DeleteIgnoresMissing(t *testing.T) {
	repo, _ := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDocuments(ctx, &core.Document{ID: "keep", Text: "t"}))
	require.NoError(t, repo.UpsertDocuments(ctx, &core.Document{ID: "drop", Text: "t"}))

	require.NoError(t, repo.DeleteDocuments(ctx, "drop", "never-existed"))

	_, err := repo.GetDocument(ctx, "drop")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = repo.GetDocument(ctx, "keep")
	assert.NoError(t, err)
}

func TestDocumentRepository_FindSimilar(t *testing.T) {
	repo, _ := setupTestRepos(t)
	ctx := context.Background()

	require.NoError(t, repo.UpsertDocuments(ctx,
		&core.Document{ID: "exact", Text: "t", Vector: embcache.Normalize([]float32{1, 0, 0})},
		&core.Document{ID: "close", Text: "t", Vector: embcache.Normalize([]float32{0.9, 0.1, 0})},
		&core.Document{ID: "far", Text: "t", Vector: embcache.Normalize([]float32{0, 0, 1})},
		&core.Document{ID: "novector", Text: "t"},
	))

	results, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, 0.5, 10)
	require.NoError(t, err)

	require.Len(t, results, 2, "low-similarity and vectorless docs excluded")
	assert.Equal(t, "exact", results[0].Document.ID)
	assert.Equal(t, "close", results[1].Document.ID)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestDocumentRepository_FindSimilarLimit(t *testing.T) {
	repo, _ := setupTestRepos(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, repo.UpsertDocuments(ctx,
			&core.Document{ID: id, Text: "t", Vector: []float32{1, 0}}))
	}

	results, err := repo.FindSimilar(ctx, []float32{1, 0}, 0, 2)
	require.NoError(t, err)

	assert.Len(t, results, 2)
}
