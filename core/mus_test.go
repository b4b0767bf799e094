package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentMUS_RoundTrip(t *testing.T) {
	doc := Document{
		ID:   "page-1_chunk_2",
		Text: "Admissions deadlines for the fall semester.",
		Metadata: map[string]string{
			MetaSourceURL:  "https://example.edu/admissions",
			MetaOriginalID: "page-1",
			MetaChunkIndex: "2",
			MetaChunkCount: "4",
		},
		Fingerprint: FingerprintText("Admissions deadlines for the fall semester."),
		Vector:      []float32{0.25, -1.5, 0, 3.75},
		FetchedAt:   time.Date(2025, 8, 12, 9, 30, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 8, 12, 9, 31, 0, 0, time.UTC),
	}

	buf := make([]byte, DocumentMUS.Size(doc))
	n := DocumentMUS.Marshal(doc, buf)
	require.Equal(t, len(buf), n, "marshal must fill the sized buffer exactly")

	got, n, err := DocumentMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, doc, got)
}

func TestDocumentMUS_EmptyOptionalFields(t *testing.T) {
	doc := Document{ID: "d", Text: "t"}

	buf := make([]byte, DocumentMUS.Size(doc))
	DocumentMUS.Marshal(doc, buf)

	got, _, err := DocumentMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Nil(t, got.Metadata)
	assert.Nil(t, got.Vector)
	assert.Equal(t, doc.ID, got.ID)
}

func TestDocumentMUS_DeterministicMetadataOrder(t *testing.T) {
	doc := Document{
		ID:   "d",
		Text: "t",
		Metadata: map[string]string{
			"b": "2", "a": "1", "c": "3",
		},
	}

	buf1 := make([]byte, DocumentMUS.Size(doc))
	DocumentMUS.Marshal(doc, buf1)
	buf2 := make([]byte, DocumentMUS.Size(doc))
	DocumentMUS.Marshal(doc, buf2)

	assert.Equal(t, buf1, buf2, "map iteration order must not leak into bytes")
}

func TestPageStateMUS_RoundTrip(t *testing.T) {
	state := PageState{
		URL:         "https://example.edu/catalog",
		Fingerprint: FingerprintText("catalog"),
		DocumentIDs: []string{"a_chunk_0", "a_chunk_1"},
		FetchedAt:   time.Date(2025, 8, 12, 9, 30, 0, 0, time.UTC),
	}

	buf := make([]byte, PageStateMUS.Size(state))
	PageStateMUS.Marshal(state, buf)

	got, _, err := PageStateMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, state, got)
}

func TestVectorMUS_RoundTrip(t *testing.T) {
	vec := []float32{1, 0.5, -0.25, 1e-7}

	buf := make([]byte, VectorMUS.Size(vec))
	VectorMUS.Marshal(vec, buf)

	got, _, err := VectorMUS.Unmarshal(buf)
	require.NoError(t, err)
	assert.Equal(t, vec, got)
}

func TestDocumentMUS_TruncatedInput(t *testing.T) {
	doc := Document{ID: "d", Text: "some longer text content"}

	buf := make([]byte, DocumentMUS.Size(doc))
	DocumentMUS.Marshal(doc, buf)

	_, _, err := DocumentMUS.Unmarshal(buf[:len(buf)/2])
	assert.Error(t, err)
}
