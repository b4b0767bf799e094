package chunk

import (
	"strings"
	"testing"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalizeWS(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func TestSplit_FitsInOnePiece(t *testing.T) {
	c := New()

	pieces := c.Split("short text", 100)

	require.Len(t, pieces, 1)
	assert.Equal(t, "short text", pieces[0])
}

func TestSplit_NeverEmpty(t *testing.T) {
	c := New()

	assert.NotEmpty(t, c.Split("", 10))
	assert.NotEmpty(t, c.Split("anything", 1))
}

func TestSplit_SizeInvariant(t *testing.T) {
	c := New()

	texts := []string{
		"One sentence. Two sentences here. Third one is a bit longer. Four.",
		"No sentence boundaries just a long run of words " + strings.Repeat("word ", 50),
		strings.Repeat("Lorem ipsum dolor sit amet. ", 40),
		"short",
	}

	for _, text := range texts {
		for _, maxBytes := range []int{1, 5, 16, 64, 256} {
			for _, piece := range c.Split(text, maxBytes) {
				assert.LessOrEqual(t, len(piece), maxBytes,
					"piece %q exceeds %d bytes", piece, maxBytes)
			}
		}
	}
}

func TestSplit_SentenceBoundariesPreferred(t *testing.T) {
	c := New()

	text := "First sentence here. Second sentence here. Third sentence here."

	pieces := c.Split(text, 45)

	require.Greater(t, len(pieces), 1)
	for _, piece := range pieces {
		// No piece starts or ends mid-word
		assert.Equal(t, strings.TrimSpace(piece), piece)
	}
	assert.Equal(t, "First sentence here. Second sentence here.", pieces[0])
}

func TestSplit_Reconstruction(t *testing.T) {
	c := New()

	text := "Northeastern offers co-op programs. Students alternate classroom " +
		"semesters with work terms. The model dates back over a century. " +
		"Employers span every industry."

	for _, maxBytes := range []int{30, 50, 80, 200} {
		pieces := c.Split(text, maxBytes)
		rejoined := normalizeWS(strings.Join(pieces, " "))
		assert.Equal(t, normalizeWS(text), rejoined,
			"reconstruction failed at maxBytes=%d", maxBytes)
	}
}

func TestSplit_OversizedSentenceFallsBackToWords(t *testing.T) {
	c := New()

	// A single "sentence" (no ". " boundary) far over the budget
	text := "alpha beta gamma delta epsilon zeta eta theta"

	pieces := c.Split(text, 12)

	require.Greater(t, len(pieces), 1)
	for _, piece := range pieces {
		assert.LessOrEqual(t, len(piece), 12)
	}
	assert.Equal(t, normalizeWS(text), normalizeWS(strings.Join(pieces, " ")))
}

func TestSplit_OversizedWordTruncated(t *testing.T) {
	c := New()

	word := strings.Repeat("x", 40)
	pieces := c.Split("small words then "+word, 10)

	for _, piece := range pieces {
		assert.LessOrEqual(t, len(piece), 10)
	}
	assert.Contains(t, pieces, strings.Repeat("x", 10),
		"oversized word must be truncated to the budget")
}

func TestSplit_TruncationIsRuneSafe(t *testing.T) {
	c := New()

	// 3-byte runes; a 10-byte budget cannot hold 4 of them
	word := strings.Repeat("日", 8) // 24 bytes, one word

	pieces := c.Split(word, 10)

	require.Len(t, pieces, 1)
	assert.LessOrEqual(t, len(pieces[0]), 10)
	assert.Equal(t, strings.Repeat("日", 3), pieces[0])
}

func TestMetadata(t *testing.T) {
	meta := Metadata("doc-9", 2, 5)

	assert.Equal(t, "doc-9", meta[core.MetaOriginalID])
	assert.Equal(t, "2", meta[core.MetaChunkIndex])
	assert.Equal(t, "5", meta[core.MetaChunkCount])
}
