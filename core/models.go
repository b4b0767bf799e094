package core

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// Fingerprint is a deterministic digest of canonical page text, used to
// detect content change without storing the full text twice. The zero value
// means "no fingerprint recorded yet".
type Fingerprint string

// FingerprintText computes the BLAKE2b-256 fingerprint of text as lowercase
// hex. Identical text always yields the identical fingerprint.
func FingerprintText(text string) Fingerprint {
	h, _ := blake2b.New(32, nil)
	h.Write([]byte(text))
	return Fingerprint(hexEncode(h.Sum(nil)))
}

// IsZero reports whether no fingerprint has been recorded.
func (f Fingerprint) IsZero() bool {
	return f == ""
}

// IDFromURL generates a deterministic document ID from a page URL using
// BLAKE2b hashing. Identical URLs produce identical IDs.
func IDFromURL(url string) string {
	h, _ := blake2b.New(8, nil) // 8 bytes = 16 hex chars
	h.Write([]byte(url))
	return hexEncode(h.Sum(nil))
}

// ChunkID derives the ID for chunk index i of an oversized document.
func ChunkID(originalID string, i int) string {
	return originalID + "_chunk_" + strconv.Itoa(i)
}

const hexDigits = "0123456789abcdef"

func hexEncode(sum []byte) string {
	out := make([]byte, 2*len(sum))
	for i, b := range sum {
		out[2*i] = hexDigits[b>>4]
		out[2*i+1] = hexDigits[b&0x0f]
	}
	return string(out)
}

// DefaultMaxRecordBytes is the default per-record byte ceiling imposed by
// the remote index: text bytes plus serialized metadata bytes.
const DefaultMaxRecordBytes = 16384

// Metadata keys shared across the pipeline. Chunked documents carry the
// original document ID plus their position so a reader can reassemble order.
const (
	MetaSourceURL  = "source_url"
	MetaOriginalID = "original_id"
	MetaChunkIndex = "chunk_index"
	MetaChunkCount = "chunk_count"
)

// Document is a record in the local vector store. Vector may be empty until
// the embedding fill runs.
type Document struct {
	ID          string
	Text        string
	Metadata    map[string]string
	Fingerprint Fingerprint
	Vector      []float32
	FetchedAt   time.Time // When the source page was fetched
	UpdatedAt   time.Time // When the record was last written
}

// RecordBytes returns the size of the record as the remote index accounts
// it: UTF-8 text bytes plus serialized metadata bytes. This is the quantity
// bounded by the per-record ceiling.
func (d *Document) RecordBytes() int {
	n := len(d.Text)
	if len(d.Metadata) > 0 {
		// map[string]string never fails to marshal
		raw, _ := json.Marshal(d.Metadata)
		n += len(raw)
	}
	return n
}

// IsChunk reports whether the document is a piece of a larger original.
func (d *Document) IsChunk() bool {
	_, ok := d.Metadata[MetaOriginalID]
	return ok
}

// PageState records what the pipeline last saw for a URL: the fingerprint of
// its canonical text and the document IDs produced from it. It drives the
// skip-if-unchanged decision and stale-chunk cleanup.
type PageState struct {
	URL         string
	Fingerprint Fingerprint
	DocumentIDs []string
	FetchedAt   time.Time
}

// SearchResult pairs a stored document with a relevance score.
type SearchResult struct {
	Document *Document
	Score    float32
}
