package chunk

import (
	"log/slog"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
)

// sentenceBoundary is the split marker for the first-level pass. Splitting
// keeps the marker attached so pieces concatenate back to the input.
const sentenceBoundary = ". "

// Chunker splits text into pieces bounded by a UTF-8 byte budget.
type Chunker struct {
	logger *slog.Logger
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Chunker) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// New creates a Chunker.
func New(opts ...Option) *Chunker {
	c := &Chunker{logger: slog.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Split breaks text into pieces of at most maxBytes UTF-8 bytes each. The
// result is never empty and preserves input order; concatenating the pieces
// reproduces the input up to whitespace normalization, unless a single word
// exceeded maxBytes and had to be truncated.
func (c *Chunker) Split(text string, maxBytes int) []string {
	if maxBytes < 1 {
		maxBytes = 1
	}

	if len(text) <= maxBytes {
		return []string{text}
	}

	sentences := strings.SplitAfter(text, sentenceBoundary)
	return c.pack(sentences, maxBytes)
}

// pack greedily accumulates units into pieces within the byte budget.
// Units that alone exceed the budget are re-split at word granularity;
// single words over the budget are truncated.
func (c *Chunker) pack(units []string, maxBytes int) []string {
	var (
		pieces []string
		cur    strings.Builder
	)

	flush := func() {
		if cur.Len() == 0 {
			return
		}
		pieces = append(pieces, strings.TrimRight(cur.String(), " "))
		cur.Reset()
	}

	var add func(unit string, atWordLevel bool)
	add = func(unit string, atWordLevel bool) {
		if len(unit) > maxBytes {
			flush()
			if !atWordLevel {
				for _, word := range strings.SplitAfter(unit, " ") {
					add(word, true)
				}
				return
			}
			// The separator may be what pushed the unit over; the word
			// itself still fits as a piece of its own.
			if trimmed := strings.TrimRight(unit, " "); len(trimmed) <= maxBytes {
				cur.WriteString(trimmed)
				flush()
				return
			}
			// Pathological single word over the budget: truncate and
			// accept the loss rather than violate the bound.
			truncated := truncateRunes(unit, maxBytes)
			c.logger.Warn("truncating oversized word",
				"wordBytes", len(unit), "maxBytes", maxBytes)
			pieces = append(pieces, truncated)
			return
		}

		if cur.Len()+len(unit) > maxBytes {
			flush()
		}
		cur.WriteString(unit)
	}

	for _, unit := range units {
		add(unit, false)
	}
	flush()

	if len(pieces) == 0 {
		pieces = []string{""}
	}
	return pieces
}

// Metadata builds the chunk metadata triple carried by every piece of a
// split document, so readers can reassemble the original order.
func Metadata(originalID string, index, count int) map[string]string {
	return map[string]string{
		core.MetaOriginalID: originalID,
		core.MetaChunkIndex: strconv.Itoa(index),
		core.MetaChunkCount: strconv.Itoa(count),
	}
}

// truncateRunes cuts s to at most max bytes without splitting a UTF-8
// sequence.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
