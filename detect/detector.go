package detect

import (
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/normalize"
)

// Detector fingerprints canonical page text and compares it against the
// previously recorded fingerprint.
type Detector struct {
	normalizer *normalize.Normalizer
}

// New creates a Detector using the given normalizer. A nil normalizer gets
// the default configuration.
func New(normalizer *normalize.Normalizer) *Detector {
	if normalizer == nil {
		normalizer = normalize.New()
	}
	return &Detector{normalizer: normalizer}
}

// Result holds the outcome of a change check.
type Result struct {
	Changed       bool
	Fingerprint   core.Fingerprint
	CanonicalText string
}

// Detect normalizes raw markup, fingerprints the canonical text, and
// reports whether it differs from prev. A zero prev means the page has
// never been observed, which always counts as changed.
func (d *Detector) Detect(raw string, prev core.Fingerprint) Result {
	canonical := d.normalizer.Normalize(raw)
	fp := core.FingerprintText(canonical)

	return Result{
		Changed:       prev.IsZero() || fp != prev,
		Fingerprint:   fp,
		CanonicalText: canonical,
	}
}
