// Package normalize turns fetched HTML into canonical text suitable for
// fingerprinting and embedding.
//
// Normalization strips markup that changes on every fetch independent of
// substantive content (scripts, navigation chrome, timestamps, social-share
// widgets), prefers a structurally identifiable main-content region, and
// collapses whitespace. The output is what the change detector fingerprints:
// two fetches of an unchanged page must normalize to identical text.
//
// Normalize is a pure function. Malformed input degrades to best-effort text
// extraction rather than failing.
package normalize
