// Package detect decides whether a fetched page differs from what was seen
// before, by fingerprinting its canonical text.
//
// Detection is referentially transparent: the same markup and previous
// fingerprint always produce the same answer. A page with no previous
// fingerprint is always reported as changed.
package detect
