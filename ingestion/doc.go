// Package ingestion orchestrates the per-page update workflow: normalize
// fetched markup, detect whether the canonical content changed, chunk
// oversized content under the per-record byte ceiling, embed through the
// cache, and write documents plus page state to storage.
//
// Pages whose canonical content is unchanged are skipped entirely, so
// repeated crawls of a stable site cost no embedding calls and no writes.
// When a page shrinks, documents left over from the previous fetch are
// deleted so the store never serves stale chunks.
//
// Embedding can run inline or be deferred to a worker pool; deferred fill
// errors are logged but never fail the page update.
package ingestion
