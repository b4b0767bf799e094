// Package syncer transfers local documents to a remote index in bounded,
// numbered batches.
//
// Each batch moves through an explicit lifecycle: Pending while documents
// are added, Materialized once its payload is validated against the
// per-record byte ceiling, Transferred after the remote call completes
// (successfully or not), and Discarded when its memory is released. Batches
// are ephemeral; the local store remains the source of truth and a failed
// batch is simply re-sent by a later run.
//
// A batch failure never blocks later batches, and the synchronizer never
// retries on its own. Recovery is post-hoc: MissingBatches lists what the
// remote holds and diffs it against the expected contiguous range.
package syncer
