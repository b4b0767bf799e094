// Package embcache memoizes vector embeddings keyed by content fingerprint.
//
// Two independent mappings are maintained, one for query text and one for
// document text, sharing the same key scheme. The embedding model is
// constructed lazily on the first cache miss and reused for the life of the
// cache, so processes that never need an embedding never pay the model
// initialization cost.
//
// Both mappings can be persisted to a snapshot file and restored at process
// start. A corrupt or unreadable snapshot degrades to empty mappings with a
// logged warning, never a startup failure. Entries are never evicted;
// unbounded growth is an accepted trade-off for a corpus that changes
// slowly relative to its size.
package embcache
