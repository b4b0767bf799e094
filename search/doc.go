// Package search answers semantic queries over the document store.
//
// The query text is embedded through the shared cache and matched against
// stored document vectors. When a remote index capability is configured the
// query is delegated to it; otherwise the searcher falls back to a full
// scan of the local store with cosine ranking. Both paths honor the same
// options, including an optional metadata scope filter applied before
// ranking.
package search
