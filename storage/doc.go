// Package storage provides the storage abstraction layer for the pipeline.
//
// It defines repository interfaces that decouple the storage implementation
// from the ingestion and synchronization logic, so different backends
// (BadgerDB, in-memory) can be used interchangeably. Constructors in
// backend packages return these interfaces, not concrete types.
//
// The local document store owns Document records; the page-state registry
// owns the URL → fingerprint mapping that drives change detection.
package storage
