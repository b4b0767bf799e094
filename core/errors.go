package core

import "errors"

// Domain validation errors
var (
	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyID indicates a document has no ID.
	ErrEmptyID = errors.New("document ID must not be empty")

	// ErrEmptyText indicates a document has no text content.
	ErrEmptyText = errors.New("document text must not be empty")

	// ErrRecordTooLarge indicates a record exceeds the remote per-record
	// byte ceiling. A record this large reaching the synchronizer is a
	// contract violation; the chunker exists to make it impossible.
	ErrRecordTooLarge = errors.New("record exceeds per-record byte limit")

	// ErrInvalidPageState indicates a PageState failed validation.
	ErrInvalidPageState = errors.New("invalid page state")
)
