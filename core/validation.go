package core

import "fmt"

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - Text must not be empty
//
// NOT validated (populated later in the pipeline):
//   - Vector (can be empty until the embedding fill runs)
//   - Fingerprint (set by the pipeline, absent on hand-built records)
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyID)
	}

	if doc.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyText)
	}

	return nil
}

// ValidateRecordSize checks the per-record byte invariant for a document
// about to be handed to the remote synchronizer.
func ValidateRecordSize(doc *Document, maxBytes int) error {
	if err := ValidateDocument(doc); err != nil {
		return err
	}

	if n := doc.RecordBytes(); n > maxBytes {
		return fmt.Errorf("%w: document %s is %d bytes, limit %d",
			ErrRecordTooLarge, doc.ID, n, maxBytes)
	}

	return nil
}

// ValidatePageState validates a PageState entry.
func ValidatePageState(state *PageState) error {
	if state == nil {
		return fmt.Errorf("%w: state is nil", ErrInvalidPageState)
	}

	if state.URL == "" {
		return fmt.Errorf("%w: URL must not be empty", ErrInvalidPageState)
	}

	if state.Fingerprint.IsZero() {
		return fmt.Errorf("%w: fingerprint must not be empty", ErrInvalidPageState)
	}

	return nil
}
