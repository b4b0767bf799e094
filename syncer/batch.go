package syncer

import (
	"fmt"
	"strconv"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
)

// State is a batch's position in its lifecycle.
type State int

const (
	// StatePending accepts documents.
	StatePending State = iota
	// StateMaterialized has a validated payload ready to transfer.
	StateMaterialized
	// StateTransferred has completed its remote call, successfully or not.
	StateTransferred
	// StateDiscarded has released its payload. Terminal.
	StateDiscarded
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateMaterialized:
		return "materialized"
	case StateTransferred:
		return "transferred"
	case StateDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}

// Batch is one ephemeral unit of transfer. It holds the payload as parallel
// slices so the remote codec never re-walks documents.
type Batch struct {
	number int
	state  State

	ids        []string
	texts      []string
	metadatas  []map[string]string
	embeddings [][]float32

	succeeded bool
}

// NewBatch creates an empty Pending batch. Numbering starts at 1.
func NewBatch(number int) *Batch {
	return &Batch{number: number}
}

// Number returns the batch's position in the run, starting at 1.
func (b *Batch) Number() int {
	return b.number
}

// Name returns the batch's remote-visible name, "batch_<n>".
func (b *Batch) Name() string {
	return "batch_" + strconv.Itoa(b.number)
}

// State returns the batch's lifecycle state.
func (b *Batch) State() State {
	return b.state
}

// Len returns the number of records in the batch.
func (b *Batch) Len() int {
	return len(b.ids)
}

// IDs returns the record IDs in payload order.
func (b *Batch) IDs() []string {
	return b.ids
}

// Succeeded reports whether the transfer completed successfully. Only
// meaningful once the batch reaches StateTransferred.
func (b *Batch) Succeeded() bool {
	return b.succeeded
}

// Add appends documents to a Pending batch.
func (b *Batch) Add(docs ...*core.Document) error {
	if b.state != StatePending {
		return fmt.Errorf("%w: %s %s", ErrBatchNotPending, b.Name(), b.state)
	}

	for _, doc := range docs {
		b.ids = append(b.ids, doc.ID)
		b.texts = append(b.texts, doc.Text)
		b.metadatas = append(b.metadatas, doc.Metadata)
		b.embeddings = append(b.embeddings, doc.Vector)
	}
	return nil
}

// Materialize validates every record against the byte ceiling and moves the
// batch to StateMaterialized. An oversize record fails the whole batch with
// ErrRecordTooLarge in the chain; the batch stays Pending and must be
// discarded by the caller.
func (b *Batch) Materialize(maxRecordBytes int) error {
	if b.state != StatePending {
		return fmt.Errorf("%w: %s %s", ErrBatchNotPending, b.Name(), b.state)
	}

	for i := range b.ids {
		doc := &core.Document{ID: b.ids[i], Text: b.texts[i], Metadata: b.metadatas[i]}
		if err := core.ValidateRecordSize(doc, maxRecordBytes); err != nil {
			return fmt.Errorf("%s: %w", b.Name(), err)
		}
	}

	b.state = StateMaterialized
	return nil
}

// MarkTransferred records the transfer outcome and moves the batch to
// StateTransferred.
func (b *Batch) MarkTransferred(success bool) error {
	if b.state != StateMaterialized {
		return fmt.Errorf("%w: %s %s", ErrBatchNotMaterialized, b.Name(), b.state)
	}
	b.state = StateTransferred
	b.succeeded = success
	return nil
}

// Discard releases the payload and moves the batch to its terminal state.
// Valid from any state; batches are always discarded, success or failure.
func (b *Batch) Discard() {
	b.state = StateDiscarded
	b.ids = nil
	b.texts = nil
	b.metadatas = nil
	b.embeddings = nil
}
