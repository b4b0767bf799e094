package syncer

import (
	"strings"
	"testing"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatch_Name(t *testing.T) {
	assert.Equal(t, "batch_1", NewBatch(1).Name())
	assert.Equal(t, "batch_42", NewBatch(42).Name())
}

func TestBatch_Lifecycle(t *testing.T) {
	batch := NewBatch(1)
	assert.Equal(t, StatePending, batch.State())

	require.NoError(t, batch.Add(&core.Document{ID: "a", Text: "hello"}))
	assert.Equal(t, 1, batch.Len())

	require.NoError(t, batch.Materialize(1024))
	assert.Equal(t, StateMaterialized, batch.State())

	require.NoError(t, batch.MarkTransferred(true))
	assert.Equal(t, StateTransferred, batch.State())
	assert.True(t, batch.Succeeded())

	batch.Discard()
	assert.Equal(t, StateDiscarded, batch.State())
	assert.Equal(t, 0, batch.Len())
}

func TestBatch_AddAfterMaterializeFails(t *testing.T) {
	batch := NewBatch(1)
	require.NoError(t, batch.Add(&core.Document{ID: "a", Text: "x"}))
	require.NoError(t, batch.Materialize(1024))

	err := batch.Add(&core.Document{ID: "b", Text: "y"})

	assert.ErrorIs(t, err, ErrBatchNotPending)
}

func TestBatch_MaterializeRejectsOversizeRecord(t *testing.T) {
	batch := NewBatch(3)
	require.NoError(t, batch.Add(
		&core.Document{ID: "small", Text: "fits"},
		&core.Document{ID: "big", Text: strings.Repeat("x", 200)},
	))

	err := batch.Materialize(100)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRecordTooLarge)
	assert.Equal(t, StatePending, batch.State(), "failed materialization must not advance state")
}

func TestBatch_MarkTransferredRequiresMaterialized(t *testing.T) {
	batch := NewBatch(1)

	assert.ErrorIs(t, batch.MarkTransferred(true), ErrBatchNotMaterialized)
}

func TestBatch_DiscardFromAnyState(t *testing.T) {
	pending := NewBatch(1)
	pending.Discard()
	assert.Equal(t, StateDiscarded, pending.State())

	materialized := NewBatch(2)
	require.NoError(t, materialized.Add(&core.Document{ID: "a", Text: "x"}))
	require.NoError(t, materialized.Materialize(1024))
	materialized.Discard()
	assert.Equal(t, StateDiscarded, materialized.State())
}
