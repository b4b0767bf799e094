package syncer

import (
	"errors"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
)

var (
	// ErrRemoteRequired is returned when a remote index is not provided.
	ErrRemoteRequired = errors.New("remote index required")

	// ErrRecordTooLarge marks a batch that failed materialization because a
	// record exceeded the byte ceiling. It is the same sentinel the record
	// validator uses, so callers can test either boundary.
	ErrRecordTooLarge = core.ErrRecordTooLarge

	// ErrBatchNotPending is returned when documents are added to a batch
	// that already left the Pending state.
	ErrBatchNotPending = errors.New("batch is not pending")

	// ErrBatchNotMaterialized is returned when a transfer is recorded on a
	// batch that was never materialized.
	ErrBatchNotMaterialized = errors.New("batch is not materialized")
)
