package storage

import (
	"fmt"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
)

// MarshalDocument serializes a Document to bytes.
func MarshalDocument(doc *core.Document) []byte {
	buf := make([]byte, core.DocumentMUS.Size(*doc))
	core.DocumentMUS.Marshal(*doc, buf)
	return buf
}

// UnmarshalDocument deserializes a Document from bytes.
func UnmarshalDocument(data []byte) (*core.Document, error) {
	doc, _, err := core.DocumentMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &doc, nil
}

// MarshalPageState serializes a PageState to bytes.
func MarshalPageState(state *core.PageState) []byte {
	buf := make([]byte, core.PageStateMUS.Size(*state))
	core.PageStateMUS.Marshal(*state, buf)
	return buf
}

// UnmarshalPageState deserializes a PageState from bytes.
func UnmarshalPageState(data []byte) (*core.PageState, error) {
	state, _, err := core.PageStateMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &state, nil
}
