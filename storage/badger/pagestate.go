package badger

import (
	"context"

	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/core"
	"github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/storage"
	"github.com/dgraph-io/badger/v4"
)

// PageStateRepository implements storage.PageStateRepository for BadgerDB.
type PageStateRepository struct {
	backend *Backend
}

var _ storage.PageStateRepository = (*PageStateRepository)(nil)

// NewPageStateRepository creates a new PageStateRepository.
func NewPageStateRepository(backend *Backend) (storage.PageStateRepository, error) {
	if backend == nil {
		return nil, storage.ErrStorageClosed
	}
	return &PageStateRepository{backend: backend}, nil
}

// Close is a no-op; the repository holds no resources beyond the backend.
func (r *PageStateRepository) Close() error {
	return nil
}

// PutPageState inserts or replaces the state for its URL.
func (r *PageStateRepository) PutPageState(ctx context.Context, state *core.PageState) error {
	if err := core.ValidatePageState(state); err != nil {
		return err
	}

	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := tx.Set(makePageStateKey(state.URL), storage.MarshalPageState(state)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

// GetPageState retrieves the state for a URL.
func (r *PageStateRepository) GetPageState(ctx context.Context, url string) (*core.PageState, error) {
	var result *core.PageState
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makePageStateKey(url))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			result, err = storage.UnmarshalPageState(val)
			return err
		})
	}, false)
	return result, err
}

// DeletePageState removes the state for a URL.
func (r *PageStateRepository) DeletePageState(ctx context.Context, url string) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		key := makePageStateKey(url)
		if _, err := tx.Get(key); err != nil {
			if err == badger.ErrKeyNotFound {
				return storage.ErrNotFound
			}
			return err
		}
		if err := tx.Delete(key); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}
