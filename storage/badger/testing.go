package badger

import "github.com/SandaAbhishekSagar/Northeastern-University-chatbot-sub001/storage"

// NewMemoryRepositories creates in-memory document and page-state
// repositories for testing. Returns docRepo, pageRepo, backend, and error.
// Caller must close both repos and backend when done.
func NewMemoryRepositories() (storage.DocumentRepository, storage.PageStateRepository, *Backend, error) {
	backend, err := OpenBackend("", true)
	if err != nil {
		return nil, nil, nil, err
	}

	docRepo, err := NewDocumentRepository(backend)
	if err != nil {
		backend.Close()
		return nil, nil, nil, err
	}

	pageRepo, err := NewPageStateRepository(backend)
	if err != nil {
		docRepo.Close()
		backend.Close()
		return nil, nil, nil, err
	}

	return docRepo, pageRepo, backend, nil
}
