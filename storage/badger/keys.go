package badger

// Key prefixes for the stored record types. Document keys sort by ID,
// which is what gives GetAllDocuments its stable ordering.
const (
	documentPrefix  = "docrec:"
	pageStatePrefix = "pagest:"
)

// makeDocumentKey generates a key for a document record by ID.
func makeDocumentKey(id string) []byte {
	return []byte(documentPrefix + id)
}

// makePageStateKey generates a key for a page-state record by URL.
func makePageStateKey(url string) []byte {
	return []byte(pageStatePrefix + url)
}
