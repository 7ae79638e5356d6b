// File path: internal/provider/selection.go
package provider

import "sync"

// Selection is a workspace's pinned provider and model.
type Selection struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
}

// SelectionStore keeps per-workspace selections in memory. Concurrent writers
// to the same workspace resolve last-writer-wins.
type SelectionStore struct {
	mu         sync.RWMutex
	selections map[string]Selection
}

func NewSelectionStore() *SelectionStore {
	return &SelectionStore{selections: make(map[string]Selection)}
}

func (s *SelectionStore) Set(workspace string, sel Selection) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selections[workspace] = sel
}

func (s *SelectionStore) Get(workspace string) (Selection, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sel, ok := s.selections[workspace]
	return sel, ok
}
