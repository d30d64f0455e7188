package tracker

import "sync"

// StateStore holds the last known working directory per terminal. Entries
// are volatile: they live for the process lifetime and are removed when the
// host reports a terminal closed.
type StateStore interface {
	Get(terminalID string) (cwd string, ok bool)
	Set(terminalID, cwd string)
	Delete(terminalID string)
}

// MemoryStore is the in-process StateStore.
type MemoryStore struct {
	mu   sync.Mutex
	cwds map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{cwds: make(map[string]string)}
}

func (s *MemoryStore) Get(terminalID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cwd, ok := s.cwds[terminalID]
	return cwd, ok
}

func (s *MemoryStore) Set(terminalID, cwd string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cwds[terminalID] = cwd
}

func (s *MemoryStore) Delete(terminalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.cwds, terminalID)
}
