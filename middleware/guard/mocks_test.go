package guard_test

import "sync"

// fakeStore is an in-memory credential store for wiring controllers in tests.
type fakeStore struct {
	mu      sync.Mutex
	access  string
	refresh string
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (s *fakeStore) Save(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = access, refresh
	return nil
}

func (s *fakeStore) Access() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.access, s.access != ""
}

func (s *fakeStore) Refresh() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refresh, s.refresh != ""
}

func (s *fakeStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access, s.refresh = "", ""
	return nil
}
