// Package store persists the access/refresh token pair between runs.
//
// The session logic never talks to durable storage directly; it goes through
// CredentialStore so the same code runs against the bun-backed store in the
// real client and the in-memory fallback in tests or storage-less contexts.
package store

import "sync"

// CredentialStore is durable, synchronous key-value persistence for the two
// bearer tokens. Implementations must write the pair atomically: there is
// never a window where only one of the two tokens is present.
type CredentialStore interface {
	// Save overwrites both values.
	Save(access, refresh string) error
	// Access returns the stored access token, false when absent.
	Access() (string, bool)
	// Refresh returns the stored refresh token, false when absent.
	Refresh() (string, bool)
	// Clear removes both values. Called on logout and on unrecoverable
	// refresh failure.
	Clear() error
}

// MemoryStore is the in-process fallback store.
type MemoryStore struct {
	mu      sync.RWMutex
	access  string
	refresh string
}

var _ CredentialStore = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory credential store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Save(access, refresh string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = access
	s.refresh = refresh
	return nil
}

func (s *MemoryStore) Access() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access, s.access != ""
}

func (s *MemoryStore) Refresh() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh, s.refresh != ""
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.access = ""
	s.refresh = ""
	return nil
}
