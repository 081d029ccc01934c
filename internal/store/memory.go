package store

import (
	"context"
	"sync"

	domain "github.com/donaldgifford/ecofinder/pkg/types"
)

// MemoryStore keeps the credential in process memory only.
type MemoryStore struct {
	mu   sync.Mutex
	cred domain.Credential
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the current credential.
func (s *MemoryStore) Load(_ context.Context) (domain.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cred, nil
}

// Update applies fn to a copy and keeps it when fn succeeds.
func (s *MemoryStore) Update(_ context.Context, fn func(*domain.Credential) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cred
	if err := fn(&c); err != nil {
		return err
	}
	s.cred = c
	return nil
}

// Ping always succeeds.
func (*MemoryStore) Ping(context.Context) error { return nil }

// Close is a no-op.
func (*MemoryStore) Close() {}
