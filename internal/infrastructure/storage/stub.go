package storage

import (
	"context"
	"errors"
	"sync"
	"time"
)

var _ ImageStore = (*StubImageStore)(nil)

// StubImageStore is an in-memory ImageStore used when object storage
// is disabled and in tests. Staged bytes live only for the process
// lifetime.
type StubImageStore struct {
	// BaseURL prefixes the fake download URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// NewStubImageStore creates a new in-memory image store
func NewStubImageStore() *StubImageStore {
	return &StubImageStore{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Put stores the bytes in memory
func (s *StubImageStore) Put(_ context.Context, key string, data []byte, _ string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[key] = buf
	return nil
}

// PresignGet returns a fake time-limited URL
func (s *StubImageStore) PresignGet(_ context.Context, key string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	expiresAt := time.Now().Add(15 * time.Minute)
	return s.BaseURL + "/download/" + key + "?expires=" + expiresAt.Format(time.RFC3339), expiresAt, nil
}

// Delete removes the bytes from memory
func (s *StubImageStore) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Exists reports whether the key is present in memory
func (s *StubImageStore) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}
