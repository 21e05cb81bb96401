package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"go-thread/internal/storage"
)

// Store keeps entries in process memory.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *Store) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *Store) List(_ context.Context, prefix string) ([]storage.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := make([]storage.Entry, 0)
	for k, v := range s.data {
		if strings.HasPrefix(k, prefix) {
			entries = append(entries, storage.Entry{Key: k, Value: append([]byte(nil), v...)})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })
	return entries, nil
}

func (s *Store) Close() error { return nil }
