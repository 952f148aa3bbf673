package storage

import (
	"errors"
	"sort"
	"sync"
)

// ErrNotImplemented is returned by implementations that do not support an operation
var ErrNotImplemented = errors.New("storage operation not implemented")

// Storage is a string key/value store for user preferences
type Storage interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Remove(key string) error
	Keys() []string
	Len() int
	Clear() error
}

// MemoryStorage keeps values in a map and is safe for concurrent use
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}

func (s *MemoryStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return nil
}

// Keys are returned sorted
func (s *MemoryStorage) Keys() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.values)
}

func (s *MemoryStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

func (s *MemoryStorage) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string)
	return nil
}

func sortedKeys(values map[string]string) []string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ReadOnly wraps a Storage and rejects every mutation with ErrNotImplemented
type ReadOnly struct {
	Storage
}

func (ReadOnly) Set(string, string) error { return ErrNotImplemented }
func (ReadOnly) Remove(string) error      { return ErrNotImplemented }
func (ReadOnly) Clear() error             { return ErrNotImplemented }
