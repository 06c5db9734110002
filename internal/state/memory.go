package state

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is a process-local Store. Nothing survives Close.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

func NewMemory() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (s *MemoryStore) EnsureSchema(context.Context) error { return nil }

func (s *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.values[key]
	return v, ok, nil
}

func (s *MemoryStore) MultiGet(_ context.Context, keys []string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := s.values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *MemoryStore) Set(ctx context.Context, key, value string) error {
	return s.MultiSet(ctx, []Pair{{Key: key, Value: value}})
}

func (s *MemoryStore) MultiSet(_ context.Context, pairs []Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for _, p := range pairs {
		if strings.TrimSpace(p.Key) == "" {
			return errors.New("state: empty key")
		}
	}
	for _, p := range pairs {
		s.values[p.Key] = p.Value
	}
	return nil
}

func (s *MemoryStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	for _, k := range keys {
		delete(s.values, k)
	}
	return nil
}

func (s *MemoryStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]string, 0)
	for k := range s.values {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
