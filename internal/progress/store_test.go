package progress

import (
	"context"
	"errors"
	"sync"

	"stargazer/internal/state"
)

var errBroken = errors.New("disk on fire")

// flakyStore wraps a memory store and fails reads or writes on demand.
type flakyStore struct {
	*state.MemoryStore
	mu        sync.Mutex
	failRead  bool
	failWrite bool
}

func newFlakyStore() *flakyStore {
	return &flakyStore{MemoryStore: state.NewMemory()}
}

func (s *flakyStore) set(read, write bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRead, s.failWrite = read, write
}

func (s *flakyStore) readFails() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failRead
}

func (s *flakyStore) writeFails() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failWrite
}

func (s *flakyStore) Get(ctx context.Context, key string) (string, bool, error) {
	if s.readFails() {
		return "", false, errBroken
	}
	return s.MemoryStore.Get(ctx, key)
}

func (s *flakyStore) MultiGet(ctx context.Context, keys []string) (map[string]string, error) {
	if s.readFails() {
		return nil, errBroken
	}
	return s.MemoryStore.MultiGet(ctx, keys)
}

func (s *flakyStore) Set(ctx context.Context, key, value string) error {
	if s.writeFails() {
		return errBroken
	}
	return s.MemoryStore.Set(ctx, key, value)
}

func (s *flakyStore) MultiSet(ctx context.Context, pairs []state.Pair) error {
	if s.writeFails() {
		return errBroken
	}
	return s.MemoryStore.MultiSet(ctx, pairs)
}
