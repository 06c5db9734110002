// Package favorites keeps the user's saved catalog objects.
package favorites

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"stargazer/internal/state"
)

const Key = "@saved_ids_v1"

// Set is the saved-object set. Order is the order objects were saved in.
type Set struct {
	mu  sync.RWMutex
	kv  state.Store
	ids []string
}

func New(kv state.Store) *Set {
	return &Set{kv: kv}
}

// Load replaces the in-memory set with the stored one.
func (s *Set) Load(ctx context.Context) error {
	var ids []string
	if _, err := state.GetJSON(ctx, s.kv, Key, &ids); err != nil {
		return fmt.Errorf("load favorites: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ids = dedupe(ids)
	return nil
}

// Toggle adds id when absent and removes it otherwise. It reports whether id
// is saved afterwards. The in-memory set is only changed when the write
// succeeds.
func (s *Set) Toggle(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, fmt.Errorf("toggle favorite: empty id")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := slices.Clone(s.ids)
	saved := false
	if i := slices.Index(next, id); i >= 0 {
		next = slices.Delete(next, i, i+1)
	} else {
		next = append(next, id)
		saved = true
	}
	if err := s.persist(ctx, next); err != nil {
		return !saved, err
	}
	s.ids = next
	return saved, nil
}

func (s *Set) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.ids, id)
}

func (s *Set) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids)
}

func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

func (s *Set) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persist(ctx, []string{}); err != nil {
		return err
	}
	s.ids = nil
	return nil
}

func (s *Set) persist(ctx context.Context, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	if err := state.SetJSON(ctx, s.kv, Key, ids); err != nil {
		return fmt.Errorf("save favorites: %w", err)
	}
	return nil
}

func dedupe(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != "" && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}
