package state

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

type fileState struct {
	Values map[string]string `json:"values"`
}

// JSONStore keeps every key in one JSON document that is rewritten on each
// mutation through a temp file and rename.
type JSONStore struct {
	filePath string
	mu       sync.RWMutex
	state    fileState
	closed   bool
}

func NewJSONStore(filePath string) (*JSONStore, error) {
	s := &JSONStore{
		filePath: filePath,
		state:    fileState{Values: make(map[string]string)},
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *JSONStore) EnsureSchema(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return os.MkdirAll(filepath.Dir(s.filePath), 0o755)
}

func (s *JSONStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, ErrClosed
	}
	v, ok := s.state.Values[key]
	return v, ok, nil
}

func (s *JSONStore) MultiGet(_ context.Context, keys []string) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		if v, ok := s.state.Values[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *JSONStore) Set(ctx context.Context, key, value string) error {
	return s.MultiSet(ctx, []Pair{{Key: key, Value: value}})
}

func (s *JSONStore) MultiSet(_ context.Context, pairs []Pair) error {
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
	prev := make(map[string]*string, len(pairs))
	for _, p := range pairs {
		if _, seen := prev[p.Key]; seen {
			continue
		}
		if old, ok := s.state.Values[p.Key]; ok {
			prev[p.Key] = &old
		} else {
			prev[p.Key] = nil
		}
	}
	for _, p := range pairs {
		s.state.Values[p.Key] = p.Value
	}
	if err := s.persistLocked(); err != nil {
		// Roll back the in-memory view so it matches what is on disk.
		for k, old := range prev {
			if old == nil {
				delete(s.state.Values, k)
			} else {
				s.state.Values[k] = *old
			}
		}
		return err
	}
	return nil
}

func (s *JSONStore) Remove(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	removed := map[string]string{}
	for _, k := range keys {
		if v, ok := s.state.Values[k]; ok {
			removed[k] = v
			delete(s.state.Values, k)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	if err := s.persistLocked(); err != nil {
		for k, v := range removed {
			s.state.Values[k] = v
		}
		return err
	}
	return nil
}

func (s *JSONStore) Keys(_ context.Context, prefix string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}
	out := make([]string, 0)
	for k := range s.state.Values {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (s *JSONStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *JSONStore) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	var st fileState
	if err := json.Unmarshal(data, &st); err != nil {
		return err
	}
	if st.Values == nil {
		st.Values = make(map[string]string)
	}
	s.state = st
	return nil
}

func (s *JSONStore) persistLocked() error {
	if err := os.MkdirAll(filepath.Dir(s.filePath), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := s.filePath + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, s.filePath)
}
