package progress

import (
	"context"
	"errors"
	"fmt"

	"stargazer/internal/state"
)

type Counters struct {
	Viewed     int `json:"viewed"`
	Observed   int `json:"observed"`
	Rated      int `json:"rated"`
	Quizzes    int `json:"quizzes"`
	Completion int `json:"completion"`
}

type CounterKey string

const (
	CounterViewed     CounterKey = "viewed"
	CounterObserved   CounterKey = "observed"
	CounterRated      CounterKey = "rated"
	CounterQuizzes    CounterKey = "quizzes"
	CounterCompletion CounterKey = "completion"
)

// Clamped returns c with every field non-negative and completion capped at 100.
func (c Counters) Clamped() Counters {
	c.Viewed = max(0, c.Viewed)
	c.Observed = max(0, c.Observed)
	c.Rated = max(0, c.Rated)
	c.Quizzes = max(0, c.Quizzes)
	c.Completion = min(100, max(0, c.Completion))
	return c
}

func (c *Counters) field(key CounterKey) (*int, error) {
	switch key {
	case CounterViewed:
		return &c.Viewed, nil
	case CounterObserved:
		return &c.Observed, nil
	case CounterRated:
		return &c.Rated, nil
	case CounterQuizzes:
		return &c.Quizzes, nil
	case CounterCompletion:
		return &c.Completion, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCounter, key)
}

// Get returns the value of key.
func (c Counters) Get(key CounterKey) (int, error) {
	p, err := c.field(key)
	if err != nil {
		return 0, err
	}
	return *p, nil
}

// CounterStore persists the counters record under KeyCounters.
type CounterStore struct {
	kv state.Store
}

func NewCounterStore(kv state.Store) *CounterStore {
	return &CounterStore{kv: kv}
}

// Read returns the stored counters. A missing record reads as zero. On
// failure the zero record is returned together with a *StorageError.
func (s *CounterStore) Read(ctx context.Context) (Counters, error) {
	var c Counters
	if _, err := state.GetJSON(ctx, s.kv, KeyCounters, &c); err != nil {
		return Counters{}, storageErr("read", KeyCounters, err)
	}
	return c.Clamped(), nil
}

func (s *CounterStore) Write(ctx context.Context, c Counters) error {
	p, err := counterPair(c)
	if err != nil {
		return err
	}
	return storageErr("write", KeyCounters, s.kv.Set(ctx, p.Key, p.Value))
}

func counterPair(c Counters) (state.Pair, error) {
	p, err := state.JSONPair(KeyCounters, c.Clamped())
	return p, storageErr("write", KeyCounters, err)
}

// Bump adds delta to key and persists the result. A failed read counts as
// the zero record, so a corrupt value gets overwritten; the read error is
// returned together with the bumped counters.
func (s *CounterStore) Bump(ctx context.Context, key CounterKey, delta int) (Counters, error) {
	if _, err := (&Counters{}).field(key); err != nil {
		return Counters{}, err
	}
	c, readErr := s.Read(ctx)
	p, _ := c.field(key)
	*p += delta
	c = c.Clamped()
	if err := s.Write(ctx, c); err != nil {
		return c, errors.Join(readErr, err)
	}
	return c, readErr
}
