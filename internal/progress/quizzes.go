package progress

import (
	"context"
	"errors"
	"slices"

	"stargazer/internal/state"
)

// QuizStore records which objects' quizzes were answered correctly.
type QuizStore struct {
	kv state.Store
}

func NewQuizStore(kv state.Store) *QuizStore {
	return &QuizStore{kv: kv}
}

// ids returns the passed objects in the order they were passed. On failure
// an empty list is returned together with a *StorageError.
func (s *QuizStore) ids(ctx context.Context) ([]string, error) {
	var ids []string
	if _, err := state.GetJSON(ctx, s.kv, KeyQuizPassed, &ids); err != nil {
		return nil, storageErr("read", KeyQuizPassed, err)
	}
	return ids, nil
}

func (s *QuizStore) Passed(ctx context.Context) (map[string]bool, error) {
	ids, err := s.ids(ctx)
	out := make(map[string]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, err
}

// MarkPassed adds objectID and reports whether it was new. An unreadable
// record counts as empty and is overwritten; the read error comes back with
// the result.
func (s *QuizStore) MarkPassed(ctx context.Context, objectID string) (bool, error) {
	ids, readErr := s.ids(ctx)
	if slices.Contains(ids, objectID) {
		return false, readErr
	}
	p, err := quizPair(append(ids, objectID))
	if err == nil {
		err = storageErr("write", KeyQuizPassed, s.kv.Set(ctx, p.Key, p.Value))
	}
	if err != nil {
		return false, errors.Join(readErr, err)
	}
	return true, readErr
}

func quizPair(ids []string) (state.Pair, error) {
	p, err := state.JSONPair(KeyQuizPassed, ids)
	return p, storageErr("write", KeyQuizPassed, err)
}
