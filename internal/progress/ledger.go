package progress

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"stargazer/internal/state"
)

// Set is a set of unlocked achievements.
type Set map[AchievementID]struct{}

func NewSet(ids ...AchievementID) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s Set) Has(id AchievementID) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Len() int { return len(s) }

// insert adds the absent ids and returns them in the order given.
func (s Set) insert(ids []AchievementID) []AchievementID {
	var fresh []AchievementID
	for _, id := range ids {
		if s.Has(id) {
			continue
		}
		s[id] = struct{}{}
		fresh = append(fresh, id)
	}
	return fresh
}

// IDs returns the members in catalogue order.
func (s Set) IDs() []AchievementID {
	out := make([]AchievementID, 0, len(s))
	for id := range s {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool {
		return achievementIndex[out[i]] < achievementIndex[out[j]]
	})
	return out
}

// Ledger persists the unlocked set under KeyAchievements.
type Ledger struct {
	kv state.Store
}

func NewLedger(kv state.Store) *Ledger {
	return &Ledger{kv: kv}
}

// Read returns the stored set. Unknown ids in storage are dropped. On failure
// an empty set is returned together with a *StorageError.
func (l *Ledger) Read(ctx context.Context) (Set, error) {
	var raw []string
	if _, err := state.GetJSON(ctx, l.kv, KeyAchievements, &raw); err != nil {
		return Set{}, storageErr("read", KeyAchievements, err)
	}
	s := make(Set, len(raw))
	for _, v := range raw {
		if id := AchievementID(v); id.Valid() {
			s[id] = struct{}{}
		}
	}
	return s, nil
}

func ledgerPair(s Set) (state.Pair, error) {
	ids := s.IDs()
	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, string(id))
	}
	p, err := state.JSONPair(KeyAchievements, raw)
	return p, storageErr("write", KeyAchievements, err)
}

func (l *Ledger) write(ctx context.Context, s Set) error {
	p, err := ledgerPair(s)
	if err != nil {
		return err
	}
	return storageErr("write", KeyAchievements, l.kv.Set(ctx, p.Key, p.Value))
}

// Add inserts id and returns the resulting set. Adding a present id is a
// no-op that still returns the set. An unreadable ledger counts as empty and
// is overwritten; the read error comes back with the result.
func (l *Ledger) Add(ctx context.Context, id AchievementID) (Set, error) {
	if !id.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAchievement, id)
	}
	s, readErr := l.Read(ctx)
	if s.Has(id) {
		return s, readErr
	}
	s[id] = struct{}{}
	return s, errors.Join(readErr, l.write(ctx, s))
}

// UnlockIf reports (id, true) only on the call that inserted id.
func (l *Ledger) UnlockIf(ctx context.Context, id AchievementID) (AchievementID, bool, error) {
	fresh, err := l.UnlockAll(ctx, []AchievementID{id})
	if len(fresh) == 0 {
		return "", false, err
	}
	return fresh[0], true, err
}

// UnlockAll inserts every absent id with a single write and returns the ones
// that were newly inserted, in the order given. Like Add, it carries on from
// an empty set when the stored one cannot be read.
func (l *Ledger) UnlockAll(ctx context.Context, ids []AchievementID) ([]AchievementID, error) {
	for _, id := range ids {
		if !id.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownAchievement, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	s, readErr := l.Read(ctx)
	fresh := s.insert(ids)
	if len(fresh) == 0 {
		return nil, readErr
	}
	if err := l.write(ctx, s); err != nil {
		return nil, errors.Join(readErr, err)
	}
	return fresh, readErr
}

// Clear empties the ledger. Only an explicit user reset calls this.
func (l *Ledger) Clear(ctx context.Context) error {
	return l.write(ctx, Set{})
}
