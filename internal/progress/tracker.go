package progress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	clog "github.com/charmbracelet/log"

	"stargazer/internal/state"
)

// Outcome is the result of a tracker operation: the counters after it ran and
// every achievement it unlocked, in rule order.
type Outcome struct {
	Counters Counters
	Unlocked []AchievementID
}

type Option func(*Tracker)

func WithPolicy(p Policy) Option {
	return func(t *Tracker) { t.policy = p }
}

func WithLogger(l *clog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.log = l
		}
	}
}

// WithQuizTotal sets how many quizzes exist; all_quizzes needs it.
func WithQuizTotal(n int) Option {
	return func(t *Tracker) { t.quizTotal = n }
}

func WithRules(rules []Rule) Option {
	return func(t *Tracker) { t.rules = rules }
}

// Tracker owns counters, ledger, observations and quiz results. All
// read-modify-write sequences run under one mutex.
type Tracker struct {
	mu sync.Mutex
	kv state.Store

	counters     *CounterStore
	ledger       *Ledger
	observations *ObservationStore
	quizzes      *QuizStore

	rules     []Rule
	quizTotal int
	policy    Policy
	log       *clog.Logger
}

func NewTracker(kv state.Store, opts ...Option) *Tracker {
	t := &Tracker{
		kv:           kv,
		counters:     NewCounterStore(kv),
		ledger:       NewLedger(kv),
		observations: NewObservationStore(kv),
		quizzes:      NewQuizStore(kv),
		rules:        DefaultRules,
		policy:       BestEffort,
		log:          clog.New(io.Discard),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Tracker) Policy() Policy { return t.policy }

// absorb applies the storage policy. Validation errors always pass through.
func (t *Tracker) absorb(err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if !errors.As(err, &se) || t.policy == Strict {
		return err
	}
	t.log.Warn("progress.storage_error", "op", se.Op, "key", se.Key, "err", se.Err)
	return nil
}

// readState loads the counters and the ledger under the storage policy. With
// BestEffort an unreadable record reads as zero or empty and is rewritten by
// the next commit.
func (t *Tracker) readState(ctx context.Context) (Counters, Set, error) {
	c, err := t.counters.Read(ctx)
	if err := t.absorb(err); err != nil {
		return Counters{}, nil, err
	}
	set, err := t.ledger.Read(ctx)
	if err := t.absorb(err); err != nil {
		return Counters{}, nil, err
	}
	if set == nil {
		set = Set{}
	}
	return c.Clamped(), set, nil
}

// commit evaluates trigger against tr and stores the counters, the extra
// pairs and any fresh unlocks in one batch. Unlocks are only reported once
// the batch is stored.
func (t *Tracker) commit(ctx context.Context, set Set, trigger Trigger, tr Transition, extra ...state.Pair) ([]AchievementID, error) {
	fresh := set.insert(Evaluate(t.rules, trigger, tr))
	cp, err := counterPair(tr.Counters)
	if err != nil {
		return nil, t.absorb(err)
	}
	pairs := append([]state.Pair{cp}, extra...)
	if len(fresh) > 0 {
		lp, err := ledgerPair(set)
		if err != nil {
			return nil, t.absorb(err)
		}
		pairs = append(pairs, lp)
	}
	if err := t.kv.MultiSet(ctx, pairs); err != nil {
		return nil, t.absorb(storageErr("write", cp.Key, err))
	}
	for _, id := range fresh {
		t.log.Info("progress.unlock", "id", id, "trigger", trigger)
	}
	return fresh, nil
}

// RecordView counts a detail-screen open. first_read is global: the first
// view of any object unlocks it and the ledger keeps it from firing again.
func (t *Tracker) RecordView(ctx context.Context, objectID string) (Outcome, error) {
	if strings.TrimSpace(objectID) == "" {
		return Outcome{}, ErrEmptyObjectID
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	c, set, err := t.readState(ctx)
	if err != nil {
		return Outcome{}, err
	}
	c.Viewed++
	unlocked, err := t.commit(ctx, set, TriggerView, Transition{Counters: c, QuizTotal: t.quizTotal})
	if err != nil {
		return Outcome{}, err
	}
	t.log.Debug("progress.view", "object", objectID, "viewed", c.Viewed)
	return Outcome{Counters: c, Unlocked: unlocked}, nil
}

// SaveObservation stores next for objectID and counts the observed and
// first-rating transitions against the previously stored record. Everything
// is read before anything is written, and the record, counters and unlocks
// are stored together.
func (t *Tracker) SaveObservation(ctx context.Context, objectID string, next Observation) (Outcome, error) {
	if strings.TrimSpace(objectID) == "" {
		return Outcome{}, ErrEmptyObjectID
	}
	if err := next.Validate(); err != nil {
		return Outcome{}, err
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	prev, _, err := t.observations.Read(ctx, objectID)
	if err := t.absorb(err); err != nil {
		return Outcome{}, err
	}
	c, set, err := t.readState(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if !prev.Observed && next.Observed {
		c.Observed++
	}
	if prev.Rating == 0 && next.Rating > 0 {
		c.Rated++
	}
	unlocked, err := t.commit(ctx, set, TriggerSave, Transition{
		Counters:  c,
		Before:    prev,
		After:     next,
		QuizTotal: t.quizTotal,
	}, observationPairs(objectID, next)...)
	if err != nil {
		return Outcome{}, err
	}
	t.log.Debug("progress.save", "object", objectID, "observed", next.Observed, "rating", next.Rating)
	return Outcome{Counters: c, Unlocked: unlocked}, nil
}

// RecordQuiz counts the first correct answer per object. Wrong answers and
// repeats leave everything as it was.
func (t *Tracker) RecordQuiz(ctx context.Context, objectID string, correct bool) (Outcome, error) {
	if strings.TrimSpace(objectID) == "" {
		return Outcome{}, ErrEmptyObjectID
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	c, set, err := t.readState(ctx)
	if err != nil {
		return Outcome{}, err
	}
	if !correct {
		return Outcome{Counters: c}, nil
	}
	passed, err := t.quizzes.ids(ctx)
	if err := t.absorb(err); err != nil {
		return Outcome{}, err
	}
	if slices.Contains(passed, objectID) {
		return Outcome{Counters: c}, nil
	}
	qp, err := quizPair(append(passed, objectID))
	if err := t.absorb(err); err != nil {
		return Outcome{}, err
	}
	c.Quizzes++
	unlocked, err := t.commit(ctx, set, TriggerQuiz, Transition{Counters: c, QuizTotal: t.quizTotal}, qp)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Counters: c, Unlocked: unlocked}, nil
}

// SetCompletion stores the completion percentage, clamped to [0,100].
func (t *Tracker) SetCompletion(ctx context.Context, pct int) (Outcome, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, set, err := t.readState(ctx)
	if err != nil {
		return Outcome{}, err
	}
	c.Completion = pct
	c = c.Clamped()
	unlocked, err := t.commit(ctx, set, TriggerCompletion, Transition{Counters: c, QuizTotal: t.quizTotal})
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{Counters: c, Unlocked: unlocked}, nil
}

func (t *Tracker) Counters(ctx context.Context) (Counters, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c, err := t.counters.Read(ctx)
	return c, t.absorb(err)
}

func (t *Tracker) Achievements(ctx context.Context) (Set, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	s, err := t.ledger.Read(ctx)
	return s, t.absorb(err)
}

// Observation returns the stored record for objectID and whether it was ever
// saved.
func (t *Tracker) Observation(ctx context.Context, objectID string) (Observation, bool, error) {
	if strings.TrimSpace(objectID) == "" {
		return Observation{}, false, ErrEmptyObjectID
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	o, saved, err := t.observations.Read(ctx, objectID)
	return o, saved, t.absorb(err)
}

// Observations reads the records of ids in one pass.
func (t *Tracker) Observations(ctx context.Context, ids []string) (map[string]Observation, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]Observation, len(ids))
	for _, id := range ids {
		o, _, err := t.observations.Read(ctx, id)
		if err := t.absorb(err); err != nil {
			return nil, fmt.Errorf("observation %s: %w", id, err)
		}
		out[id] = o
	}
	return out, nil
}

func (t *Tracker) QuizPassed(ctx context.Context) (map[string]bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, err := t.quizzes.Passed(ctx)
	return m, t.absorb(err)
}

// ResetAchievements clears the ledger. Counters and observations stay.
func (t *Tracker) ResetAchievements(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.absorb(t.ledger.Clear(ctx)); err != nil {
		return err
	}
	t.log.Info("progress.reset")
	return nil
}
