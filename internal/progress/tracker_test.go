package progress

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	clog "github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"

	"stargazer/internal/state"
)

func TestRecordViewUnlocksFirstReadOnce(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(state.NewMemory())

	out, err := tr.RecordView(ctx, "vega")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]AchievementID{FirstRead}, out.Unlocked); diff != "" {
		t.Fatalf("first view unlocks (-want +got):\n%s", diff)
	}
	for i := 0; i < 3; i++ {
		out, err = tr.RecordView(ctx, "mars")
		if err != nil {
			t.Fatal(err)
		}
		if len(out.Unlocked) != 0 {
			t.Fatalf("view %d unexpectedly unlocked %v", i+2, out.Unlocked)
		}
	}
	out, err = tr.RecordView(ctx, "vega")
	if err != nil {
		t.Fatal(err)
	}
	if out.Counters.Viewed != 5 {
		t.Fatalf("expected viewed=5, got %d", out.Counters.Viewed)
	}
	if diff := cmp.Diff([]AchievementID{ShootingStar}, out.Unlocked); diff != "" {
		t.Fatalf("fifth view unlocks (-want +got):\n%s", diff)
	}
}

func TestSaveObservationTelescopeThreshold(t *testing.T) {
	ctx := context.Background()
	kv := state.NewMemory()
	if err := NewCounterStore(kv).Write(ctx, Counters{Observed: 14}); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLedger(kv).Add(ctx, FullMoon); err != nil {
		t.Fatal(err)
	}
	tr := NewTracker(kv)

	out, err := tr.SaveObservation(ctx, "mercury", Observation{Observed: true})
	if err != nil {
		t.Fatal(err)
	}
	if out.Counters.Observed != 15 {
		t.Fatalf("expected observed=15, got %d", out.Counters.Observed)
	}
	if diff := cmp.Diff([]AchievementID{Telescope}, out.Unlocked); diff != "" {
		t.Fatalf("unlocks (-want +got):\n%s", diff)
	}
}

func TestSaveObservationRatingMasterThreshold(t *testing.T) {
	ctx := context.Background()
	kv := state.NewMemory()
	if err := NewCounterStore(kv).Write(ctx, Counters{Rated: 9}); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLedger(kv).Add(ctx, FirstRating); err != nil {
		t.Fatal(err)
	}
	tr := NewTracker(kv)

	out, err := tr.SaveObservation(ctx, "lyra", Observation{Rating: 3})
	if err != nil {
		t.Fatal(err)
	}
	if out.Counters.Rated != 10 {
		t.Fatalf("expected rated=10, got %d", out.Counters.Rated)
	}
	if diff := cmp.Diff([]AchievementID{RatingMaster}, out.Unlocked); diff != "" {
		t.Fatalf("unlocks (-want +got):\n%s", diff)
	}
}

func TestSaveObservationReturnsEveryUnlock(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(state.NewMemory())

	out, err := tr.SaveObservation(ctx, "saturn", Observation{Observed: true, Rating: 5, Note: "rings!"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]AchievementID{FullMoon, FirstRating}, out.Unlocked); diff != "" {
		t.Fatalf("unlocks (-want +got):\n%s", diff)
	}
	got, saved, err := tr.Observation(ctx, "saturn")
	if err != nil {
		t.Fatal(err)
	}
	if !saved {
		t.Fatalf("expected observation to be marked saved")
	}
	if diff := cmp.Diff(Observation{Observed: true, Rating: 5, Note: "rings!"}, got); diff != "" {
		t.Fatalf("observation (-want +got):\n%s", diff)
	}
}

func TestSaveObservationIdempotent(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(state.NewMemory())
	obs := Observation{Observed: true, Rating: 2}

	if _, err := tr.SaveObservation(ctx, "polaris", obs); err != nil {
		t.Fatal(err)
	}
	out, err := tr.SaveObservation(ctx, "polaris", obs)
	if err != nil {
		t.Fatal(err)
	}
	if out.Counters.Observed != 1 || out.Counters.Rated != 1 {
		t.Fatalf("re-save must not recount, got %+v", out.Counters)
	}
	if len(out.Unlocked) != 0 {
		t.Fatalf("re-save must not unlock, got %v", out.Unlocked)
	}
}

func TestSaveObservationStoresKeyLayout(t *testing.T) {
	ctx := context.Background()
	kv := state.NewMemory()
	tr := NewTracker(kv)
	if _, err := tr.SaveObservation(ctx, "orion", Observation{Observed: true, Rating: 4, Note: "belt"}); err != nil {
		t.Fatal(err)
	}
	got, err := kv.MultiGet(ctx, []string{"obs_orion_observed", "obs_orion_rating", "obs_orion_note"})
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]string{"obs_orion_observed": "1", "obs_orion_rating": "4", "obs_orion_note": "belt"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stored keys (-want +got):\n%s", diff)
	}
}

func TestSaveObservationValidation(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(state.NewMemory())
	if _, err := tr.SaveObservation(ctx, "vega", Observation{Rating: 6}); !errors.Is(err, ErrInvalidRating) {
		t.Fatalf("expected ErrInvalidRating, got %v", err)
	}
	if _, err := tr.SaveObservation(ctx, " ", Observation{}); !errors.Is(err, ErrEmptyObjectID) {
		t.Fatalf("expected ErrEmptyObjectID, got %v", err)
	}
}

func TestRecordQuizCountsFirstCorrectAnswerOnly(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(state.NewMemory(), WithQuizTotal(2))

	out, err := tr.RecordQuiz(ctx, "vega", false)
	if err != nil {
		t.Fatal(err)
	}
	if out.Counters.Quizzes != 0 || len(out.Unlocked) != 0 {
		t.Fatalf("wrong answer must change nothing, got %+v", out)
	}
	out, err = tr.RecordQuiz(ctx, "vega", true)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]AchievementID{QuizWhiz}, out.Unlocked); diff != "" {
		t.Fatalf("first quiz unlocks (-want +got):\n%s", diff)
	}
	out, err = tr.RecordQuiz(ctx, "vega", true)
	if err != nil {
		t.Fatal(err)
	}
	if out.Counters.Quizzes != 1 || len(out.Unlocked) != 0 {
		t.Fatalf("repeat answer must change nothing, got %+v", out)
	}
	out, err = tr.RecordQuiz(ctx, "mars", true)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]AchievementID{AllQuizzes}, out.Unlocked); diff != "" {
		t.Fatalf("last quiz unlocks (-want +got):\n%s", diff)
	}
	passed, err := tr.QuizPassed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]bool{"vega": true, "mars": true}, passed); diff != "" {
		t.Fatalf("passed quizzes (-want +got):\n%s", diff)
	}
}

func TestSetCompletionUnlocksTrophy(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(state.NewMemory())

	out, err := tr.SetCompletion(ctx, 93)
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Unlocked) != 0 {
		t.Fatalf("unexpected unlock %v", out.Unlocked)
	}
	out, err = tr.SetCompletion(ctx, 140)
	if err != nil {
		t.Fatal(err)
	}
	if out.Counters.Completion != 100 {
		t.Fatalf("expected completion clamped to 100, got %d", out.Counters.Completion)
	}
	if diff := cmp.Diff([]AchievementID{Trophy}, out.Unlocked); diff != "" {
		t.Fatalf("unlocks (-want +got):\n%s", diff)
	}
}

func TestResetAchievementsKeepsCounters(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(state.NewMemory())
	if _, err := tr.RecordView(ctx, "vega"); err != nil {
		t.Fatal(err)
	}
	if err := tr.ResetAchievements(ctx); err != nil {
		t.Fatal(err)
	}
	set, err := tr.Achievements(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty ledger after reset, got %v", set.IDs())
	}
	c, _ := tr.Counters(ctx)
	if c.Viewed != 1 {
		t.Fatalf("expected counters preserved, got %+v", c)
	}
	out, err := tr.RecordView(ctx, "vega")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]AchievementID{FirstRead}, out.Unlocked); diff != "" {
		t.Fatalf("unlock after reset (-want +got):\n%s", diff)
	}
}

func TestConcurrentViewsAreNotLost(t *testing.T) {
	ctx := context.Background()
	tr := NewTracker(state.NewMemory())

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := tr.RecordView(ctx, "sirius"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()
	c, err := tr.Counters(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if c.Viewed != 50 {
		t.Fatalf("expected 50 views, got %d", c.Viewed)
	}
	set, _ := tr.Achievements(ctx)
	if !set.Has(FirstRead) || !set.Has(ShootingStar) {
		t.Fatalf("expected view achievements, got %v", set.IDs())
	}
}

func TestBestEffortSwallowsStorageErrors(t *testing.T) {
	ctx := context.Background()
	kv := newFlakyStore()
	var buf bytes.Buffer
	logger := clog.NewWithOptions(&buf, clog.Options{Level: clog.WarnLevel})
	tr := NewTracker(kv, WithLogger(logger))

	kv.set(false, true)
	out, err := tr.SaveObservation(ctx, "venus", Observation{Observed: true})
	if err != nil {
		t.Fatalf("best effort must not fail, got %v", err)
	}
	if len(out.Unlocked) != 0 {
		t.Fatalf("dropped writes must not report unlocks, got %v", out.Unlocked)
	}
	if !strings.Contains(buf.String(), "progress.storage_error") {
		t.Fatalf("expected storage error to be logged, got %q", buf.String())
	}

	kv.set(true, false)
	c, err := tr.Counters(ctx)
	if err != nil {
		t.Fatalf("best effort read must not fail, got %v", err)
	}
	if c != (Counters{}) {
		t.Fatalf("failed read must degrade to zero, got %+v", c)
	}
}

func TestStrictReturnsStorageErrors(t *testing.T) {
	ctx := context.Background()
	kv := newFlakyStore()
	tr := NewTracker(kv, WithPolicy(Strict))

	kv.set(false, true)
	_, err := tr.RecordView(ctx, "venus")
	var se *StorageError
	if !errors.As(err, &se) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if !errors.Is(err, errBroken) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}
	if se.Key != KeyCounters || se.Op != "write" {
		t.Fatalf("unexpected storage error %+v", se)
	}

	kv.set(true, false)
	if _, err := tr.Achievements(ctx); err == nil {
		t.Fatalf("expected strict read to fail")
	}
}

func TestBestEffortRewritesCorruptLedger(t *testing.T) {
	ctx := context.Background()
	kv := state.NewMemory()
	if err := kv.Set(ctx, KeyAchievements, "{not json"); err != nil {
		t.Fatal(err)
	}
	tr := NewTracker(kv)

	out, err := tr.RecordView(ctx, "vega")
	if err != nil {
		t.Fatalf("best effort must not fail, got %v", err)
	}
	if diff := cmp.Diff([]AchievementID{FirstRead}, out.Unlocked); diff != "" {
		t.Fatalf("unlocks (-want +got):\n%s", diff)
	}
	raw, _, err := kv.Get(ctx, KeyAchievements)
	if err != nil {
		t.Fatal(err)
	}
	if raw != `["first_read"]` {
		t.Fatalf("ledger not rewritten: %q", raw)
	}
	out, err = tr.RecordView(ctx, "vega")
	if err != nil || len(out.Unlocked) != 0 {
		t.Fatalf("second view must not unlock again, got %v %v", out.Unlocked, err)
	}
}

func TestBestEffortRewritesCorruptQuizRecord(t *testing.T) {
	ctx := context.Background()
	kv := state.NewMemory()
	if err := kv.Set(ctx, KeyQuizPassed, "oops"); err != nil {
		t.Fatal(err)
	}
	tr := NewTracker(kv)

	out, err := tr.RecordQuiz(ctx, "venus", true)
	if err != nil {
		t.Fatalf("best effort must not fail, got %v", err)
	}
	if out.Counters.Quizzes != 1 {
		t.Fatalf("expected the quiz to count, got %+v", out.Counters)
	}
	if diff := cmp.Diff([]AchievementID{QuizWhiz}, out.Unlocked); diff != "" {
		t.Fatalf("unlocks (-want +got):\n%s", diff)
	}
	passed, err := tr.QuizPassed(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(map[string]bool{"venus": true}, passed); diff != "" {
		t.Fatalf("passed quizzes (-want +got):\n%s", diff)
	}
}

func TestStrictCorruptLedgerWritesNothing(t *testing.T) {
	ctx := context.Background()
	kv := state.NewMemory()
	if err := kv.Set(ctx, KeyAchievements, "{not json"); err != nil {
		t.Fatal(err)
	}
	tr := NewTracker(kv, WithPolicy(Strict))

	_, err := tr.RecordView(ctx, "vega")
	var se *StorageError
	if !errors.As(err, &se) || se.Key != KeyAchievements || se.Op != "read" {
		t.Fatalf("expected ledger read error, got %v", err)
	}
	if _, ok, _ := kv.Get(ctx, KeyCounters); ok {
		t.Fatalf("counters must not be written after an aborted view")
	}
}

func TestStrictSaveRetriesAfterFailedCounterRead(t *testing.T) {
	ctx := context.Background()
	kv := state.NewMemory()
	if err := kv.Set(ctx, KeyCounters, "{not json"); err != nil {
		t.Fatal(err)
	}
	tr := NewTracker(kv, WithPolicy(Strict))

	if _, err := tr.SaveObservation(ctx, "venus", Observation{Observed: true}); err == nil {
		t.Fatalf("expected strict save to fail")
	}
	if _, saved, _ := tr.Observation(ctx, "venus"); saved {
		t.Fatalf("observation must not be stored when the save aborts")
	}

	if err := kv.Remove(ctx, KeyCounters); err != nil {
		t.Fatal(err)
	}
	out, err := tr.SaveObservation(ctx, "venus", Observation{Observed: true})
	if err != nil {
		t.Fatal(err)
	}
	if out.Counters.Observed != 1 {
		t.Fatalf("retry must count the observation, got %+v", out.Counters)
	}
	if diff := cmp.Diff([]AchievementID{FullMoon}, out.Unlocked); diff != "" {
		t.Fatalf("unlocks (-want +got):\n%s", diff)
	}
}

func TestParsePolicy(t *testing.T) {
	for in, want := range map[string]Policy{"": BestEffort, "best_effort": BestEffort, "STRICT": Strict} {
		got, err := ParsePolicy(in)
		if err != nil || got != want {
			t.Fatalf("ParsePolicy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParsePolicy("yolo"); err == nil {
		t.Fatalf("expected error")
	}
}
