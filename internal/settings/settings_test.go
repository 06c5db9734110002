package settings

import (
	"context"
	"errors"
	"testing"

	"stargazer/internal/state"
)

type recordingEffects struct {
	music    []bool
	vibrated int
}

func (r *recordingEffects) SetMusic(on bool) { r.music = append(r.music, on) }
func (r *recordingEffects) Vibrate()         { r.vibrated++ }

type readOnlyStore struct {
	*state.MemoryStore
}

func (readOnlyStore) Set(context.Context, string, string) error {
	return errors.New("read-only")
}

func TestLoadDefaultsWhenNothingStored(t *testing.T) {
	fx := &recordingEffects{}
	m := NewManager(state.NewMemory(), fx)
	s, err := m.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if s != Defaults() {
		t.Fatalf("expected defaults, got %+v", s)
	}
	if len(fx.music) != 1 || !fx.music[0] {
		t.Fatalf("expected music started on load, got %v", fx.music)
	}
}

func TestTogglesPersist(t *testing.T) {
	ctx := context.Background()
	kv := state.NewMemory()
	fx := &recordingEffects{}
	m := NewManager(kv, fx)
	if _, err := m.Load(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ToggleMusic(ctx); err != nil {
		t.Fatal(err)
	}
	s, err := m.ToggleVibration(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.MusicOn || s.VibrationOn {
		t.Fatalf("expected both off, got %+v", s)
	}
	raw, _, _ := kv.Get(ctx, Key)
	if raw != `{"musicOn":false,"vibrationOn":false}` {
		t.Fatalf("unexpected stored settings %s", raw)
	}

	reloaded := NewManager(kv, nil)
	got, err := reloaded.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got != s {
		t.Fatalf("expected %+v after reload, got %+v", s, got)
	}
}

func TestToggleVibrationAlwaysVibrates(t *testing.T) {
	ctx := context.Background()
	fx := &recordingEffects{}
	m := NewManager(state.NewMemory(), fx)
	for i := 0; i < 2; i++ {
		if _, err := m.ToggleVibration(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if fx.vibrated != 2 {
		t.Fatalf("expected 2 vibrations, got %d", fx.vibrated)
	}
	if !m.Current().VibrationOn {
		t.Fatalf("expected vibration back on after two toggles")
	}
}

func TestLoadKeepsDefaultsForPartialRecord(t *testing.T) {
	ctx := context.Background()
	kv := state.NewMemory()
	if err := kv.Set(ctx, Key, `{"musicOn":false}`); err != nil {
		t.Fatal(err)
	}
	s, err := NewManager(kv, nil).Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.MusicOn || !s.VibrationOn {
		t.Fatalf("unexpected settings %+v", s)
	}
}

func TestFailedToggleKeepsCurrentSettings(t *testing.T) {
	ctx := context.Background()
	fx := &recordingEffects{}
	m := NewManager(readOnlyStore{state.NewMemory()}, fx)

	if _, err := m.ToggleMusic(ctx); err == nil {
		t.Fatalf("expected music toggle to fail")
	}
	s, err := m.ToggleVibration(ctx)
	if err == nil {
		t.Fatalf("expected vibration toggle to fail")
	}
	if s != Defaults() || m.Current() != Defaults() {
		t.Fatalf("failed toggles must not change settings, got %+v", m.Current())
	}
	if len(fx.music) != 0 {
		t.Fatalf("music must not change when the toggle is not stored, got %v", fx.music)
	}
	if fx.vibrated != 1 {
		t.Fatalf("expected one vibration, got %d", fx.vibrated)
	}
}
