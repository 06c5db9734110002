// Package settings holds the music and vibration preferences.
package settings

import (
	"context"
	"fmt"
	"sync"

	"stargazer/internal/state"
)

const Key = "@user_settings_v1"

type Settings struct {
	MusicOn     bool `json:"musicOn"`
	VibrationOn bool `json:"vibrationOn"`
}

func Defaults() Settings {
	return Settings{MusicOn: true, VibrationOn: true}
}

// Effects is the device side of the preferences.
type Effects interface {
	SetMusic(on bool)
	Vibrate()
}

type nopEffects struct{}

func (nopEffects) SetMusic(bool) {}
func (nopEffects) Vibrate()      {}

type Manager struct {
	mu      sync.Mutex
	kv      state.Store
	effects Effects
	cur     Settings
}

func NewManager(kv state.Store, effects Effects) *Manager {
	if effects == nil {
		effects = nopEffects{}
	}
	return &Manager{kv: kv, effects: effects, cur: Defaults()}
}

// Load reads stored settings, keeping defaults for anything missing, and
// applies the music state.
func (m *Manager) Load(ctx context.Context) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Defaults()
	if _, err := state.GetJSON(ctx, m.kv, Key, &s); err != nil {
		m.effects.SetMusic(m.cur.MusicOn)
		return m.cur, fmt.Errorf("load settings: %w", err)
	}
	m.cur = s
	m.effects.SetMusic(s.MusicOn)
	return s, nil
}

func (m *Manager) Current() Settings {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

// ToggleMusic flips music and applies it once the new value is stored.
func (m *Manager) ToggleMusic(ctx context.Context) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	next := m.cur
	next.MusicOn = !next.MusicOn
	if err := m.persist(ctx, next); err != nil {
		return m.cur, err
	}
	m.cur = next
	m.effects.SetMusic(next.MusicOn)
	return m.cur, nil
}

// ToggleVibration always buzzes, whichever way the switch goes.
func (m *Manager) ToggleVibration(ctx context.Context) (Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.effects.Vibrate()
	next := m.cur
	next.VibrationOn = !next.VibrationOn
	if err := m.persist(ctx, next); err != nil {
		return m.cur, err
	}
	m.cur = next
	return m.cur, nil
}

func (m *Manager) persist(ctx context.Context, s Settings) error {
	if err := state.SetJSON(ctx, m.kv, Key, s); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}
