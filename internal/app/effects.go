package app

import (
	"io"
	"sync"

	clog "github.com/charmbracelet/log"
)

// TerminalEffects is the terminal stand-in for device feedback: vibration
// rings the bell and music only tracks its on/off state.
type TerminalEffects struct {
	mu      sync.Mutex
	w       io.Writer
	log     *clog.Logger
	musicOn bool
	buzzes  int
}

func NewTerminalEffects(w io.Writer, log *clog.Logger) *TerminalEffects {
	if w == nil {
		w = io.Discard
	}
	if log == nil {
		log = clog.New(io.Discard)
	}
	return &TerminalEffects{w: w, log: log}
}

func (e *TerminalEffects) SetMusic(on bool) {
	e.mu.Lock()
	changed := e.musicOn != on
	e.musicOn = on
	e.mu.Unlock()
	if changed {
		e.log.Debug("effects.music", "on", on)
	}
}

func (e *TerminalEffects) Vibrate() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.buzzes++
	_, _ = io.WriteString(e.w, "\a")
}

func (e *TerminalEffects) MusicOn() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.musicOn
}

func (e *TerminalEffects) Buzzes() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.buzzes
}
