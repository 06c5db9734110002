package ui

import (
	"fmt"
	"io"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"charm.land/bubbles/v2/help"
	"charm.land/bubbles/v2/progress"
	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour"
	clog "github.com/charmbracelet/log"
)

type applyMsg struct {
	fn func(*Root)
}

type flashMsg time.Time

const (
	flashTicks    = 8
	flashInterval = 250 * time.Millisecond
)

const (
	confirmReset      = "reset"
	confirmDeleteNote = "delete_note"
)

type Root struct {
	theme        Theme
	ascii        bool
	debug        bool
	ctrl         Controller
	styleVariant string

	mu      sync.Mutex
	program *tea.Program
	running bool

	screen Screen
	layout LayoutMode
	cols   int
	rows   int

	home         HomeState
	catalog      CatalogState
	detail       DetailState
	achievements AchievementsState
	notes        []NoteRow
	settings     SettingsState
	statusFlash  string
	busy         bool

	introIndex    int
	homeIndex     int
	catalogIndex  int
	achIndex      int
	notesIndex    int
	settingsIndex int
	unlockedOnly  bool

	confirm      string
	confirmIndex int

	editing    bool
	editNoteID string
	editField  int
	noteText   textinput.Model
	notePhoto  textinput.Model
	editingObs bool
	obsNote    textinput.Model

	flashLeft    int
	flashOn      bool
	flashRunning bool

	help       help.Model
	keys       keyMap
	completion progress.Model
	spin       spinner.Model
	markdown   *glamour.TermRenderer
	mdFor      string
	mdOut      string
	logger     *clog.Logger

	lastInputEvent string
}

type Options struct {
	ASCIIOnly    bool
	Debug        bool
	StyleVariant string
	Intro        bool
	Logger       *clog.Logger
}

func New(opts Options) *Root {
	logger := opts.Logger
	if logger == nil {
		logger = clog.New(io.Discard)
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(78),
	)
	if err != nil {
		logger.Warn("ui.markdown_unavailable", "err", err)
		renderer = nil
	}

	h := help.New()
	h.Styles = help.DefaultDarkStyles()
	styleVariant := normalizeStyleVariant(opts.StyleVariant)
	theme := ThemeForVariant(styleVariant)
	completion := progress.New(
		progress.WithWidth(24),
		progress.WithColors(lipgloss.Color("#4D96FF"), lipgloss.Color("#FFE66D")),
		progress.WithScaled(true),
	)
	spin := spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Accent),
	)

	r := &Root{
		theme:        theme,
		ascii:        opts.ASCIIOnly,
		debug:        opts.Debug,
		styleVariant: styleVariant,
		screen:       ScreenHome,
		layout:       LayoutWide,
		cols:         120,
		rows:         30,
		home:         HomeState{Total: 9},
		settings:     SettingsState{MusicOn: true, VibrationOn: true},
		help:         h,
		keys:         defaultKeyMap(),
		completion:   completion,
		spin:         spin,
		markdown:     renderer,
		logger:       logger,
		noteText:     newInput("What did you see tonight?", 500),
		notePhoto:    newInput("Optional photo path", 1024),
		obsNote:      newInput("Note for this object", 500),
	}
	if opts.Intro {
		r.screen = ScreenIntro
	}
	return r
}

func newInput(placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	ti.Prompt = "> "
	return ti
}

func (r *Root) Init() tea.Cmd {
	return spinnerTickCmd(r.spin)
}

func (r *Root) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("update", rec, msg)
			model = r
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		r.cols = msg.Width
		r.rows = msg.Height
		r.layout = DetermineLayoutMode(r.cols, r.rows)
		return r, nil
	case applyMsg:
		if msg.fn != nil {
			msg.fn(r)
		}
		return r, r.flashIfNeeded()
	case flashMsg:
		if r.flashLeft <= 0 {
			r.flashOn = false
			r.flashRunning = false
			return r, nil
		}
		r.flashLeft--
		r.flashOn = !r.flashOn
		return r, flashTickCmd()
	case spinner.TickMsg:
		var cmd tea.Cmd
		r.spin, cmd = r.spin.Update(msg)
		return r, cmd
	case tea.KeyPressMsg:
		return r.handleKey(msg)
	}
	if r.editing || r.editingObs {
		return r.updateInputs(msg)
	}
	return r, nil
}

func (r *Root) View() (view tea.View) {
	defer func() {
		if rec := recover(); rec != nil {
			r.onModelPanic("view", rec, nil)
			width := max(1, r.cols)
			if r.statusFlash == "" {
				r.statusFlash = "Recovered UI panic"
			}
			view = tea.NewView(r.theme.Fail.Width(width).Render(trimForWidth("UI recovered from a rendering panic. Check logs.", max(1, width-1))))
		}
	}()

	if r.cols < 1 {
		r.cols = 120
	}
	if r.rows < 1 {
		r.rows = 30
	}

	var body string
	if r.layout == LayoutTooSmall {
		body = r.renderTooSmall()
	} else {
		switch r.screen {
		case ScreenCatalog:
			body = r.renderCatalog()
		case ScreenDetail:
			body = r.renderDetail()
		case ScreenAchievements:
			body = r.renderAchievements()
		case ScreenNotes:
			body = r.renderNotes()
		case ScreenSettings:
			body = r.renderSettings()
		case ScreenIntro:
			body = r.renderIntro()
		default:
			body = r.renderHome()
		}
	}
	base := r.headerText() + "\n" + body + "\n" + r.statusText()
	if overlay := r.renderOverlay(); overlay != "" {
		base = composeOverlay(base, overlay, r.cols, r.rows)
	}
	v := tea.NewView(base)
	v.AltScreen = true
	return v
}

func (r *Root) Run() error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return nil
	}
	p := tea.NewProgram(r)
	r.program = p
	r.running = true
	r.mu.Unlock()

	_, err := p.Run()

	r.mu.Lock()
	r.program = nil
	r.running = false
	r.mu.Unlock()
	return err
}

func (r *Root) Stop() {
	r.mu.Lock()
	p := r.program
	r.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (r *Root) SetController(c Controller) {
	r.ctrl = c
}

func (r *Root) SetScreen(screen Screen) {
	r.apply(func(m *Root) {
		m.screen = screen
		m.statusFlash = ""
	})
}

func (r *Root) SetHome(state HomeState) {
	r.apply(func(m *Root) {
		m.home = state
	})
}

func (r *Root) SetCatalog(state CatalogState) {
	r.apply(func(m *Root) {
		m.catalog = state
		m.catalogIndex = clampIndex(m.catalogIndex, len(state.Rows))
	})
}

func (r *Root) SetDetail(state DetailState) {
	r.apply(func(m *Root) {
		m.detail = state
		m.editingObs = false
		m.obsNote.Blur()
	})
}

// SetAchievements replaces the grid. A non-empty Flash starts the blink and
// moves the cursor to Highlight.
func (r *Root) SetAchievements(state AchievementsState) {
	r.apply(func(m *Root) {
		m.achievements = state
		if state.Highlight != "" {
			m.unlockedOnly = false
			for i, row := range state.Rows {
				if row.ID == state.Highlight {
					m.achIndex = i
				}
			}
		}
		m.achIndex = clampIndex(m.achIndex, len(m.visibleAchievements()))
		if len(state.Flash) > 0 {
			m.flashLeft = flashTicks
			m.flashOn = true
		}
	})
}

func (r *Root) SetNotes(rows []NoteRow) {
	r.apply(func(m *Root) {
		m.notes = append([]NoteRow(nil), rows...)
		m.notesIndex = clampIndex(m.notesIndex, len(rows))
	})
}

func (r *Root) SetSettings(state SettingsState) {
	r.apply(func(m *Root) {
		m.settings = state
	})
}

func (r *Root) SetBusy(busy bool) {
	r.apply(func(m *Root) {
		m.busy = busy
	})
}

func (r *Root) FlashStatus(msg string) {
	r.apply(func(m *Root) {
		m.statusFlash = msg
	})
}

func (r *Root) apply(fn func(*Root)) {
	if fn == nil {
		return
	}
	r.mu.Lock()
	p := r.program
	running := r.running
	if !running || p == nil {
		fn(r)
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()
	p.Send(applyMsg{fn: fn})
}

func (r *Root) dispatchController(fn func(Controller)) {
	if fn == nil || r.ctrl == nil {
		return
	}
	ctrl := r.ctrl
	go fn(ctrl)
}

func (r *Root) flashIfNeeded() tea.Cmd {
	if r.flashLeft <= 0 || r.flashRunning {
		return nil
	}
	r.flashRunning = true
	return flashTickCmd()
}

func (r *Root) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case r.editingObs:
		r.obsNote, cmd = r.obsNote.Update(msg)
	case r.editField == 0:
		r.noteText, cmd = r.noteText.Update(msg)
	default:
		r.notePhoto, cmd = r.notePhoto.Update(msg)
	}
	return r, cmd
}

func flashTickCmd() tea.Cmd {
	return tea.Tick(flashInterval, func(t time.Time) tea.Msg { return flashMsg(t) })
}

func spinnerTickCmd(model spinner.Model) tea.Cmd {
	return func() tea.Msg {
		return model.Tick()
	}
}

func clampIndex(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func wrapIndex(i, n int) int {
	if n <= 0 {
		return 0
	}
	i %= n
	if i < 0 {
		i += n
	}
	return i
}

func normalizeStyleVariant(v string) string {
	switch strings.TrimSpace(v) {
	case StyleNightSky, StyleAurora, StyleRedLight:
		return strings.TrimSpace(v)
	default:
		return StyleNightSky
	}
}

func (r *Root) recordInputEvent(event string) {
	r.lastInputEvent = trimForWidth(strings.TrimSpace(event), 160)
}

func (r *Root) onModelPanic(where string, recovered any, msg tea.Msg) {
	if r.statusFlash == "" {
		r.statusFlash = "Recovered UI panic"
	}
	msgType := ""
	if msg != nil {
		msgType = fmt.Sprintf("%T", msg)
	}
	r.logger.Error("ui.panic_recovered",
		"where", where,
		"panic", fmt.Sprintf("%v", recovered),
		"message_type", msgType,
		"screen", r.screen,
		"overlay", r.confirm,
		"last_input", r.lastInputEvent,
		"stack", string(debug.Stack()),
	)
}

var _ tea.Model = (*Root)(nil)
var _ View = (*Root)(nil)
