package ui

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"
)

type keyMap struct {
	Up           key.Binding
	Down         key.Binding
	Left         key.Binding
	Right        key.Binding
	Enter        key.Binding
	Back         key.Binding
	Quit         key.Binding
	Favorite     key.Binding
	Observed     key.Binding
	Rating       key.Binding
	Note         key.Binding
	Answer       key.Binding
	Save         key.Binding
	UnlockedOnly key.Binding
	Reset        key.Binding
	NewNote      key.Binding
	EditNote     key.Binding
	DeleteNote   key.Binding
	RemovePhoto  key.Binding
	Music        key.Binding
	Vibration    key.Binding
	NextField    key.Binding
	Confirm      key.Binding
	Cancel       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:         key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/→", "filter")),
		Right:        key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→", "next filter")),
		Enter:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
		Back:         key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Favorite:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "favourite")),
		Observed:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "observed")),
		Rating:       key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5"), key.WithHelp("0-5", "rate")),
		Note:         key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "note")),
		Answer:       key.NewBinding(key.WithKeys("a", "b", "c", "d"), key.WithHelp("a/b", "answer")),
		Save:         key.NewBinding(key.WithKeys("s", "ctrl+s"), key.WithHelp("s", "save")),
		UnlockedOnly: key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unlocked only")),
		Reset:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		NewNote:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		EditNote:     key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit")),
		DeleteNote:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		RemovePhoto:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "drop photo")),
		Music:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "music")),
		Vibration:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "vibration")),
		NextField:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Confirm:      key.NewBinding(key.WithKeys("y", "enter"), key.WithHelp("y", "confirm")),
		Cancel:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n/esc", "cancel")),
	}
}

// screenKeys adapts a binding list to help.KeyMap.
type screenKeys []key.Binding

func (k screenKeys) ShortHelp() []key.Binding  { return k }
func (k screenKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k} }

func (r *Root) helpKeys() screenKeys {
	k := r.keys
	switch {
	case r.confirm != "":
		return screenKeys{k.Confirm, k.Cancel}
	case r.editing:
		return screenKeys{k.NextField, withHelp(k.Enter, "save"), withHelp(k.Cancel, "cancel")}
	case r.editingObs:
		return screenKeys{withHelp(k.Enter, "done"), withHelp(k.Cancel, "cancel")}
	}
	switch r.screen {
	case ScreenCatalog:
		return screenKeys{k.Up, k.Down, k.Left, k.Enter, k.Favorite, k.Back}
	case ScreenDetail:
		keys := screenKeys{k.Observed, k.Rating, k.Note, k.Save, k.Favorite}
		if r.detail.Quiz != nil {
			keys = append(keys, k.Answer)
		}
		return append(keys, k.Back)
	case ScreenAchievements:
		return screenKeys{k.Up, k.Down, k.UnlockedOnly, k.Reset, k.Back}
	case ScreenNotes:
		return screenKeys{k.NewNote, k.EditNote, k.DeleteNote, k.RemovePhoto, k.Back}
	case ScreenSettings:
		return screenKeys{k.Music, k.Vibration, withHelp(k.Enter, "toggle"), k.Back}
	case ScreenIntro:
		return screenKeys{withHelp(k.Enter, introSlides[clampIndex(r.introIndex, len(introSlides))].button), withHelp(k.Back, "skip"), k.Quit}
	default:
		return screenKeys{k.Up, k.Down, withHelp(k.Enter, "select"), k.Quit}
	}
}

func withHelp(b key.Binding, desc string) key.Binding {
	h := b.Help()
	b.SetHelp(h.Key, desc)
	return b
}

func (r *Root) handleKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	r.recordInputEvent("key " + msg.String())

	if msg.String() == "ctrl+c" {
		return r, r.quit()
	}
	if r.confirm != "" {
		return r.handleConfirmKey(msg)
	}
	if r.editing {
		return r.handleNoteEditorKey(msg)
	}
	if r.editingObs {
		return r.handleObsNoteKey(msg)
	}
	if r.layout == LayoutTooSmall {
		if key.Matches(msg, r.keys.Quit) {
			return r, r.quit()
		}
		return r, nil
	}

	switch r.screen {
	case ScreenCatalog:
		return r.handleCatalogKey(msg)
	case ScreenDetail:
		return r.handleDetailKey(msg)
	case ScreenAchievements:
		return r.handleAchievementsKey(msg)
	case ScreenNotes:
		return r.handleNotesKey(msg)
	case ScreenSettings:
		return r.handleSettingsKey(msg)
	case ScreenIntro:
		return r.handleIntroKey(msg)
	default:
		return r.handleHomeKey(msg)
	}
}

func (r *Root) quit() tea.Cmd {
	if r.ctrl == nil {
		return tea.Quit
	}
	r.dispatchController(func(c Controller) { c.OnQuit() })
	return nil
}

// open switches screens locally and asks the controller to refresh the
// target's state.
func (r *Root) open(screen Screen) {
	r.screen = screen
	r.statusFlash = ""
	r.dispatchController(func(c Controller) { c.OnOpenScreen(screen) })
}

type homeEntry struct {
	label  string
	screen Screen
	quit   bool
}

var homeMenu = []homeEntry{
	{label: "Explore the sky", screen: ScreenCatalog},
	{label: "Achievements", screen: ScreenAchievements},
	{label: "My Constellation", screen: ScreenNotes},
	{label: "Settings", screen: ScreenSettings},
	{label: "Quit", quit: true},
}

func (r *Root) handleIntroKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, r.keys.Enter), msg.String() == "space":
		if r.introIndex < len(introSlides)-1 {
			r.introIndex++
			return r, nil
		}
		r.open(ScreenHome)
	case key.Matches(msg, r.keys.Back):
		r.open(ScreenHome)
	case key.Matches(msg, r.keys.Quit):
		return r, r.quit()
	}
	return r, nil
}

func (r *Root) handleHomeKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, r.keys.Up):
		r.homeIndex = wrapIndex(r.homeIndex-1, len(homeMenu))
	case key.Matches(msg, r.keys.Down):
		r.homeIndex = wrapIndex(r.homeIndex+1, len(homeMenu))
	case key.Matches(msg, r.keys.Enter):
		entry := homeMenu[clampIndex(r.homeIndex, len(homeMenu))]
		if entry.quit {
			return r, r.quit()
		}
		r.open(entry.screen)
	case key.Matches(msg, r.keys.Quit):
		return r, r.quit()
	}
	return r, nil
}

func (r *Root) handleCatalogKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	rows := r.catalog.Rows
	switch {
	case key.Matches(msg, r.keys.Up):
		r.catalogIndex = clampIndex(r.catalogIndex-1, len(rows))
	case key.Matches(msg, r.keys.Down):
		r.catalogIndex = clampIndex(r.catalogIndex+1, len(rows))
	case key.Matches(msg, r.keys.Left):
		r.cycleFilter(-1)
	case key.Matches(msg, r.keys.Right):
		r.cycleFilter(1)
	case key.Matches(msg, r.keys.Enter):
		if len(rows) == 0 {
			return r, nil
		}
		id := rows[clampIndex(r.catalogIndex, len(rows))].ID
		r.screen = ScreenDetail
		r.mdFor = ""
		r.dispatchController(func(c Controller) { c.OnOpenObject(id) })
	case key.Matches(msg, r.keys.Favorite), msg.String() == "s":
		if len(rows) == 0 {
			return r, nil
		}
		id := rows[clampIndex(r.catalogIndex, len(rows))].ID
		r.dispatchController(func(c Controller) { c.OnToggleFavorite(id) })
	case key.Matches(msg, r.keys.Back):
		r.open(ScreenHome)
	case msg.String() == "q":
		r.open(ScreenHome)
	}
	return r, nil
}

func (r *Root) cycleFilter(delta int) {
	filters := r.catalog.Filters
	if len(filters) == 0 {
		return
	}
	idx := 0
	for i, f := range filters {
		if f == r.catalog.Filter {
			idx = i
		}
	}
	next := filters[wrapIndex(idx+delta, len(filters))]
	r.catalog.Filter = next
	r.catalogIndex = 0
	r.dispatchController(func(c Controller) { c.OnSelectFilter(next) })
}

func (r *Root) handleDetailKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	id := r.detail.ID
	s := msg.String()
	switch {
	case key.Matches(msg, r.keys.Back):
		r.open(ScreenCatalog)
	case key.Matches(msg, r.keys.Observed):
		r.detail.Draft.Observed = !r.detail.Draft.Observed
	case key.Matches(msg, r.keys.Rating):
		n, err := strconv.Atoi(s)
		if err == nil {
			r.detail.Draft.Rating = n
		}
	case key.Matches(msg, r.keys.Note):
		r.editingObs = true
		r.obsNote.SetValue(r.detail.Draft.Note)
		r.obsNote.CursorEnd()
		return r, r.obsNote.Focus()
	case key.Matches(msg, r.keys.Save):
		if id == "" {
			return r, nil
		}
		draft := r.detail.Draft
		r.dispatchController(func(c Controller) { c.OnSaveObservation(id, draft) })
	case key.Matches(msg, r.keys.Favorite):
		if id == "" {
			return r, nil
		}
		r.detail.Favorite = !r.detail.Favorite
		r.dispatchController(func(c Controller) { c.OnToggleFavorite(id) })
	case key.Matches(msg, r.keys.Answer):
		q := r.detail.Quiz
		if q == nil || id == "" {
			return r, nil
		}
		choice := strings.ToUpper(s)
		if !hasChoice(q.Choices, choice) {
			return r, nil
		}
		q.Selected = choice
		r.dispatchController(func(c Controller) { c.OnAnswerQuiz(id, choice) })
	case s == "q":
		r.open(ScreenCatalog)
	}
	return r, nil
}

func hasChoice(choices []QuizChoice, k string) bool {
	for _, c := range choices {
		if c.Key == k {
			return true
		}
	}
	return false
}

func (r *Root) handleObsNoteKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		r.editingObs = false
		r.obsNote.Blur()
		return r, nil
	case "enter":
		r.detail.Draft.Note = strings.TrimSpace(r.obsNote.Value())
		r.editingObs = false
		r.obsNote.Blur()
		return r, nil
	}
	return r.updateInputs(msg)
}

func (r *Root) visibleAchievements() []AchievementRow {
	if !r.unlockedOnly {
		return r.achievements.Rows
	}
	out := make([]AchievementRow, 0, len(r.achievements.Rows))
	for _, row := range r.achievements.Rows {
		if row.Unlocked {
			out = append(out, row)
		}
	}
	return out
}

func (r *Root) handleAchievementsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, r.keys.Up):
		r.achIndex = clampIndex(r.achIndex-1, len(r.visibleAchievements()))
	case key.Matches(msg, r.keys.Down):
		r.achIndex = clampIndex(r.achIndex+1, len(r.visibleAchievements()))
	case key.Matches(msg, r.keys.UnlockedOnly):
		r.unlockedOnly = !r.unlockedOnly
		r.achIndex = 0
	case key.Matches(msg, r.keys.Reset):
		r.confirm = confirmReset
		r.confirmIndex = 0
	case key.Matches(msg, r.keys.Back), msg.String() == "q":
		r.open(ScreenHome)
	}
	return r, nil
}

func (r *Root) selectedNote() (NoteRow, bool) {
	if len(r.notes) == 0 {
		return NoteRow{}, false
	}
	return r.notes[clampIndex(r.notesIndex, len(r.notes))], true
}

func (r *Root) handleNotesKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, r.keys.Up):
		r.notesIndex = clampIndex(r.notesIndex-1, len(r.notes))
	case key.Matches(msg, r.keys.Down):
		r.notesIndex = clampIndex(r.notesIndex+1, len(r.notes))
	case key.Matches(msg, r.keys.NewNote):
		return r, r.startNoteEditor(NoteRow{})
	case key.Matches(msg, r.keys.EditNote):
		if n, ok := r.selectedNote(); ok {
			return r, r.startNoteEditor(n)
		}
	case key.Matches(msg, r.keys.DeleteNote):
		if _, ok := r.selectedNote(); ok {
			r.confirm = confirmDeleteNote
			r.confirmIndex = 0
		}
	case key.Matches(msg, r.keys.RemovePhoto):
		if n, ok := r.selectedNote(); ok && n.ImageURI != "" {
			id := n.ID
			r.dispatchController(func(c Controller) { c.OnRemoveNotePhoto(id) })
		}
	case key.Matches(msg, r.keys.Back), msg.String() == "q":
		r.open(ScreenHome)
	}
	return r, nil
}

func (r *Root) startNoteEditor(n NoteRow) tea.Cmd {
	r.editing = true
	r.editNoteID = n.ID
	r.editField = 0
	r.noteText.SetValue(n.Text)
	r.noteText.CursorEnd()
	r.notePhoto.SetValue("")
	r.notePhoto.Blur()
	return r.noteText.Focus()
}

func (r *Root) closeNoteEditor() {
	r.editing = false
	r.editNoteID = ""
	r.noteText.Blur()
	r.notePhoto.Blur()
}

func (r *Root) handleNoteEditorKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		r.closeNoteEditor()
		return r, nil
	case "tab", "shift+tab":
		if r.editField == 0 {
			r.editField = 1
			r.noteText.Blur()
			return r, r.notePhoto.Focus()
		}
		r.editField = 0
		r.notePhoto.Blur()
		return r, r.noteText.Focus()
	case "enter":
		text := strings.TrimSpace(r.noteText.Value())
		if text == "" {
			r.statusFlash = "Note text is empty"
			return r, nil
		}
		id := r.editNoteID
		photo := strings.TrimSpace(r.notePhoto.Value())
		r.closeNoteEditor()
		r.dispatchController(func(c Controller) { c.OnSaveNote(id, text, photo) })
		return r, nil
	}
	return r.updateInputs(msg)
}

func (r *Root) handleSettingsKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, r.keys.Up):
		r.settingsIndex = clampIndex(r.settingsIndex-1, 2)
	case key.Matches(msg, r.keys.Down):
		r.settingsIndex = clampIndex(r.settingsIndex+1, 2)
	case key.Matches(msg, r.keys.Music):
		r.dispatchController(func(c Controller) { c.OnToggleMusic() })
	case key.Matches(msg, r.keys.Vibration):
		r.dispatchController(func(c Controller) { c.OnToggleVibration() })
	case key.Matches(msg, r.keys.Enter):
		if r.settingsIndex == 0 {
			r.dispatchController(func(c Controller) { c.OnToggleMusic() })
		} else {
			r.dispatchController(func(c Controller) { c.OnToggleVibration() })
		}
	case key.Matches(msg, r.keys.Back), msg.String() == "q":
		r.open(ScreenHome)
	}
	return r, nil
}

func (r *Root) handleConfirmKey(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "left", "right", "tab", "h", "l":
		r.confirmIndex = 1 - r.confirmIndex
		return r, nil
	case "y":
		r.acceptConfirm()
	case "enter":
		if r.confirmIndex == 1 {
			r.acceptConfirm()
		} else {
			r.confirm = ""
		}
	case "n", "esc", "q":
		r.confirm = ""
	}
	return r, nil
}

func (r *Root) acceptConfirm() {
	kind := r.confirm
	r.confirm = ""
	switch kind {
	case confirmReset:
		r.dispatchController(func(c Controller) { c.OnResetAchievements() })
	case confirmDeleteNote:
		if n, ok := r.selectedNote(); ok {
			id := n.ID
			r.dispatchController(func(c Controller) { c.OnDeleteNote(id) })
		}
	}
}
