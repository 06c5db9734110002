package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
)

type mockController struct {
	mu         sync.Mutex
	opened     []Screen
	filters    []string
	objects    []string
	favorites  []string
	saved      map[string]ObservationDraft
	answers    []string
	resets     int
	notes      []string
	deleted    []string
	photoDrops []string
	music      int
	vibration  int
	quits      int
}

func newMockController() *mockController {
	return &mockController{saved: map[string]ObservationDraft{}}
}

func (m *mockController) lock() func() {
	m.mu.Lock()
	return m.mu.Unlock
}

func (m *mockController) OnOpenScreen(s Screen)     { defer m.lock()(); m.opened = append(m.opened, s) }
func (m *mockController) OnSelectFilter(f string)   { defer m.lock()(); m.filters = append(m.filters, f) }
func (m *mockController) OnOpenObject(id string)    { defer m.lock()(); m.objects = append(m.objects, id) }
func (m *mockController) OnToggleFavorite(id string) { defer m.lock()(); m.favorites = append(m.favorites, id) }
func (m *mockController) OnSaveObservation(id string, d ObservationDraft) {
	defer m.lock()()
	m.saved[id] = d
}
func (m *mockController) OnAnswerQuiz(id, choice string) {
	defer m.lock()()
	m.answers = append(m.answers, id+":"+choice)
}
func (m *mockController) OnResetAchievements() { defer m.lock()(); m.resets++ }
func (m *mockController) OnSaveNote(id, text, photo string) {
	defer m.lock()()
	m.notes = append(m.notes, id+"|"+text+"|"+photo)
}
func (m *mockController) OnDeleteNote(id string)      { defer m.lock()(); m.deleted = append(m.deleted, id) }
func (m *mockController) OnRemoveNotePhoto(id string) { defer m.lock()(); m.photoDrops = append(m.photoDrops, id) }
func (m *mockController) OnToggleMusic()              { defer m.lock()(); m.music++ }
func (m *mockController) OnToggleVibration()          { defer m.lock()(); m.vibration++ }
func (m *mockController) OnQuit()                     { defer m.lock()(); m.quits++ }

// waitFor polls cond under the mock's lock; controller calls run on their own
// goroutines.
func waitFor(t *testing.T, m *mockController, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(500 * time.Millisecond)
	for time.Now().Before(deadline) {
		m.mu.Lock()
		ok := cond()
		m.mu.Unlock()
		if ok {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func press(v *Root, code rune, mod tea.KeyMod, text string) {
	_, _ = v.Update(tea.KeyPressMsg{Code: code, Mod: mod, Text: text})
}

func typeText(v *Root, s string) {
	for _, ch := range s {
		press(v, ch, 0, string(ch))
	}
}

func newTestRoot() (*Root, *mockController) {
	v := New(Options{ASCIIOnly: true})
	ctrl := newMockController()
	v.SetController(ctrl)
	return v, ctrl
}

func sampleAchievements() AchievementsState {
	return AchievementsState{
		Rows: []AchievementRow{
			{ID: "full_moon", Title: "Full Moon", Caption: "Save your first observation", Unlocked: true},
			{ID: "first_read", Title: "First Read", Caption: "Read your first object", Unlocked: true},
			{ID: "shooting_star", Title: "Shooting Star", Caption: "View 5 objects"},
		},
		Unlocked: 2,
		Total:    9,
	}
}

func TestViewImplementsInterfaceCompileTime(t *testing.T) {
	var _ View = New(Options{})
}

func TestHomeEnterOpensCatalog(t *testing.T) {
	v, ctrl := newTestRoot()

	press(v, tea.KeyEnter, 0, "")

	if v.screen != ScreenCatalog {
		t.Fatalf("expected catalog screen, got %v", v.screen)
	}
	waitFor(t, ctrl, "open screen", func() bool {
		return len(ctrl.opened) == 1 && ctrl.opened[0] == ScreenCatalog
	})
}

func TestIntroSlidesLeadToHome(t *testing.T) {
	v := New(Options{ASCIIOnly: true, Intro: true})
	ctrl := newMockController()
	v.SetController(ctrl)

	if v.screen != ScreenIntro {
		t.Fatalf("expected intro screen, got %v", v.screen)
	}
	if out := ansi.Strip(v.renderIntro()); !strings.Contains(out, "Welcome to the Silent Sky") {
		t.Fatalf("missing first slide:\n%s", out)
	}
	for i := 1; i < len(introSlides); i++ {
		press(v, tea.KeyEnter, 0, "")
		if v.screen != ScreenIntro || v.introIndex != i {
			t.Fatalf("expected slide %d, got %v/%d", i, v.screen, v.introIndex)
		}
	}
	if out := ansi.Strip(v.renderIntro()); !strings.Contains(out, "Earn Achievements") {
		t.Fatalf("missing last slide:\n%s", out)
	}
	press(v, tea.KeyEnter, 0, "")
	if v.screen != ScreenHome {
		t.Fatalf("expected home after the last slide, got %v", v.screen)
	}
	waitFor(t, ctrl, "open home", func() bool {
		return len(ctrl.opened) == 1 && ctrl.opened[0] == ScreenHome
	})
}

func TestIntroEscSkipsToHome(t *testing.T) {
	v := New(Options{Intro: true})
	press(v, tea.KeyEsc, 0, "")
	if v.screen != ScreenHome {
		t.Fatalf("expected esc to skip the intro, got %v", v.screen)
	}
}

func TestHomeMenuWrapsAndQuits(t *testing.T) {
	v, ctrl := newTestRoot()

	press(v, tea.KeyUp, 0, "")
	if homeMenu[v.homeIndex].label != "Quit" {
		t.Fatalf("expected wrap to Quit, got %q", homeMenu[v.homeIndex].label)
	}
	press(v, tea.KeyEnter, 0, "")
	waitFor(t, ctrl, "quit", func() bool { return ctrl.quits == 1 })
}

func TestCtrlCQuitsFromAnyScreen(t *testing.T) {
	v, ctrl := newTestRoot()
	v.SetScreen(ScreenDetail)

	press(v, 'c', tea.ModCtrl, "")

	waitFor(t, ctrl, "quit", func() bool { return ctrl.quits == 1 })
}

func TestCtrlCWithoutControllerReturnsQuit(t *testing.T) {
	v := New(Options{})
	_, cmd := v.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected tea.QuitMsg")
	}
}

func TestCatalogFilterCycles(t *testing.T) {
	v, ctrl := newTestRoot()
	v.SetScreen(ScreenCatalog)
	v.SetCatalog(CatalogState{
		Filter:  "All",
		Filters: []string{"All", "Favourite", "Stars", "Planets", "Constellation"},
	})

	press(v, tea.KeyRight, 0, "")
	press(v, tea.KeyLeft, 0, "")
	press(v, tea.KeyLeft, 0, "")

	if v.catalog.Filter != "Constellation" {
		t.Fatalf("expected wrap to Constellation, got %q", v.catalog.Filter)
	}
	waitFor(t, ctrl, "filters", func() bool { return len(ctrl.filters) == 3 })
}

func TestCatalogEnterOpensSelectedObject(t *testing.T) {
	v, ctrl := newTestRoot()
	v.SetScreen(ScreenCatalog)
	v.SetCatalog(CatalogState{Rows: []ObjectRow{
		{ID: "sirius", Name: "Sirius"},
		{ID: "vega", Name: "Vega"},
	}})

	press(v, tea.KeyDown, 0, "")
	press(v, tea.KeyDown, 0, "")
	press(v, tea.KeyEnter, 0, "")

	if v.screen != ScreenDetail {
		t.Fatalf("expected detail screen, got %v", v.screen)
	}
	waitFor(t, ctrl, "open object", func() bool {
		return len(ctrl.objects) == 1 && ctrl.objects[0] == "vega"
	})
}

func TestCatalogEnterOnEmptyListIsIgnored(t *testing.T) {
	v, ctrl := newTestRoot()
	v.SetScreen(ScreenCatalog)

	press(v, tea.KeyEnter, 0, "")

	if v.screen != ScreenCatalog {
		t.Fatalf("expected to stay on catalog")
	}
	time.Sleep(20 * time.Millisecond)
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if len(ctrl.objects) != 0 {
		t.Fatalf("unexpected open: %v", ctrl.objects)
	}
}

func TestDetailDraftKeysAndSave(t *testing.T) {
	v, ctrl := newTestRoot()
	v.SetScreen(ScreenDetail)
	v.SetDetail(DetailState{ID: "jupiter", Name: "Jupiter", Markdown: "# Jupiter"})

	press(v, 'o', 0, "o")
	press(v, '4', 0, "4")
	press(v, 'n', 0, "n")
	if !v.editingObs {
		t.Fatalf("expected note editor")
	}
	typeText(v, "bands")
	press(v, tea.KeyEnter, 0, "")
	press(v, 's', 0, "s")

	waitFor(t, ctrl, "save", func() bool {
		d, ok := ctrl.saved["jupiter"]
		return ok && d.Observed && d.Rating == 4 && d.Note == "bands"
	})
}

func TestDetailQuizAnswerDispatchesChoice(t *testing.T) {
	v, ctrl := newTestRoot()
	v.SetScreen(ScreenDetail)
	v.SetDetail(DetailState{
		ID: "orion",
		Quiz: &QuizState{
			Question: "How many belt stars?",
			Choices:  []QuizChoice{{Key: "A", Text: "3"}, {Key: "B", Text: "5"}},
		},
	})

	press(v, 'd', 0, "d")
	press(v, 'b', 0, "b")

	waitFor(t, ctrl, "answer", func() bool {
		return len(ctrl.answers) == 1 && ctrl.answers[0] == "orion:B"
	})
	if v.detail.Quiz.Selected != "B" {
		t.Fatalf("expected B selected, got %q", v.detail.Quiz.Selected)
	}
}

func TestResetOpensConfirmWithoutImmediateReset(t *testing.T) {
	v, ctrl := newTestRoot()
	v.SetScreen(ScreenAchievements)
	v.SetAchievements(sampleAchievements())

	press(v, 'r', 0, "r")

	if v.confirm != confirmReset {
		t.Fatalf("expected reset confirm to be open")
	}
	time.Sleep(20 * time.Millisecond)
	ctrl.mu.Lock()
	resets := ctrl.resets
	ctrl.mu.Unlock()
	if resets != 0 {
		t.Fatalf("expected no immediate reset call")
	}

	press(v, 'n', 0, "n")
	if v.confirm != "" {
		t.Fatalf("expected confirm to close on n")
	}

	press(v, 'r', 0, "r")
	press(v, 'y', 0, "y")
	waitFor(t, ctrl, "reset", func() bool { return ctrl.resets == 1 })
}

func TestConfirmEnterDefaultsToCancel(t *testing.T) {
	v, ctrl := newTestRoot()
	v.SetScreen(ScreenAchievements)

	press(v, 'r', 0, "r")
	press(v, tea.KeyEnter, 0, "")

	if v.confirm != "" {
		t.Fatalf("expected confirm to close")
	}
	time.Sleep(20 * time.Millisecond)
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	if ctrl.resets != 0 {
		t.Fatalf("enter on Cancel must not reset")
	}
}

func TestUnlockedOnlyFilter(t *testing.T) {
	v, _ := newTestRoot()
	v.SetScreen(ScreenAchievements)
	v.SetAchievements(sampleAchievements())

	if got := len(v.visibleAchievements()); got != 3 {
		t.Fatalf("expected 3 rows, got %d", got)
	}
	press(v, 'u', 0, "u")
	if got := len(v.visibleAchievements()); got != 2 {
		t.Fatalf("expected 2 unlocked rows, got %d", got)
	}
}

func TestSetAchievementsFlashHighlightsUnlock(t *testing.T) {
	v, _ := newTestRoot()
	v.SetScreen(ScreenAchievements)
	state := sampleAchievements()
	state.Rows[2].Unlocked = true
	state.Unlocked = 3
	state.Highlight = "shooting_star"
	state.Flash = []string{"Shooting Star"}

	v.SetAchievements(state)

	if v.achIndex != 2 {
		t.Fatalf("expected cursor on highlight, got %d", v.achIndex)
	}
	if !v.flashing("Shooting Star") {
		t.Fatalf("expected Shooting Star to flash")
	}
	if v.flashing("Full Moon") {
		t.Fatalf("Full Moon should not flash")
	}
	if cmd := v.flashIfNeeded(); cmd == nil {
		t.Fatalf("expected a flash tick")
	}
	for i := 0; i <= flashTicks; i++ {
		v.Update(flashMsg(time.Now()))
	}
	if v.flashing("Shooting Star") {
		t.Fatalf("expected flash to stop")
	}
	out := ansi.Strip(v.renderAchievements())
	if !strings.Contains(out, "Unlocked 3 of 9") {
		t.Fatalf("missing unlocked count:\n%s", out)
	}
}

func TestNoteEditorCreatesNote(t *testing.T) {
	v, ctrl := newTestRoot()
	v.SetScreen(ScreenNotes)

	press(v, 'a', 0, "a")
	if !v.editing || v.editNoteID != "" {
		t.Fatalf("expected new note editor")
	}
	typeText(v, "Saw Jupiter")
	press(v, tea.KeyTab, 0, "")
	typeText(v, "/tmp/j.png")
	press(v, tea.KeyEnter, 0, "")

	if v.editing {
		t.Fatalf("expected editor to close")
	}
	waitFor(t, ctrl, "save note", func() bool {
		return len(ctrl.notes) == 1 && ctrl.notes[0] == "|Saw Jupiter|/tmp/j.png"
	})
}

func TestNoteEditorRejectsEmptyText(t *testing.T) {
	v, _ := newTestRoot()
	v.SetScreen(ScreenNotes)

	press(v, 'a', 0, "a")
	press(v, tea.KeyEnter, 0, "")

	if !v.editing {
		t.Fatalf("expected editor to stay open")
	}
	if v.statusFlash == "" {
		t.Fatalf("expected a status message")
	}
}

func TestNotesDeleteAndPhotoRemoval(t *testing.T) {
	v, ctrl := newTestRoot()
	v.SetScreen(ScreenNotes)
	v.SetNotes([]NoteRow{
		{ID: "n1", Text: "first"},
		{ID: "n2", Text: "second", ImageURI: "file:///x.png"},
	})

	press(v, tea.KeyDown, 0, "")
	press(v, 'x', 0, "x")
	press(v, 'd', 0, "d")
	if v.confirm != confirmDeleteNote {
		t.Fatalf("expected delete confirm")
	}
	press(v, 'y', 0, "y")

	waitFor(t, ctrl, "delete", func() bool {
		return len(ctrl.deleted) == 1 && ctrl.deleted[0] == "n2" &&
			len(ctrl.photoDrops) == 1 && ctrl.photoDrops[0] == "n2"
	})
}

func TestSettingsToggles(t *testing.T) {
	v, ctrl := newTestRoot()
	v.SetScreen(ScreenSettings)

	press(v, 'm', 0, "m")
	press(v, tea.KeyDown, 0, "")
	press(v, tea.KeyEnter, 0, "")

	waitFor(t, ctrl, "toggles", func() bool { return ctrl.music == 1 && ctrl.vibration == 1 })
}

func TestEscReturnsHome(t *testing.T) {
	v, ctrl := newTestRoot()
	v.SetScreen(ScreenSettings)

	press(v, tea.KeyEsc, 0, "")

	if v.screen != ScreenHome {
		t.Fatalf("expected home, got %v", v.screen)
	}
	waitFor(t, ctrl, "open home", func() bool { return len(ctrl.opened) == 1 })
}

func TestTooSmallLayoutRendersNotice(t *testing.T) {
	v, _ := newTestRoot()
	v.Update(tea.WindowSizeMsg{Width: 40, Height: 10})

	if v.layout != LayoutTooSmall {
		t.Fatalf("expected too-small layout")
	}
	if out := ansi.Strip(v.renderTooSmall()); !strings.Contains(out, "too small") {
		t.Fatalf("missing notice:\n%s", out)
	}
	press(v, tea.KeyEnter, 0, "")
	if v.screen != ScreenHome {
		t.Fatalf("keys other than quit must be ignored")
	}
}

func TestRenderScreensDoNotPanic(t *testing.T) {
	v, _ := newTestRoot()
	v.SetHome(HomeState{Viewed: 3, Observed: 2, CatalogSize: 15, Completion: 13, Unlocked: 2, Total: 9, Tip: "Look up"})
	v.SetCatalog(CatalogState{Filter: "All", Filters: []string{"All"}, Rows: []ObjectRow{{ID: "vega", Name: "Vega", Kind: "star", Rating: 3}}})
	v.SetDetail(DetailState{ID: "vega", Name: "Vega", Markdown: "# Vega\n\nBright.", Quiz: &QuizState{Question: "?", Choices: []QuizChoice{{Key: "A", Text: "x"}}}})
	v.SetAchievements(sampleAchievements())
	v.SetNotes([]NoteRow{{ID: "n1", Text: "hello", Updated: "today"}})

	for _, size := range [][2]int{{120, 30}, {80, 20}} {
		v.Update(tea.WindowSizeMsg{Width: size[0], Height: size[1]})
		for _, s := range []Screen{ScreenIntro, ScreenHome, ScreenCatalog, ScreenDetail, ScreenAchievements, ScreenNotes, ScreenSettings} {
			v.SetScreen(s)
			_ = v.View()
		}
	}
	if v.statusFlash == "Recovered UI panic" {
		t.Fatalf("render panicked")
	}
	if out := ansi.Strip(v.renderHome()); !strings.Contains(out, "Unlocked 2 of 9") {
		t.Fatalf("home missing unlock summary:\n%s", out)
	}
}

func TestDrawPanelASCII(t *testing.T) {
	v := New(Options{ASCIIOnly: true})
	out := ansi.Strip(v.drawPanel("T", []string{"abc"}, 8, 3))
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "+ T ---+" || lines[1] != "|abc   |" {
		t.Fatalf("unexpected panel:\n%s", out)
	}
}

func TestComposeOverlayCenters(t *testing.T) {
	base := strings.Repeat("..........\n", 4) + ".........."
	out := composeOverlay(base, "ab", 10, 5)
	lines := strings.Split(out, "\n")
	if lines[2] != "....ab...." {
		t.Fatalf("unexpected overlay row %q", lines[2])
	}
}

func TestTrimForWidth(t *testing.T) {
	if got := trimForWidth("hello world", 5); got != "hell…" {
		t.Fatalf("got %q", got)
	}
	if got := trimForWidth("hi", 5); got != "hi" {
		t.Fatalf("got %q", got)
	}
}
