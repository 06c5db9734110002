package ui

// Controller receives user intents from the view. Calls run off the UI
// goroutine; the controller answers through the View setters.
type Controller interface {
	OnOpenScreen(screen Screen)
	OnSelectFilter(filter string)
	OnOpenObject(id string)
	OnToggleFavorite(id string)
	OnSaveObservation(id string, draft ObservationDraft)
	OnAnswerQuiz(id, choice string)
	OnResetAchievements()
	OnSaveNote(id, text, photoPath string)
	OnDeleteNote(id string)
	OnRemoveNotePhoto(id string)
	OnToggleMusic()
	OnToggleVibration()
	OnQuit()
}

type View interface {
	Run() error
	Stop()
	SetController(Controller)
	SetScreen(screen Screen)
	SetHome(state HomeState)
	SetCatalog(state CatalogState)
	SetDetail(state DetailState)
	SetAchievements(state AchievementsState)
	SetNotes(rows []NoteRow)
	SetSettings(state SettingsState)
	SetBusy(busy bool)
	FlashStatus(msg string)
}

type Screen int

const (
	ScreenHome Screen = iota
	ScreenCatalog
	ScreenDetail
	ScreenAchievements
	ScreenNotes
	ScreenSettings
	ScreenIntro
)

func (s Screen) String() string {
	switch s {
	case ScreenCatalog:
		return "catalog"
	case ScreenDetail:
		return "detail"
	case ScreenAchievements:
		return "achievements"
	case ScreenNotes:
		return "notes"
	case ScreenSettings:
		return "settings"
	case ScreenIntro:
		return "intro"
	default:
		return "home"
	}
}

type LayoutMode int

const (
	LayoutWide LayoutMode = iota
	LayoutMedium
	LayoutTooSmall
)

type HomeState struct {
	Viewed        int
	Observed      int
	Rated         int
	Quizzes       int
	Completion    int
	Unlocked      int
	Total         int
	CatalogSize   int
	FavoriteCount int
	NoteCount     int
	Tip           string
}

type CatalogState struct {
	Filter  string
	Filters []string
	Rows    []ObjectRow
}

type ObjectRow struct {
	ID       string
	Name     string
	Kind     string
	Favorite bool
	Observed bool
	Rating   int
}

type DetailState struct {
	ID       string
	Name     string
	Kind     string
	Markdown string
	Favorite bool
	// Saved is true once anything was stored for the object.
	Saved bool
	Draft ObservationDraft
	Quiz  *QuizState
}

type ObservationDraft struct {
	Observed bool
	Rating   int
	Note     string
}

type QuizState struct {
	Question string
	Choices  []QuizChoice
	Selected string
	Correct  bool
	Message  string
	Passed   bool
}

type QuizChoice struct {
	Key  string
	Text string
}

type AchievementsState struct {
	Rows     []AchievementRow
	Unlocked int
	Total    int
	// Highlight is scrolled to and Flash titles blink after an unlock.
	Highlight string
	Flash     []string
}

type AchievementRow struct {
	ID       string
	Title    string
	Caption  string
	Unlocked bool
}

type NoteRow struct {
	ID       string
	Text     string
	ImageURI string
	Updated  string
}

type SettingsState struct {
	MusicOn     bool
	VibrationOn bool
}
