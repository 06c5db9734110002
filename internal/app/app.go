package app

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"

	"stargazer/internal/catalog"
	"stargazer/internal/favorites"
	"stargazer/internal/grading"
	"stargazer/internal/media"
	"stargazer/internal/notes"
	"stargazer/internal/progress"
	"stargazer/internal/settings"
	"stargazer/internal/state"
	"stargazer/internal/telemetry"
	"stargazer/internal/ui"
)

type App struct {
	cfg Config

	logger    *telemetry.Logger
	store     state.Store
	catalog   *catalog.Catalog
	grader    grading.Grader
	photos    media.Store
	tracker   *progress.Tracker
	favorites *favorites.Set
	settings  *settings.Manager
	notes     *notes.Service
	effects   *TerminalEffects

	view      ui.View
	sessionID string

	mu          sync.Mutex
	screen      ui.Screen
	filter      catalog.Filter
	current     string
	lastAnswers map[string]grading.Result
	now         func() time.Time
}

type Option func(*App)

// WithView replaces the terminal UI, mainly for tests.
func WithView(v ui.View) Option {
	return func(a *App) { a.view = v }
}

func WithEffects(e *TerminalEffects) Option {
	return func(a *App) { a.effects = e }
}

// New opens every collaborator in order and closes what was opened when a
// later step fails.
func New(cfg Config, opts ...Option) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, err
	}

	logger, err := telemetry.NewLogger(telemetry.Options{Path: cfg.LogPath, Level: cfg.LogLevel})
	if err != nil {
		return nil, err
	}

	store, err := state.NewByEngine(cfg.Storage.Engine, cfg.DataDir)
	if err != nil {
		_ = logger.Close()
		return nil, err
	}
	ctx := context.Background()
	if err := store.EnsureSchema(ctx); err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}

	cat, err := loadCatalog(cfg.CatalogPath)
	if err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}

	photos, err := media.New(ctx, cfg.mediaConfig())
	if err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, fmt.Errorf("open media store: %w", err)
	}

	policy, err := progress.ParsePolicy(cfg.policy())
	if err != nil {
		_ = store.Close()
		_ = logger.Close()
		return nil, err
	}

	a := &App{
		cfg:         cfg,
		logger:      logger,
		store:       store,
		catalog:     cat,
		grader:      grading.NewGrader(),
		photos:      photos,
		favorites:   favorites.New(store),
		notes:       notes.NewService(store, photos, logger.Logger),
		sessionID:   uuid.NewString(),
		screen:      ui.ScreenHome,
		filter:      catalog.FilterAll,
		lastAnswers: map[string]grading.Result{},
		now:         time.Now,
	}
	a.tracker = progress.NewTracker(store,
		progress.WithPolicy(policy),
		progress.WithLogger(logger.Logger),
		progress.WithQuizTotal(cat.QuizCount()),
	)
	for _, opt := range opts {
		opt(a)
	}
	if a.effects == nil {
		a.effects = NewTerminalEffects(os.Stderr, logger.Logger)
	}
	a.settings = settings.NewManager(store, a.effects)

	if err := a.favorites.Load(ctx); err != nil {
		logger.Warn("favorites.load_failed", "err", err)
	}
	if _, err := a.settings.Load(ctx); err != nil {
		logger.Warn("settings.load_failed", "err", err)
	}

	if a.view == nil {
		a.view = ui.New(ui.Options{
			ASCIIOnly:    cfg.UI.ASCIIOnly,
			Debug:        cfg.DebugLayout,
			StyleVariant: cfg.UI.StyleVariant,
			Intro:        !cfg.UI.SkipIntro,
			Logger:       logger.Logger,
		})
	}
	a.view.SetController(a)
	return a, nil
}

func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Builtin()
	}
	return catalog.LoadFile(path)
}

// Run starts the TUI and blocks until it exits.
func (a *App) Run(ctx context.Context) error {
	a.logger.Info("app.start",
		"session", a.sessionID,
		"store", a.cfg.Storage.Engine,
		"policy", a.tracker.Policy(),
		"media", a.cfg.Media.Backend,
		"objects", a.catalog.Len(),
	)
	a.refreshHome(ctx)
	a.view.SetSettings(a.settingsState())
	a.view.SetScreen(ui.ScreenHome)
	return a.view.Run()
}

func (a *App) Close() {
	_ = a.store.Close()
	_ = a.logger.Close()
}

func (a *App) Catalog() *catalog.Catalog { return a.catalog }

func (a *App) Logger() *telemetry.Logger { return a.logger }

// CatalogRows lists the objects passing f with favourite and observation
// marks.
func (a *App) CatalogRows(ctx context.Context, f catalog.Filter) ([]ObjectSummary, error) {
	objs := a.catalog.Filter(f, a.favorites.Has)
	ids := make([]string, len(objs))
	for i, o := range objs {
		ids[i] = o.ID
	}
	obs, err := a.tracker.Observations(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]ObjectSummary, len(objs))
	for i, o := range objs {
		out[i] = ObjectSummary{Object: o, Favorite: a.favorites.Has(o.ID), Observation: obs[o.ID]}
	}
	return out, nil
}

// OpenObject records a view of id and returns its detail.
func (a *App) OpenObject(ctx context.Context, id string) (ObjectView, error) {
	obj, ok := a.catalog.FindByID(id)
	if !ok {
		return ObjectView{}, fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	out, err := a.tracker.RecordView(ctx, id)
	if err != nil {
		return ObjectView{}, err
	}
	view, err := a.objectView(ctx, obj)
	if err != nil {
		return ObjectView{}, err
	}
	view.Unlocked = out.Unlocked
	return view, nil
}

func (a *App) objectView(ctx context.Context, obj catalog.Object) (ObjectView, error) {
	o, saved, err := a.tracker.Observation(ctx, obj.ID)
	if err != nil {
		return ObjectView{}, err
	}
	passed, err := a.tracker.QuizPassed(ctx)
	if err != nil {
		return ObjectView{}, err
	}
	view := ObjectView{
		Object:      obj,
		Favorite:    a.favorites.Has(obj.ID),
		Observation: o,
		Saved:       saved,
		QuizPassed:  passed[obj.ID],
	}
	a.mu.Lock()
	if r, ok := a.lastAnswers[obj.ID]; ok {
		view.LastAnswer = &r
	}
	a.mu.Unlock()
	return view, nil
}

// Observation returns the stored record for id without counting a view.
func (a *App) Observation(ctx context.Context, id string) (progress.Observation, error) {
	if !a.catalog.Has(id) {
		return progress.Observation{}, fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	o, _, err := a.tracker.Observation(ctx, id)
	return o, err
}

func (a *App) ToggleFavorite(ctx context.Context, id string) (bool, error) {
	if !a.catalog.Has(id) {
		return false, fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	return a.favorites.Toggle(ctx, id)
}

// SaveObservation stores obs and then refreshes completion from the stored
// records. Unlocks from both steps are returned together.
func (a *App) SaveObservation(ctx context.Context, id string, obs progress.Observation) (progress.Outcome, error) {
	if !a.catalog.Has(id) {
		return progress.Outcome{}, fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	saved, err := a.tracker.SaveObservation(ctx, id, obs)
	if err != nil {
		return progress.Outcome{}, err
	}
	pct, err := a.completion(ctx)
	if err != nil {
		return saved, err
	}
	done, err := a.tracker.SetCompletion(ctx, pct)
	if err != nil {
		return saved, err
	}
	return progress.Outcome{
		Counters: done.Counters,
		Unlocked: append(saved.Unlocked, done.Unlocked...),
	}, nil
}

// completion is the share of catalog objects marked observed, in percent.
func (a *App) completion(ctx context.Context) (int, error) {
	total := a.catalog.Len()
	if total == 0 {
		return 0, nil
	}
	recs, err := a.tracker.Observations(ctx, a.catalog.IDs())
	if err != nil {
		return 0, err
	}
	observed := 0
	for _, o := range recs {
		if o.Observed {
			observed++
		}
	}
	return observed * 100 / total, nil
}

// AnswerQuiz grades choice for the quiz of id and records a pass.
func (a *App) AnswerQuiz(ctx context.Context, id, choice string) (QuizOutcome, error) {
	obj, ok := a.catalog.FindByID(id)
	if !ok {
		return QuizOutcome{}, fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	res, err := a.grader.Grade(ctx, grading.Request{ObjectID: id, Quiz: obj.Quiz, Choice: choice})
	if err != nil {
		return QuizOutcome{}, err
	}
	out, err := a.tracker.RecordQuiz(ctx, id, res.Correct)
	if err != nil {
		return QuizOutcome{}, err
	}
	a.mu.Lock()
	a.lastAnswers[id] = res
	a.mu.Unlock()
	a.logger.Debug("quiz.answer", "object", id, "choice", res.Choice, "correct", res.Correct)
	return QuizOutcome{Result: res, Outcome: out}, nil
}

func (a *App) Progress(ctx context.Context) (Summary, error) {
	c, err := a.tracker.Counters(ctx)
	if err != nil {
		return Summary{}, err
	}
	set, err := a.tracker.Achievements(ctx)
	if err != nil {
		return Summary{}, err
	}
	list, err := a.notes.List(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Counters:     c,
		Achievements: set,
		CatalogSize:  a.catalog.Len(),
		QuizTotal:    a.catalog.QuizCount(),
		Favorites:    a.favorites.Len(),
		Notes:        len(list),
	}, nil
}

func (a *App) ResetAchievements(ctx context.Context) error {
	return a.tracker.ResetAchievements(ctx)
}

func (a *App) Notes(ctx context.Context) ([]notes.Note, error) {
	return a.notes.List(ctx)
}

// Note returns one note together with its photo bytes, if it has a photo.
func (a *App) Note(ctx context.Context, id string) (notes.Note, []byte, error) {
	n, err := a.notes.Get(ctx, id)
	if err != nil {
		return notes.Note{}, nil, err
	}
	if n.ImageURI == "" {
		return n, nil, nil
	}
	data, err := a.photos.Get(ctx, n.ImageURI)
	if err != nil {
		return n, nil, fmt.Errorf("read photo %s: %w", n.ImageURI, err)
	}
	return n, data, nil
}

// SaveNote creates a note when id is empty and updates it otherwise. A
// non-empty photoPath attaches that file.
func (a *App) SaveNote(ctx context.Context, id, text, photoPath string) (notes.Note, error) {
	var photo *notes.Photo
	if photoPath != "" {
		p, err := readPhoto(photoPath)
		if err != nil {
			return notes.Note{}, err
		}
		photo = &p
	}
	if id == "" {
		return a.notes.Create(ctx, text, photo)
	}
	return a.notes.Update(ctx, id, text, photo)
}

func (a *App) DeleteNote(ctx context.Context, id string) error {
	return a.notes.Delete(ctx, id)
}

func (a *App) RemoveNotePhoto(ctx context.Context, id string) (notes.Note, error) {
	return a.notes.RemovePhoto(ctx, id)
}

func (a *App) ToggleMusic(ctx context.Context) (settings.Settings, error) {
	return a.settings.ToggleMusic(ctx)
}

func (a *App) ToggleVibration(ctx context.Context) (settings.Settings, error) {
	return a.settings.ToggleVibration(ctx)
}

// TipOfTheDay rotates through the catalog's bonus tips by day of year.
func (a *App) TipOfTheDay() string {
	var tips []string
	for _, o := range a.catalog.All() {
		if o.Observe.BonusTip != "" {
			tips = append(tips, o.Name+": "+o.Observe.BonusTip)
		}
	}
	if len(tips) == 0 {
		return ""
	}
	return tips[a.now().YearDay()%len(tips)]
}
