package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"

	"stargazer/internal/catalog"
	"stargazer/internal/grading"
	"stargazer/internal/notes"
	"stargazer/internal/progress"
	"stargazer/internal/ui"
)

const controllerTimeout = 10 * time.Second

// op runs one controller action with the busy indicator on and reports
// failures in the status line.
func (a *App) op(name string, fn func(ctx context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), controllerTimeout)
	defer cancel()
	a.view.SetBusy(true)
	defer a.view.SetBusy(false)
	if err := fn(ctx); err != nil {
		a.logger.Error(name+"_failed", "err", err)
		a.view.FlashStatus(userMessage(err))
	}
}

func userMessage(err error) string {
	var se *progress.StorageError
	switch {
	case errors.As(err, &se):
		return "Could not save progress"
	case errors.Is(err, progress.ErrInvalidRating):
		return "Rating must be between 0 and 5"
	case errors.Is(err, notes.ErrEmptyText):
		return "Note text is empty"
	case errors.Is(err, grading.ErrEmptyChoice), errors.Is(err, grading.ErrUnknownChoice):
		return "Pick one of the listed answers"
	default:
		return trimMessage(err.Error())
	}
}

func trimMessage(s string) string {
	return ansi.Truncate(s, 80, "…")
}

func (a *App) OnOpenScreen(screen ui.Screen) {
	a.op("ui.open_screen", func(ctx context.Context) error {
		return a.showScreen(ctx, screen)
	})
}

func (a *App) showScreen(ctx context.Context, screen ui.Screen) error {
	switch screen {
	case ui.ScreenHome:
		a.refreshHome(ctx)
	case ui.ScreenCatalog:
		if err := a.refreshCatalog(ctx); err != nil {
			return err
		}
	case ui.ScreenDetail:
		a.mu.Lock()
		id := a.current
		a.mu.Unlock()
		if id == "" {
			return a.showScreen(ctx, ui.ScreenCatalog)
		}
		if err := a.refreshDetail(ctx, id); err != nil {
			return err
		}
	case ui.ScreenAchievements:
		if err := a.refreshAchievements(ctx, nil); err != nil {
			return err
		}
	case ui.ScreenNotes:
		if err := a.refreshNotes(ctx); err != nil {
			return err
		}
	case ui.ScreenSettings:
		a.view.SetSettings(a.settingsState())
	}
	a.mu.Lock()
	a.screen = screen
	a.mu.Unlock()
	a.view.SetScreen(screen)
	return nil
}

func (a *App) OnSelectFilter(raw string) {
	a.op("ui.select_filter", func(ctx context.Context) error {
		f, err := catalog.ParseFilter(raw)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.filter = f
		a.mu.Unlock()
		return a.refreshCatalog(ctx)
	})
}

func (a *App) OnOpenObject(id string) {
	a.op("ui.open_object", func(ctx context.Context) error {
		view, err := a.OpenObject(ctx, id)
		if err != nil {
			return err
		}
		a.mu.Lock()
		a.current = id
		a.screen = ui.ScreenDetail
		a.mu.Unlock()
		a.view.SetDetail(detailState(view))
		a.view.SetScreen(ui.ScreenDetail)
		return a.announce(ctx, view.Unlocked)
	})
}

func (a *App) OnToggleFavorite(id string) {
	a.op("ui.toggle_favorite", func(ctx context.Context) error {
		on, err := a.ToggleFavorite(ctx, id)
		if err != nil {
			return err
		}
		if err := a.refreshCatalog(ctx); err != nil {
			return err
		}
		a.mu.Lock()
		current := a.current
		a.mu.Unlock()
		if current == id {
			if err := a.refreshDetail(ctx, id); err != nil {
				return err
			}
		}
		if on {
			a.view.FlashStatus("Added to favourites")
		} else {
			a.view.FlashStatus("Removed from favourites")
		}
		return nil
	})
}

func (a *App) OnSaveObservation(id string, draft ui.ObservationDraft) {
	a.op("ui.save_observation", func(ctx context.Context) error {
		out, err := a.SaveObservation(ctx, id, progress.Observation{
			Observed: draft.Observed,
			Rating:   draft.Rating,
			Note:     strings.TrimSpace(draft.Note),
		})
		if err != nil {
			return err
		}
		if err := a.refreshDetail(ctx, id); err != nil {
			return err
		}
		a.view.FlashStatus("Observation saved")
		return a.announce(ctx, out.Unlocked)
	})
}

func (a *App) OnAnswerQuiz(id, choice string) {
	a.op("ui.answer_quiz", func(ctx context.Context) error {
		res, err := a.AnswerQuiz(ctx, id, choice)
		if err != nil {
			return err
		}
		if err := a.refreshDetail(ctx, id); err != nil {
			return err
		}
		a.view.FlashStatus(res.Result.Message)
		return a.announce(ctx, res.Outcome.Unlocked)
	})
}

func (a *App) OnResetAchievements() {
	a.op("ui.reset_achievements", func(ctx context.Context) error {
		if err := a.ResetAchievements(ctx); err != nil {
			return err
		}
		if err := a.refreshAchievements(ctx, nil); err != nil {
			return err
		}
		a.refreshHome(ctx)
		a.view.FlashStatus("Achievements reset")
		return nil
	})
}

func (a *App) OnSaveNote(id, text, photoPath string) {
	a.op("ui.save_note", func(ctx context.Context) error {
		if _, err := a.SaveNote(ctx, id, text, photoPath); err != nil {
			return err
		}
		a.view.FlashStatus("Note saved")
		return a.refreshNotes(ctx)
	})
}

func (a *App) OnDeleteNote(id string) {
	a.op("ui.delete_note", func(ctx context.Context) error {
		if err := a.DeleteNote(ctx, id); err != nil {
			return err
		}
		a.view.FlashStatus("Note deleted")
		return a.refreshNotes(ctx)
	})
}

func (a *App) OnRemoveNotePhoto(id string) {
	a.op("ui.remove_note_photo", func(ctx context.Context) error {
		if _, err := a.RemoveNotePhoto(ctx, id); err != nil {
			return err
		}
		return a.refreshNotes(ctx)
	})
}

func (a *App) OnToggleMusic() {
	a.op("ui.toggle_music", func(ctx context.Context) error {
		if _, err := a.ToggleMusic(ctx); err != nil {
			return err
		}
		a.view.SetSettings(a.settingsState())
		return nil
	})
}

func (a *App) OnToggleVibration() {
	a.op("ui.toggle_vibration", func(ctx context.Context) error {
		if _, err := a.ToggleVibration(ctx); err != nil {
			return err
		}
		a.view.SetSettings(a.settingsState())
		return nil
	})
}

func (a *App) OnQuit() {
	a.logger.Info("app.quit", "session", a.sessionID)
	a.view.Stop()
}

// announce moves to the achievements grid after an unlock, highlighting the
// first new achievement and flashing all of them.
func (a *App) announce(ctx context.Context, unlocked []progress.AchievementID) error {
	if len(unlocked) == 0 {
		a.refreshHome(ctx)
		return nil
	}
	if a.settings.Current().VibrationOn {
		a.effects.Vibrate()
	}
	if err := a.refreshAchievements(ctx, unlocked); err != nil {
		return err
	}
	a.refreshHome(ctx)
	a.mu.Lock()
	a.screen = ui.ScreenAchievements
	a.mu.Unlock()
	a.view.SetScreen(ui.ScreenAchievements)
	titles := make([]string, len(unlocked))
	for i, id := range unlocked {
		titles[i] = id.Title()
	}
	a.view.FlashStatus("Unlocked: " + strings.Join(titles, ", "))
	return nil
}

func (a *App) refreshHome(ctx context.Context) {
	s, err := a.Progress(ctx)
	if err != nil {
		a.logger.Warn("home.refresh_failed", "err", err)
		return
	}
	a.view.SetHome(homeState(s, a.TipOfTheDay()))
}

func (a *App) refreshCatalog(ctx context.Context) error {
	a.mu.Lock()
	f := a.filter
	a.mu.Unlock()
	rows, err := a.CatalogRows(ctx, f)
	if err != nil {
		return err
	}
	a.view.SetCatalog(catalogState(f, rows))
	return nil
}

func (a *App) refreshDetail(ctx context.Context, id string) error {
	obj, ok := a.catalog.FindByID(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownObject, id)
	}
	view, err := a.objectView(ctx, obj)
	if err != nil {
		return err
	}
	a.view.SetDetail(detailState(view))
	return nil
}

func (a *App) refreshAchievements(ctx context.Context, fresh []progress.AchievementID) error {
	set, err := a.tracker.Achievements(ctx)
	if err != nil {
		return err
	}
	a.view.SetAchievements(achievementsState(set, fresh))
	return nil
}

func (a *App) refreshNotes(ctx context.Context) error {
	list, err := a.notes.List(ctx)
	if err != nil {
		return err
	}
	a.view.SetNotes(noteRows(list))
	return nil
}

func (a *App) settingsState() ui.SettingsState {
	s := a.settings.Current()
	return ui.SettingsState{MusicOn: s.MusicOn, VibrationOn: s.VibrationOn}
}

func homeState(s Summary, tip string) ui.HomeState {
	return ui.HomeState{
		Viewed:        s.Counters.Viewed,
		Observed:      s.Counters.Observed,
		Rated:         s.Counters.Rated,
		Quizzes:       s.Counters.Quizzes,
		Completion:    s.Counters.Completion,
		Unlocked:      s.Achievements.Len(),
		Total:         len(progress.Achievements),
		CatalogSize:   s.CatalogSize,
		FavoriteCount: s.Favorites,
		NoteCount:     s.Notes,
		Tip:           tip,
	}
}

func catalogState(f catalog.Filter, rows []ObjectSummary) ui.CatalogState {
	filters := make([]string, len(catalog.Filters))
	for i, x := range catalog.Filters {
		filters[i] = string(x)
	}
	out := ui.CatalogState{Filter: string(f), Filters: filters, Rows: make([]ui.ObjectRow, len(rows))}
	for i, r := range rows {
		out.Rows[i] = ui.ObjectRow{
			ID:       r.Object.ID,
			Name:     r.Object.Name,
			Kind:     string(r.Object.Kind),
			Favorite: r.Favorite,
			Observed: r.Observation.Observed,
			Rating:   r.Observation.Rating,
		}
	}
	return out
}

func detailState(v ObjectView) ui.DetailState {
	d := ui.DetailState{
		ID:       v.Object.ID,
		Name:     v.Object.Name,
		Kind:     string(v.Object.Kind),
		Markdown: v.Object.Markdown(),
		Favorite: v.Favorite,
		Saved:    v.Saved,
		Draft: ui.ObservationDraft{
			Observed: v.Observation.Observed,
			Rating:   v.Observation.Rating,
			Note:     v.Observation.Note,
		},
	}
	if q := v.Object.Quiz; q != nil {
		qs := &ui.QuizState{Question: q.Question, Passed: v.QuizPassed}
		for _, k := range q.ChoiceKeys() {
			qs.Choices = append(qs.Choices, ui.QuizChoice{Key: k, Text: q.Choices[k]})
		}
		if r := v.LastAnswer; r != nil {
			qs.Selected = r.Choice
			qs.Correct = r.Correct
			qs.Message = r.Message
		}
		d.Quiz = qs
	}
	return d
}

func achievementsState(set progress.Set, fresh []progress.AchievementID) ui.AchievementsState {
	out := ui.AchievementsState{
		Rows:     make([]ui.AchievementRow, len(progress.Achievements)),
		Unlocked: set.Len(),
		Total:    len(progress.Achievements),
	}
	for i, ach := range progress.Achievements {
		out.Rows[i] = ui.AchievementRow{
			ID:       string(ach.ID),
			Title:    ach.Title,
			Caption:  ach.Caption,
			Unlocked: set.Has(ach.ID),
		}
	}
	if len(fresh) > 0 {
		out.Highlight = string(fresh[0])
		for _, id := range fresh {
			out.Flash = append(out.Flash, id.Title())
		}
	}
	return out
}

func noteRows(list []notes.Note) []ui.NoteRow {
	rows := make([]ui.NoteRow, len(list))
	for i, n := range list {
		rows[i] = ui.NoteRow{
			ID:       n.ID,
			Text:     n.Text,
			ImageURI: n.ImageURI,
			Updated:  n.UpdatedAt.Local().Format("2006-01-02 15:04"),
		}
	}
	return rows
}

var _ ui.Controller = (*App)(nil)
