package main

import (
	"fmt"
	"io"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"stargazer/internal/progress"
)

// progressCmd prints counters and achievements
var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show counters and unlocked achievements",
	Args:  cobra.NoArgs,
	RunE:  runProgress,
}

// achievementsCmd groups achievement maintenance
var achievementsCmd = &cobra.Command{
	Use:   "achievements",
	Short: "Manage achievements",
	Long: `Manage the achievement ledger.

Subcommands:
  reset  - Clear every unlocked achievement (counters stay)`,
	RunE: runProgress,
}

var achievementsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear every unlocked achievement",
	Args:  cobra.NoArgs,
	RunE:  runAchievementsReset,
}

func init() {
	achievementsCmd.AddCommand(achievementsResetCmd)
	rootCmd.AddCommand(progressCmd)
	rootCmd.AddCommand(achievementsCmd)
}

func runProgress(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	s, err := a.Progress(ctx)
	if err != nil {
		return fmt.Errorf("read progress: %w", err)
	}
	out := cmd.OutOrStdout()
	c := s.Counters
	lipgloss.Fprintln(out, headingStyle.Render("Progress"))
	lipgloss.Fprintf(out, "  Viewed:      %d\n", c.Viewed)
	lipgloss.Fprintf(out, "  Observed:    %d of %d\n", c.Observed, s.CatalogSize)
	lipgloss.Fprintf(out, "  Rated:       %d\n", c.Rated)
	lipgloss.Fprintf(out, "  Quizzes:     %d of %d\n", c.Quizzes, s.QuizTotal)
	lipgloss.Fprintf(out, "  Completion:  %d%%\n", c.Completion)
	lipgloss.Fprintf(out, "  Favourites:  %d   Notes: %d\n\n", s.Favorites, s.Notes)
	lipgloss.Fprintln(out, headingStyle.Render(fmt.Sprintf("Unlocked %d of %d", s.Achievements.Len(), len(progress.Achievements))))
	for _, ach := range progress.Achievements {
		if s.Achievements.Has(ach.ID) {
			lipgloss.Fprintf(out, "  [x] %s\n", unlockedStyle.Render(ach.Title))
		} else {
			lipgloss.Fprintf(out, "  [ ] %s\n", mutedStyle.Render(ach.Title))
		}
	}
	return nil
}

func runAchievementsReset(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := a.ResetAchievements(ctx); err != nil {
		return fmt.Errorf("reset achievements: %w", err)
	}
	lipgloss.Fprintln(cmd.OutOrStdout(), "Achievements cleared.")
	return nil
}

func printUnlocks(out io.Writer, ids []progress.AchievementID) {
	if len(ids) == 0 {
		return
	}
	titles := make([]string, len(ids))
	for i, id := range ids {
		titles[i] = unlockedStyle.Render(id.Title())
	}
	lipgloss.Fprintln(out, "Unlocked: "+strings.Join(titles, ", "))
}
