package main

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"

	"stargazer/internal/catalog"
	"stargazer/internal/progress"
)

var (
	headingStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4D96FF"))
	unlockedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFE66D"))
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CAAC6"))
)

var catalogKind string

// catalogCmd lists catalog objects
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List the objects in the sky catalog",
	Long: `List stars, planets and constellations with your observation marks.

Use --kind to narrow the list: stars, planets, constellation or favourite.`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

func init() {
	catalogCmd.Flags().StringVar(&catalogKind, "kind", "all", "Filter: all, stars, planets, constellation, favourite")
	rootCmd.AddCommand(catalogCmd)
}

func runCatalog(cmd *cobra.Command, args []string) error {
	f, err := catalog.ParseFilter(catalogKind)
	if err != nil {
		return err
	}
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	rows, err := a.CatalogRows(ctx, f)
	if err != nil {
		return fmt.Errorf("list catalog: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		lipgloss.Fprintln(out, mutedStyle.Render("No objects match "+string(f)+"."))
		return nil
	}
	lipgloss.Fprintln(out, headingStyle.Render(fmt.Sprintf("%-14s %-22s %-14s %-9s %-6s %s", "ID", "NAME", "KIND", "OBSERVED", "RATING", "FAV")))
	for _, r := range rows {
		fav := ""
		if r.Favorite {
			fav = "*"
		}
		lipgloss.Fprintf(out, "%-14s %-22s %-14s %-9s %-6s %s\n",
			r.Object.ID, r.Object.Name, r.Object.Kind,
			yesNo(r.Observation.Observed), ratingText(r.Observation.Rating), fav)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func ratingText(n int) string {
	if n == 0 {
		return "-"
	}
	return strings.Repeat("*", min(n, progress.MaxRating))
}
