package main

import (
	"fmt"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
)

var (
	observeObserved bool
	observeRating   int
	observeNote     string
)

// observeCmd records an observation from the command line
var observeCmd = &cobra.Command{
	Use:   "observe <object-id>",
	Short: "Save an observation for one object",
	Long: `Save an observation for one object and print any achievements it unlocks.

Only the flags you pass change; the rest of the stored record is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runObserve,
}

func init() {
	observeCmd.Flags().BoolVar(&observeObserved, "observed", false, "Mark the object as observed")
	observeCmd.Flags().IntVar(&observeRating, "rating", 0, "Rating from 0 to 5")
	observeCmd.Flags().StringVar(&observeNote, "note", "", "Note text")
	rootCmd.AddCommand(observeCmd)
}

func runObserve(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	id := args[0]
	obs, err := a.Observation(ctx, id)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("observed") {
		obs.Observed = observeObserved
	}
	if flags.Changed("rating") {
		obs.Rating = observeRating
	}
	if flags.Changed("note") {
		obs.Note = observeNote
	}
	out, err := a.SaveObservation(ctx, id, obs)
	if err != nil {
		return fmt.Errorf("save observation: %w", err)
	}
	w := cmd.OutOrStdout()
	lipgloss.Fprintf(w, "Saved %s (observed=%s rating=%s, completion %d%%)\n",
		id, yesNo(obs.Observed), ratingText(obs.Rating), out.Counters.Completion)
	printUnlocks(w, out.Unlocked)
	return nil
}
