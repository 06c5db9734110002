package main

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/spf13/cobra"
)

var notePhoto string

// notesCmd manages personal sky notes
var notesCmd = &cobra.Command{
	Use:   "notes",
	Short: "Manage your sky notes",
	Long: `List, add and delete the notes of "My Constellation".

Subcommands:
  list    - List all notes
  show    - Show one note and its photo
  add     - Add a note, optionally with --photo
  delete  - Delete a note and its photo`,
	RunE: runNotesList,
}

var notesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all notes",
	Args:  cobra.NoArgs,
	RunE:  runNotesList,
}

var notesShowCmd = &cobra.Command{
	Use:   "show <note-id>",
	Short: "Show one note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotesShow,
}

var notesAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Add a note",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runNotesAdd,
}

var notesDeleteCmd = &cobra.Command{
	Use:   "delete <note-id>",
	Short: "Delete a note",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotesDelete,
}

func init() {
	notesAddCmd.Flags().StringVar(&notePhoto, "photo", "", "Attach an image file")
	notesCmd.AddCommand(notesListCmd)
	notesCmd.AddCommand(notesShowCmd)
	notesCmd.AddCommand(notesAddCmd)
	notesCmd.AddCommand(notesDeleteCmd)
	rootCmd.AddCommand(notesCmd)
}

func runNotesList(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	list, err := a.Notes(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(list) == 0 {
		lipgloss.Fprintln(out, mutedStyle.Render("No notes yet."))
		return nil
	}
	for _, n := range list {
		lipgloss.Fprintf(out, "%s  %s  %s\n",
			headingStyle.Render(n.ID), mutedStyle.Render(n.UpdatedAt.Local().Format("2006-01-02 15:04")), n.Text)
		if n.ImageURI != "" {
			lipgloss.Fprintf(out, "    photo: %s\n", n.ImageURI)
		}
	}
	return nil
}

func runNotesShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	n, photo, err := a.Note(ctx, args[0])
	if err != nil {
		return fmt.Errorf("show note: %w", err)
	}
	out := cmd.OutOrStdout()
	lipgloss.Fprintln(out, headingStyle.Render(n.ID))
	lipgloss.Fprintln(out, mutedStyle.Render("created "+n.CreatedAt.Local().Format("2006-01-02 15:04")+
		", updated "+n.UpdatedAt.Local().Format("2006-01-02 15:04")))
	lipgloss.Fprintln(out, n.Text)
	if n.ImageURI != "" {
		lipgloss.Fprintf(out, "photo: %s (%d bytes)\n", n.ImageURI, len(photo))
	}
	return nil
}

func runNotesAdd(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	n, err := a.SaveNote(ctx, "", strings.Join(args, " "), notePhoto)
	if err != nil {
		return fmt.Errorf("add note: %w", err)
	}
	lipgloss.Fprintln(cmd.OutOrStdout(), "Added note "+n.ID)
	return nil
}

func runNotesDelete(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	ctx, cancel := commandContext(cmd)
	defer cancel()

	if err := a.DeleteNote(ctx, args[0]); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	lipgloss.Fprintln(cmd.OutOrStdout(), "Deleted note "+args[0])
	return nil
}
