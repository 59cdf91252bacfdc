package main

import (
	"fmt"

	"github.com/aretw0/keep/pkg/board"
	"github.com/aretw0/keep/pkg/core"
	"github.com/spf13/cobra"
)

// draftFlags are the editor fields settable from the command line.
type draftFlags struct {
	title        string
	body         string
	color        string
	labels       []string
	removeLabels []string
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "Note title")
	cmd.Flags().StringVarP(&f.body, "body", "b", "", "Note body")
	cmd.Flags().StringVarP(&f.color, "color", "c", "", "Palette color (see `keep colors`)")
	cmd.Flags().StringSliceVarP(&f.labels, "label", "l", nil, "Add a label (repeatable)")
	cmd.Flags().StringSliceVar(&f.removeLabels, "remove-label", nil, "Remove a label (repeatable)")
}

// apply copies the flags the user actually set onto the editor draft.
func (f *draftFlags) apply(cmd *cobra.Command, ed *board.Editor) error {
	if cmd.Flags().Changed("title") {
		ed.SetTitle(f.title)
	}
	if cmd.Flags().Changed("body") {
		ed.SetBody(f.body)
	}
	if cmd.Flags().Changed("color") {
		if !core.IsPalette(f.color) {
			return fmt.Errorf("unknown color %q", f.color)
		}
		ed.SetColor(f.color)
	}
	for _, l := range f.removeLabels {
		ed.RemoveLabel(core.NormalizeLabel(l))
	}
	for _, l := range f.labels {
		ed.AddLabel(l)
	}
	return nil
}

func newNewCmd(c *cli) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a note",
		Long: `Create a note from flags. A note with no title, body or labels is
not saved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.openSignedIn(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			ctrl, err := app.Board(core.ViewActive, board.WithNotifier(c.notifier()), board.WithLogger(c.logger))
			if err != nil {
				return err
			}

			var ed board.Editor
			ed.Open(nil)
			if err := flags.apply(cmd, &ed); err != nil {
				return err
			}
			return closeEditor(cmd, &ed, ctrl)
		},
	}
	flags.register(cmd)
	return cmd
}

func newEditCmd(c *cli) *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Edit a note",
		Long: `Open an editing session on the note, apply the given fields and
save on close. Fields without a flag keep their current value.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.openSignedIn(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			ctrl, n, err := c.locate(cmd, app, args[0])
			if err != nil {
				return err
			}

			var ed board.Editor
			ed.Open(&n)
			if err := flags.apply(cmd, &ed); err != nil {
				ed.Discard()
				return err
			}
			return closeEditor(cmd, &ed, ctrl)
		},
	}
	flags.register(cmd)
	return cmd
}

func closeEditor(cmd *cobra.Command, ed *board.Editor, s board.Saver) error {
	saved, err := ed.Close(cmd.Context(), s)
	if err != nil {
		return err
	}
	if !saved {
		fmt.Fprintln(cmd.ErrOrStderr(), "Nothing to save")
	}
	return nil
}
