package main

import (
	"fmt"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/pkg/board"
	"github.com/aretw0/keep/pkg/core"
	"github.com/spf13/cobra"
)

var bothViews = []core.View{core.ViewActive, core.ViewArchived}

// locate finds a note in the first of views that holds it. The returned
// controller belongs to that view.
func (c *cli) locate(cmd *cobra.Command, app *keep.App, id string, views ...core.View) (*board.Controller, core.Note, error) {
	if len(views) == 0 {
		views = bothViews
	}
	for _, view := range views {
		ctrl, n, err := c.find(cmd, app, view, id)
		if err != nil {
			return nil, core.Note{}, err
		}
		if ctrl != nil {
			return ctrl, n, nil
		}
	}
	return nil, core.Note{}, fmt.Errorf("note %s: %w", id, core.ErrNotFound)
}

// find loads one view and looks id up in it. A nil controller means the
// note is not in that view.
func (c *cli) find(cmd *cobra.Command, app *keep.App, view core.View, id string) (*board.Controller, core.Note, error) {
	ctrl, err := app.Board(view, board.WithNotifier(c.notifier()), board.WithLogger(c.logger))
	if err != nil {
		return nil, core.Note{}, err
	}
	if err := ctrl.Load(cmd.Context()); err != nil {
		return nil, core.Note{}, err
	}
	n, ok := ctrl.Find(id)
	if !ok {
		return nil, core.Note{}, nil
	}
	return ctrl, n, nil
}

// noteAction builds a command whose first argument is a note ID and runs fn
// on that note with the remaining arguments.
func noteAction(c *cli, use, short string, nargs int, views []core.View, fn func(*cobra.Command, *board.Controller, core.Note, []string) error) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(nargs),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.openSignedIn(cmd.Context())
			if err != nil {
				return err
			}
			defer app.Close()

			ctrl, n, err := c.locate(cmd, app, args[0], views...)
			if err != nil {
				return err
			}
			return fn(cmd, ctrl, n, args[1:])
		},
	}
}

func newPinCmd(c *cli) *cobra.Command {
	return noteAction(c, "pin ID", "Pin a note, or unpin it if already pinned", 1, bothViews,
		func(cmd *cobra.Command, ctrl *board.Controller, n core.Note, _ []string) error {
			if err := ctrl.TogglePin(cmd.Context(), n); err != nil {
				return err
			}
			state := "Pinned"
			if n.Pinned {
				state = "Unpinned"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", state, n.ID)
			return nil
		})
}

func newArchiveCmd(c *cli) *cobra.Command {
	return noteAction(c, "archive ID", "Move a note to the archive", 1, []core.View{core.ViewActive},
		func(cmd *cobra.Command, ctrl *board.Controller, n core.Note, _ []string) error {
			return ctrl.ToggleArchive(cmd.Context(), n)
		})
}

func newUnarchiveCmd(c *cli) *cobra.Command {
	return noteAction(c, "unarchive ID", "Restore a note from the archive", 1, []core.View{core.ViewArchived},
		func(cmd *cobra.Command, ctrl *board.Controller, n core.Note, _ []string) error {
			return ctrl.ToggleArchive(cmd.Context(), n)
		})
}

func newColorCmd(c *cli) *cobra.Command {
	return noteAction(c, "color ID NAME", "Change the color of a note", 2, bothViews,
		func(cmd *cobra.Command, ctrl *board.Controller, n core.Note, args []string) error {
			name := args[0]
			if !core.IsPalette(name) {
				return fmt.Errorf("unknown color %q", name)
			}
			return ctrl.SetColor(cmd.Context(), n, name)
		})
}

func newDeleteCmd(c *cli) *cobra.Command {
	cmd := noteAction(c, "delete ID", "Delete a note permanently", 1, bothViews,
		func(cmd *cobra.Command, ctrl *board.Controller, n core.Note, _ []string) error {
			return ctrl.Delete(cmd.Context(), n)
		})
	cmd.Aliases = []string{"rm"}
	return cmd
}
