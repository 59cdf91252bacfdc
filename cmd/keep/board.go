package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/pkg/session"
	"github.com/aretw0/keep/pkg/tui"
	"github.com/aretw0/lifecycle"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

func newBoardCmd(c *cli) *cobra.Command {
	var (
		archived bool
		logFile  string
	)

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive board",
		Long: `Open the full-screen board: search, pinned and other notes, the
archive, and the note editor. Signing out in another terminal returns the
board to the login screen.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The alt screen owns the terminal, so logs go to a file or nowhere.
			var w io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
				if err != nil {
					return fmt.Errorf("failed to open log file: %w", err)
				}
				defer f.Close()
				w = f
			}
			logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: c.level}))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			app, err := c.open(ctx, keep.WithLogger(logger))
			if err != nil {
				return err
			}
			defer app.Close()

			var signedOut <-chan struct{}
			if path := app.Sessions.StorePath(); path != "" {
				if ch, err := watchSession(ctx, app.Sessions, path, logger); err != nil {
					logger.Warn("sign-out watch disabled", "error", err)
				} else {
					signedOut = ch
				}
			}

			model := tui.New(ctx, tui.Options{
				Sessions:  app.Sessions,
				Boards:    app.Board,
				SignedOut: signedOut,
				Logger:    logger,
				StartView: viewFor(archived),
			})
			_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			if err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&archived, "archived", false, "Start on the archive")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the board runs")
	return cmd
}

// watchSession relays removals of the session file. The in-memory session is
// torn down before the board hears about it.
func watchSession(ctx context.Context, sessions *session.Manager, path string, logger *slog.Logger) (<-chan struct{}, error) {
	removed, err := session.Watch(ctx, path, logger)
	if err != nil {
		return nil, err
	}
	out := make(chan struct{}, 1)
	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(out)
		for range removed {
			if _, ok := sessions.Current(); !ok {
				continue
			}
			logger.Info("signed out from another process")
			sessions.Teardown()
			select {
			case out <- struct{}{}:
			default:
			}
		}
		return nil
	})
	return out, nil
}
