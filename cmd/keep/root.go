package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/keep"
	"github.com/aretw0/keep/pkg/board"
	"github.com/aretw0/keep/pkg/session"
	"github.com/spf13/cobra"
)

// cli carries what every subcommand shares: flags, streams and the
// logger installed by the root command.
type cli struct {
	verbose    bool
	configPath string

	level  *slog.LevelVar
	logger *slog.Logger
	stderr io.Writer
}

func newRootCmd() *cobra.Command {
	c := &cli{level: new(slog.LevelVar)}

	rootCmd := &cobra.Command{
		Use:   "keep",
		Short: "Keep is a terminal notes client",
		Long: `Keep is a notes client in the spirit of Google Keep.
Notes carry a title, a body, a color and labels; they can be pinned,
archived and searched, against a hosted backend or a local database.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			c.level.Set(slog.LevelInfo)
			if c.verbose {
				c.level.Set(slog.LevelDebug)
			}
			c.stderr = cmd.ErrOrStderr()
			c.logger = slog.New(slog.NewTextHandler(c.stderr, &slog.HandlerOptions{Level: c.level}))
			slog.SetDefault(c.logger)
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&c.configPath, "config", "", "Config file (default $KEEP_CONFIG or the user config dir)")

	rootCmd.AddCommand(
		newLoginCmd(c),
		newLogoutCmd(c),
		newListCmd(c),
		newNewCmd(c),
		newEditCmd(c),
		newPinCmd(c),
		newArchiveCmd(c),
		newUnarchiveCmd(c),
		newColorCmd(c),
		newDeleteCmd(c),
		newColorsCmd(c),
		newBoardCmd(c),
		newStatusCmd(c),
		newVersionCmd(c),
	)
	return rootCmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// open loads the configuration and wires the app. The stored session, if
// any, is restored before returning.
func (c *cli) open(ctx context.Context, opts ...keep.Option) (*keep.App, error) {
	path := c.configPath
	if path == "" {
		path = keep.ConfigPath()
	}
	cfg, err := keep.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if !c.verbose && cfg.LogLevel != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(strings.ToLower(cfg.LogLevel))); err != nil {
			c.logger.Warn("ignoring log_level", "value", cfg.LogLevel, "error", err)
		} else {
			c.level.Set(lvl)
		}
	}

	opts = append([]keep.Option{keep.WithLogger(c.logger)}, opts...)
	app, err := keep.Open(cfg, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", cfg.Backend, err)
	}
	if _, err := app.Sessions.Init(ctx); err != nil {
		switch {
		case errors.Is(err, session.ErrExpired):
			c.logger.Warn("stored session expired", "error", err)
		case session.IsNoSession(err):
		default:
			_ = app.Close()
			return nil, err
		}
	}
	return app, nil
}

// openSignedIn is open plus a session check.
func (c *cli) openSignedIn(ctx context.Context) (*keep.App, error) {
	app, err := c.open(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := app.Sessions.Require(); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("%w: run `keep login` first", err)
	}
	return app, nil
}

// notifier prints toasts on stderr, one per line.
func (c *cli) notifier() board.Notifier {
	return board.NotifierFunc(func(t board.Toast) {
		fmt.Fprintln(c.stderr, t.String())
	})
}
