package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/arvindnk/campusfound/internal/config"
)

// Version is the release version, overridable at build time with -ldflags.
var Version = "dev"

// cfg is loaded from the environment before flag registration so that
// flags registered on the commands default to, and override, its fields.
var cfg = config.Load()

var rootCmd = &cobra.Command{
	Use:     "campusfound",
	Short:   "Campusfound tracks found items across campus security points",
	Version: Version,
	// Do not print usage on errors returned by subcommands.
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupLogger(cfg.LogPath)
		if err != nil {
			return err
		}
		cobra.OnFinalize(cleanup)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfg.DBPath, "db", cfg.DBPath, "path to SQLite database file")
	rootCmd.PersistentFlags().StringVar(&cfg.LogPath, "log", cfg.LogPath, "log file path (default: stdout/stderr only)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(initCmd)
}

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+
// to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. INFO/WARN go to stdout, ERROR
// to stderr. If logPath is non-empty, all levels are also written to that
// file. Returns a cleanup function that closes the log file (if opened).
func setupLogger(logPath string) (func(), error) {
	stdout := io.Writer(os.Stdout)
	stderr := io.Writer(os.Stderr)
	cleanup := func() {}

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
		if err != nil {
			return nil, err
		}
		stdout = io.MultiWriter(os.Stdout, f)
		stderr = io.MultiWriter(os.Stderr, f)
		cleanup = func() { f.Close() }
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdout, nil),
		stderr: slog.NewTextHandler(stderr, nil),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}
