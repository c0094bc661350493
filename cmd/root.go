// Package cmd implements the tally CLI commands.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"tally/internal/app"
	"tally/internal/config"
	"tally/internal/store"
)

var (
	flagDataDir string
	flagQuiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "tally",
	Short: "Personal expense tracker",
	Long:  "Track expenses, budgets, and monthly spending from the terminal.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagDataDir, "data-dir", "d", "", "Data directory (default XDG data dir)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress log output")
}

// openApp is the shared bootstrap used by all commands: load config, open the
// durable store with degrade-to-memory wrapping, restore the session.
func openApp() (*app.App, config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cfg, err
	}
	if flagDataDir != "" {
		cfg.General.DataDir = flagDataDir
	}

	level := cfg.SlogLevel()
	if flagQuiet {
		level = slog.LevelError
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	var primary store.Store
	if err := os.MkdirAll(cfg.General.DataDir, 0o755); err != nil {
		log.Warn("cannot create data dir, starting in-memory", "dir", cfg.General.DataDir, "error", err)
		primary = store.NewMemory(store.DefaultCap)
	} else {
		db, err := store.Open(cfg.DBPath(), store.DefaultCap)
		if err != nil {
			log.Warn("cannot open database, starting in-memory", "path", cfg.DBPath(), "error", err)
			primary = store.NewMemory(store.DefaultCap)
		} else {
			primary = db
		}
	}

	a, err := app.New(store.NewFallback(primary, store.DefaultCap, log), log)
	if err != nil {
		return nil, cfg, fmt.Errorf("starting tally: %w", err)
	}
	return a, cfg, nil
}

// whoLine describes the active identity for command output.
func whoLine(a *app.App) string {
	if ident, ok := a.Identity(); ok {
		return fmt.Sprintf("%s <%s>", ident.Profile.Name, ident.Profile.Email)
	}
	return "guest (not signed in)"
}
