package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/moisesuailab/finance-app/internal/config"
	"github.com/moisesuailab/finance-app/internal/ledger"
	"github.com/moisesuailab/finance-app/internal/store"
)

// app bundles the opened configuration, store, and services for one command
// invocation.
type app struct {
	dataDir string
	cfg     *config.Config
	store   *store.Store
	ledger  *ledger.Service
	log     *slog.Logger
}

// openApp resolves the data directory from the command's flags, loads
// finance.yaml, and opens the database.
func openApp(cmd *cobra.Command) (*app, error) {
	dataDir, err := cmd.Flags().GetString("data")
	if err != nil {
		return nil, err
	}
	absDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("resolving data dir: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	log := newLogger(verbose)

	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		return nil, fmt.Errorf("loading %s (run `finance init` first?): %w", config.FileName, err)
	}

	st, err := store.Open(filepath.Join(absDir, cfg.Database))
	if err != nil {
		return nil, err
	}

	return &app{
		dataDir: absDir,
		cfg:     cfg,
		store:   st,
		ledger:  ledger.NewService(st, log),
		log:     log,
	}, nil
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("closing store", "error", err)
	}
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
