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

func newInitCommand() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new finance data directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			return runInit(cmd, absDir, currency, newLogger(verbose))
		},
	}

	cmd.Flags().StringVar(&currency, "currency", "$", "currency symbol")

	return cmd
}

func runInit(cmd *cobra.Command, dir, currency string, log *slog.Logger) error {
	for _, d := range []string{"import", filepath.Join("import", "processed"), "exports"} {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfgPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	cfg := config.Default()
	cfg.Currency = currency
	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	// Opening the store creates the database and runs migrations.
	st, err := store.Open(filepath.Join(dir, cfg.Database))
	if err != nil {
		return err
	}
	defer st.Close()

	svc := ledger.NewService(st, log)
	if err := svc.SeedDefaultCategories(cmd.Context()); err != nil {
		return fmt.Errorf("seeding categories: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized finance ledger at %s\n", dir)
	return nil
}
