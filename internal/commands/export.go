package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/moisesuailab/finance-app/internal/export"
	"github.com/moisesuailab/finance-app/internal/store"
)

func newExportCommand() *cobra.Command {
	var (
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export ledger data as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx := cmd.Context()
			transactions, err := a.store.ListTransactions(ctx, store.TransactionFilter{})
			if err != nil {
				return err
			}
			accounts, err := a.store.ListAccounts(ctx)
			if err != nil {
				return err
			}
			categories, err := a.store.ListCategories(ctx)
			if err != nil {
				return err
			}

			if out == "" {
				stamp := time.Now().Format("2006-01-02")
				out = filepath.Join(a.dataDir, "exports", fmt.Sprintf("finance-%s.%s", stamp, format))
			}
			if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
				return fmt.Errorf("creating export dir: %w", err)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating export file: %w", err)
			}
			defer f.Close()

			switch format {
			case "csv":
				rows := export.BuildRows(transactions, accounts, categories)
				if err := export.WriteCSV(f, rows); err != nil {
					return err
				}
			case "json":
				budgets, err := a.store.ListBudgets(ctx, "")
				if err != nil {
					return err
				}
				snap := export.Snapshot{
					ExportedAt:   time.Now().UTC(),
					Accounts:     accounts,
					Categories:   categories,
					Transactions: transactions,
					Budgets:      budgets,
				}
				if err := export.WriteJSON(f, snap); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown export format %q, want csv or json", format)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d transactions to %s\n", len(transactions), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "export format (csv|json)")
	cmd.Flags().StringVar(&out, "out", "", "output file (default exports/finance-<date>.<format>)")

	return cmd
}
