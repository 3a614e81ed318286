package commands

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func newBudgetCommand() *cobra.Command {
	budgetCmd := &cobra.Command{
		Use:   "budget",
		Short: "Manage monthly budgets",
	}
	budgetCmd.AddCommand(
		newBudgetSetCommand(),
		newBudgetListCommand(),
	)
	return budgetCmd
}

func newBudgetSetCommand() *cobra.Command {
	var (
		categoryID    int64
		month, amount string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Set a category's budget for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			amt, err := decimal.NewFromString(amount)
			if err != nil {
				return fmt.Errorf("parsing amount %q: %w", amount, err)
			}
			if month == "" {
				month = time.Now().Format("2006-01")
			}

			b, err := a.ledger.SetBudget(cmd.Context(), categoryID, month, amt)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Budget for category %d in %s: %s%s\n",
				b.CategoryID, b.Month, a.cfg.Currency, b.Amount.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().Int64Var(&categoryID, "category", 0, "category id")
	cmd.Flags().StringVar(&month, "month", "", "month (YYYY-MM, default current)")
	cmd.Flags().StringVar(&amount, "amount", "", "budget amount")

	return cmd
}

func newBudgetListCommand() *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List budgets for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if month == "" {
				month = time.Now().Format("2006-01")
			}

			budgets, err := a.ledger.ListBudgets(cmd.Context(), month)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CATEGORY\tMONTH\tAMOUNT")
			for _, b := range budgets {
				fmt.Fprintf(w, "%d\t%s\t%s%s\n", b.CategoryID, b.Month, a.cfg.Currency, b.Amount.StringFixed(2))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&month, "month", "", "month (YYYY-MM, default current)")

	return cmd
}
