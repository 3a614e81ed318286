package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/moisesuailab/finance-app/internal/ledger"
	"github.com/moisesuailab/finance-app/internal/model"
)

func newTransferCommand() *cobra.Command {
	var (
		from, to     int64
		amount, date string
		status       string
		description  string
	)

	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Move money between two accounts",
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
			when, err := parseDate(date)
			if err != nil {
				return err
			}

			t, err := a.ledger.CreateTransaction(cmd.Context(), ledger.CreateTransactionInput{
				Type:          model.TypeTransfer,
				Status:        model.TransactionStatus(status),
				Amount:        amt,
				Description:   description,
				Date:          when,
				FromAccountID: from,
				ToAccountID:   to,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded transfer %d: %s%s from account %d to account %d\n",
				t.ID, a.cfg.Currency, t.Amount.StringFixed(2), t.FromAccountID, t.ToAccountID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&from, "from", 0, "source account id")
	cmd.Flags().Int64Var(&to, "to", 0, "destination account id")
	cmd.Flags().StringVar(&amount, "amount", "", "amount (always positive)")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringVar(&status, "status", "completed", "transaction status (pending|completed)")
	cmd.Flags().StringVar(&description, "description", "Transfer", "description")

	return cmd
}
