package commands

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/moisesuailab/finance-app/internal/ledger"
	"github.com/moisesuailab/finance-app/internal/model"
	"github.com/moisesuailab/finance-app/internal/store"
)

func newTxCommand() *cobra.Command {
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Manage transactions",
	}
	txCmd.AddCommand(
		newTxAddCommand(),
		newTxListCommand(),
		newTxEditCommand(),
		newTxCompleteCommand(),
		newTxDeleteCommand(),
	)
	return txCmd
}

func newTxAddCommand() *cobra.Command {
	var (
		accountID, categoryID int64
		txType, status        string
		amount, date          string
		tags                  []string
		recur                 string
		occurrences           int
		installment           bool
	)

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Record an income or expense",
		Args:  cobra.ExactArgs(1),
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

			input := ledger.CreateTransactionInput{
				AccountID:   accountID,
				CategoryID:  categoryID,
				Type:        model.TransactionType(txType),
				Status:      model.TransactionStatus(status),
				Amount:      amt,
				Description: args[0],
				Date:        when,
				Tags:        tags,
			}
			if recur != "" {
				input.IsRecurring = true
				input.RecurrenceType = model.RecurrenceType(recur)
				input.RecurrenceOccurrences = occurrences
				input.IsInstallment = installment
			}

			t, err := a.ledger.CreateTransaction(cmd.Context(), input)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Recorded transaction %d: %s %s%s (%s)\n",
				t.ID, t.Description, a.cfg.Currency, t.Amount.StringFixed(2), t.Status)
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "account id")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "category id")
	cmd.Flags().StringVar(&txType, "type", "expense", "transaction type (income|expense)")
	cmd.Flags().StringVar(&status, "status", "completed", "transaction status (pending|completed)")
	cmd.Flags().StringVar(&amount, "amount", "", "amount (always positive)")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD, default today)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag, repeatable")
	cmd.Flags().StringVar(&recur, "recur", "", "recurrence (daily|weekly|monthly|yearly)")
	cmd.Flags().IntVar(&occurrences, "occurrences", 0, "number of occurrences for a recurring transaction")
	cmd.Flags().BoolVar(&installment, "installment", false, "number instances as an installment series")

	return cmd
}

func newTxListCommand() *cobra.Command {
	var (
		accountID, categoryID int64
		status                string
		from, to              string
		templates             bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			filter := store.TransactionFilter{
				AccountID:     accountID,
				CategoryID:    categoryID,
				Status:        model.TransactionStatus(status),
				TemplatesOnly: templates,
			}
			if from != "" {
				if filter.From, err = parseDate(from); err != nil {
					return err
				}
			}
			if to != "" {
				if filter.To, err = parseDate(to); err != nil {
					return err
				}
			}

			transactions, err := a.ledger.ListTransactions(cmd.Context(), filter)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTYPE\tDESCRIPTION\tAMOUNT\tSTATUS")
			for _, t := range transactions {
				amount := t.Amount.StringFixed(2)
				if t.Type == model.TypeExpense {
					amount = "-" + amount
				}
				desc := t.Description
				if len(t.Tags) > 0 {
					desc += " [" + strings.Join(t.Tags, ",") + "]"
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s%s\t%s\n",
					t.ID, t.Date.Format(model.DateFormat), t.Type, desc,
					a.cfg.Currency, amount, t.Status)
			}
			return w.Flush()
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "filter by account id")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "filter by category id")
	cmd.Flags().StringVar(&status, "status", "", "filter by status (pending|completed)")
	cmd.Flags().StringVar(&from, "from", "", "earliest date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "latest date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&templates, "templates", false, "show only recurring templates")

	return cmd
}

func newTxEditCommand() *cobra.Command {
	var (
		accountID, categoryID    int64
		fromAccountID, toAccount int64
		txType, status           string
		amount, description      string
		date                     string
		tags                     []string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			var patch ledger.TransactionPatch
			if cmd.Flags().Changed("account") {
				patch.AccountID = &accountID
			}
			if cmd.Flags().Changed("category") {
				patch.CategoryID = &categoryID
			}
			if cmd.Flags().Changed("from-account") {
				patch.FromAccountID = &fromAccountID
			}
			if cmd.Flags().Changed("to-account") {
				patch.ToAccountID = &toAccount
			}
			if cmd.Flags().Changed("type") {
				t := model.TransactionType(txType)
				patch.Type = &t
			}
			if cmd.Flags().Changed("status") {
				s := model.TransactionStatus(status)
				patch.Status = &s
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("tag") {
				patch.Tags = &tags
			}
			if cmd.Flags().Changed("amount") {
				amt, err := decimal.NewFromString(amount)
				if err != nil {
					return fmt.Errorf("parsing amount %q: %w", amount, err)
				}
				patch.Amount = &amt
			}
			if cmd.Flags().Changed("date") {
				when, err := parseDate(date)
				if err != nil {
					return err
				}
				patch.Date = &when
			}

			return a.ledger.UpdateTransaction(cmd.Context(), id, patch)
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "account id")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "category id")
	cmd.Flags().Int64Var(&fromAccountID, "from-account", 0, "transfer source account id")
	cmd.Flags().Int64Var(&toAccount, "to-account", 0, "transfer destination account id")
	cmd.Flags().StringVar(&txType, "type", "", "transaction type")
	cmd.Flags().StringVar(&status, "status", "", "transaction status")
	cmd.Flags().StringVar(&amount, "amount", "", "amount (always positive)")
	cmd.Flags().StringVar(&description, "description", "", "description")
	cmd.Flags().StringVar(&date, "date", "", "date (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&tags, "tag", nil, "tag, repeatable; replaces the existing set")

	return cmd
}

func newTxCompleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>",
		Short: "Mark a pending transaction completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			return a.ledger.CompleteTransaction(cmd.Context(), id)
		},
	}
}

func newTxDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction, reversing its balance effect",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			return a.ledger.DeleteTransaction(cmd.Context(), id)
		},
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(model.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
	}
	return t, nil
}
