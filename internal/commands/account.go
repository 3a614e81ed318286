package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/moisesuailab/finance-app/internal/ledger"
)

func newAccountCommand() *cobra.Command {
	accountCmd := &cobra.Command{
		Use:   "account",
		Short: "Manage accounts",
	}
	accountCmd.AddCommand(
		newAccountAddCommand(),
		newAccountListCommand(),
		newAccountEditCommand(),
		newAccountArchiveCommand(),
		newAccountDeleteCommand(),
	)
	return accountCmd
}

func newAccountAddCommand() *cobra.Command {
	var (
		description, color, icon string
		initial                  string
		excludeFromTotal         bool
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			balance, err := decimal.NewFromString(initial)
			if err != nil {
				return fmt.Errorf("parsing initial balance %q: %w", initial, err)
			}

			account, err := a.ledger.CreateAccount(cmd.Context(), ledger.CreateAccountInput{
				Name:             args[0],
				Description:      description,
				Color:            color,
				Icon:             icon,
				InitialBalance:   balance,
				ExcludeFromTotal: excludeFromTotal,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created account %d: %s (balance %s%s)\n",
				account.ID, account.Name, a.cfg.Currency, account.CurrentBalance.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().StringVar(&initial, "initial", "0", "initial balance")
	cmd.Flags().StringVar(&description, "description", "", "account description")
	cmd.Flags().StringVar(&color, "color", "", "display color (#RRGGBB)")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon name")
	cmd.Flags().BoolVar(&excludeFromTotal, "reserve", false, "exclude from the available total")

	return cmd
}

func newAccountListCommand() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List accounts and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			accounts, err := a.ledger.ListAccounts(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tBALANCE\tFLAGS")
			for _, acct := range accounts {
				if acct.IsArchived && !all {
					continue
				}
				flags := ""
				if acct.ExcludeFromTotal {
					flags = "reserve"
				}
				if acct.IsArchived {
					if flags != "" {
						flags += ","
					}
					flags += "archived"
				}
				fmt.Fprintf(w, "%d\t%s\t%s%s\t%s\n",
					acct.ID, acct.Name, a.cfg.Currency, acct.CurrentBalance.StringFixed(2), flags)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			totals, err := a.ledger.AccountTotals(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nAvailable: %s%s  Reserved: %s%s\n",
				a.cfg.Currency, totals.Available.StringFixed(2),
				a.cfg.Currency, totals.Reserved.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "include archived accounts")

	return cmd
}

func newAccountEditCommand() *cobra.Command {
	var (
		name, description, color, icon, initial string
		reserve                                 bool
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an account",
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

			var patch ledger.AccountPatch
			if cmd.Flags().Changed("name") {
				patch.Name = &name
			}
			if cmd.Flags().Changed("description") {
				patch.Description = &description
			}
			if cmd.Flags().Changed("color") {
				patch.Color = &color
			}
			if cmd.Flags().Changed("icon") {
				patch.Icon = &icon
			}
			if cmd.Flags().Changed("reserve") {
				patch.ExcludeFromTotal = &reserve
			}
			if cmd.Flags().Changed("initial") {
				balance, err := decimal.NewFromString(initial)
				if err != nil {
					return fmt.Errorf("parsing initial balance %q: %w", initial, err)
				}
				patch.InitialBalance = &balance
			}

			return a.ledger.UpdateAccount(cmd.Context(), id, patch)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "account name")
	cmd.Flags().StringVar(&description, "description", "", "account description")
	cmd.Flags().StringVar(&color, "color", "", "display color (#RRGGBB)")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon name")
	cmd.Flags().StringVar(&initial, "initial", "", "reconciled initial balance")
	cmd.Flags().BoolVar(&reserve, "reserve", false, "exclude from the available total")

	return cmd
}

func newAccountArchiveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "archive <id>",
		Short: "Archive an account (balance must be zero)",
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

			return a.ledger.ArchiveAccount(cmd.Context(), id)
		},
	}
}

func newAccountDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account (zero balance, no transactions)",
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

			return a.ledger.DeleteAccount(cmd.Context(), id)
		},
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
