package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/moisesuailab/finance-app/internal/model"
)

func newCategoryCommand() *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Manage categories",
	}
	categoryCmd.AddCommand(
		newCategoryAddCommand(),
		newCategoryListCommand(),
		newCategoryDeleteCommand(),
	)
	return categoryCmd
}

func newCategoryAddCommand() *cobra.Command {
	var catType, color, icon string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			c, err := a.ledger.CreateCategory(cmd.Context(), model.Category{
				Name:  args[0],
				Type:  model.TransactionType(catType),
				Color: color,
				Icon:  icon,
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created category %d: %s (%s)\n", c.ID, c.Name, c.Type)
			return nil
		},
	}

	cmd.Flags().StringVar(&catType, "type", "expense", "category type (income|expense)")
	cmd.Flags().StringVar(&color, "color", "#9E9E9E", "display color (#RRGGBB)")
	cmd.Flags().StringVar(&icon, "icon", "", "display icon name")

	return cmd
}

func newCategoryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			categories, err := a.ledger.ListCategories(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tTYPE\tCOLOR")
			for _, c := range categories {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", c.ID, c.Name, c.Type, c.Color)
			}
			return w.Flush()
		},
	}
}

func newCategoryDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category no transaction references",
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

			return a.ledger.DeleteCategory(cmd.Context(), id)
		},
	}
}
