package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/moisesuailab/finance-app/internal/importer"
)

func newImportCommand() *cobra.Command {
	var (
		accountID, categoryID int64
		format                string
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import bank statements as pending transactions",
		Long: `Import parses a statement CSV and records each row as a pending
transaction. With no file argument it ingests every CSV waiting in the
data directory's import/ folder and moves each to import/processed/.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			im := importer.New(a.ledger, a.log)

			if len(args) == 1 {
				created, err := im.ImportFile(cmd.Context(), args[0], format, accountID, categoryID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %d pending transactions from %s\n",
					created, filepath.Base(args[0]))
				return nil
			}

			files, err := importer.Scan(a.dataDir)
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No statements waiting in import/")
				return nil
			}

			total := 0
			for _, file := range files {
				created, err := im.ImportFile(cmd.Context(), file, format, accountID, categoryID)
				if err != nil {
					return fmt.Errorf("%s: %w", filepath.Base(file), err)
				}
				if err := importer.MarkProcessed(a.dataDir, filepath.Base(file)); err != nil {
					return err
				}
				total += created
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d pending transactions from %d statements\n",
				total, len(files))
			return nil
		},
	}

	cmd.Flags().Int64Var(&accountID, "account", 0, "account to import into")
	cmd.Flags().Int64Var(&categoryID, "category", 0, "category for imported rows")
	cmd.Flags().StringVar(&format, "format", "card", "statement format")

	return cmd
}
