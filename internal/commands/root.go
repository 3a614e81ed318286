package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moisesuailab/finance-app/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands
// registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "finance",
		Short:   "Local-first personal finance ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("data", ".", "data directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newInitCommand(),
		newAccountCommand(),
		newTxCommand(),
		newTransferCommand(),
		newCategoryCommand(),
		newBudgetCommand(),
		newMaterializeCommand(),
		newImportCommand(),
		newExportCommand(),
	)

	return rootCmd
}
