package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/moisesuailab/finance-app/internal/recurrence"
)

func newMaterializeCommand() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "materialize",
		Short: "Create overdue instances of recurring transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			m := recurrence.NewMaterializer(a.store, a.log)

			if watch {
				interval := a.cfg.MaterializeInterval()
				a.log.Info("watching recurring transactions", "interval", interval)
				recurrence.NewScheduler(m, interval, a.log).Run(cmd.Context())
				return nil
			}

			created, err := m.Run(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Materialized %d pending transactions\n", created)
			return nil
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "keep running and materialize on an interval")

	return cmd
}
