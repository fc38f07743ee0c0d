package main

import (
	"fmt"
	"time"

	"axiom/internal/catalog"

	"github.com/spf13/cobra"
)

var ledgerLimit int

// ledgerCmd lists recorded manifests
var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "List settled acquisition manifests",
	Long: `Lists manifests recorded on the AXIOM ledger, newest first.
The default ledger lives in memory; set ledger.dsn or AXIOM_LEDGER to a file
to keep manifests between runs.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()

		manifests, err := a.ledger.List(cmd.Context(), ledgerLimit)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if len(manifests) == 0 {
			fmt.Fprintln(out, "The ledger is empty.")
			return nil
		}
		for _, m := range manifests {
			member := ""
			if m.Member {
				member = " (member)"
			}
			fmt.Fprintf(out, "%s  %s  %d item(s)  %s%s\n",
				m.SettledAt.Local().Format(time.RFC3339), m.ID, m.Count(), catalog.FormatPrice(m.Total), member)
		}
		return nil
	},
}
