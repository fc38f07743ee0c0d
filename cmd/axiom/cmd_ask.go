package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askMember bool

// askCmd sends one message to the curator
var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Ask the Curator a single question",
	Long: `Sends one message to the Curator and prints the reply.
Without an API key the Curator answers with its unavailable line.

Example:
  axiom ask "What is the provenance of the Tizio?" --member`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer a.close()

		c := a.newCurator(askMember)
		reply := c.Send(cmd.Context(), strings.Join(args, " "))
		fmt.Fprintln(cmd.OutOrStdout(), reply)
		return nil
	},
}
