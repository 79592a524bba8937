package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// The `sel` command takes a literal subcommand token before the target:
// `list` dumps the system event log via ipmitool, `info` fetches the SEL
// overview record through the native IPMI client. The token is validated
// by the dispatcher, so an unknown one gets a usage reply rather than a
// cobra error.
var selCmd = &cobra.Command{
	Use:   "sel <list|info> <target>",
	Short: "Query the system event log of a server",
	Example: `  ipmiq sel list my-server
  ipmiq sel info my-server`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		d := newDispatcher()
		fmt.Fprintln(cmd.OutOrStdout(), d.Dispatch(cmd.Context(), "sel", args[1], args[0]))
	},
}

func init() {
	rootCmd.AddCommand(selCmd)
}
