package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// The `power` command fetches the power state of a single registered
// server. Unlike the sensor commands this never shells out; the query
// goes through the BMC client library.
var powerCmd = &cobra.Command{
	Use:   "power <target>",
	Short: "Get the power state of a server",
	Example: `  ipmiq power my-server
  ipmiq -c config.yaml power lab-node1`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		d := newDispatcher()
		fmt.Fprintln(cmd.OutOrStdout(), d.Dispatch(cmd.Context(), "power", args[0]))
	},
}

func init() {
	rootCmd.AddCommand(powerCmd)
}
