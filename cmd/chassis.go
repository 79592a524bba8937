package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var chassisCmd = &cobra.Command{
	Use:     "chassis status <target>",
	Short:   "Query the chassis status of a server",
	Example: `  ipmiq chassis status my-server`,
	Args:    cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		d := newDispatcher()
		fmt.Fprintln(cmd.OutOrStdout(), d.Dispatch(cmd.Context(), "chassis", args[1], args[0]))
	},
}

func init() {
	rootCmd.AddCommand(chassisCmd)
}
