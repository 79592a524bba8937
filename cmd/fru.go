package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fruCmd = &cobra.Command{
	Use:   "fru <target>",
	Short: "Print the field-replaceable-unit inventory of a server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		d := newDispatcher()
		fmt.Fprintln(cmd.OutOrStdout(), d.Dispatch(cmd.Context(), "fru", args[0]))
	},
}

func init() {
	rootCmd.AddCommand(fruCmd)
}
