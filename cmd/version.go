package cmd

import (
	"fmt"

	ipmiq "github.com/davidallendj/ipmiq/internal"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use: "version",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flag("rev").Value.String() == "true" {
			fmt.Println(ipmiq.VersionCommit())
		} else {
			fmt.Println(ipmiq.VersionTag())
		}
	},
}

func init() {
	versionCmd.Flags().Bool("rev", false, "show the version commit")
	rootCmd.AddCommand(versionCmd)
}
