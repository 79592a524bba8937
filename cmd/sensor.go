package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// The `sensors` command dumps the full sensor list of a server, while
// `sensor` reads a single named sensor and `group` reads an operator
// defined list of sensors concurrently. All three shell out to the
// bundled ipmitool.
var sensorsCmd = &cobra.Command{
	Use:   "sensors <target>",
	Short: "List all sensor readings of a server",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		d := newDispatcher()
		fmt.Fprintln(cmd.OutOrStdout(), d.Dispatch(cmd.Context(), "sensors", args[0]))
	},
}

var sensorCmd = &cobra.Command{
	Use:   "sensor <target> <sensorName>",
	Short: "Get a single sensor reading of a server",
	Example: `  ipmiq sensor my-server CPU1_Temp
  // sensor names with spaces work; quote them for your shell
  ipmiq sensor my-server "PSU1 Status"`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		d := newDispatcher()
		fmt.Fprintln(cmd.OutOrStdout(), d.Dispatch(cmd.Context(), "sensor", args[0], args[1]))
	},
}

var groupCmd = &cobra.Command{
	Use:   "group <target> <groupName>",
	Short: "Get every sensor reading in a named sensor group",
	Long: "Queries every sensor in the named group concurrently and prints the\n" +
		"per-sensor results in the order the group lists them. Groups are\n" +
		"defined per server in the config under 'sensor_groups'.",
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		d := newDispatcher()
		fmt.Fprintln(cmd.OutOrStdout(), d.Dispatch(cmd.Context(), "group", args[0], args[1]))
	},
}

func init() {
	rootCmd.AddCommand(sensorsCmd)
	rootCmd.AddCommand(sensorCmd)
	rootCmd.AddCommand(groupCmd)
}
