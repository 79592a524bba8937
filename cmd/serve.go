package cmd

import (
	"github.com/davidallendj/ipmiq/pkg/daemon"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// The `serve` command runs the dispatcher behind a small HTTP endpoint so
// remote hosts (the chat-bot runtime, scripts) can query without a local
// ipmitool bundle. One dispatcher is built at startup and shared; the
// registry is read-only, so concurrent requests need no locking.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve BMC queries over HTTP",
	Long: "Starts an HTTP daemon with a POST /query endpoint that takes 'op',\n" +
		"'target', and optional 'detail' form values and replies with the same\n" +
		"text the CLI would print.\n\n" +
		"Examples:\n" +
		"  ipmiq serve\n" +
		"  ipmiq serve --endpoint 0.0.0.0:8270 --require-token",
	RunE: func(cmd *cobra.Command, args []string) error {
		d := newDispatcher()
		server := &daemon.Server{
			Endpoint:     viper.GetString("daemon.endpoint"),
			ServerNames:  d.Registry.Names(),
			RequireToken: viper.GetBool("daemon.require-token"),
			Query:        d.Dispatch,
		}
		if err := server.Run(); err != nil {
			log.Error().Err(err).Msg("daemon exited with error")
			return err
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("endpoint", "127.0.0.1:8270", "Set the host:port the daemon listens on")
	serveCmd.Flags().Bool("require-token", false, "Require a valid JWT bearer token on every request")
	checkBindFlagError(viper.BindPFlag("daemon.endpoint", serveCmd.Flags().Lookup("endpoint")))
	checkBindFlagError(viper.BindPFlag("daemon.require-token", serveCmd.Flags().Lookup("require-token")))
	rootCmd.AddCommand(serveCmd)
}
