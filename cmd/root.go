// The cmd package implements the interface for the ipmiq CLI. The files
// contained in this package only contain implementations for handling CLI
// arguments and passing them to functions within ipmiq's internal API.
//
// Each query subcommand maps to one dispatcher operation:
//
//	cmd/power.go   --> Dispatch("power", target)
//	cmd/sensor.go  --> Dispatch("sensors"|"sensor"|"group", target, detail)
//	cmd/sel.go     --> Dispatch("sel", target, subcommand)
//	cmd/list.go    --> none (simple registry listing, no dispatch)
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	ipmiq "github.com/davidallendj/ipmiq/internal"
	ilog "github.com/davidallendj/ipmiq/internal/log"
	"github.com/davidallendj/ipmiq/internal/util"
	"github.com/davidallendj/ipmiq/pkg/runner"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// The `root` command doesn't do anything on its own except display
// a help message and then exits.
var rootCmd = &cobra.Command{
	Use:   "ipmiq",
	Short: "IPMI query tool for named BMC targets",
	Long:  "Query power state, sensors, FRU inventory, SEL, and chassis status\nof servers registered in the config by name.",
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			err := cmd.Help()
			if err != nil {
				log.Error().Err(err).Msg("failed to print help")
			}
			os.Exit(0)
		}
	},
}

// This Execute() function is called from main to run the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitializeConfig)
	rootCmd.PersistentFlags().StringP("config", "c", "", "Set the config file path")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Set to enable/disable verbose output")
	rootCmd.PersistentFlags().Bool("debug", false, "Set to enable/disable debug messages")
	rootCmd.PersistentFlags().String("ipmitool-path", "", "Set the path to the ipmitool executable (bundled tool is used when blank)")
	rootCmd.PersistentFlags().StringP("username", "u", "", "Set the master BMC username")
	rootCmd.PersistentFlags().StringP("password", "p", "", "Set the master BMC password")
	rootCmd.PersistentFlags().String("secrets-file", "", "Set path to the BMC secrets file")

	// bind viper config flags with cobra
	checkBindFlagError(viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config")))
	checkBindFlagError(viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose")))
	checkBindFlagError(viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug")))
	checkBindFlagError(viper.BindPFlag("ipmitool-path", rootCmd.PersistentFlags().Lookup("ipmitool-path")))
	checkBindFlagError(viper.BindPFlag("username", rootCmd.PersistentFlags().Lookup("username")))
	checkBindFlagError(viper.BindPFlag("password", rootCmd.PersistentFlags().Lookup("password")))
	checkBindFlagError(viper.BindPFlag("secrets.file", rootCmd.PersistentFlags().Lookup("secrets-file")))
}

func checkBindFlagError(err error) {
	if err != nil {
		log.Error().Err(err).Msg("failed to bind cobra/viper flag")
	}
}

// InitializeConfig() initializes a new config object by loading it
// from a file given a non-empty string.
func InitializeConfig() {
	viper.AutomaticEnv()
	if viper.IsSet("config") && viper.GetString("config") != "" {
		if err := ipmiq.LoadConfig(viper.GetString("config")); err != nil {
			log.Error().Err(err).Msg("failed to load config")
		}
	} else {
		config_dir := os.Getenv("XDG_CONFIG_HOME")
		if config_dir == "" {
			config_dir = "$HOME/.config"
		}
		viper.AddConfigPath(config_dir + "/ipmiq")
		viper.SetConfigName("config")
		// File type left unspecified; Viper will auto-parse based on extension
		// e.g. ~/.config/ipmiq/config.yaml will parse as YAML
		if err := viper.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				log.Error().Err(err).Msg("failed to load config")
			}
		}
	}

	if viper.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else if viper.GetBool("verbose") {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

// newDispatcher() assembles the dispatcher every query subcommand uses:
// registry from config, ipmitool resolved relative to our own executable
// (unless overridden), and a logrus handle for the internal API.
func newDispatcher() *ipmiq.Dispatcher {
	toolPath := viper.GetString("ipmitool-path")
	if toolPath == "" {
		baseDir := ""
		if self, err := os.Executable(); err == nil {
			baseDir = filepath.Dir(self)
		}
		toolPath = util.ResolveIpmitool(baseDir)
	}

	level := logrus.InfoLevel
	if viper.GetBool("debug") {
		level = logrus.DebugLevel
	}
	l := ilog.NewLogger(logrus.New(), level)

	return ipmiq.NewDispatcher(ipmiq.LoadRegistry(), runner.NewIpmitool(toolPath), l)
}
