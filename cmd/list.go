package cmd

import (
	"encoding/json"
	"fmt"
	"strings"

	ipmiq "github.com/davidallendj/ipmiq/internal"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var format string

// The `list` command provides an easy way to show which servers are
// registered and which sensor groups each defines, without touching any
// BMC. Passwords never appear in the output.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered servers",
	Run: func(cmd *cobra.Command, args []string) {
		reg := ipmiq.LoadRegistry()
		if format = strings.ToLower(format); format == "json" {
			type entry struct {
				Name   string   `json:"name"`
				Host   string   `json:"host"`
				Groups []string `json:"sensor_groups,omitempty"`
			}
			entries := make([]entry, 0, reg.Len())
			for _, name := range reg.Names() {
				record, _ := reg.Resolve(name)
				entries = append(entries, entry{Name: record.Name, Host: record.Host, Groups: record.GroupNames()})
			}
			b, err := json.Marshal(entries)
			if err != nil {
				log.Error().Err(err).Msg("failed to marshal server list")
				return
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", string(b))
		} else {
			for _, name := range reg.Names() {
				record, _ := reg.Resolve(name)
				if groups := record.GroupNames(); len(groups) > 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "%s @ %s (groups: %s)\n", record.Name, record.Host, strings.Join(groups, ", "))
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "%s @ %s\n", record.Name, record.Host)
				}
			}
		}
	},
}

func init() {
	listCmd.Flags().StringVar(&format, "format", "", "set the output format")
	rootCmd.AddCommand(listCmd)
}
