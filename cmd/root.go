package cmd

import (
	"github.com/spf13/cobra"

	"github.com/victorjacobs/go-samsunghvac/config"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:   "samsunghvac",
	Short: "Samsung split-system AC bridge",
	Long: `samsunghvac sits on the RS485 bus between a Samsung indoor unit and its wall
remote. It tracks the state the unit reports and injects SET commands during
the quiet periods the unit announces.

The state can be read and changed over HTTP and, when enabled, through a Home
Assistant climate entity over MQTT.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", config.DefaultFile, "Configuration file")
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
