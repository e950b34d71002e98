package cmd

import (
	"os"

	"github.com/chriserin/smartui/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var configFile string

var rootCmd = &cobra.Command{
	Use:          "smartui",
	Short:        "smartui runs browser test scenarios written in plain field names",
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default ./smartui.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("history-db", ".smartui/history.db", "run history database")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// flagKeys maps command flags onto config keys.
var flagKeys = map[string]string{
	"log-level":      "log_level",
	"history-db":     "history_db",
	"driver":         "driver",
	"headless":       "headless",
	"browser":        "browser_bin",
	"screenshot-dir": "screenshot_dir",
	"wait-timeout":   "wait_timeout",
	"flag-service":   "flag_service.url",
}

// loadConfig resolves settings for cmd. Flags set on the command line win
// over env vars, which win over the config file.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	v := config.New()
	if err := config.ReadFile(v, configFile); err != nil {
		return config.Config{}, err
	}
	if err := bindFlags(v, cmd); err != nil {
		return config.Config{}, err
	}
	return config.From(v)
}

func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	for name, key := range flagKeys {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}
