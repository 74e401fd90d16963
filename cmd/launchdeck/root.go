package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vault-md/launchdeck/internal/config"
)

var globalFlags struct {
	configPath string
	baseURL    string
	timeout    time.Duration
	retries    int
	logLevel   string
	logFormat  string
}

var rootCmd = &cobra.Command{
	Use:          "launchdeck",
	Short:        "launchdeck - A terminal dashboard for SpaceX launches",
	Long:         "launchdeck lists past and upcoming SpaceX launches, rockets and payloads from the public SpaceX API.",
	SilenceUsage: true,
	Version:      version,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&globalFlags.configPath, "config", "", "Config file (default "+config.GetConfigPath()+")")
	flags.StringVar(&globalFlags.baseURL, "base-url", "", "API root (default "+config.DefaultBaseURL+")")
	flags.DurationVar(&globalFlags.timeout, "timeout", config.DefaultTimeout, "Per-request timeout")
	flags.IntVar(&globalFlags.retries, "retries", 0, "Retries for failed requests")
	flags.StringVar(&globalFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error or none")
	flags.StringVar(&globalFlags.logFormat, "log-format", "", "Log format: text or json")

	rootCmd.AddCommand(newLaunchesCmd())
	rootCmd.AddCommand(newLaunchCmd())
	rootCmd.AddCommand(newRocketsCmd())
	rootCmd.AddCommand(newPayloadsCmd())
	rootCmd.AddCommand(newBrowseCmd())
	rootCmd.AddCommand(newMCPCmd())
}
