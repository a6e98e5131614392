package main

import (
	"fmt"
	"os"
	"time"

	"github.com/bluetuith-org/hidprofile/api/config"
	"github.com/bluetuith-org/hidprofile/api/logger"
	"github.com/spf13/cobra"
)

var (
	cfg      = config.New()
	logLevel string
)

// rootCmd is the base command of hidctl.
var rootCmd = &cobra.Command{
	Use:           "hidctl",
	Short:         "Inspect Bluetooth HID Device profile connections",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(logger.Config{Level: logLevel, Console: true})
	},
}

// Execute runs the command line.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "hidctl: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfg.Adapter, "adapter", config.DefaultAdapter, "adapter to use, for example hci0")
	flags.StringVar(&cfg.Locale, "locale", config.DefaultLocale, "locale of displayed summaries")
	flags.StringVar(&cfg.ExecutablePath, "shim", "", "path to the Bluetooth shim executable (non-Linux)")
	flags.StringVar(&cfg.SocketPath, "socket", "", "socket path for the shim session (non-Linux)")
	flags.DurationVar(&cfg.CallTimeout, "timeout", config.DefaultCallTimeout, "timeout for Bluetooth service calls")
	flags.StringVar(&logLevel, "log-level", "warn", "log level (trace|debug|info|warn|error)")

	rootCmd.AddCommand(statusCmd, disconnectCmd, watchCmd)
}

// waitReady is how long commands wait for the profile to be bound.
func waitReady() time.Duration {
	return cfg.WithDefaults().CallTimeout
}
