// Package root contains the root command for the application
package root

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"akazakov/snapstat/internal/app"
	"akazakov/snapstat/internal/config"
	"akazakov/snapstat/internal/logging"
)

// CommonFlags represents the flags that are common to multiple commands
type CommonFlags struct {
	Input  string
	Output string
	User   string
}

var (
	// Log is the shared logger instance for commands
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer holds the wired dependency graph, built in
	// PersistentPreRun and closed in PersistentPostRun.
	AppContainer *app.App

	// SharedFlags are common flags accessible to all commands
	SharedFlags = CommonFlags{}

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "snapstat",
		Short: "Extract and categorize transactions from bank screenshots and statements.",
		Long: `snapstat parses bank-app screenshots through an AI vision model and
CSV/XLSX statements through column detection, normalizes merchants,
assigns categories and learns from manual corrections.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to snapstat!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			cfg, err := config.Initialize()
			if err != nil {
				fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
				os.Exit(1)
			}
			Log = config.NewLogger(cfg)

			AppContainer, err = app.New(context.Background(), cfg, Log)
			if err != nil {
				Log.WithError(err).Error("failed to initialize application")
				os.Exit(1)
			}
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if AppContainer != nil {
				AppContainer.Close()
			}
		},
	}
)

// Init initializes the root command and all flags
func Init() {
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Input, "input", "i", "", "Input file")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.Output, "output", "o", "", "Output CSV file (default: stdout)")
	Cmd.PersistentFlags().StringVarP(&SharedFlags.User, "user", "u", "", "User ID for learned category overrides")
}
