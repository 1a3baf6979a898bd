// Package cmd implements the permy CLI commands.
package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dev-mohitbeniwal/permy/config"
	logger "github.com/dev-mohitbeniwal/permy/logging"
)

// Exit codes of the can command; everything else fails with exitFailure.
const (
	exitAllowed         = 0
	exitDenied          = 1
	exitSubjectNotFound = 2
	exitFailure         = 3
)

var (
	// Version is set at build time
	Version = "0.1.0"

	// Global flags
	outputFormat string
	logDir       string

	cfg *config.Configuration
)

var rootCmd = &cobra.Command{
	Use:   "permy",
	Short: "Route based permission decisions",
	Long: `permy decides whether a subject may reach a route of the host application.

It serves the decision engine over HTTP, answers one-off checks from the
command line and maintains the labelled catalog of guarded resources.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" {
			return nil
		}
		if err := config.InitConfig(); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}
		cfg = config.GetConfig()
		return logger.InitLogger(logDir)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Directory for log files (default: stdout only)")
}

// exitError ends the process with code without being reported as a failure.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	err := rootCmd.Execute()
	if err == nil {
		return exitAllowed
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintln(rootCmd.ErrOrStderr(), color.RedString("Error: %v", err))
	return exitFailure
}

// formatOutput handles output formatting based on the --output flag.
func formatOutput(cmd *cobra.Command, data interface{}) error {
	out := cmd.OutOrStdout()
	switch outputFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case "yaml":
		enc := yaml.NewEncoder(out)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unsupported output format: %s", outputFormat)
	}
}
