// Package main is the entry point for the patternhive command line tool.
// It extracts emails, phone numbers and names from text or documents
// without running the server.
package main

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/patternhive/internal/config"
	"github.com/JonMunkholm/patternhive/internal/core"
	"github.com/JonMunkholm/patternhive/internal/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const defaultLogLevel = "warn"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd creates the root command with its subcommands.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "patternhive",
		Short: "Extract contact details from text and documents",
		Long: `Find email addresses, phone numbers and personal names in plain text or
in PDF, Word, Excel, CSV and text files.

Limits are read from the same environment variables as the server
(EXTRACT_MAX_TEXT_LENGTH, EXTRACT_MAX_FILE_SIZE, ...). A .env file in the
working directory is loaded without overriding the environment.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := cmd.Flags().GetString("log-level")
			if err != nil {
				return fmt.Errorf("failed to get log-level flag: %w", err)
			}
			logging.Setup(logging.Options{Level: level, Output: cmd.ErrOrStderr()})
			return nil
		},
	}

	rootCmd.PersistentFlags().StringP("log-level", "l", defaultLogLevel, "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newExtractCmd(), newValidateCmd())
	return rootCmd
}

// loadConfig reads limits from .env and the environment.
func loadConfig() (*config.Config, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return cfg, nil
}

// userError rewrites err with its support code for terminal output.
func userError(err error) error {
	msg := core.MapError(err)
	return fmt.Errorf("%s [%s]: %w", msg.Message, msg.Code, err)
}
