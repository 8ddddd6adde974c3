package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"studysharper/flashgate/pkg/cli"
	"studysharper/flashgate/pkg/config"
)

const defaultConfigFile = "flashgate.yaml"

var (
	// Global flags
	cfgFile      string
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "flashgate",
	Short: "Flashgate - flashcard gateway for the study backend",
	Long: `Flashgate fronts the study backend's flashcard API.

The serve command runs an HTTP proxy that validates requests, forwards the
caller's bearer token and relays backend responses. The remaining commands
call a running proxy through the flashcard client library:
  - List, create and delete flashcard sets
  - Create, edit and delete cards
  - Record reviews and generate cards from notes
  - Fetch suggestions and chat about flashcards`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", defaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", string(cli.FormatText), "output format (text, json)")
}

// loadConfig reads .env, then the config file. The default file may be
// absent; an explicit --config must exist.
func loadConfig(cmd *cobra.Command, args []string) error {
	if _, err := cli.ParseOutputFormat(outputFormat); err != nil {
		return err
	}
	if err := config.LoadDotEnv(); err != nil {
		return cli.NewConfigError(".env", err.Error())
	}
	optional := !cmd.Flags().Changed("config")
	if err := config.Initialize(cfgFile, optional); err != nil {
		return cli.NewConfigError("config", fmt.Sprintf("failed to load config: %v", err))
	}
	return nil
}
