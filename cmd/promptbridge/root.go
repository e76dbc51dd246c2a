package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// globalFlags holds the flags shared across every subcommand.
var globalFlags struct {
	verboseCount int
	quiet        bool
	configPath   string
	output       string
	noColor      bool
	strictness   string
}

var rootCmd = &cobra.Command{
	Use:   "promptbridge",
	Short: "Translate a provider-agnostic prompt into a concrete LLM provider request",
	Long: `promptbridge translates a PromptSpec into the concrete request body
required by a specific LLM provider's HTTP API, executes it with retry,
rate-limiting, and circuit-breaking, and normalises the response into a
uniform shape.`,
}

// Execute runs the root command, exiting with the code derived from the
// failing error's category.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&globalFlags.verboseCount, "verbose", "v", "increase verbosity (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.quiet, "quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().StringVar(&globalFlags.configPath, "config", "", "path to a config file")
	rootCmd.PersistentFlags().StringVar(&globalFlags.output, "output", "human", "output format: human|json|yaml|json-pretty")
	rootCmd.PersistentFlags().BoolVar(&globalFlags.noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&globalFlags.strictness, "strictness", "warn", "strictness mode: strict|warn|coerce")

	rootCmd.MarkFlagsMutuallyExclusive("verbose", "quiet")
}
