package main

import (
	"github.com/spf13/cobra"

	"github.com/brightloom/promptbridge/spec"
	"github.com/brightloom/promptbridge/translate"
)

var previewFlags struct {
	promptPath   string
	providerPath string
	model        string
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Translate a prompt and show the full result without executing it",
	Long: `preview runs the complete translation (pre-validation, transformation
pipeline, result building) and prints the translated provider request
alongside its lossiness report and metadata, without ever sending the
request to the provider.`,
	RunE: runPreview,
}

func init() {
	rootCmd.AddCommand(previewCmd)

	previewCmd.Flags().StringVar(&previewFlags.promptPath, "prompt", "", "path to a PromptSpec document (required)")
	previewCmd.Flags().StringVar(&previewFlags.providerPath, "provider", "", "path to a ProviderSpec document (required)")
	previewCmd.Flags().StringVar(&previewFlags.model, "model", "", "model id or alias within the provider spec (required)")

	_ = previewCmd.MarkFlagRequired("prompt")
	_ = previewCmd.MarkFlagRequired("provider")
	_ = previewCmd.MarkFlagRequired("model")
}

func runPreview(cmd *cobra.Command, args []string) error {
	mode, err := resolveStrictMode(globalFlags.strictness)
	if err != nil {
		return err
	}

	prompt, err := spec.LoadPromptSpec(previewFlags.promptPath)
	if err != nil {
		return err
	}

	provider, err := spec.LoadProviderSpec(previewFlags.providerPath)
	if err != nil {
		return err
	}

	result, err := translate.Translate(prompt, provider, previewFlags.model, mode)
	if err != nil {
		return err
	}

	return render(result)
}
