package main

import (
	"github.com/spf13/cobra"

	"github.com/brightloom/promptbridge/spec"
	"github.com/brightloom/promptbridge/translate"
)

var translateFlags struct {
	promptPath   string
	providerPath string
	model        string
}

var translateCmd = &cobra.Command{
	Use:   "translate",
	Short: "Translate a prompt into a provider request body and print it",
	Long: `translate runs the same translation preview does, but prints only the
translated provider_request_json document, suitable for piping into another
HTTP client. Under --strictness=strict, a lossiness item of Error severity or
above still fails the command; under warn and coerce, lossiness items do not
(see "preview" to inspect the full report).`,
	RunE: runTranslate,
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVar(&translateFlags.promptPath, "prompt", "", "path to a PromptSpec document (required)")
	translateCmd.Flags().StringVar(&translateFlags.providerPath, "provider", "", "path to a ProviderSpec document (required)")
	translateCmd.Flags().StringVar(&translateFlags.model, "model", "", "model id or alias within the provider spec (required)")

	_ = translateCmd.MarkFlagRequired("prompt")
	_ = translateCmd.MarkFlagRequired("provider")
	_ = translateCmd.MarkFlagRequired("model")
}

func runTranslate(cmd *cobra.Command, args []string) error {
	mode, err := resolveStrictMode(globalFlags.strictness)
	if err != nil {
		return err
	}

	prompt, err := spec.LoadPromptSpec(translateFlags.promptPath)
	if err != nil {
		return err
	}

	provider, err := spec.LoadProviderSpec(translateFlags.providerPath)
	if err != nil {
		return err
	}

	result, err := translate.Translate(prompt, provider, translateFlags.model, mode)
	if err != nil {
		return err
	}

	return render(result.ProviderRequestJSON)
}
