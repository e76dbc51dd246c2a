package main

import (
	"github.com/spf13/cobra"

	"github.com/brightloom/promptbridge/lossiness"
	"github.com/brightloom/promptbridge/spec"
	"github.com/brightloom/promptbridge/validate"
)

var validateFlags struct {
	promptPath   string
	providerPath string
	model        string
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Run the pre-validator against a prompt and provider/model pair",
	Long: `validate loads a PromptSpec and a ProviderSpec, resolves the named
model, and runs the pre-validation checks without performing the
transformation pipeline. It reports the same lossiness items a full
translate would record during pre-validation, without ever calling a
provider.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validateFlags.promptPath, "prompt", "", "path to a PromptSpec document (required)")
	validateCmd.Flags().StringVar(&validateFlags.providerPath, "provider", "", "path to a ProviderSpec document (required)")
	validateCmd.Flags().StringVar(&validateFlags.model, "model", "", "model id or alias within the provider spec (required)")

	_ = validateCmd.MarkFlagRequired("prompt")
	_ = validateCmd.MarkFlagRequired("provider")
	_ = validateCmd.MarkFlagRequired("model")
}

func runValidate(cmd *cobra.Command, args []string) error {
	mode, err := resolveStrictMode(globalFlags.strictness)
	if err != nil {
		return err
	}

	prompt, err := spec.LoadPromptSpec(validateFlags.promptPath)
	if err != nil {
		return err
	}

	provider, err := spec.LoadProviderSpec(validateFlags.providerPath)
	if err != nil {
		return err
	}

	model, ok := provider.ModelByID(validateFlags.model)
	if !ok {
		return spec.NewError(spec.KindUnsupported, "no model %q in provider %q", validateFlags.model, provider.Provider.Name)
	}

	tracker := lossiness.NewTracker(mode)

	validationErr := validate.Run(tracker, prompt, model, mode)
	report := tracker.Consume()

	result := struct {
		Valid     bool              `json:"valid"`
		Error     string            `json:"error,omitempty"`
		Lossiness *lossiness.Report `json:"lossiness"`
	}{
		Valid:     validationErr == nil,
		Lossiness: report,
	}

	if validationErr != nil {
		result.Error = validationErr.Error()
	}

	if err := render(result); err != nil {
		return err
	}

	return validationErr
}
