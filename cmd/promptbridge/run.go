package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/brightloom/promptbridge/executor"
	"github.com/brightloom/promptbridge/httpclient"
	"github.com/brightloom/promptbridge/resilience"
	"github.com/brightloom/promptbridge/spec"
	"github.com/brightloom/promptbridge/translate"
)

var runFlags struct {
	promptPath   string
	providerPath string
	model        string

	authMode          string
	apiKeyEnv         string
	headerName        string
	versionHeaderName string
	versionValue      string

	timeout        time.Duration
	attemptTimeout time.Duration
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Translate a prompt and execute it against the provider",
	Long: `run performs the full path: translate the prompt into a provider
request, then send it with rate-limiting, circuit-breaking, and retry, and
print the normalised UniformResponse. No fallback plan is configured, so
only the provider's own base URL is tried.

Authentication is not part of the ProviderSpec document (credentials don't
belong in a checked-in file); it is supplied via --auth-mode and friends,
reading the actual secret from the named environment variable.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.promptPath, "prompt", "", "path to a PromptSpec document (required)")
	runCmd.Flags().StringVar(&runFlags.providerPath, "provider", "", "path to a ProviderSpec document (required)")
	runCmd.Flags().StringVar(&runFlags.model, "model", "", "model id or alias within the provider spec (required)")

	runCmd.Flags().StringVar(&runFlags.authMode, "auth-mode", "bearer", "auth strategy: bearer|header|generic")
	runCmd.Flags().StringVar(&runFlags.apiKeyEnv, "api-key-env", "", "environment variable holding the API key")
	runCmd.Flags().StringVar(&runFlags.headerName, "auth-header-name", "", "header name for --auth-mode=header")
	runCmd.Flags().StringVar(&runFlags.versionHeaderName, "auth-version-header-name", "", "optional version header name")
	runCmd.Flags().StringVar(&runFlags.versionValue, "auth-version-value", "", "value for --auth-version-header-name")

	runCmd.Flags().DurationVar(&runFlags.timeout, "timeout", 60*time.Second, "whole-request timeout, wraps every retry and fallback attempt")
	runCmd.Flags().DurationVar(&runFlags.attemptTimeout, "attempt-timeout", 0, "optional per-attempt timeout override (0 disables; the whole-request timeout still applies)")

	_ = runCmd.MarkFlagRequired("prompt")
	_ = runCmd.MarkFlagRequired("provider")
	_ = runCmd.MarkFlagRequired("model")
}

func runRun(cmd *cobra.Command, args []string) error {
	mode, err := resolveStrictMode(globalFlags.strictness)
	if err != nil {
		return err
	}

	prompt, err := spec.LoadPromptSpec(runFlags.promptPath)
	if err != nil {
		return err
	}

	provider, err := spec.LoadProviderSpec(runFlags.providerPath)
	if err != nil {
		return err
	}

	model, ok := provider.ModelByID(runFlags.model)
	if !ok {
		return spec.NewError(spec.KindUnsupported, "no model %q in provider %q", runFlags.model, provider.Provider.Name)
	}

	if model.Endpoints.ChatCompletion == nil {
		return spec.NewError(spec.KindConfiguration, "model %q declares no chat_completion endpoint", model.ID)
	}

	result, err := translate.Translate(prompt, provider, runFlags.model, mode)
	if err != nil {
		return err
	}

	auth := httpclient.AuthConfig{
		Mode:              httpclient.AuthMode(runFlags.authMode),
		APIKeyEnv:         runFlags.apiKeyEnv,
		HeaderName:        runFlags.headerName,
		VersionHeaderName: runFlags.versionHeaderName,
		VersionValue:      runFlags.versionValue,
	}

	exec := executor.New(
		httpclient.New(httpclient.DefaultConfig()),
		resilience.NewRateLimiter(resilience.RateLimitConfig{MaxRequests: 60, WindowSecs: 60, Burst: 10}),
		resilience.NewCircuitBreaker(resilience.DefaultCircuitBreakerConfig()),
		resilience.DefaultRetryConfig(),
		resilience.TimeoutConfig{RequestTimeout: runFlags.timeout, AttemptTimeout: runFlags.attemptTimeout},
	)

	plan := executor.Plan{
		ProviderID:    provider.Provider.Name,
		Provider:      provider.Provider,
		Endpoint:      *model.Endpoints.ChatCompletion,
		Auth:          auth,
		ModelID:       model.ID,
		Normalization: model.ResponseNormalization.Sync,
	}

	resp, err := exec.Run(cmd.Context(), plan, result.ProviderRequestJSON)
	if err != nil {
		return err
	}

	return render(resp)
}
