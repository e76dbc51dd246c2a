package spec

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPromptSpec_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"model_class": "Chat",
		"messages": [{"role": "user", "content": "hi"}],
		"strict_mode": "Warn",
		"surprise_field": true
	}`), 0o600))

	prompt, err := LoadPromptSpec(path)
	require.NoError(t, err)
	assert.Equal(t, ModelClassChat, prompt.ModelClass)
	assert.Len(t, prompt.Messages, 1)
	assert.Equal(t, []string{"surprise_field"}, prompt.UnknownFields)
}

func TestLoadPromptSpec_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompt.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model_class: Chat\nmessages:\n  - role: user\n    content: hi\nstrict_mode: Warn\n"), 0o600))

	prompt, err := LoadPromptSpec(path)
	require.NoError(t, err)
	assert.Equal(t, ModelClassChat, prompt.ModelClass)
	assert.Empty(t, prompt.UnknownFields)
}

func TestLoadProviderSpec_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "provider.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"spec_version": "1",
		"provider": {"name": "acme", "base_url": "https://api.acme.test"},
		"models": [{"id": "gpt-x"}]
	}`), 0o600))

	provider, err := LoadProviderSpec(path)
	require.NoError(t, err)
	assert.Equal(t, "acme", provider.Provider.Name)

	model, ok := provider.ModelByID("gpt-x")
	require.True(t, ok)
	assert.Equal(t, "gpt-x", model.ID)
}

func TestLoadPromptSpec_MissingFileFails(t *testing.T) {
	_, err := LoadPromptSpec("/nonexistent/path/prompt.json")
	require.Error(t, err)

	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, KindConfiguration, serr.Kind)
}
