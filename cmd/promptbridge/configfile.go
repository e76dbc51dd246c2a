package main

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/brightloom/promptbridge/spec"
)

// Profile bundles the flags a "run"/"translate" invocation would otherwise
// need to repeat on every call.
type Profile struct {
	ProviderSpec string `yaml:"provider_spec,omitempty"`
	Model        string `yaml:"model,omitempty"`
	Strictness   string `yaml:"strictness,omitempty"`
	Output       string `yaml:"output,omitempty"`
}

// FileConfig is the on-disk shape of the CLI's config file.
type FileConfig struct {
	DefaultProfile string             `yaml:"default_profile"`
	Profiles       map[string]Profile `yaml:"profiles"`
}

func defaultFileConfig() *FileConfig {
	return &FileConfig{
		DefaultProfile: "default",
		Profiles: map[string]Profile{
			"default": {Strictness: "warn", Output: "human"},
		},
	}
}

// resolvedConfigPath returns --config if set, else ~/.promptbridge/config.yaml.
func resolvedConfigPath() (string, error) {
	if globalFlags.configPath != "" {
		return globalFlags.configPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", spec.NewError(spec.KindConfiguration, "resolving home directory: %v", err)
	}

	return filepath.Join(home, ".promptbridge", "config.yaml"), nil
}

func loadFileConfig(path string) (*FileConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, spec.NewError(spec.KindConfiguration, "reading config %q: %v", path, err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, spec.NewError(spec.KindConfiguration, "parsing config %q: %v", path, err)
	}

	if cfg.Profiles == nil {
		cfg.Profiles = map[string]Profile{}
	}

	return &cfg, nil
}

func saveFileConfig(path string, cfg *FileConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return spec.NewError(spec.KindConfiguration, "creating config directory: %v", err)
	}

	encoded, err := yaml.Marshal(cfg)
	if err != nil {
		return spec.NewError(spec.KindConfiguration, "encoding config: %v", err)
	}

	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return spec.NewError(spec.KindConfiguration, "writing config %q: %v", path, err)
	}

	return nil
}

// configGet resolves a dotted key of the form "default_profile" or
// "profiles.<name>.<field>" against cfg.
func configGet(cfg *FileConfig, key string) (string, error) {
	if key == "default_profile" {
		return cfg.DefaultProfile, nil
	}

	name, field, err := splitProfileKey(key)
	if err != nil {
		return "", err
	}

	profile, ok := cfg.Profiles[name]
	if !ok {
		return "", spec.NewError(spec.KindConfiguration, "no profile %q", name)
	}

	return profileField(&profile, field)
}

// configSet mutates cfg in place per the same key grammar as configGet.
func configSet(cfg *FileConfig, key, value string) error {
	if key == "default_profile" {
		cfg.DefaultProfile = value

		return nil
	}

	name, field, err := splitProfileKey(key)
	if err != nil {
		return err
	}

	profile := cfg.Profiles[name]
	if err := setProfileField(&profile, field, value); err != nil {
		return err
	}

	cfg.Profiles[name] = profile

	return nil
}

func splitProfileKey(key string) (name, field string, err error) {
	parts := strings.Split(key, ".")
	if len(parts) != 3 || parts[0] != "profiles" {
		return "", "", spec.NewError(spec.KindConfiguration,
			"unrecognised config key %q: want default_profile or profiles.<name>.<field>", key)
	}

	return parts[1], parts[2], nil
}

func profileField(p *Profile, field string) (string, error) {
	switch field {
	case "provider_spec":
		return p.ProviderSpec, nil
	case "model":
		return p.Model, nil
	case "strictness":
		return p.Strictness, nil
	case "output":
		return p.Output, nil
	default:
		return "", spec.NewError(spec.KindConfiguration, "unknown profile field %q", field)
	}
}

func setProfileField(p *Profile, field, value string) error {
	switch field {
	case "provider_spec":
		p.ProviderSpec = value
	case "model":
		p.Model = value
	case "strictness":
		p.Strictness = value
	case "output":
		p.Output = value
	default:
		return spec.NewError(spec.KindConfiguration, "unknown profile field %q", field)
	}

	return nil
}
