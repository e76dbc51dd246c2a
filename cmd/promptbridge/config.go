package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/brightloom/promptbridge/spec"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the CLI's persisted profile configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the resolved config file",
	RunE:  runConfigShow,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print one config value (default_profile or profiles.<name>.<field>)",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one config value and persist it",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configProfilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List the profile names defined in the config file",
	RunE:  runConfigProfiles,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the config file's structure and referenced paths",
	RunE:  runConfigValidate,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd, configGetCmd, configSetCmd, configProfilesCmd, configValidateCmd)

	configInitCmd.Flags().Bool("force", false, "overwrite an existing config file")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	force, _ := cmd.Flags().GetBool("force")

	if _, statErr := os.Stat(path); statErr == nil && !force {
		return spec.NewError(spec.KindConfiguration, "config file %q already exists (use --force to overwrite)", path)
	}

	if err := saveFileConfig(path, defaultFileConfig()); err != nil {
		return err
	}

	fmt.Println("wrote", path)

	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	cfg, err := loadFileConfig(path)
	if err != nil {
		return err
	}

	return render(cfg)
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	cfg, err := loadFileConfig(path)
	if err != nil {
		return err
	}

	value, err := configGet(cfg, args[0])
	if err != nil {
		return err
	}

	fmt.Println(value)

	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	cfg, err := loadFileConfig(path)
	if err != nil {
		return err
	}

	if err := configSet(cfg, args[0], args[1]); err != nil {
		return err
	}

	return saveFileConfig(path, cfg)
}

func runConfigProfiles(cmd *cobra.Command, args []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	cfg, err := loadFileConfig(path)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(cfg.Profiles))
	for name := range cfg.Profiles {
		names = append(names, name)
	}

	sort.Strings(names)

	for _, name := range names {
		marker := " "
		if name == cfg.DefaultProfile {
			marker = "*"
		}

		fmt.Printf("%s %s\n", marker, name)
	}

	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	cfg, err := loadFileConfig(path)
	if err != nil {
		return err
	}

	if _, ok := cfg.Profiles[cfg.DefaultProfile]; !ok {
		return spec.NewError(spec.KindConfiguration, "default_profile %q has no matching entry under profiles", cfg.DefaultProfile)
	}

	for name, profile := range cfg.Profiles {
		if _, err := resolveStrictMode(profile.Strictness); profile.Strictness != "" && err != nil {
			return spec.NewError(spec.KindConfiguration, "profile %q: %v", name, err)
		}

		if profile.ProviderSpec != "" {
			if _, statErr := os.Stat(profile.ProviderSpec); statErr != nil {
				return spec.NewError(spec.KindConfiguration, "profile %q: provider_spec %q: %v", name, profile.ProviderSpec, statErr)
			}
		}
	}

	fmt.Println("config is valid")

	return nil
}
