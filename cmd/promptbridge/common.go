package main

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/brightloom/promptbridge/lossiness"
	"github.com/brightloom/promptbridge/spec"
)

// resolveStrictMode maps the --strictness flag value onto lossiness.StrictMode.
func resolveStrictMode(raw string) (lossiness.StrictMode, error) {
	switch raw {
	case "strict":
		return lossiness.StrictModeStrict, nil
	case "warn", "":
		return lossiness.StrictModeWarn, nil
	case "coerce":
		return lossiness.StrictModeCoerce, nil
	default:
		return "", spec.NewError(spec.KindValidation, "unknown strictness %q: want strict|warn|coerce", raw)
	}
}

// render writes v to stdout in the format named by globalFlags.output:
// json, json-pretty, or yaml; human (the default) prints the same indented
// JSON as json-pretty.
func render(v any) error {
	switch globalFlags.output {
	case "json":
		encoded, err := json.Marshal(v)
		if err != nil {
			return err
		}

		fmt.Println(string(encoded))

	case "yaml":
		encoded, err := yaml.Marshal(v)
		if err != nil {
			return err
		}

		fmt.Print(string(encoded))

	case "human", "", "json-pretty":
		encoded, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}

		fmt.Println(string(encoded))

	default:
		return spec.NewError(spec.KindConfiguration, "unknown output format %q", globalFlags.output)
	}

	return nil
}
