package cli

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

// Scenario is one named parameter set in a scenario file.
type Scenario struct {
	Name   string            `toml:"name"`
	Params map[string]string `toml:"params"`
}

// ScenarioFile is the TOML layout for batch runs: shared defaults plus a list
// of scenarios layered on top.
type ScenarioFile struct {
	Defaults  map[string]string `toml:"defaults"`
	Scenarios []Scenario        `toml:"scenario"`
}

// LoadScenarios parses a scenario file and resolves each scenario's effective
// parameter map (defaults first, scenario overrides second).
func LoadScenarios(path string) ([]Scenario, error) {
	var file ScenarioFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("parse scenario file %s: %w", path, err)
	}
	if len(file.Scenarios) == 0 {
		return nil, fmt.Errorf("scenario file %s contains no [[scenario]] blocks", path)
	}
	out := make([]Scenario, 0, len(file.Scenarios))
	for i, sc := range file.Scenarios {
		resolved := make(map[string]string, len(file.Defaults)+len(sc.Params))
		for k, v := range file.Defaults {
			resolved[k] = v
		}
		for k, v := range sc.Params {
			resolved[k] = v
		}
		name := sc.Name
		if name == "" {
			name = fmt.Sprintf("scenario_%d", i)
		}
		out = append(out, Scenario{Name: name, Params: resolved})
	}
	return out, nil
}

// applyOverrides folds repeatable --set key=value flags into params.
func applyOverrides(params map[string]string, overrides []string) error {
	for _, kv := range overrides {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return fmt.Errorf("override %q is not key=value", kv)
		}
		params[parts[0]] = parts[1]
	}
	return nil
}
