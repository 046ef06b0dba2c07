// Package gen is the front door for realization synthesis: it routes a flat
// parameter map to either a single-style synthesizer or the stacked package
// assembler.
package gen

import (
	"strconv"

	"fluvsynth/internal/facies"
	"fluvsynth/internal/stack"
	"fluvsynth/internal/styles"
	"fluvsynth/pkg/raster"
)

// Output bundles everything a generation run produces.
type Output struct {
	Gray  *raster.Raster
	Masks facies.Set
	Meta  *facies.Realization
	Style styles.Style
	Mode  string
}

// Generate synthesizes one realization from a flat parameter map. Mode
// "stacked" (or any package_count above one) goes through the package
// assembler; everything else dispatches on the style label directly.
// Aeolian and estuarine styles return ErrUnsupportedEnvironment.
func Generate(params map[string]string) (Output, error) {
	if params == nil {
		params = map[string]string{}
	}
	style := styles.ParseStyle(params["style"])
	mode := params["mode"]

	if stacked(params) {
		result, err := stack.Build(params)
		if err != nil {
			return Output{}, err
		}
		return Output{Gray: result.Gray, Masks: result.Masks, Meta: result.Meta, Style: style, Mode: "stacked"}, nil
	}

	result, err := styles.Generate(style, params)
	if err != nil {
		return Output{}, err
	}
	if mode == "" {
		mode = "single"
	}
	return Output{Gray: result.Gray, Masks: result.Masks, Meta: result.Meta, Style: style, Mode: mode}, nil
}

func stacked(params map[string]string) bool {
	if params["mode"] == "stacked" {
		return true
	}
	if v, ok := params["package_count"]; ok {
		if n, err := strconv.Atoi(v); err == nil && n > 1 {
			return true
		}
	}
	return false
}
