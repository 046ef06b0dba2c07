// Package styles implements the three fluvial belt synthesizers. Each style
// turns a flat parameter map and a seeded generator into a grayscale analog
// raster plus a named facies mask collection, then runs the sedimentary
// overlay compositor on top.
package styles

import (
	"errors"
	"fmt"

	"fluvsynth/internal/facies"
	"fluvsynth/pkg/raster"
)

// Style identifies a depositional environment style.
type Style string

const (
	Meandering   Style = "meandering"
	Braided      Style = "braided"
	Anastomosing Style = "anastomosing"

	// Recognized but unimplemented environments.
	Aeolian   Style = "aeolian"
	Estuarine Style = "estuarine"
)

// ErrUnsupportedEnvironment marks styles that are recognized but have no
// generator. Callers must not treat this as transient.
var ErrUnsupportedEnvironment = errors.New("environment not implemented")

// RangeError reports a style parameter outside its documented valid range.
// It is raised before any randomness is consumed and is never retryable.
type RangeError struct {
	Param    string
	Value    float64
	Min, Max float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s must be between %g and %g, got %g", e.Param, e.Min, e.Max, e.Value)
}

func checkRange(param string, value, min, max float64) error {
	if value < min || value > max {
		return &RangeError{Param: param, Value: value, Min: min, Max: max}
	}
	return nil
}

// Result bundles a synthesized grayscale analog with its facies masks and the
// realization metadata computed by the overlay compositor.
type Result struct {
	Gray  *raster.Raster
	Masks facies.Set
	Meta  *facies.Realization
}

// GeneratorFunc builds a realization from a flat parameter map. Unrecognized
// keys are ignored; missing keys fall back to the style's defaults.
type GeneratorFunc func(params map[string]string) (Result, error)

// generators is the static dispatch table. The style set is fixed at compile
// time; unimplemented environments map to a nil entry and surface
// ErrUnsupportedEnvironment.
var generators = map[Style]GeneratorFunc{
	Meandering:   generateMeanderingFromMap,
	Braided:      generateBraidedFromMap,
	Anastomosing: generateAnastomosingFromMap,
	Aeolian:      nil,
	Estuarine:    nil,
}

// ParseStyle normalizes a style label the way the generators accept it:
// prefixes select braided and anastomosing, the unimplemented environments
// are recognized verbatim, and anything else falls back to meandering.
func ParseStyle(label string) Style {
	switch {
	case hasPrefix(label, "braid"):
		return Braided
	case hasPrefix(label, "anasto"):
		return Anastomosing
	case label == string(Aeolian):
		return Aeolian
	case label == string(Estuarine):
		return Estuarine
	default:
		return Meandering
	}
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[:len(prefix)] == prefix
}

// Generate dispatches to the synthesizer for style.
func Generate(style Style, params map[string]string) (Result, error) {
	fn, ok := generators[style]
	if !ok {
		return Result{}, fmt.Errorf("unknown style %q", style)
	}
	if fn == nil {
		return Result{}, fmt.Errorf("%s: %w", style, ErrUnsupportedEnvironment)
	}
	return fn(params)
}

// Styles returns the implemented styles in a stable order.
func Styles() []Style {
	return []Style{Meandering, Braided, Anastomosing}
}
