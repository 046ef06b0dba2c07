// Package stack composes independently generated channel belts into a
// vertically ordered package sequence: each package erodes into the one below
// it, receives a relief perturbation, and the survivors are composited into a
// single visible-surface raster plus a package-provenance id map.
package stack

import (
	"fmt"
	"strconv"
	"strings"

	"fluvsynth/internal/facies"
	"fluvsynth/internal/styles"
	"fluvsynth/pkg/raster"
	"fluvsynth/pkg/rng"
)

// PackageSpec describes one stacked channel package. Immutable once built.
type PackageSpec struct {
	Style          styles.Style
	Params         map[string]string
	ThicknessPx    float64
	ReliefPx       float64
	ErosionDepthPx float64
	Seed           int64
	HasSeed        bool
	PackageID      int
}

// Config drives the assembler. Sequences shorter than Count repeat
// cyclically.
type Config struct {
	Height int
	Width  int
	Count  int

	Styles         []styles.Style
	ThicknessPx    []float64
	ReliefPx       []float64
	ErosionDepthPx []float64

	StackSeed int64
	Base      map[string]string
}

// stackKeys are consumed by the assembler and stripped from the per-package
// generator parameters.
var stackKeys = map[string]bool{
	"mode":                     true,
	"package_count":            true,
	"package_styles":           true,
	"package_thickness_px":     true,
	"package_relief_px":        true,
	"package_erosion_depth_px": true,
	"erosional_relief_px":      true,
	"stack_seed":               true,
	"seed":                     true,
}

const (
	defaultThicknessPx = 42.0
	defaultReliefPx    = 18.0
	defaultErosionPx   = 12.0
)

// FromMap builds the assembler config from a flat parameter map.
func FromMap(params map[string]string) Config {
	c := Config{Height: 512, Width: 512, Count: 1}
	if params == nil {
		params = map[string]string{}
	}
	if v, ok := params["height"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Height = parsed
		}
	}
	if v, ok := params["width"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Width = parsed
		}
	}
	if v, ok := params["package_count"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Count = parsed
		}
	}

	c.StackSeed = parseSeed(params)

	if v, ok := params["package_styles"]; ok && v != "" {
		for _, label := range strings.Split(v, ",") {
			c.Styles = append(c.Styles, styles.ParseStyle(strings.TrimSpace(label)))
		}
	}
	if len(c.Styles) == 0 {
		c.Styles = []styles.Style{styles.ParseStyle(params["style"])}
	}

	relief := parseFloats(params["package_relief_px"], params["erosional_relief_px"])
	if len(relief) == 0 {
		relief = []float64{defaultReliefPx}
	}
	c.ReliefPx = relief

	thickness := parseFloats(params["package_thickness_px"], "")
	if len(thickness) == 0 {
		thickness = []float64{defaultThicknessPx}
	}
	c.ThicknessPx = thickness

	erosion := parseFloats(params["package_erosion_depth_px"], "")
	if len(erosion) == 0 {
		for _, rv := range relief {
			e := rv * 0.75
			if e < 4 {
				e = 4
			}
			erosion = append(erosion, e)
		}
	}
	c.ErosionDepthPx = erosion

	c.Base = map[string]string{}
	for k, v := range params {
		if !stackKeys[k] {
			c.Base[k] = v
		}
	}
	c.Base["height"] = strconv.Itoa(c.Height)
	c.Base["width"] = strconv.Itoa(c.Width)
	return c
}

func parseSeed(params map[string]string) int64 {
	if v, ok := params["stack_seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	if v, ok := params["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return 0
}

func parseFloats(primary, fallback string) []float64 {
	src := primary
	if src == "" {
		src = fallback
	}
	if src == "" {
		return nil
	}
	var out []float64
	for _, part := range strings.Split(src, ",") {
		if parsed, err := strconv.ParseFloat(strings.TrimSpace(part), 64); err == nil {
			out = append(out, parsed)
		}
	}
	return out
}

// BuildSpecs expands the config into Count immutable package specs, cycling
// styles and numeric sequences.
func BuildSpecs(c Config) []PackageSpec {
	specs := make([]PackageSpec, 0, c.Count)
	for idx := 0; idx < c.Count; idx++ {
		params := make(map[string]string, len(c.Base)+1)
		for k, v := range c.Base {
			params[k] = v
		}
		style := c.Styles[idx%len(c.Styles)]
		params["style"] = string(style)
		spec := PackageSpec{
			Style:          style,
			Params:         params,
			ThicknessPx:    cyclic(c.ThicknessPx, idx, defaultThicknessPx),
			ReliefPx:       cyclic(c.ReliefPx, idx, defaultReliefPx),
			ErosionDepthPx: cyclic(c.ErosionDepthPx, idx, defaultErosionPx),
			PackageID:      idx,
		}
		if v, ok := params["seed"]; ok {
			if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
				spec.Seed = parsed
				spec.HasSeed = true
			}
		}
		specs = append(specs, spec)
	}
	return specs
}

func cyclic(values []float64, idx int, fallback float64) float64 {
	if len(values) == 0 {
		return fallback
	}
	return values[idx%len(values)]
}

// Sequenced is the full output of a package sequencing run.
type Sequenced struct {
	Composite      *raster.Raster
	Slices         []*raster.Raster
	IDMap          *raster.Raster
	Masks          facies.Set
	Packages       []facies.PackageMeta
	Realizations   []*facies.Realization
	ErosionSurface *raster.Raster
	Surface        *raster.Raster
}

// Build assembles a stacked realization from a flat parameter map. A
// single-package request reproduces exactly the direct single-style result
// for the same seed; this equivalence is a hard contract.
func Build(params map[string]string) (styles.Result, error) {
	cfg := FromMap(params)
	if cfg.Count == 1 {
		style := styles.ParseStyle(params["style"])
		single := make(map[string]string, len(cfg.Base)+2)
		for k, v := range cfg.Base {
			single[k] = v
		}
		single["style"] = string(style)
		single["seed"] = strconv.FormatInt(singleSeed(params, cfg.StackSeed), 10)
		return styles.Generate(style, single)
	}

	specs := BuildSpecs(cfg)
	seq, err := Sequence(specs, cfg.Height, cfg.Width, cfg.StackSeed)
	if err != nil {
		return styles.Result{}, err
	}

	masks := seq.Masks
	masks[facies.KeyPackageIDMap] = seq.IDMap

	stats := facies.StackStatistics{
		PackageCount: len(specs),
		PackageMix:   packageMix(seq.Packages),
		MinGray:      seq.Composite.Min(),
		MaxGray:      seq.Composite.Max(),
	}
	for _, meta := range seq.Packages {
		stats.TotalReliefPx += meta.ReliefPx
		stats.TotalThicknessPx += meta.ThicknessPx
	}

	meta := &facies.Realization{}
	if n := len(seq.Realizations); n > 0 && seq.Realizations[n-1] != nil {
		copied := *seq.Realizations[n-1]
		meta = &copied
	}
	meta.Stacked = &facies.StackSummary{Packages: seq.Packages, StackStatistics: stats}

	return styles.Result{Gray: seq.Composite, Masks: masks, Meta: meta}, nil
}

// singleSeed mirrors the single-package delegation rule: an explicit seed
// wins over the stack seed.
func singleSeed(params map[string]string, stackSeed int64) int64 {
	if v, ok := params["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return stackSeed
}

// Sequence generates the packages in order, cutting an erosional surface into
// the accumulated stack before each new deposit and applying its relief
// perturbation.
func Sequence(specs []PackageSpec, height, width int, stackSeed int64) (*Sequenced, error) {
	if len(specs) == 0 {
		return nil, fmt.Errorf("package specs must contain at least one entry")
	}
	out := &Sequenced{
		Masks:          facies.Set{},
		ErosionSurface: raster.New(height, width),
		Surface:        raster.New(height, width),
	}
	ids := make([]int, 0, len(specs))

	for idx, spec := range specs {
		packageSeed := spec.Seed
		if !spec.HasSeed {
			packageSeed = rng.DeriveSeed(stackSeed, fmt.Sprintf("package:%d", idx))
		}
		params := make(map[string]string, len(spec.Params)+3)
		for k, v := range spec.Params {
			params[k] = v
		}
		params["height"] = strconv.Itoa(height)
		params["width"] = strconv.Itoa(width)
		params["seed"] = strconv.FormatInt(packageSeed, 10)

		result, err := styles.Generate(spec.Style, params)
		if err != nil {
			return nil, fmt.Errorf("package %d (%s): %w", idx, spec.Style, err)
		}

		if len(out.Slices) > 0 {
			top := out.Slices[len(out.Slices)-1]
			erosion := cutErosionalSurface(top, spec.ErosionDepthPx, spec.Style)
			out.ErosionSurface.MaxInPlace(erosion)
		}

		reliefRNG := rng.ForLabel(stackSeed, fmt.Sprintf("relief:%d", idx))
		slice := applyRelief(result.Gray, out.Surface, spec.ThicknessPx, spec.ReliefPx, reliefRNG)
		out.Slices = append(out.Slices, slice)

		out.Masks.MergeMax(result.Masks)
		out.Realizations = append(out.Realizations, result.Meta)
		ids = append(ids, spec.PackageID)
		out.Packages = append(out.Packages, facies.PackageMeta{
			PackageID:      spec.PackageID,
			Style:          string(spec.Style),
			ThicknessPx:    spec.ThicknessPx,
			ReliefPx:       spec.ReliefPx,
			ErosionDepthPx: spec.ErosionDepthPx,
			Seed:           packageSeed,
			MaskMeans:      result.Masks.Means(),
		})
	}

	out.Composite, out.IDMap = compositeFromSlices(out.Slices, ids, height, width)
	out.Masks[facies.KeyUpperSurface] = out.Composite.Threshold(1e-9)
	out.Masks[facies.KeyErosionSurface] = out.ErosionSurface.Clone().Clamp01()
	return out, nil
}

// styleBias controls how aggressively a style cuts into the package below.
func styleBias(style styles.Style) float64 {
	switch style {
	case styles.Braided:
		return 0.25
	case styles.Anastomosing:
		return 0.15
	case styles.Meandering:
		return 0.1
	default:
		return 0.12
	}
}

// cutErosionalSurface trims the top slice in place where its normalized
// gradient magnitude exceeds a threshold that decreases with style bias and
// increases with erosion depth, and returns the eroded footprint.
func cutErosionalSurface(top *raster.Raster, erosionDepthPx float64, style styles.Style) *raster.Raster {
	gradient := raster.SobelX(top).Abs()
	if max := gradient.Max(); max > 0 {
		gradient.Scale(1 / max)
	}
	threshold := 0.45 - styleBias(style) + erosionDepthPx/300
	if threshold < 0.05 {
		threshold = 0.05
	} else if threshold > 0.95 {
		threshold = 0.95
	}
	erosion := raster.New(top.H, top.W)
	for i, g := range gradient.Pix {
		if g > threshold {
			erosion.Pix[i] = 1
			top.Pix[i] *= 0.7
		}
	}
	return erosion
}

// applyRelief perturbs the new package's grayscale with smoothed noise scaled
// by the relief magnitude and advances the running vertical surface field.
func applyRelief(gray, surface *raster.Raster, thicknessPx, reliefPx float64, r *rng.RNG) *raster.Raster {
	if reliefPx < 0 {
		reliefPx = 0
	}
	relief := raster.New(gray.H, gray.W)
	r.FillNormal(relief.Pix, 1)
	sigma := reliefPx / 8
	if sigma < 1 {
		sigma = 1
	}
	relief = raster.GaussianBlur(relief, sigma)

	absMax := 0.0
	for _, v := range relief.Pix {
		if a := v; a < 0 {
			a = -a
			if a > absMax {
				absMax = a
			}
		} else if a > absMax {
			absMax = a
		}
	}
	if absMax > 0 {
		relief.Scale(1 / absMax)
	}
	span := float64(gray.H)
	if float64(gray.W) > span {
		span = float64(gray.W)
	}
	if span < 1 {
		span = 1
	}
	relief.Scale(reliefPx / span)

	slice := gray.Clone().AddScaled(relief, 0.15).Clamp01()
	surface.AddScaled(relief, 1)
	for i := range surface.Pix {
		surface.Pix[i] += thicknessPx
		if surface.Pix[i] < 0 {
			surface.Pix[i] = 0
		}
	}
	return slice
}

// compositeFromSlices scans packages topmost-first, filling any pixel not yet
// claimed by a higher package. Pixels never claimed keep id -1.
func compositeFromSlices(slices []*raster.Raster, ids []int, height, width int) (*raster.Raster, *raster.Raster) {
	composite := raster.New(height, width)
	idMap := raster.NewFilled(height, width, -1)
	visible := make([]bool, height*width)
	for idx := len(slices) - 1; idx >= 0; idx-- {
		slice := slices[idx]
		for i, v := range slice.Pix {
			if v <= 1e-3 {
				continue
			}
			if !visible[i] {
				composite.Pix[i] = v
				idMap.Pix[i] = float64(ids[idx])
			}
			visible[i] = true
		}
	}
	return composite, idMap
}

func packageMix(metas []facies.PackageMeta) map[string]int {
	mix := map[string]int{}
	for _, meta := range metas {
		mix[meta.Style]++
	}
	return mix
}
