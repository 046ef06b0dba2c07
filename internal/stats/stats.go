// Package stats characterizes generated realizations: variogram roughness
// exponents, spectral anisotropy, histogram entropy, and per-facies topology,
// flattened into a single metric record.
package stats

import (
	"encoding/json"
	"fmt"

	"github.com/cespare/xxhash/v2"

	"fluvsynth/internal/facies"
	"fluvsynth/pkg/raster"
)

// Record is the flat metric map a characterization run produces. Values are
// float64, bool, int, or string.
type Record map[string]any

const defaultMaxLag = 24

// ComputeMetrics runs the full characterization suite over a grayscale and
// its mask collection. meta may be nil; when present its hash and stacked
// package count are folded into the record.
func ComputeMetrics(gray *raster.Raster, masks facies.Set, env string, meta *facies.Realization) Record {
	variograms := ComputeVariogram(gray, DefaultDirections, defaultMaxLag)
	betaIso, _ := FitPowerLaw(variograms.Isotropic)
	seg := TwoSegmentFit(variograms.Isotropic)
	psd := PSDAnisotropy(gray)
	topology := TopologyMetrics(masks)

	record := Record{
		"env":               env,
		"beta_iso":          betaIso,
		"entropy_global":    Entropy(gray),
		"fractal_dimension": FractalDimension(betaIso),
		"beta_seg1":         seg.BetaSeg1,
		"beta_seg2":         seg.BetaSeg2,
		"h0":                seg.H0,
		"psd_aspect":        psd.AspectRatio,
		"psd_theta":         psd.ThetaDeg,
		"anisotropy_ratio":  psd.AspectRatio,
	}
	for name, series := range variograms.Directional {
		beta, _ := FitPowerLaw(series)
		record["beta_"+name] = beta
	}
	for key, value := range topology {
		record["topology_"+key] = value
	}
	for key, value := range qaFlags(env, psd, topology) {
		record["qa_"+key] = value
	}
	if meta != nil {
		record["metadata_hash"] = metadataHash(meta)
		if meta.Stacked != nil {
			record["stacked_package_count"] = meta.Stacked.StackStatistics.PackageCount
		}
	}
	return record
}

// PreviewMetrics is the fast interactive subset: a single-direction short-lag
// variogram feeding β, fractal dimension, and entropy.
func PreviewMetrics(gray *raster.Raster) Record {
	variograms := ComputeVariogram(gray, DefaultDirections[:1], 8)
	betaIso, _ := FitPowerLaw(variograms.Isotropic)
	return Record{
		"beta_iso":          betaIso,
		"fractal_dimension": FractalDimension(betaIso),
		"entropy_global":    Entropy(gray),
	}
}

// qaFlags derives the boolean warning set: strong spectral anisotropy is only
// suspicious for braided belts, and channel coverage outside [0.05, 0.8] is
// implausible for any style.
func qaFlags(env string, psd PSD, topology map[string]float64) map[string]bool {
	flags := map[string]bool{
		"psd_anisotropy_warning": false,
		"channel_area_warning":   false,
	}
	if env == "braided" && psd.AspectRatio > 2.0 {
		flags["psd_anisotropy_warning"] = true
	}
	area := topology["channel_area_fraction"]
	if area < 0.05 || area > 0.8 {
		flags["channel_area_warning"] = true
	}
	return flags
}

// metadataHash fingerprints the realization metadata through its canonical
// JSON encoding. Struct field order makes the encoding stable.
func metadataHash(meta *facies.Realization) string {
	encoded, err := json.Marshal(meta)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(encoded))
}
