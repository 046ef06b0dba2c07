// Package facies defines the named mask collections produced by the style
// synthesizers and the metadata records attached to a realization.
package facies

import (
	"sort"

	"fluvsynth/pkg/raster"
)

// Canonical mask keys shared across styles. Some keys are style-specific:
// anastomosing belts carry branch_channel where the others carry channel.
const (
	KeyChannel          = "channel"
	KeyBranchChannel    = "branch_channel"
	KeyLevee            = "levee"
	KeyScrollBar        = "scroll_bar"
	KeyOxbow            = "oxbow"
	KeyFloodplain       = "floodplain"
	KeyBar              = "bar"
	KeyChute            = "chute"
	KeyMarsh            = "marsh"
	KeyFan              = "fan"
	KeyOverbank         = "overbank"
	KeyWetlandWater     = "wetland_water"
	KeyChannelFill      = "channel_fill"
	KeyCrossBed         = "cross_bed"
	KeyRipple           = "ripple"
	KeyLateralAccretion = "lateral_accretion"
	KeyFiningUpward     = "fining_upward"
	KeyOverbankMudstone = "overbank_mudstone"
	KeyPackageIDMap     = "package_id_map"
	KeyUpperSurface     = "upper_surface_mask"
	KeyErosionSurface   = "erosion_surface_mask"
)

// ChannelKeys and OverbankKeys are the ordered alias lists tried when a call
// site needs "the" channel or overbank mask regardless of style.
var (
	ChannelKeys  = []string{KeyChannel, KeyBranchChannel}
	OverbankKeys = []string{KeyOverbank, KeyFloodplain}
)

// Set maps facies names to mask rasters.
type Set map[string]*raster.Raster

// First returns the first mask present under the given ordered key list, or
// nil when none exists.
func (s Set) First(keys ...string) *raster.Raster {
	for _, key := range keys {
		if m, ok := s[key]; ok && m != nil {
			return m
		}
	}
	return nil
}

// Means returns the mean value of every mask, keyed by facies name.
func (s Set) Means() map[string]float64 {
	out := make(map[string]float64, len(s))
	for key, m := range s {
		if m != nil {
			out[key] = m.Mean()
		}
	}
	return out
}

// MergeMax folds other into s by element-wise maximum per key, adopting
// clones of masks s does not hold yet.
func (s Set) MergeMax(other Set) {
	for key, m := range other {
		if m == nil {
			continue
		}
		if held, ok := s[key]; ok && held != nil {
			held.MaxInPlace(m)
		} else {
			s[key] = m.Clone()
		}
	}
}

// SortedKeys returns the facies names in lexical order.
func (s Set) SortedKeys() []string {
	keys := make([]string, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Clamp01 clips every mask into [0, 1] in place.
func (s Set) Clamp01() {
	for _, m := range s {
		if m != nil {
			m.Clamp01()
		}
	}
}

// Mineralogy holds the three-component mineral fractions of a realization.
// The fractions sum to 1 within a small rounding tolerance.
type Mineralogy struct {
	Feldspar float64 `json:"feldspar"`
	Quartz   float64 `json:"quartz"`
	Clay     float64 `json:"clay"`
}

// Sum returns the fraction total.
func (m Mineralogy) Sum() float64 { return m.Feldspar + m.Quartz + m.Clay }

// Realization is the read-only metadata block computed once at the end of
// overlay composition (single mode) or package sequencing (stacked mode).
type Realization struct {
	Mineralogy      Mineralogy    `json:"mineralogy"`
	CementSignature string        `json:"cement_signature"`
	MudClasts       bool          `json:"mud_clasts_bool"`
	BranchStability float64       `json:"branch_stability,omitempty"`
	Stacked         *StackSummary `json:"stacked_packages,omitempty"`
}

// PackageMeta summarizes one stacked package. Produced once, never mutated.
type PackageMeta struct {
	PackageID      int                `json:"package_id"`
	Style          string             `json:"style"`
	ThicknessPx    float64            `json:"thickness_px"`
	ReliefPx       float64            `json:"relief_px"`
	ErosionDepthPx float64            `json:"erosion_depth_px"`
	Seed           int64              `json:"seed"`
	MaskMeans      map[string]float64 `json:"mask_means"`
}

// StackStatistics aggregates a package sequence.
type StackStatistics struct {
	PackageCount     int            `json:"package_count"`
	PackageMix       map[string]int `json:"package_mix"`
	TotalReliefPx    float64        `json:"total_relief_px"`
	TotalThicknessPx float64        `json:"total_thickness_px"`
	MinGray          float64        `json:"min_gray"`
	MaxGray          float64        `json:"max_gray"`
}

// StackSummary embeds the package list and aggregate statistics into the
// realization metadata of a stacked result.
type StackSummary struct {
	Packages        []PackageMeta   `json:"packages"`
	StackStatistics StackStatistics `json:"stack_statistics"`
}
