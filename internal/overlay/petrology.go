package overlay

import (
	"math"

	"fluvsynth/internal/facies"
)

// Petrology derives the realization metadata from mask means: feldspar is
// biased by the channel-fill share, clay by the overbank+marsh share, quartz
// takes the remainder. Fractions are rounded to three decimals and
// renormalized so they sum to 1 within 1.5e-3 even for all-zero masks.
func Petrology(masks facies.Set) *facies.Realization {
	channelFill := maskMean(masks, facies.KeyChannelFill)
	overbank := 0.0
	if m := masks.First(facies.OverbankKeys...); m != nil {
		overbank = m.Mean()
	}
	marsh := maskMean(masks, facies.KeyMarsh)

	total := channelFill + overbank + marsh + 1e-6
	feldspar := clampRange(channelFill/total, 0.2, 0.7)
	clay := clampRange((overbank+marsh)/total*0.5, 0.1, 0.6)
	quartz := math.Max(0, 1-feldspar-clay)
	norm := feldspar + clay + quartz + 1e-9

	cement := "calcite"
	if marsh > 0.2 {
		cement = "kaolinite"
	}
	return &facies.Realization{
		Mineralogy: facies.Mineralogy{
			Feldspar: round3(feldspar / norm),
			Quartz:   round3(quartz / norm),
			Clay:     round3(clay / norm),
		},
		CementSignature: cement,
		MudClasts:       overbank > 0.1,
	}
}

func maskMean(masks facies.Set, key string) float64 {
	if m, ok := masks[key]; ok && m != nil {
		return m.Mean()
	}
	return 0
}

func clampRange(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
