package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"fluvsynth/pkg/raster"
)

// Series is one lag/semivariance sequence.
type Series struct {
	Lags          []float64
	Semivariances []float64
}

// Direction is a named unit pixel offset for directional variograms.
type Direction struct {
	Name   string
	Dy, Dx int
}

// DefaultDirections covers the four axis directions at 45° increments.
var DefaultDirections = []Direction{
	{"dir_0", 0, 1},
	{"dir_45", -1, 1},
	{"dir_90", 1, 0},
	{"dir_135", 1, 1},
}

// Variograms holds the directional series plus the isotropic aggregate.
type Variograms struct {
	Directional map[string]Series
	Isotropic   Series
}

// ComputeVariogram builds directional semivariograms over lags 1..maxLag and
// aggregates every directional sample into an isotropic series sorted by lag
// distance. A direction stops early once its shifted window is empty; a raster
// too small for any pair yields the degenerate series {1: 0}.
func ComputeVariogram(gray *raster.Raster, dirs []Direction, maxLag int) Variograms {
	out := Variograms{Directional: map[string]Series{}}

	for _, d := range dirs {
		var series Series
		for lag := 1; lag <= maxLag; lag++ {
			sy, sx := d.Dy*lag, d.Dx*lag
			semivar, n := shiftedSemivariance(gray, sy, sx)
			if n == 0 {
				break
			}
			series.Lags = append(series.Lags, math.Hypot(float64(sy), float64(sx)))
			series.Semivariances = append(series.Semivariances, semivar)
		}
		if len(series.Lags) == 0 {
			continue
		}
		out.Directional[d.Name] = series
		out.Isotropic.Lags = append(out.Isotropic.Lags, series.Lags...)
		out.Isotropic.Semivariances = append(out.Isotropic.Semivariances, series.Semivariances...)
	}

	if len(out.Isotropic.Lags) == 0 {
		out.Isotropic = Series{Lags: []float64{1}, Semivariances: []float64{0}}
		return out
	}
	idx := make([]int, len(out.Isotropic.Lags))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return out.Isotropic.Lags[idx[a]] < out.Isotropic.Lags[idx[b]]
	})
	sortedLags := make([]float64, len(idx))
	sortedGamma := make([]float64, len(idx))
	for i, j := range idx {
		sortedLags[i] = out.Isotropic.Lags[j]
		sortedGamma[i] = out.Isotropic.Semivariances[j]
	}
	out.Isotropic = Series{Lags: sortedLags, Semivariances: sortedGamma}
	return out
}

// shiftedSemivariance is half the mean squared difference between the raster
// and its copy shifted by (sy, sx), over the overlapping window.
func shiftedSemivariance(gray *raster.Raster, sy, sx int) (float64, int) {
	h, w := gray.H, gray.W
	y0, y1 := max(0, sy), h+min(0, sy)
	x0, x1 := max(0, sx), w+min(0, sx)
	if y1 <= y0 || x1 <= x0 {
		return 0, 0
	}
	sum := 0.0
	n := 0
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			a := gray.Pix[y*w+x]
			b := gray.Pix[(y-sy)*w+(x-sx)]
			d := a - b
			sum += d * d
			n++
		}
	}
	return 0.5 * sum / float64(n), n
}

// FitPowerLaw fits log γ = a + β·log h by least squares over strictly
// positive pairs, returning (β, a). Fewer than two valid pairs yields (0, 0).
func FitPowerLaw(s Series) (beta, intercept float64) {
	var xs, ys []float64
	for i, lag := range s.Lags {
		if lag > 0 && s.Semivariances[i] > 0 {
			xs = append(xs, math.Log(lag))
			ys = append(ys, math.Log(s.Semivariances[i]))
		}
	}
	if len(xs) < 2 {
		return 0, 0
	}
	alpha, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope, alpha
}

// SegmentFit is the two-segment log-log variogram fit.
type SegmentFit struct {
	BetaSeg1 float64
	BetaSeg2 float64
	H0       float64
}

// crossoverExpBound caps the crossover exponent so near-parallel segments
// cannot overflow the exponential.
const crossoverExpBound = 50.0

// TwoSegmentFit splits the valid pairs at the midpoint and fits each half.
// With fewer than four valid pairs it degrades to a single global fit. When
// the two slopes are indistinguishable the crossover lag is reported as 0:
// parallel segments have no resolvable crossover.
func TwoSegmentFit(s Series) SegmentFit {
	var lags, gamma []float64
	for i, lag := range s.Lags {
		if lag > 0 && s.Semivariances[i] > 0 {
			lags = append(lags, lag)
			gamma = append(gamma, s.Semivariances[i])
		}
	}
	if len(lags) < 4 {
		beta, intercept := FitPowerLaw(s)
		return SegmentFit{BetaSeg1: beta, BetaSeg2: beta, H0: math.Exp(intercept)}
	}
	split := len(lags) / 2
	beta1, b1 := FitPowerLaw(Series{Lags: lags[:split], Semivariances: gamma[:split]})
	beta2, b2 := FitPowerLaw(Series{Lags: lags[split:], Semivariances: gamma[split:]})

	denom := beta1 - beta2
	if math.Abs(denom) < 1e-6 {
		return SegmentFit{BetaSeg1: beta1, BetaSeg2: beta2, H0: 0}
	}
	exp := (b2 - b1) / denom
	if exp > crossoverExpBound {
		exp = crossoverExpBound
	} else if exp < -crossoverExpBound {
		exp = -crossoverExpBound
	}
	return SegmentFit{BetaSeg1: beta1, BetaSeg2: beta2, H0: math.Exp(exp)}
}

// Entropy is the Shannon entropy of the grayscale's 64-bin density histogram
// over [0, 1], counting only non-empty bins.
func Entropy(gray *raster.Raster) float64 {
	const bins = 64
	counts := make([]float64, bins)
	total := 0.0
	for _, v := range gray.Pix {
		if v < 0 || v > 1 {
			continue
		}
		b := int(v * bins)
		if b >= bins {
			b = bins - 1
		}
		counts[b]++
		total++
	}
	if total == 0 {
		return 0
	}
	// density = count / (total * binWidth) with binWidth = 1/64
	sum := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		d := c * bins / total
		sum += d * math.Log2(d+1e-12)
	}
	return -sum
}

// FractalDimension approximates fractal dimension from the isotropic
// variogram slope, clamped to the physically meaningful [2, 3] band.
func FractalDimension(beta float64) float64 {
	d := 3 - beta/2
	if d < 2 {
		return 2
	}
	if d > 3 {
		return 3
	}
	return d
}
