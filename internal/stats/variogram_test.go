package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluvsynth/pkg/raster"
)

func TestVariogramOfConstantFieldIsZero(t *testing.T) {
	v := ComputeVariogram(raster.NewFilled(16, 16, 0.5), DefaultDirections, 8)
	for name, series := range v.Directional {
		for i, gamma := range series.Semivariances {
			require.Zero(t, gamma, "direction %s lag index %d", name, i)
		}
	}
	beta, _ := FitPowerLaw(v.Isotropic)
	assert.Zero(t, beta, "no positive semivariances means no fit")
	assert.Equal(t, 3.0, FractalDimension(beta))
}

func TestVariogramDirectionalLagDistances(t *testing.T) {
	v := ComputeVariogram(raster.NewFilled(32, 32, 0.1), DefaultDirections, 4)
	require.Contains(t, v.Directional, "dir_45")
	diag := v.Directional["dir_45"]
	require.Len(t, diag.Lags, 4)
	assert.InDelta(t, math.Sqrt2, diag.Lags[0], 1e-12, "diagonal lag 1 spans sqrt(2) pixels")
	assert.InDelta(t, 2*math.Sqrt2, diag.Lags[1], 1e-12)

	axis := v.Directional["dir_0"]
	assert.Equal(t, 1.0, axis.Lags[0])
}

func TestVariogramTinyRasterDegradesGracefully(t *testing.T) {
	v := ComputeVariogram(raster.New(1, 1), DefaultDirections, 8)
	require.Equal(t, []float64{1}, v.Isotropic.Lags)
	require.Equal(t, []float64{0}, v.Isotropic.Semivariances)
}

func TestFitPowerLawRecoversExponent(t *testing.T) {
	series := Series{}
	for h := 1; h <= 12; h++ {
		series.Lags = append(series.Lags, float64(h))
		series.Semivariances = append(series.Semivariances, 0.5*math.Pow(float64(h), 1.5))
	}
	beta, intercept := FitPowerLaw(series)
	assert.InDelta(t, 1.5, beta, 1e-9)
	assert.InDelta(t, math.Log(0.5), intercept, 1e-9)
}

func TestFitPowerLawNeedsTwoValidPoints(t *testing.T) {
	beta, intercept := FitPowerLaw(Series{Lags: []float64{1, 2}, Semivariances: []float64{0, 0}})
	assert.Zero(t, beta)
	assert.Zero(t, intercept)
}

func TestTwoSegmentFitParallelSegmentsHaveNoCrossover(t *testing.T) {
	series := Series{}
	for h := 1; h <= 8; h++ {
		series.Lags = append(series.Lags, float64(h))
		series.Semivariances = append(series.Semivariances, 2*float64(h))
	}
	fit := TwoSegmentFit(series)
	assert.InDelta(t, 1.0, fit.BetaSeg1, 1e-9)
	assert.InDelta(t, 1.0, fit.BetaSeg2, 1e-9)
	assert.Zero(t, fit.H0, "near-equal slopes must report no resolvable crossover")
}

func TestTwoSegmentFitCrossoverStaysFinite(t *testing.T) {
	// Two genuinely different slopes with a tiny gap still yield a bounded h0.
	series := Series{}
	for h := 1; h <= 4; h++ {
		series.Lags = append(series.Lags, float64(h))
		series.Semivariances = append(series.Semivariances, math.Pow(float64(h), 0.5))
	}
	for h := 5; h <= 8; h++ {
		series.Lags = append(series.Lags, float64(h))
		series.Semivariances = append(series.Semivariances, math.Pow(float64(h), 2.5)/32)
	}
	fit := TwoSegmentFit(series)
	require.False(t, math.IsInf(fit.H0, 0))
	require.False(t, math.IsNaN(fit.H0))
	assert.LessOrEqual(t, fit.H0, math.Exp(crossoverExpBound))
}

func TestTwoSegmentFitFallsBackBelowFourPoints(t *testing.T) {
	series := Series{Lags: []float64{1, 2, 3}, Semivariances: []float64{1, 2, 3}}
	fit := TwoSegmentFit(series)
	assert.Equal(t, fit.BetaSeg1, fit.BetaSeg2, "fallback is a single global fit")
}

func TestEntropyOfConstantField(t *testing.T) {
	// All mass in one bin: density 64, entropy -64·log2(64) = -384.
	got := Entropy(raster.NewFilled(8, 8, 0.5))
	assert.InDelta(t, -384, got, 1e-6)
}

func TestEntropyIncreasesWithSpread(t *testing.T) {
	flat := Entropy(raster.NewFilled(8, 8, 0.5))
	ramp := raster.New(8, 8)
	for i := range ramp.Pix {
		ramp.Pix[i] = float64(i) / float64(len(ramp.Pix))
	}
	assert.Greater(t, Entropy(ramp), flat, "spread values carry more entropy than a constant")
}

func TestFractalDimensionClamps(t *testing.T) {
	assert.Equal(t, 3.0, FractalDimension(-1))
	assert.Equal(t, 2.0, FractalDimension(5))
	assert.InDelta(t, 2.5, FractalDimension(1), 1e-12)
}
