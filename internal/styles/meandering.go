package styles

import (
	"math"

	"fluvsynth/internal/facies"
	"fluvsynth/internal/overlay"
	"fluvsynth/pkg/raster"
	"fluvsynth/pkg/rng"
)

// MeanderConfig holds the tunable controls for meandering belt synthesis.
type MeanderConfig struct {
	Height int
	Width  int
	Seed   int64

	NControlPoints   int
	AmplitudeMin     float64
	AmplitudeMax     float64
	DriftFraction    float64
	ChannelWidthMin  float64
	ChannelWidthMax  float64
	LeveeIterations  int
	ScrollLambdaPx   float64
	OxbowProbability float64
	FloodplainNoise  float64
}

// DefaultMeanderConfig returns the standard meandering configuration.
func DefaultMeanderConfig() MeanderConfig {
	return MeanderConfig{
		Height:           512,
		Width:            512,
		Seed:             42,
		NControlPoints:   6,
		AmplitudeMin:     0.08,
		AmplitudeMax:     0.22,
		DriftFraction:    0.08,
		ChannelWidthMin:  26,
		ChannelWidthMax:  46,
		LeveeIterations:  5,
		ScrollLambdaPx:   28,
		OxbowProbability: 0.25,
		FloodplainNoise:  0.08,
	}
}

// MeanderFromMap populates the config from a flat key/value map. Unrecognized
// keys are ignored.
func MeanderFromMap(cfg map[string]string) MeanderConfig {
	c := DefaultMeanderConfig()
	if cfg == nil {
		return c
	}
	mapInt(cfg, "height", &c.Height)
	mapInt(cfg, "width", &c.Width)
	mapInt64(cfg, "seed", &c.Seed)
	mapInt(cfg, "n_control_points", &c.NControlPoints)
	mapFloat(cfg, "amplitude_min", &c.AmplitudeMin)
	mapFloat(cfg, "amplitude_max", &c.AmplitudeMax)
	mapFloat(cfg, "drift_fraction", &c.DriftFraction)
	mapFloat(cfg, "channel_width_min", &c.ChannelWidthMin)
	mapFloat(cfg, "channel_width_max", &c.ChannelWidthMax)
	mapInt(cfg, "levee_iterations", &c.LeveeIterations)
	mapFloat(cfg, "scroll_lambda_px", &c.ScrollLambdaPx)
	mapFloat(cfg, "oxbow_probability", &c.OxbowProbability)
	mapFloat(cfg, "floodplain_noise", &c.FloodplainNoise)
	return c
}

func generateMeanderingFromMap(params map[string]string) (Result, error) {
	cfg := MeanderFromMap(params)
	return GenerateMeandering(cfg, rng.New(cfg.Seed))
}

// GenerateMeandering builds a meandering belt: a drifting sinuous centerline,
// a variable bankfull channel, levee rims, scroll bars, oxbow scars, and the
// floodplain complement, composed into a normalized grayscale analog.
func GenerateMeandering(cfg MeanderConfig, r *rng.RNG) (Result, error) {
	h, w := cfg.Height, cfg.Width
	if h <= 0 {
		h = 1
	}
	if w <= 0 {
		w = 1
	}

	centerline := meanderCenterline(h, w, cfg, r)
	channel := variableWidthChannel(centerline, h, w, cfg.ChannelWidthMin, cfg.ChannelWidthMax, r)
	levee := leveeRim(channel, cfg.LeveeIterations)
	scroll := scrollBars(channel, cfg.ScrollLambdaPx)
	oxbow := oxbowScars(centerline, h, w, cfg.OxbowProbability, r)

	floodplain := raster.New(h, w)
	for i := range floodplain.Pix {
		occupied := channel.Pix[i] + oxbow.Pix[i]
		if occupied > 1 {
			occupied = 1
		}
		floodplain.Pix[i] = 1 - occupied
	}

	masks := facies.Set{
		facies.KeyChannel:    channel,
		facies.KeyLevee:      levee,
		facies.KeyScrollBar:  scroll,
		facies.KeyOxbow:      oxbow,
		facies.KeyFloodplain: floodplain,
	}

	gray := raster.New(h, w)
	gray.AddScaled(channel, 0.65).
		AddScaled(levee, 0.2).
		AddScaled(scroll, 0.1).
		AddScaled(oxbow, 0.15).
		AddScaled(floodplain, 0.35)

	composeAnalog(gray, masks, cfg.FloodplainNoise, r)
	gray, masks, meta := overlay.Apply(gray, masks, r, overlay.EnvMeandering)
	return Result{Gray: gray, Masks: masks, Meta: meta}, nil
}

// meanderCenterline positions control points along the horizontal axis with
// cumulative random drift plus a sinusoidal amplitude modulation, then
// interpolates to full width.
func meanderCenterline(h, w int, cfg MeanderConfig, r *rng.RNG) []float64 {
	nCtrl := cfg.NControlPoints
	if nCtrl < 3 {
		nCtrl = 3
	}
	ctrlX := raster.Linspace(0, float64(w-1), nCtrl)

	driftScale := cfg.DriftFraction * float64(h) * 0.5
	baseY := make([]float64, nCtrl)
	cum := 0.0
	for i := range baseY {
		cum += r.Normal(0, driftScale)
		baseY[i] = clamp(float64(h)/2+cum, float64(h)*0.2, float64(h)*0.8)
	}

	ampLo, ampHi := cfg.AmplitudeMin, cfg.AmplitudeMax
	if ampHi < ampLo {
		ampLo, ampHi = ampHi, ampLo
	}
	amps := make([]float64, nCtrl)
	for i := range amps {
		amps[i] = r.Uniform(ampLo, ampHi) * float64(h)
	}
	phase := r.Uniform(0, 2*math.Pi)

	ctrlY := make([]float64, nCtrl)
	theta := raster.Linspace(0, 2*math.Pi, nCtrl)
	for i := range ctrlY {
		ctrlY[i] = clamp(baseY[i]+math.Sin(theta[i]+phase)*amps[i], 0, float64(h-1))
	}

	samples := make([]float64, w)
	for x := range samples {
		samples[x] = float64(x)
	}
	return raster.Interp(samples, ctrlX, ctrlY)
}

// variableWidthChannel rasterizes |row − centerline| ≤ halfWidth with a
// piecewise-linear baseline width profile perturbed by noise and clamped to
// [min, max].
func variableWidthChannel(centerline []float64, h, w int, widthMin, widthMax float64, r *rng.RNG) *raster.Raster {
	columns := raster.Linspace(0, 1, w)
	profile := raster.Interp(columns,
		[]float64{0, 0.3, 0.7, 1},
		[]float64{widthMin, widthMax, widthMin * 1.1, widthMax * 0.9})
	noiseScale := (widthMax - widthMin) * 0.1
	for i := range profile {
		profile[i] = clamp(profile[i]+r.Normal(0, noiseScale), widthMin, widthMax)
	}

	mask := raster.New(h, w)
	for x := 0; x < w; x++ {
		half := profile[x] / 2
		center := centerline[x]
		for y := 0; y < h; y++ {
			if math.Abs(float64(y)-center) <= half {
				mask.Pix[y*w+x] = 1
			}
		}
	}
	return mask
}

// leveeRim dilates the channel and smooths it, keeping only the rim that
// exceeds the channel itself.
func leveeRim(channel *raster.Raster, iterations int) *raster.Raster {
	if iterations < 1 {
		iterations = 1
	}
	dilated := raster.GreyDilate(channel, iterations)
	sigma := float64(iterations) / 2
	if sigma < 1 {
		sigma = 1
	}
	blurred := raster.GaussianBlur(dilated, sigma)
	for i := range blurred.Pix {
		blurred.Pix[i] -= channel.Pix[i]
	}
	return blurred.Clamp01()
}

// scrollBars applies cosine banding keyed to distance-from-channel divided by
// the wavelength, restricted to a buffer around the channel.
func scrollBars(channel *raster.Raster, lambdaPx float64) *raster.Raster {
	out := raster.New(channel.H, channel.W)
	if lambdaPx <= 0 || channel.Max() < 0.5 {
		return out
	}
	if lambdaPx < 1 {
		lambdaPx = 1
	}
	dist := raster.DistanceToMask(channel.Threshold(0.5))
	for i, d := range dist.Pix {
		if channel.Pix[i] < 0.2 {
			continue
		}
		out.Pix[i] = 0.5 * (math.Cos(2*math.Pi*d/lambdaPx) + 1)
	}
	return out.Clamp01()
}

// oxbowScars seeds filled circular scars along evenly spaced columns with
// probability equal to the clamped neck-cutoff parameter.
func oxbowScars(centerline []float64, h, w int, probability float64, r *rng.RNG) *raster.Raster {
	mask := raster.New(h, w)
	step := w / 32
	if step < 10 {
		step = 10
	}
	probability = clamp(probability, 0, 1)
	maxRadius := float64(minInt(h, w)) * 0.08
	for col := step; col < w-step; col += step {
		if r.Float64() > probability {
			continue
		}
		row := int(clamp(centerline[col]+r.Normal(0, float64(h)*0.05), 0, float64(h-1)))
		radius := int(math.Max(4, r.Uniform(6, maxRadius)))
		fillCircle(mask, row, col, radius)
	}
	return mask
}

func fillCircle(mask *raster.Raster, row, col, radius int) {
	r2 := radius * radius
	for y := row - radius; y <= row+radius; y++ {
		if y < 0 || y >= mask.H {
			continue
		}
		for x := col - radius; x <= col+radius; x++ {
			if x < 0 || x >= mask.W {
				continue
			}
			dy, dx := y-row, x-col
			if dy*dy+dx*dx <= r2 {
				mask.Pix[y*mask.W+x] = 1
			}
		}
	}
}

// composeAnalog perturbs the weighted grayscale with Gaussian noise, min-max
// normalizes it, and clamps every mask into [0, 1]. Shared by all styles.
func composeAnalog(gray *raster.Raster, masks facies.Set, noiseScale float64, r *rng.RNG) {
	for i := range gray.Pix {
		gray.Pix[i] += r.Normal(0, noiseScale)
	}
	gray.ClampMin(0).Normalize()
	masks.Clamp01()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
