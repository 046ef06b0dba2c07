// Package overlay applies sedimentary textures on top of any style's output:
// channel fill, cross-bedding, ripple marks, lateral-accretion surfaces, and
// fining-upward/mudstone masks, plus the derived petrology metadata. Every
// step degrades to an empty result when its required input mask is absent, so
// the chain is total over any valid synthesizer output.
package overlay

import (
	"math"

	"fluvsynth/internal/facies"
	"fluvsynth/pkg/raster"
	"fluvsynth/pkg/rng"
)

// Env selects style-dependent overlay behavior.
type Env string

const (
	EnvMeandering   Env = "meandering"
	EnvBraided      Env = "braided"
	EnvAnastomosing Env = "anastomosing"
)

// crossBedStyle returns the bedding geometry for an environment: braided
// belts get the higher-frequency trough style.
func (e Env) crossBedStyle() bedStyle {
	if e == EnvBraided {
		return bedTrough
	}
	return bedPlanar
}

type bedStyle int

const (
	bedPlanar bedStyle = iota
	bedTrough
)

const channelFillStrength = 0.5

// Apply runs the full overlay chain over a synthesized grayscale and mask
// collection, returning the textured grayscale, the extended mask set, and
// the realization metadata. The metadata is recomputed from the final masks.
func Apply(gray *raster.Raster, masks facies.Set, r *rng.RNG, env Env) (*raster.Raster, facies.Set, *facies.Realization) {
	updated := channelFill(gray, masks, r)

	if fill := masks[facies.KeyChannelFill]; fill != nil && fill.Max() > 0 {
		cross := crossBedding(fill, env.crossBedStyle(), r)
		updated.AddScaled(cross, 0.1).Clamp01()
		masks[facies.KeyCrossBed] = cross

		if base := masks.First(facies.OverbankKeys...); base != nil {
			ripple := rippleMarks(base, r)
			updated.AddScaled(ripple, 0.05).Clamp01()
			masks[facies.KeyRipple] = ripple
		}
	}

	if channel := masks.First(facies.ChannelKeys...); channel != nil {
		masks[facies.KeyLateralAccretion] = lateralAccretion(channel, r)

		floodplain := masks.First(facies.OverbankKeys...)
		fining, mudstone := finingAndMudstone(channel, floodplain, r)
		masks[facies.KeyFiningUpward] = fining
		if mudstone != nil {
			masks[facies.KeyOverbankMudstone] = mudstone
		}
	}

	meta := Petrology(masks)
	return updated, masks, meta
}

// channelFill blends a distance-to-edge proximity field with smoothed noise
// inside the primary channel mask and records the footprint under
// channel_fill. Without a channel mask the grayscale passes through
// untouched.
func channelFill(gray *raster.Raster, masks facies.Set, r *rng.RNG) *raster.Raster {
	channel := masks.First(facies.ChannelKeys...)
	if channel == nil {
		return gray
	}
	footprint := raster.New(channel.H, channel.W)
	any := false
	for i, v := range channel.Pix {
		if v != 0 {
			footprint.Pix[i] = 1
			any = true
		}
	}
	if !any {
		masks[facies.KeyChannelFill] = footprint
		return gray
	}

	noise := raster.New(gray.H, gray.W)
	r.FillNormal(noise.Pix, 1)
	noise = raster.GaussianBlur(noise, 5)

	// Depth inside the channel: distance to the nearest exterior cell.
	exterior := raster.New(channel.H, channel.W)
	for i, v := range footprint.Pix {
		if v == 0 {
			exterior.Pix[i] = 1
		}
	}
	depth := raster.DistanceToMask(exterior)
	depthMax := finiteMax(depth) + 1e-5

	out := gray.Clone()
	for i := range out.Pix {
		if footprint.Pix[i] == 0 {
			continue
		}
		d := depth.Pix[i]
		if math.IsInf(d, 1) {
			d = depthMax
		}
		fill := clamp01((1-d/depthMax)*0.7 + noise.Pix[i]*0.3)
		out.Pix[i] = clamp01(gray.Pix[i]*(1-channelFillStrength) + fill*channelFillStrength)
	}
	masks[facies.KeyChannelFill] = footprint
	return out
}

// crossBedding lays oriented sinusoidal banding over the channel-fill
// footprint. Trough-style bedding uses a higher band frequency than planar,
// so the same seed still yields distinct output per style.
func crossBedding(fill *raster.Raster, style bedStyle, r *rng.RNG) *raster.Raster {
	orientation := r.Uniform(-math.Pi/4, math.Pi/4)
	frequency := 0.25
	if style == bedTrough {
		frequency = 0.4
	}
	phase := r.Uniform(0, 2*math.Pi)
	cos, sin := math.Cos(orientation), math.Sin(orientation)

	out := raster.New(fill.H, fill.W)
	for y := 0; y < fill.H; y++ {
		for x := 0; x < fill.W; x++ {
			idx := y*fill.W + x
			if fill.Pix[idx] == 0 {
				continue
			}
			proj := float64(x)*cos + float64(y)*sin
			band := 0.5 * (1 + math.Sin(frequency*proj*2*math.Pi+phase))
			out.Pix[idx] = clamp01(band * fill.Pix[idx])
		}
	}
	return out
}

// rippleMarks builds a two-axis sinusoidal interference pattern, smooths it,
// and masks it to the overbank/floodplain area.
func rippleMarks(overbank *raster.Raster, r *rng.RNG) *raster.Raster {
	wavelength := r.Uniform(8, 14)
	out := raster.New(overbank.H, overbank.W)
	for y := 0; y < overbank.H; y++ {
		for x := 0; x < overbank.W; x++ {
			phase := float64(y)/wavelength + float64(x)/(wavelength*0.7)
			out.Pix[y*overbank.W+x] = 0.5 * (1 + math.Sin(phase*2*math.Pi))
		}
	}
	out = raster.GaussianBlur(out, 1)
	for i := range out.Pix {
		out.Pix[i] = clamp01(out.Pix[i] * overbank.Pix[i])
	}
	return out
}

// lateralAccretion approximates accretion surfaces as the jittered gradient
// magnitude of a distance band hugging the channel.
func lateralAccretion(channel *raster.Raster, r *rng.RNG) *raster.Raster {
	out := raster.New(channel.H, channel.W)
	if channel.Max() < 0.5 {
		for i := range out.Pix {
			out.Pix[i] = clamp01(r.Normal(0, 0.05))
		}
		return out
	}
	dist := raster.DistanceToMask(channel.Threshold(0.5))
	distMax := finiteMax(dist) + 1e-5
	band := raster.New(channel.H, channel.W)
	for i, d := range dist.Pix {
		band.Pix[i] = clamp01(1 - d/distMax)
	}
	grad := raster.SobelX(band).Abs()
	for i := range out.Pix {
		out.Pix[i] = clamp01(clamp01(grad.Pix[i]*channel.Pix[i]) + r.Normal(0, 0.05))
	}
	return out
}

// finingAndMudstone derives the fining-upward mask (smoothed inverse
// distance-from-channel restricted to the channel) and the overbank mudstone
// mask (smoothed floodplain field with noise). mudstone is nil when no
// floodplain mask exists.
func finingAndMudstone(channel, floodplain *raster.Raster, r *rng.RNG) (fining, mudstone *raster.Raster) {
	fining = raster.New(channel.H, channel.W)
	if channel.Max() >= 0.5 {
		dist := raster.DistanceToMask(channel.Threshold(0.5))
		distMax := finiteMax(dist) + 1e-5
		for i, d := range dist.Pix {
			fining.Pix[i] = clamp01(1 - d/distMax)
		}
		fining = raster.GaussianBlur(fining, 2)
		for i := range fining.Pix {
			fining.Pix[i] = clamp01(fining.Pix[i] * channel.Pix[i])
		}
	}
	if floodplain == nil {
		return fining, nil
	}
	mudstone = raster.GaussianBlur(floodplain, 3)
	for i := range mudstone.Pix {
		mudstone.Pix[i] = clamp01(mudstone.Pix[i] + r.Normal(0, 0.05))
	}
	return fining, mudstone
}

func finiteMax(r *raster.Raster) float64 {
	max := 0.0
	for _, v := range r.Pix {
		if !math.IsInf(v, 1) && v > max {
			max = v
		}
	}
	return max
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
