// Package raster provides the float-valued 2D fields that all generators and
// statistics operate on, together with the small set of image-processing
// primitives they need: separable Gaussian smoothing, grey dilation, Sobel
// gradients, and an exact Euclidean distance transform.
package raster

import (
	"math"
	"sort"
)

// Raster stores an H×W field of float64 samples in row-major order. Grayscale
// analogs and facies masks share this representation; mask values are
// conventionally confined to [0,1].
type Raster struct {
	W, H int
	Pix  []float64
}

// New allocates a zero-filled raster with the given dimensions.
func New(h, w int) *Raster {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Raster{W: w, H: h, Pix: make([]float64, w*h)}
}

// NewFilled allocates a raster with every sample set to fill.
func NewFilled(h, w int, fill float64) *Raster {
	r := New(h, w)
	for i := range r.Pix {
		r.Pix[i] = fill
	}
	return r
}

// Index returns the linear slice index for coordinates (x, y).
func (r *Raster) Index(x, y int) int { return y*r.W + x }

// At returns the sample at (x, y).
func (r *Raster) At(x, y int) float64 { return r.Pix[y*r.W+x] }

// Set stores v at (x, y).
func (r *Raster) Set(x, y int, v float64) { r.Pix[y*r.W+x] = v }

// Clone returns a deep copy of the raster.
func (r *Raster) Clone() *Raster {
	out := &Raster{W: r.W, H: r.H, Pix: make([]float64, len(r.Pix))}
	copy(out.Pix, r.Pix)
	return out
}

// SameShape reports whether o has identical dimensions.
func (r *Raster) SameShape(o *Raster) bool { return o != nil && r.W == o.W && r.H == o.H }

// Min returns the smallest sample value, or 0 for an empty raster.
func (r *Raster) Min() float64 {
	if len(r.Pix) == 0 {
		return 0
	}
	min := r.Pix[0]
	for _, v := range r.Pix[1:] {
		if v < min {
			min = v
		}
	}
	return min
}

// Max returns the largest sample value, or 0 for an empty raster.
func (r *Raster) Max() float64 {
	if len(r.Pix) == 0 {
		return 0
	}
	max := r.Pix[0]
	for _, v := range r.Pix[1:] {
		if v > max {
			max = v
		}
	}
	return max
}

// Mean returns the arithmetic mean of all samples, or 0 for an empty raster.
func (r *Raster) Mean() float64 {
	if len(r.Pix) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range r.Pix {
		sum += v
	}
	return sum / float64(len(r.Pix))
}

// Sum returns the total of all samples.
func (r *Raster) Sum() float64 {
	sum := 0.0
	for _, v := range r.Pix {
		sum += v
	}
	return sum
}

// Clamp01 clips every sample into [0, 1] in place and returns the receiver.
func (r *Raster) Clamp01() *Raster {
	for i, v := range r.Pix {
		if v < 0 {
			r.Pix[i] = 0
		} else if v > 1 {
			r.Pix[i] = 1
		}
	}
	return r
}

// ClampMin clips every sample below lo up to lo in place.
func (r *Raster) ClampMin(lo float64) *Raster {
	for i, v := range r.Pix {
		if v < lo {
			r.Pix[i] = lo
		}
	}
	return r
}

// Normalize rescales samples to [0, 1] by min-max in place. A field whose
// range is at most eps collapses to all zeros instead of dividing by the
// near-zero range.
func (r *Raster) Normalize() *Raster {
	const eps = 1e-6
	min, max := r.Min(), r.Max()
	if max-min <= eps {
		for i := range r.Pix {
			r.Pix[i] = 0
		}
		return r
	}
	inv := 1.0 / (max - min)
	for i, v := range r.Pix {
		r.Pix[i] = (v - min) * inv
	}
	return r
}

// AddScaled accumulates o*scale into the receiver. Shapes must match.
func (r *Raster) AddScaled(o *Raster, scale float64) *Raster {
	for i, v := range o.Pix {
		r.Pix[i] += v * scale
	}
	return r
}

// Scale multiplies every sample by s in place.
func (r *Raster) Scale(s float64) *Raster {
	for i := range r.Pix {
		r.Pix[i] *= s
	}
	return r
}

// MaxInPlace keeps the element-wise maximum of the receiver and o.
func (r *Raster) MaxInPlace(o *Raster) *Raster {
	for i, v := range o.Pix {
		if v > r.Pix[i] {
			r.Pix[i] = v
		}
	}
	return r
}

// Threshold returns a new raster holding 1 where the sample is >= level and 0
// elsewhere.
func (r *Raster) Threshold(level float64) *Raster {
	out := New(r.H, r.W)
	for i, v := range r.Pix {
		if v >= level {
			out.Pix[i] = 1
		}
	}
	return out
}

// Quantile returns the q-quantile (0..1) of the samples using linear
// interpolation between order statistics.
func (r *Raster) Quantile(q float64) float64 {
	if len(r.Pix) == 0 {
		return 0
	}
	sorted := make([]float64, len(r.Pix))
	copy(sorted, r.Pix)
	sort.Float64s(sorted)
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	frac := pos - float64(lo)
	if lo+1 >= len(sorted) {
		return sorted[lo]
	}
	return sorted[lo]*(1-frac) + sorted[lo+1]*frac
}

// NormalizedCoords returns row and column coordinate rasters spanning [0, 1].
func NormalizedCoords(h, w int) (yy, xx *Raster) {
	yy = New(h, w)
	xx = New(h, w)
	for y := 0; y < h; y++ {
		vy := 0.0
		if h > 1 {
			vy = float64(y) / float64(h-1)
		}
		for x := 0; x < w; x++ {
			vx := 0.0
			if w > 1 {
				vx = float64(x) / float64(w-1)
			}
			idx := y*w + x
			yy.Pix[idx] = vy
			xx.Pix[idx] = vx
		}
	}
	return yy, xx
}

// Linspace fills a slice with n evenly spaced values from start to stop
// inclusive.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	out := make([]float64, n)
	if n == 1 {
		out[0] = start
		return out
	}
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}

// Interp evaluates piecewise-linear interpolation of (xs, ys) at each sample
// point, clamping outside the knot range like numpy's interp.
func Interp(samples, xs, ys []float64) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = interpOne(s, xs, ys)
	}
	return out
}

func interpOne(x float64, xs, ys []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	for i := 1; i < len(xs); i++ {
		if x <= xs[i] {
			span := xs[i] - xs[i-1]
			if span == 0 {
				return ys[i]
			}
			t := (x - xs[i-1]) / span
			return ys[i-1]*(1-t) + ys[i]*t
		}
	}
	return ys[len(ys)-1]
}
