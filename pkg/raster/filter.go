package raster

import "math"

// GaussianBlur returns a smoothed copy of r using a separable Gaussian kernel.
// The kernel radius is 4σ (truncated), edges are handled by clamping to the
// nearest sample.
func GaussianBlur(r *Raster, sigma float64) *Raster {
	if sigma <= 0 {
		return r.Clone()
	}
	kernel := gaussianKernel(sigma)
	tmp := New(r.H, r.W)
	out := New(r.H, r.W)
	convolveRows(r, tmp, kernel)
	convolveCols(tmp, out, kernel)
	return out
}

// GaussianBlur1D smooths a 1-D signal with a clamped-edge Gaussian kernel.
func GaussianBlur1D(signal []float64, sigma float64) []float64 {
	out := make([]float64, len(signal))
	if sigma <= 0 {
		copy(out, signal)
		return out
	}
	kernel := gaussianKernel(sigma)
	radius := len(kernel) / 2
	n := len(signal)
	for i := range signal {
		sum := 0.0
		for k, kv := range kernel {
			j := i + k - radius
			if j < 0 {
				j = 0
			} else if j >= n {
				j = n - 1
			}
			sum += signal[j] * kv
		}
		out[i] = sum
	}
	return out
}

func gaussianKernel(sigma float64) []float64 {
	radius := int(4*sigma + 0.5)
	if radius < 1 {
		radius = 1
	}
	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-d * d / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func convolveRows(src, dst *Raster, kernel []float64) {
	radius := len(kernel) / 2
	for y := 0; y < src.H; y++ {
		row := src.Pix[y*src.W : (y+1)*src.W]
		for x := 0; x < src.W; x++ {
			sum := 0.0
			for k, kv := range kernel {
				j := x + k - radius
				if j < 0 {
					j = 0
				} else if j >= src.W {
					j = src.W - 1
				}
				sum += row[j] * kv
			}
			dst.Pix[y*src.W+x] = sum
		}
	}
}

func convolveCols(src, dst *Raster, kernel []float64) {
	radius := len(kernel) / 2
	for x := 0; x < src.W; x++ {
		for y := 0; y < src.H; y++ {
			sum := 0.0
			for k, kv := range kernel {
				j := y + k - radius
				if j < 0 {
					j = 0
				} else if j >= src.H {
					j = src.H - 1
				}
				sum += src.Pix[j*src.W+x] * kv
			}
			dst.Pix[y*src.W+x] = sum
		}
	}
}

// GreyDilate returns the morphological grey dilation of r with a size×size
// square structuring element, computed as separable running maxima.
func GreyDilate(r *Raster, size int) *Raster {
	if size <= 1 {
		return r.Clone()
	}
	// A size-n square window centered like scipy's grey_dilation: offsets
	// [-(n-1)/2, n/2].
	lo := -(size - 1) / 2
	hi := size / 2
	tmp := New(r.H, r.W)
	out := New(r.H, r.W)
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			max := math.Inf(-1)
			for d := lo; d <= hi; d++ {
				j := x + d
				if j < 0 || j >= r.W {
					continue
				}
				if v := r.Pix[y*r.W+j]; v > max {
					max = v
				}
			}
			tmp.Pix[y*r.W+x] = max
		}
	}
	for x := 0; x < r.W; x++ {
		for y := 0; y < r.H; y++ {
			max := math.Inf(-1)
			for d := lo; d <= hi; d++ {
				j := y + d
				if j < 0 || j >= r.H {
					continue
				}
				if v := tmp.Pix[j*r.W+x]; v > max {
					max = v
				}
			}
			out.Pix[y*r.W+x] = max
		}
	}
	return out
}

// SobelX returns the Sobel derivative along the x axis ([-1 0 1] differencing
// with [1 2 1] smoothing across rows), clamped edges.
func SobelX(r *Raster) *Raster {
	out := New(r.H, r.W)
	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		} else if x >= r.W {
			x = r.W - 1
		}
		if y < 0 {
			y = 0
		} else if y >= r.H {
			y = r.H - 1
		}
		return r.Pix[y*r.W+x]
	}
	for y := 0; y < r.H; y++ {
		for x := 0; x < r.W; x++ {
			v := (at(x+1, y-1) - at(x-1, y-1)) +
				2*(at(x+1, y)-at(x-1, y)) +
				(at(x+1, y+1) - at(x-1, y+1))
			out.Pix[y*r.W+x] = v
		}
	}
	return out
}

// Abs replaces every sample with its absolute value in place.
func (r *Raster) Abs() *Raster {
	for i, v := range r.Pix {
		if v < 0 {
			r.Pix[i] = -v
		}
	}
	return r
}

// BinaryErode returns the 4-connected binary erosion of mask > 0.5: a cell
// survives only if it and all four edge neighbors are set. Border cells are
// eroded.
func BinaryErode(r *Raster) *Raster {
	out := New(r.H, r.W)
	for y := 1; y < r.H-1; y++ {
		for x := 1; x < r.W-1; x++ {
			if r.Pix[y*r.W+x] <= 0.5 {
				continue
			}
			if r.Pix[(y-1)*r.W+x] > 0.5 && r.Pix[(y+1)*r.W+x] > 0.5 &&
				r.Pix[y*r.W+x-1] > 0.5 && r.Pix[y*r.W+x+1] > 0.5 {
				out.Pix[y*r.W+x] = 1
			}
		}
	}
	return out
}
