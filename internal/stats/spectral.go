package stats

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"

	"fluvsynth/pkg/raster"
)

// PSD summarizes spectral anisotropy as the second-moment ellipse of the
// centered power spectrum.
type PSD struct {
	AspectRatio float64
	ThetaDeg    float64
}

// PSDAnisotropy mean-centers the grayscale, takes its 2-D power spectrum, and
// fits a second-moment ellipse over the zero-frequency-centered power with
// normalized frequency coordinates in [-0.5, 0.5]. The aspect ratio is the
// square root of the eigenvalue ratio; theta is the major-axis orientation in
// degrees.
func PSDAnisotropy(gray *raster.Raster) PSD {
	h, w := gray.H, gray.W
	power := powerSpectrum(gray)

	// Coordinates of each unshifted frequency index after centering.
	ys := shiftedCoords(h)
	xs := shiftedCoords(w)

	total := 1e-9
	for _, p := range power {
		total += p
	}
	var mXX, mYY, mXY float64
	for y := 0; y < h; y++ {
		fy := ys[y]
		for x := 0; x < w; x++ {
			fx := xs[x]
			weight := power[y*w+x] / total
			mXX += weight * fx * fx
			mYY += weight * fy * fy
			mXY += weight * fx * fy
		}
	}

	trace := mXX + mYY
	det := mXX*mYY - mXY*mXY
	eigTerm := trace*trace/4 - det
	if eigTerm < 0 {
		eigTerm = 0
	}
	root := math.Sqrt(eigTerm)
	lambda1 := trace/2 + root
	lambda2 := trace/2 - root

	ratio := math.Sqrt((lambda1 + 1e-9) / (lambda2 + 1e-9))
	theta := 0.5 * (180 / math.Pi) * math.Atan2(2*mXY, mXX-mYY+1e-9)
	return PSD{AspectRatio: ratio, ThetaDeg: theta}
}

// powerSpectrum computes |FFT2(gray - mean)|² row-major, unshifted.
func powerSpectrum(gray *raster.Raster) []float64 {
	h, w := gray.H, gray.W
	mean := gray.Mean()

	data := make([]complex128, h*w)
	for i, v := range gray.Pix {
		data[i] = complex(v-mean, 0)
	}

	rowFFT := fourier.NewCmplxFFT(w)
	rowIn := make([]complex128, w)
	for y := 0; y < h; y++ {
		copy(rowIn, data[y*w:(y+1)*w])
		rowFFT.Coefficients(data[y*w:(y+1)*w], rowIn)
	}

	colFFT := fourier.NewCmplxFFT(h)
	colIn := make([]complex128, h)
	colOut := make([]complex128, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			colIn[y] = data[y*w+x]
		}
		colFFT.Coefficients(colOut, colIn)
		for y := 0; y < h; y++ {
			data[y*w+x] = colOut[y]
		}
	}

	power := make([]float64, h*w)
	for i, c := range data {
		re, im := real(c), imag(c)
		power[i] = re*re + im*im
	}
	return power
}

// shiftedCoords maps each unshifted FFT index to its centered normalized
// frequency coordinate, so no explicit fftshift pass over the spectrum is
// needed.
func shiftedCoords(n int) []float64 {
	grid := raster.Linspace(-0.5, 0.5, n)
	out := make([]float64, n)
	for k := 0; k < n; k++ {
		out[k] = grid[(k+n/2)%n]
	}
	return out
}
