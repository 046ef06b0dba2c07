package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluvsynth/pkg/raster"
)

func horizontalGradient(h, w int) *raster.Raster {
	r := raster.New(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r.Pix[y*w+x] = float64(x) / float64(w-1)
		}
	}
	return r
}

func TestPSDAnisotropyOnHorizontalGradient(t *testing.T) {
	psd := PSDAnisotropy(horizontalGradient(32, 32))
	require.Greater(t, psd.AspectRatio, 1.0,
		"a pure horizontal gradient concentrates power along one frequency axis")
	assert.Less(t, math.Abs(psd.ThetaDeg), 10.0,
		"major axis must align with the gradient direction")
}

func TestPSDAnisotropyTransposedGradientRotates(t *testing.T) {
	vertical := raster.New(32, 32)
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			vertical.Pix[y*32+x] = float64(y) / 31
		}
	}
	psd := PSDAnisotropy(vertical)
	require.Greater(t, psd.AspectRatio, 1.0)
	assert.Greater(t, math.Abs(psd.ThetaDeg), 45.0,
		"a vertical gradient's major axis is far from the horizontal")
}

func TestPSDAnisotropyNearIsotropicField(t *testing.T) {
	// A radially symmetric bump has no preferred direction.
	bump := raster.New(33, 33)
	for y := 0; y < 33; y++ {
		for x := 0; x < 33; x++ {
			dy, dx := float64(y-16), float64(x-16)
			bump.Pix[y*33+x] = math.Exp(-(dy*dy + dx*dx) / 40)
		}
	}
	psd := PSDAnisotropy(bump)
	assert.InDelta(t, 1.0, psd.AspectRatio, 0.15)
}

func TestPowerSpectrumDCIsRemoved(t *testing.T) {
	power := powerSpectrum(raster.NewFilled(8, 8, 0.9))
	for i, p := range power {
		assert.InDelta(t, 0, p, 1e-18, "mean-centered constant field has no power (bin %d)", i)
	}
}
