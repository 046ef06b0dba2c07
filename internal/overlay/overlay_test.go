package overlay

import (
	"testing"

	"fluvsynth/internal/facies"
	"fluvsynth/pkg/raster"
	"fluvsynth/pkg/rng"
)

func channelBand(h, w, top, bottom int) *raster.Raster {
	m := raster.New(h, w)
	for y := top; y < bottom; y++ {
		for x := 0; x < w; x++ {
			m.Pix[y*w+x] = 1
		}
	}
	return m
}

func TestApplyWithoutChannelPassesGrayThrough(t *testing.T) {
	gray := raster.NewFilled(8, 8, 0.4)
	masks := facies.Set{facies.KeyMarsh: raster.NewFilled(8, 8, 0.2)}

	out, outMasks, meta := Apply(gray, masks, rng.New(1), EnvMeandering)
	for i, v := range out.Pix {
		if v != 0.4 {
			t.Fatalf("pixel %d = %g, want pass-through 0.4", i, v)
		}
	}
	if _, ok := outMasks[facies.KeyChannelFill]; ok {
		t.Fatal("no channel mask, so no channel_fill mask should appear")
	}
	if meta == nil {
		t.Fatal("metadata must be computed even without a channel")
	}
}

func TestApplyWithChannelAddsTextureMasks(t *testing.T) {
	gray := raster.NewFilled(16, 16, 0.3)
	masks := facies.Set{
		facies.KeyChannel:    channelBand(16, 16, 6, 10),
		facies.KeyFloodplain: raster.NewFilled(16, 16, 0.5),
	}

	out, outMasks, meta := Apply(gray, masks, rng.New(7), EnvMeandering)
	for _, key := range []string{
		facies.KeyChannelFill,
		facies.KeyCrossBed,
		facies.KeyRipple,
		facies.KeyLateralAccretion,
		facies.KeyFiningUpward,
		facies.KeyOverbankMudstone,
	} {
		if outMasks[key] == nil {
			t.Fatalf("overlay must produce mask %q", key)
		}
	}
	if out.Min() < 0 || out.Max() > 1 {
		t.Fatalf("textured gray range [%g, %g] outside [0, 1]", out.Min(), out.Max())
	}
	if meta == nil || meta.Mineralogy.Sum() == 0 {
		t.Fatal("overlay must attach petrology metadata")
	}
}

func TestApplyDeterministicForSeed(t *testing.T) {
	build := func() *raster.Raster {
		gray := raster.NewFilled(16, 16, 0.3)
		masks := facies.Set{
			facies.KeyChannel:    channelBand(16, 16, 5, 9),
			facies.KeyFloodplain: raster.NewFilled(16, 16, 0.4),
		}
		out, _, _ := Apply(gray, masks, rng.New(123), EnvBraided)
		return out
	}
	a, b := build(), build()
	for i := range a.Pix {
		if a.Pix[i] != b.Pix[i] {
			t.Fatalf("overlay output diverged at pixel %d", i)
		}
	}
}

func TestApplyEmptyChannelYieldsZeroFillMask(t *testing.T) {
	gray := raster.NewFilled(8, 8, 0.5)
	masks := facies.Set{facies.KeyChannel: raster.New(8, 8)}

	out, outMasks, _ := Apply(gray, masks, rng.New(3), EnvAnastomosing)
	fill := outMasks[facies.KeyChannelFill]
	if fill == nil {
		t.Fatal("empty channel must still record a channel_fill mask")
	}
	if fill.Max() != 0 {
		t.Fatalf("channel_fill max = %g for empty channel, want 0", fill.Max())
	}
	for i, v := range out.Pix {
		if v != 0.5 {
			t.Fatalf("pixel %d = %g, want untouched 0.5", i, v)
		}
	}
}
