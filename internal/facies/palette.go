package facies

import (
	"image/color"

	"fluvsynth/pkg/raster"
)

// PaletteEntry pairs a facies key with its display color.
type PaletteEntry struct {
	Facies string
	Color  color.NRGBA
}

// Palette is an ordered facies→color table. Entries are applied in order, so
// later facies paint over earlier ones in colorized composites.
type Palette []PaletteEntry

// DefaultPalettes returns the immutable per-style palette tables. The result
// is freshly allocated so callers can never mutate shared state.
func DefaultPalettes() map[string]Palette {
	return map[string]Palette{
		"meandering": {
			{Facies: KeyChannel, Color: color.NRGBA{R: 0x0f, G: 0x30, B: 0x57, A: 0xff}},
			{Facies: KeyScrollBar, Color: color.NRGBA{R: 0xd9, G: 0x89, B: 0x43, A: 0xff}},
			{Facies: KeyLevee, Color: color.NRGBA{R: 0xf2, G: 0xc3, B: 0x35, A: 0xff}},
			{Facies: KeyFloodplain, Color: color.NRGBA{R: 0x6b, G: 0x70, B: 0x5c, A: 0xff}},
			{Facies: KeyOxbow, Color: color.NRGBA{R: 0x9a, G: 0x6d, B: 0x38, A: 0xff}},
		},
		"braided": {
			{Facies: KeyChannel, Color: color.NRGBA{R: 0x18, G: 0x4e, B: 0x77, A: 0xff}},
			{Facies: KeyBar, Color: color.NRGBA{R: 0xf4, G: 0xa2, B: 0x61, A: 0xff}},
			{Facies: KeyChute, Color: color.NRGBA{R: 0xc0, G: 0x6c, B: 0x84, A: 0xff}},
			{Facies: KeyFloodplain, Color: color.NRGBA{R: 0x6d, G: 0x68, B: 0x75, A: 0xff}},
		},
		"anastomosing": {
			{Facies: KeyBranchChannel, Color: color.NRGBA{R: 0x26, G: 0x46, B: 0x53, A: 0xff}},
			{Facies: KeyLevee, Color: color.NRGBA{R: 0xa7, G: 0xc9, B: 0x57, A: 0xff}},
			{Facies: KeyMarsh, Color: color.NRGBA{R: 0x81, G: 0xb2, B: 0x9a, A: 0xff}},
			{Facies: KeyOverbank, Color: color.NRGBA{R: 0xb0, G: 0x89, B: 0x68, A: 0xff}},
			{Facies: KeyFan, Color: color.NRGBA{R: 0xe0, G: 0x7a, B: 0x5f, A: 0xff}},
		},
	}
}

// Colorize blends the palette's masks into an RGB composite. Each mask
// contributes its color weighted by the mask value; channels are clamped to
// [0, 1] and returned as three rasters.
func Colorize(masks Set, palette Palette) (r, g, b *raster.Raster) {
	var ref *raster.Raster
	for _, m := range masks {
		if m != nil {
			ref = m
			break
		}
	}
	if ref == nil {
		return raster.New(1, 1), raster.New(1, 1), raster.New(1, 1)
	}
	r = raster.New(ref.H, ref.W)
	g = raster.New(ref.H, ref.W)
	b = raster.New(ref.H, ref.W)
	for _, entry := range palette {
		mask := masks[entry.Facies]
		if mask == nil || !mask.SameShape(ref) {
			continue
		}
		cr := float64(entry.Color.R) / 255.0
		cg := float64(entry.Color.G) / 255.0
		cb := float64(entry.Color.B) / 255.0
		for i, v := range mask.Pix {
			r.Pix[i] += v * cr
			g.Pix[i] += v * cg
			b.Pix[i] += v * cb
		}
	}
	r.Clamp01()
	g.Clamp01()
	b.Clamp01()
	return r, g, b
}
