// Package render turns float rasters into images: grayscale analogs,
// palette-colorized facies composites, and categorical package-id maps.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"fluvsynth/internal/facies"
	"fluvsynth/pkg/raster"
)

// GrayImage encodes a unit-range raster as an 8-bit RGBA image.
func GrayImage(r *raster.Raster) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, r.W, r.H))
	fillGrayRGBA(img.Pix, r.Pix)
	return img
}

// ColorImage blends the facies masks through a palette and encodes the
// result. Masks absent from the set simply contribute nothing.
func ColorImage(masks facies.Set, palette facies.Palette) *image.NRGBA {
	red, green, blue := facies.Colorize(masks, palette)
	img := image.NewNRGBA(image.Rect(0, 0, red.W, red.H))
	fillColorRGBA(img.Pix, red.Pix, green.Pix, blue.Pix)
	return img
}

// idPalette gives adjacent packages visually distinct hues.
var idPalette = []color.NRGBA{
	{0x1f, 0x77, 0xb4, 0xff},
	{0xff, 0x7f, 0x0e, 0xff},
	{0x2c, 0xa0, 0x2c, 0xff},
	{0xd6, 0x27, 0x28, 0xff},
	{0x94, 0x67, 0xbd, 0xff},
	{0x8c, 0x56, 0x4b, 0xff},
	{0xe3, 0x77, 0xc2, 0xff},
	{0x7f, 0x7f, 0x7f, 0xff},
	{0xbc, 0xbd, 0x22, 0xff},
	{0x17, 0xbe, 0xcf, 0xff},
}

// IDMapImage encodes a package-id raster categorically. Unclaimed pixels
// (id -1) come out black; ids beyond the palette wrap around.
func IDMapImage(idMap *raster.Raster) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, idMap.W, idMap.H))
	wrapped := make([]float64, len(idMap.Pix))
	for i, v := range idMap.Pix {
		if v < 0 {
			wrapped[i] = -1
			continue
		}
		wrapped[i] = float64(int(v) % len(idPalette))
	}
	fillCategoryRGBA(img.Pix, wrapped, idPalette, color.NRGBA{A: 0xff})
	return img
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
