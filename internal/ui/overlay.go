//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"fluvsynth/internal/facies"
	"fluvsynth/pkg/raster"
)

// MaskOverlay tints one facies mask over the base view. The M key cycles
// through the available masks plus an off state.
type MaskOverlay struct {
	names    []string
	images   []*ebiten.Image
	selected int // 0 is off, otherwise names[selected-1]
	buf      []byte
}

// NewMaskOverlay constructs an empty overlay; call SetMasks after each
// regeneration.
func NewMaskOverlay() *MaskOverlay {
	return &MaskOverlay{}
}

// SetMasks rebuilds the overlay images from a mask set and its palette.
// Masks without a palette entry get a neutral highlight color.
func (o *MaskOverlay) SetMasks(masks facies.Set, palette facies.Palette) {
	colors := map[string]color.NRGBA{}
	for _, entry := range palette {
		colors[entry.Facies] = entry.Color
	}

	o.names = o.names[:0]
	o.images = o.images[:0]
	for _, name := range masks.SortedKeys() {
		mask := masks[name]
		if mask == nil {
			continue
		}
		tint, ok := colors[name]
		if !ok {
			tint = color.NRGBA{R: 0xff, G: 0xd7, B: 0x00, A: 0xff}
		}
		o.names = append(o.names, name)
		o.images = append(o.images, o.maskImage(mask, tint))
	}
	if o.selected > len(o.names) {
		o.selected = 0
	}
}

func (o *MaskOverlay) maskImage(mask *raster.Raster, tint color.NRGBA) *ebiten.Image {
	n := mask.W * mask.H * 4
	if cap(o.buf) < n {
		o.buf = make([]byte, n)
	}
	buf := o.buf[:n]
	for i, v := range mask.Pix {
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		alpha := byte(v * 160)
		base := i * 4
		buf[base+0] = byte(uint16(tint.R) * uint16(alpha) / 255)
		buf[base+1] = byte(uint16(tint.G) * uint16(alpha) / 255)
		buf[base+2] = byte(uint16(tint.B) * uint16(alpha) / 255)
		buf[base+3] = alpha
	}
	img := ebiten.NewImage(mask.W, mask.H)
	img.WritePixels(buf)
	return img
}

// Update advances the mask selection on M and clears it on 0.
func (o *MaskOverlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyM) {
		o.selected = (o.selected + 1) % (len(o.names) + 1)
	}
	if inpututil.IsKeyJustPressed(ebiten.Key0) {
		o.selected = 0
	}
}

// Selected returns the active mask name, or "" when the overlay is off.
func (o *MaskOverlay) Selected() string {
	if o.selected == 0 || o.selected > len(o.names) {
		return ""
	}
	return o.names[o.selected-1]
}

// Draw blits the selected mask tint, scaled to the screen.
func (o *MaskOverlay) Draw(screen *ebiten.Image, scale int) {
	if o.selected == 0 || o.selected > len(o.images) {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.images[o.selected-1], op)
}
