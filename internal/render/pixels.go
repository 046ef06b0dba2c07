package render

import "image/color"

// fillGrayRGBA converts unit-range grayscale samples into RGBA pixels in buf.
// Values outside [0,1] are clamped.
func fillGrayRGBA(buf []byte, values []float64) {
	for i, v := range values {
		base := i * 4
		level := quantize(v)
		buf[base+0] = level
		buf[base+1] = level
		buf[base+2] = level
		buf[base+3] = 0xff
	}
}

// fillColorRGBA converts three unit-range channel planes into RGBA pixels.
func fillColorRGBA(buf []byte, r, g, b []float64) {
	for i := range r {
		base := i * 4
		buf[base+0] = quantize(r[i])
		buf[base+1] = quantize(g[i])
		buf[base+2] = quantize(b[i])
		buf[base+3] = 0xff
	}
}

// fillCategoryRGBA maps integer-valued samples through a categorical palette.
// Negative values clear to the background color; values past the palette end
// clamp to its last entry. An empty palette clears the whole buffer.
func fillCategoryRGBA(buf []byte, values []float64, palette []color.NRGBA, background color.NRGBA) {
	if len(palette) == 0 {
		for i := range values {
			writeNRGBA(buf, i, background)
		}
		return
	}
	last := len(palette) - 1
	for i, v := range values {
		if v < 0 {
			writeNRGBA(buf, i, background)
			continue
		}
		idx := int(v)
		if idx > last {
			idx = last
		}
		writeNRGBA(buf, i, palette[idx])
	}
}

func writeNRGBA(buf []byte, i int, c color.NRGBA) {
	base := i * 4
	buf[base+0] = c.R
	buf[base+1] = c.G
	buf[base+2] = c.B
	buf[base+3] = c.A
}

func quantize(v float64) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return byte(v*255 + 0.5)
}
