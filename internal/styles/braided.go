package styles

import (
	"math"

	"fluvsynth/internal/facies"
	"fluvsynth/internal/overlay"
	"fluvsynth/pkg/raster"
	"fluvsynth/pkg/rng"
)

// BraidedConfig holds the tunable controls for braided belt synthesis.
type BraidedConfig struct {
	Height int
	Width  int
	Seed   int64

	ThreadCount      int
	MeanThreadWidth  float64
	BarSpacingFactor float64
	ChuteFrequency   float64
	FloodplainNoise  float64
}

// DefaultBraidedConfig returns the standard braided configuration.
func DefaultBraidedConfig() BraidedConfig {
	return BraidedConfig{
		Height:           512,
		Width:            512,
		Seed:             42,
		ThreadCount:      5,
		MeanThreadWidth:  18,
		BarSpacingFactor: 4.2,
		ChuteFrequency:   0.35,
		FloodplainNoise:  0.05,
	}
}

// BraidedFromMap populates the config from a flat key/value map. Unrecognized
// keys are ignored.
func BraidedFromMap(cfg map[string]string) BraidedConfig {
	c := DefaultBraidedConfig()
	if cfg == nil {
		return c
	}
	mapInt(cfg, "height", &c.Height)
	mapInt(cfg, "width", &c.Width)
	mapInt64(cfg, "seed", &c.Seed)
	mapInt(cfg, "thread_count", &c.ThreadCount)
	mapFloat(cfg, "mean_thread_width", &c.MeanThreadWidth)
	mapFloat(cfg, "bar_spacing_factor", &c.BarSpacingFactor)
	mapFloat(cfg, "chute_frequency", &c.ChuteFrequency)
	mapFloat(cfg, "floodplain_noise", &c.FloodplainNoise)
	return c
}

func generateBraidedFromMap(params map[string]string) (Result, error) {
	cfg := BraidedFromMap(params)
	return GenerateBraided(cfg, rng.New(cfg.Seed))
}

type threadInfo struct {
	widthPx float64
	driftPx float64
}

// GenerateBraided builds a braided belt of sinusoidal threads, mid-channel
// bars, and chute cuts. Parameter ranges are validated before any randomness
// is consumed.
func GenerateBraided(cfg BraidedConfig, r *rng.RNG) (Result, error) {
	if err := checkRange("thread_count", float64(cfg.ThreadCount), 3, 9); err != nil {
		return Result{}, err
	}
	if err := checkRange("mean_thread_width", cfg.MeanThreadWidth, 12, 28); err != nil {
		return Result{}, err
	}
	if err := checkRange("bar_spacing_factor", cfg.BarSpacingFactor, 3.5, 5.5); err != nil {
		return Result{}, err
	}
	h, w := cfg.Height, cfg.Width
	if h <= 0 {
		h = 1
	}
	if w <= 0 {
		w = 1
	}

	threadMasks, infos, centerlines := braidedThreads(h, w, cfg.ThreadCount, cfg.MeanThreadWidth, r)

	channel := raster.New(h, w)
	for _, mask := range threadMasks {
		for i, v := range mask.Pix {
			channel.Pix[i] += v
		}
	}
	channel.Clamp01()

	bars := seedBars(threadMasks, infos, cfg.BarSpacingFactor, h, w)
	chutes := addChutes(centerlines, infos, cfg.ChuteFrequency, r, h, w)

	floodplain := raster.New(h, w)
	for i := range floodplain.Pix {
		occupied := channel.Pix[i] + bars.Pix[i] + chutes.Pix[i]
		if occupied > 1 {
			occupied = 1
		}
		floodplain.Pix[i] = 1 - occupied
	}

	masks := facies.Set{
		facies.KeyChannel:    channel,
		facies.KeyBar:        bars,
		facies.KeyChute:      chutes,
		facies.KeyFloodplain: floodplain,
	}

	gray := raster.New(h, w)
	gray.AddScaled(channel, 0.6).
		AddScaled(bars, 0.25).
		AddScaled(chutes, 0.15).
		AddScaled(floodplain, 0.45)

	composeAnalog(gray, masks, cfg.FloodplainNoise, r)
	gray, masks, meta := overlay.Apply(gray, masks, r, overlay.EnvBraided)
	return Result{Gray: gray, Masks: masks, Meta: meta}, nil
}

// braidedThreads builds one sinusoidal centerline per thread around evenly
// spaced baseline rows, each with independent amplitude, frequency, and phase.
func braidedThreads(h, w, threadCount int, meanWidth float64, r *rng.RNG) ([]*raster.Raster, []threadInfo, [][]float64) {
	baseRows := raster.Linspace(float64(h)*0.2, float64(h)*0.8, threadCount)
	xs := raster.Linspace(0, 1, w)

	phases := make([]float64, threadCount)
	freqs := make([]float64, threadCount)
	for i := 0; i < threadCount; i++ {
		phases[i] = r.Uniform(0, 2*math.Pi)
	}
	for i := 0; i < threadCount; i++ {
		freqs[i] = r.Uniform(1, 2)
	}

	masks := make([]*raster.Raster, 0, threadCount)
	infos := make([]threadInfo, 0, threadCount)
	centerlines := make([][]float64, 0, threadCount)
	for idx := 0; idx < threadCount; idx++ {
		amp := r.Uniform(0.04, 0.18) * float64(h)
		center := make([]float64, w)
		for x := range center {
			v := baseRows[idx] + amp*math.Sin(freqs[idx]*2*math.Pi*xs[x]+phases[idx])
			center[x] = clamp(v, 2, float64(h)-3)
		}
		widthPx := clamp(r.Normal(meanWidth, meanWidth*0.2), 12, 28)
		masks = append(masks, centerlineMask(center, h, w, widthPx))
		infos = append(infos, threadInfo{widthPx: widthPx, driftPx: amp})
		centerlines = append(centerlines, center)
	}
	return masks, infos, centerlines
}

// centerlineMask rasterizes a fixed-width band around a per-column centerline.
func centerlineMask(centerline []float64, h, w int, widthPx float64) *raster.Raster {
	mask := raster.New(h, w)
	half := widthPx / 2
	for x := 0; x < w; x++ {
		center := centerline[x]
		for y := 0; y < h; y++ {
			if math.Abs(float64(y)-center) <= half {
				mask.Pix[y*w+x] = 1
			}
		}
	}
	return mask
}

// seedBars places ellipse patches along each thread's mean row at a spacing
// proportional to barSpacing × thread width, masked to stay inside the
// thread.
func seedBars(threadMasks []*raster.Raster, infos []threadInfo, barSpacing float64, h, w int) *raster.Raster {
	bars := raster.New(h, w)
	for t, mask := range threadMasks {
		if mask.Sum() == 0 {
			continue
		}
		// Column-wise center of mass of the thread.
		rowPositions := make([]float64, w)
		for x := 0; x < w; x++ {
			colSum := 1e-5
			weighted := 0.0
			for y := 0; y < h; y++ {
				v := mask.Pix[y*w+x]
				colSum += v
				weighted += v * float64(y)
			}
			rowPositions[x] = weighted / colSum
		}
		widthPx := infos[t].widthPx
		spacing := math.Max(4, barSpacing*widthPx)
		for column := 0.0; column < float64(w); column += spacing {
			colIdx := int(clamp(column, 0, float64(w-1)))
			rowIdx := int(clamp(rowPositions[colIdx], 0, float64(h-1)))
			stampEllipse(bars, mask, rowIdx, colIdx, widthPx*0.6, spacing*0.3)
		}
	}
	return bars.Clamp01()
}

// stampEllipse maxes a filled ellipse into dst, restricted to cells where the
// thread mask exceeds 0.1.
func stampEllipse(dst, thread *raster.Raster, row, col int, halfHeight, halfWidth float64) {
	if halfHeight < 1 {
		halfHeight = 1
	}
	if halfWidth < 1 {
		halfWidth = 1
	}
	r0 := maxOf(0, row-int(halfHeight))
	r1 := minInt(dst.H, row+int(halfHeight)+1)
	c0 := maxOf(0, col-int(halfWidth))
	c1 := minInt(dst.W, col+int(halfWidth)+1)
	for y := r0; y < r1; y++ {
		dy := (float64(y) - float64(row)) / halfHeight
		for x := c0; x < c1; x++ {
			dx := (float64(x) - float64(col)) / halfWidth
			if dy*dy+dx*dx > 1 {
				continue
			}
			idx := y*dst.W + x
			if thread.Pix[idx] > 0.1 && dst.Pix[idx] < 1 {
				dst.Pix[idx] = 1
			}
		}
	}
}

// addChutes connects random thread pairs with short diagonal rectangular cuts
// near the belt margins; the count scales with chuteFrequency.
func addChutes(centerlines [][]float64, infos []threadInfo, chuteFrequency float64, r *rng.RNG, h, w int) *raster.Raster {
	chutes := raster.New(h, w)
	if len(centerlines) == 0 {
		return chutes
	}
	chuteFrequency = clamp(chuteFrequency, 0, 1)
	nChutes := int(chuteFrequency * float64(len(centerlines)) * 2)
	if nChutes < 1 {
		nChutes = 1
	}
	for c := 0; c < nChutes; c++ {
		startIdx := r.IntN(len(centerlines))
		endIdx := (startIdx + 1 + r.IntN(maxOf(1, len(centerlines)-1))) % len(centerlines)
		startCol := int(r.Uniform(0, float64(w)*0.3))
		endCol := int(r.Uniform(float64(w)*0.7, float64(w-1)))
		steps := maxOf(2, endCol-startCol)
		widthPx := clamp(r.Normal(infos[startIdx].widthPx*0.4, 2), 4, 12)
		cols := raster.Linspace(float64(startCol), float64(endCol), steps)
		rows := raster.Linspace(centerlines[startIdx][startCol], centerlines[endIdx][endCol], steps)
		for i := range cols {
			col, row := int(cols[i]), int(rows[i])
			r0 := maxOf(0, row-int(widthPx)/2)
			r1 := minInt(h, row+int(widthPx)/2+1)
			c0 := maxOf(0, col-int(widthPx)/4)
			c1 := minInt(w, col+int(widthPx)/4+1)
			for y := r0; y < r1; y++ {
				for x := c0; x < c1; x++ {
					chutes.Pix[y*w+x] = 1
				}
			}
		}
	}
	return chutes
}

func maxOf(a, b int) int {
	if a > b {
		return a
	}
	return b
}
