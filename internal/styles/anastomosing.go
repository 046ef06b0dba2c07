package styles

import (
	"math"

	"fluvsynth/internal/facies"
	"fluvsynth/internal/overlay"
	"fluvsynth/pkg/raster"
	"fluvsynth/pkg/rng"
)

// AnastoConfig holds the tunable controls for anastomosing belt synthesis.
type AnastoConfig struct {
	Height int
	Width  int
	Seed   int64

	BranchCount      int
	LeveeWidthPx     float64
	LeveeHeightScale float64
	MarshFraction    float64
	FanLengthPx      float64
	FloodplainNoise  float64
}

// DefaultAnastoConfig returns the standard anastomosing configuration.
func DefaultAnastoConfig() AnastoConfig {
	return AnastoConfig{
		Height:           512,
		Width:            512,
		Seed:             42,
		BranchCount:      3,
		LeveeWidthPx:     6,
		LeveeHeightScale: 0.65,
		MarshFraction:    0.45,
		FanLengthPx:      35,
		FloodplainNoise:  0.04,
	}
}

// AnastoFromMap populates the config from a flat key/value map. Unrecognized
// keys are ignored.
func AnastoFromMap(cfg map[string]string) AnastoConfig {
	c := DefaultAnastoConfig()
	if cfg == nil {
		return c
	}
	mapInt(cfg, "height", &c.Height)
	mapInt(cfg, "width", &c.Width)
	mapInt64(cfg, "seed", &c.Seed)
	mapInt(cfg, "branch_count", &c.BranchCount)
	mapFloat(cfg, "levee_width_px", &c.LeveeWidthPx)
	mapFloat(cfg, "levee_height_scale", &c.LeveeHeightScale)
	mapFloat(cfg, "marsh_fraction", &c.MarshFraction)
	mapFloat(cfg, "fan_length_px", &c.FanLengthPx)
	mapFloat(cfg, "floodplain_noise", &c.FloodplainNoise)
	return c
}

func generateAnastomosingFromMap(params map[string]string) (Result, error) {
	cfg := AnastoFromMap(params)
	return GenerateAnastomosing(cfg, rng.New(cfg.Seed))
}

// GenerateAnastomosing builds an anastomosing belt of narrow low-sinuosity
// branches with exponential levees, quantile-thresholded marsh, and
// crevasse fans seeded at channel-edge breach points.
func GenerateAnastomosing(cfg AnastoConfig, r *rng.RNG) (Result, error) {
	if err := checkRange("branch_count", float64(cfg.BranchCount), 2, 6); err != nil {
		return Result{}, err
	}
	if err := checkRange("fan_length_px", cfg.FanLengthPx, 15, 60); err != nil {
		return Result{}, err
	}
	h, w := cfg.Height, cfg.Width
	if h <= 0 {
		h = 1
	}
	if w <= 0 {
		w = 1
	}

	branch := anastoBranches(h, w, cfg.BranchCount, r)
	levee := narrowLevees(branch, cfg.LeveeWidthPx, cfg.LeveeHeightScale)
	marsh, overbank, wetland := marshAndOverbank(branch, cfg.MarshFraction, r)
	breaches := breachPoints(branch, r)
	fanMask, fanIntensity := crevasseFans(breaches, cfg.FanLengthPx, r, h, w)

	masks := facies.Set{
		facies.KeyBranchChannel: branch,
		facies.KeyLevee:         levee,
		facies.KeyMarsh:         marsh,
		facies.KeyFan:           fanMask,
		facies.KeyOverbank:      overbank,
		facies.KeyWetlandWater:  wetland,
	}

	gray := raster.New(h, w)
	gray.AddScaled(branch, 0.55).
		AddScaled(levee, 0.35).
		AddScaled(fanIntensity, 0.4).
		AddScaled(marsh, 0.25).
		AddScaled(overbank, 0.2)

	composeAnalog(gray, masks, cfg.FloodplainNoise, r)
	gray, masks, meta := overlay.Apply(gray, masks, r, overlay.EnvAnastomosing)
	meta.BranchStability = 1 / float64(maxOf(cfg.BranchCount, 1))
	return Result{Gray: gray, Masks: masks, Meta: meta}, nil
}

// anastoBranches builds each branch centerline as a smoothed random walk
// biased toward its baseline row, rasterized at a narrow width.
func anastoBranches(h, w, branchCount int, r *rng.RNG) *raster.Raster {
	combined := raster.New(h, w)
	baseRows := raster.Linspace(float64(h)*0.35, float64(h)*0.65, branchCount)
	sigma := float64(w / 80)
	if sigma < 1 {
		sigma = 1
	}
	for _, base := range baseRows {
		drift := make([]float64, w)
		r.FillNormal(drift, float64(h)*0.01)
		smooth := raster.GaussianBlur1D(drift, sigma)
		offset := r.Normal(0, float64(h)*0.01)
		center := make([]float64, w)
		cum := 0.0
		for x := range center {
			cum += smooth[x]
			center[x] = clamp(base+cum*0.05+offset, 3, float64(h)-3)
		}
		widthPx := clamp(r.Uniform(8, 14), 6, 16)
		combined.MaxInPlace(centerlineMask(center, h, w, widthPx))
	}
	return combined.Clamp01()
}

// narrowLevees builds an exponential-decay distance-field levee profile
// scaled by the height factor, restricted to low channel-occupancy cells.
func narrowLevees(branch *raster.Raster, widthPx, heightScale float64) *raster.Raster {
	if widthPx < 1 {
		widthPx = 1
	}
	heightScale = clamp(heightScale, 0.2, 1)
	out := raster.New(branch.H, branch.W)
	if branch.Max() < 0.5 {
		return out
	}
	dist := raster.DistanceToMask(branch.Threshold(0.5))
	for i, d := range dist.Pix {
		if branch.Pix[i] >= 0.3 {
			continue
		}
		v := math.Exp(-d/widthPx)*heightScale - 0.2
		if v < 0 {
			v = 0
		} else if v > 1 {
			v = 1
		}
		out.Pix[i] = v
	}
	return out
}

// marshAndOverbank scores cells by distance-from-channel, normalized
// coordinates, and noise, thresholds the score at the quantile implied by
// marshFraction (clamped 0.2–0.7), and derives overbank as the complement
// outside channels.
func marshAndOverbank(branch *raster.Raster, marshFraction float64, r *rng.RNG) (marsh, overbank, wetland *raster.Raster) {
	h, w := branch.H, branch.W
	marshFraction = clamp(marshFraction, 0.2, 0.7)

	var dist *raster.Raster
	if branch.Max() >= 0.5 {
		dist = raster.DistanceToMask(branch.Threshold(0.5))
	} else {
		dist = raster.New(h, w)
	}
	distMax := dist.Max() + 1e-5

	yy, xx := raster.NormalizedCoords(h, w)
	score := raster.New(h, w)
	for i := range score.Pix {
		base := 0.4*yy.Pix[i] + 0.3*xx.Pix[i] + 0.3*r.Normal(0, 0.05)
		score.Pix[i] = clamp(dist.Pix[i]/distMax, 0, 1)*0.6 + base
	}

	thresh := score.Quantile(1 - marshFraction)
	marsh = raster.New(h, w)
	overbank = raster.New(h, w)
	for i, s := range score.Pix {
		if s >= thresh && branch.Pix[i] < 0.2 {
			marsh.Pix[i] = 1
		}
		if marsh.Pix[i] == 0 && branch.Pix[i] < 0.3 {
			overbank.Pix[i] = 1
		}
	}

	scoreMax := score.Max() + 1e-5
	wetland = raster.New(h, w)
	for i, s := range score.Pix {
		wetland.Pix[i] = clamp(s/scoreMax, 0, 1) * marsh.Pix[i]
	}
	return marsh, overbank, wetland
}

type point struct{ row, col int }

// breachPoints samples candidate crevasse sites from the channel's outer edge
// (erosion-difference boundary).
func breachPoints(branch *raster.Raster, r *rng.RNG) []point {
	edge := branch.Threshold(0.2)
	eroded := raster.BinaryErode(edge)
	var coords []point
	for y := 0; y < branch.H; y++ {
		for x := 0; x < branch.W; x++ {
			idx := y*branch.W + x
			if edge.Pix[idx] > 0.5 && eroded.Pix[idx] <= 0.5 {
				coords = append(coords, point{row: y, col: x})
			}
		}
	}
	if len(coords) == 0 {
		return nil
	}
	r.Shuffle(len(coords), func(i, j int) { coords[i], coords[j] = coords[j], coords[i] })
	count := len(coords)/20 + 1
	if count > len(coords) {
		count = len(coords)
	}
	return coords[:count]
}

// crevasseFans emits cone-shaped intensity fields (distance decay within an
// angular spread) at a random subset of breach points.
func crevasseFans(breaches []point, fanLengthPx float64, r *rng.RNG, h, w int) (mask, intensity *raster.Raster) {
	mask = raster.New(h, w)
	intensity = raster.New(h, w)
	if len(breaches) == 0 {
		return mask, intensity
	}
	fanCount := int(float64(len(breaches)) * 0.2)
	if fanCount < 1 {
		fanCount = 1
	}
	for f := 0; f < fanCount; f++ {
		p := breaches[r.IntN(len(breaches))]
		length := clamp(r.Normal(fanLengthPx, fanLengthPx*0.15), 10, 80)
		spread := r.Uniform(15, 35) * math.Pi / 180
		angle := r.Uniform(-math.Pi/3, math.Pi/3)
		strength := clamp(r.Normal(0.6, 0.05), 0.3, 0.9)

		y0 := maxOf(0, p.row-int(length)-1)
		y1 := minInt(h, p.row+int(length)+2)
		x0 := maxOf(0, p.col-int(length)-1)
		x1 := minInt(w, p.col+int(length)+2)
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				dy := float64(y - p.row)
				dx := float64(x - p.col)
				distance := math.Hypot(dy, dx)
				if distance > length {
					continue
				}
				theta := math.Atan2(dy, dx)
				if math.Abs(angleDiff(theta, angle)) > spread {
					continue
				}
				decay := clamp(1-distance/length, 0, 1)
				idx := y*w + x
				if v := strength * decay; v > intensity.Pix[idx] {
					intensity.Pix[idx] = v
				}
			}
		}
	}
	for i, v := range intensity.Pix {
		if v > 0.05 {
			mask.Pix[i] = 1
		}
	}
	return mask, intensity
}

func angleDiff(a, b float64) float64 {
	return math.Atan2(math.Sin(a-b), math.Cos(a-b))
}
