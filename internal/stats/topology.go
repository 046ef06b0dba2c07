package stats

import (
	"fluvsynth/internal/facies"
	"fluvsynth/pkg/raster"
)

// topologyTargets names the facies whose geometry gets characterized, each
// resolved through its alias list.
var topologyTargets = []struct {
	label string
	keys  []string
}{
	{"channel", facies.ChannelKeys},
	{"floodplain", []string{facies.KeyFloodplain, facies.KeyOverbank}},
	{"levee", []string{facies.KeyLevee}},
}

// TopologyMetrics computes area fraction, compactness, connected-component
// count, and largest-component mass ratio for the channel, floodplain, and
// levee masks. Missing masks contribute all-zero statistics.
func TopologyMetrics(masks facies.Set) map[string]float64 {
	out := map[string]float64{}
	shape := anyMask(masks)
	for _, target := range topologyTargets {
		mask := masks.First(target.keys...)
		if mask == nil {
			if shape != nil {
				mask = raster.New(shape.H, shape.W)
			} else {
				mask = raster.New(1, 1)
			}
		}
		areaCompactness(out, target.label, mask)
		connectivity(out, target.label, mask)
	}
	return out
}

func anyMask(masks facies.Set) *raster.Raster {
	for _, m := range masks {
		if m != nil {
			return m
		}
	}
	return nil
}

// areaCompactness records the mean mask value and a perimeter-normalized
// compactness proxy: area over the summed finite-difference gradient
// magnitude (zero-prepended, so the leading row and column count their own
// values as edges).
func areaCompactness(out map[string]float64, label string, mask *raster.Raster) {
	area := mask.Mean()
	perimeter := 1e-6
	h, w := mask.H, mask.W
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := mask.Pix[y*w+x]
			up, left := 0.0, 0.0
			if y > 0 {
				up = mask.Pix[(y-1)*w+x]
			}
			if x > 0 {
				left = mask.Pix[y*w+x-1]
			}
			perimeter += abs(v-up) + abs(v-left)
		}
	}
	out[label+"_area_fraction"] = area
	out[label+"_compactness"] = area / perimeter
}

// connectivity labels the thresholded mask with 8-connected components and
// records the count plus the mass share of the heaviest component.
func connectivity(out map[string]float64, label string, mask *raster.Raster) {
	h, w := mask.H, mask.W
	labels := make([]int, h*w)
	count := 0
	largest := 0.0
	var queue []int

	for start := range mask.Pix {
		if mask.Pix[start] <= 0.2 || labels[start] != 0 {
			continue
		}
		count++
		componentMass := 0.0
		labels[start] = count
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			idx := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			componentMass += mask.Pix[idx]
			y, x := idx/w, idx%w
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					ny, nx := y+dy, x+dx
					if ny < 0 || ny >= h || nx < 0 || nx >= w {
						continue
					}
					nIdx := ny*w + nx
					if mask.Pix[nIdx] > 0.2 && labels[nIdx] == 0 {
						labels[nIdx] = count
						queue = append(queue, nIdx)
					}
				}
			}
		}
		if componentMass > largest {
			largest = componentMass
		}
	}

	out[label+"_component_count"] = float64(count)
	out[label+"_largest_component_ratio"] = largest / (mask.Sum() + 1e-6)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
