package raster

import "math"

// DistanceToMask returns the exact Euclidean distance (in pixels) from each
// cell to the nearest cell where mask > 0.5. Cells inside the mask get 0; a
// mask with no set cells yields +Inf everywhere, which callers normalize away.
//
// Uses the Felzenszwalb-Huttenlocher two-pass squared distance transform.
func DistanceToMask(mask *Raster) *Raster {
	h, w := mask.H, mask.W
	out := New(h, w)
	inf := math.Inf(1)
	for i, v := range mask.Pix {
		if v > 0.5 {
			out.Pix[i] = 0
		} else {
			out.Pix[i] = inf
		}
	}

	n := maxInt(h, w)
	f := make([]float64, n)
	d := make([]float64, n)
	v := make([]int, n)
	z := make([]float64, n+1)

	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			f[y] = out.Pix[y*w+x]
		}
		edt1d(f[:h], d[:h], v, z)
		for y := 0; y < h; y++ {
			out.Pix[y*w+x] = d[y]
		}
	}
	for y := 0; y < h; y++ {
		copy(f[:w], out.Pix[y*w:(y+1)*w])
		edt1d(f[:w], d[:w], v, z)
		for x := 0; x < w; x++ {
			out.Pix[y*w+x] = math.Sqrt(d[x])
		}
	}
	return out
}

// edt1d computes the 1-D squared distance transform of sampled function f
// into d via the lower envelope of parabolas. Cells with f = +Inf contribute
// no parabola.
func edt1d(f, d []float64, v []int, z []float64) {
	n := len(f)
	k := -1
	for q := 0; q < n; q++ {
		if math.IsInf(f[q], 1) {
			continue
		}
		if k < 0 {
			k = 0
			v[0] = q
			z[0] = math.Inf(-1)
			z[1] = math.Inf(1)
			continue
		}
		for {
			p := v[k]
			s := ((f[q] + float64(q*q)) - (f[p] + float64(p*p))) / float64(2*(q-p))
			if s <= z[k] {
				if k == 0 {
					v[0] = q
					z[1] = math.Inf(1)
					break
				}
				k--
				continue
			}
			k++
			v[k] = q
			z[k] = s
			z[k+1] = math.Inf(1)
			break
		}
	}
	if k < 0 {
		for q := range d {
			d[q] = math.Inf(1)
		}
		return
	}
	k = 0
	for q := 0; q < n; q++ {
		for z[k+1] < float64(q) {
			k++
		}
		dq := float64(q - v[k])
		d[q] = dq*dq + f[v[k]]
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
