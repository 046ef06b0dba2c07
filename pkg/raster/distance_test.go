package raster

import (
	"math"
	"testing"
)

func TestDistanceToMaskSinglePoint(t *testing.T) {
	mask := New(5, 5)
	mask.Pix[2*5+2] = 1
	dist := DistanceToMask(mask)

	cases := []struct {
		y, x int
		want float64
	}{
		{2, 2, 0},
		{2, 3, 1},
		{2, 0, 2},
		{0, 0, math.Sqrt(8)},
		{4, 3, math.Sqrt(5)},
	}
	for _, c := range cases {
		got := dist.Pix[c.y*5+c.x]
		if math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("distance at (%d,%d) = %g, want %g", c.y, c.x, got, c.want)
		}
	}
}

func TestDistanceToMaskTwoSeeds(t *testing.T) {
	mask := New(1, 7)
	mask.Pix[0] = 1
	mask.Pix[6] = 1
	dist := DistanceToMask(mask)
	want := []float64{0, 1, 2, 3, 2, 1, 0}
	for i := range want {
		if math.Abs(dist.Pix[i]-want[i]) > 1e-9 {
			t.Fatalf("distance[%d] = %g, want %g", i, dist.Pix[i], want[i])
		}
	}
}

func TestDistanceToEmptyMaskIsInfinite(t *testing.T) {
	dist := DistanceToMask(New(3, 3))
	for i, v := range dist.Pix {
		if !math.IsInf(v, 1) {
			t.Fatalf("distance[%d] = %g for empty mask, want +Inf", i, v)
		}
	}
}
