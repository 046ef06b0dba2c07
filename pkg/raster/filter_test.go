package raster

import (
	"math"
	"testing"
)

func TestGaussianBlurPreservesConstantField(t *testing.T) {
	r := NewFilled(9, 9, 0.5)
	out := GaussianBlur(r, 2)
	for i, v := range out.Pix {
		if math.Abs(v-0.5) > 1e-9 {
			t.Fatalf("pixel %d = %g after blurring constant field, want 0.5", i, v)
		}
	}
}

func TestGaussianBlurConservesPeakOrdering(t *testing.T) {
	r := New(11, 11)
	r.Pix[5*11+5] = 1
	out := GaussianBlur(r, 1.5)
	center := out.Pix[5*11+5]
	corner := out.Pix[0]
	if center <= corner {
		t.Fatalf("blur center %g must stay above corner %g", center, corner)
	}
	if out.Min() < 0 {
		t.Fatalf("blur produced negative value %g", out.Min())
	}
}

func TestGreyDilateExpandsMask(t *testing.T) {
	r := New(7, 7)
	r.Pix[3*7+3] = 1
	out := GreyDilate(r, 3)
	if out.Pix[3*7+2] != 1 || out.Pix[2*7+3] != 1 {
		t.Fatal("dilation by size 3 must reach the 4-neighbors")
	}
	if out.Pix[0] != 0 {
		t.Fatal("dilation by size 3 must not reach the corner")
	}
}

func TestSobelXOnHorizontalRamp(t *testing.T) {
	r := New(5, 5)
	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			r.Pix[y*5+x] = float64(x)
		}
	}
	out := SobelX(r)
	// Interior response to a unit ramp is the full kernel weight sum.
	if math.Abs(out.Pix[2*5+2]-8) > 1e-9 {
		t.Fatalf("interior sobel = %g, want 8", out.Pix[2*5+2])
	}
}

func TestBinaryErodeRemovesBoundary(t *testing.T) {
	r := New(5, 5)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			r.Pix[y*5+x] = 1
		}
	}
	out := BinaryErode(r)
	if out.Pix[2*5+2] != 1 {
		t.Fatal("erosion must keep the fully supported center")
	}
	if out.Pix[1*5+1] != 0 {
		t.Fatal("erosion must clear the block boundary")
	}
}
