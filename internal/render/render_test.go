package render

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"fluvsynth/internal/facies"
	"fluvsynth/pkg/raster"
)

func TestGrayImageQuantization(t *testing.T) {
	r := raster.New(1, 4)
	copy(r.Pix, []float64{0, 0.5, 1, 1.7})
	img := GrayImage(r)

	cases := []struct {
		x    int
		want uint8
	}{
		{0, 0},
		{1, 128},
		{2, 255},
		{3, 255},
	}
	for _, c := range cases {
		got := img.NRGBAAt(c.x, 0)
		if got.R != c.want || got.G != c.want || got.B != c.want || got.A != 255 {
			t.Fatalf("pixel %d = %+v, want gray level %d", c.x, got, c.want)
		}
	}
}

func TestIDMapImageBackground(t *testing.T) {
	idMap := raster.NewFilled(2, 2, -1)
	idMap.Pix[3] = 0
	img := IDMapImage(idMap)

	if got := img.NRGBAAt(0, 0); got != (color.NRGBA{A: 0xff}) {
		t.Fatalf("unclaimed pixel = %+v, want opaque black", got)
	}
	if got := img.NRGBAAt(1, 1); got == (color.NRGBA{A: 0xff}) {
		t.Fatal("claimed pixel must use a palette color")
	}
}

func TestColorImageUsesPalette(t *testing.T) {
	masks := facies.Set{facies.KeyChannel: raster.NewFilled(2, 2, 1)}
	palette := facies.DefaultPalettes()["meandering"]
	img := ColorImage(masks, palette)
	got := img.NRGBAAt(0, 0)
	if got.R == got.G && got.G == got.B {
		t.Fatalf("channel pixel %+v should not be neutral gray", got)
	}
}

func TestWritePNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.png")
	if err := WritePNG(path, GrayImage(raster.NewFilled(4, 4, 0.5))); err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Size() == 0 {
		t.Fatal("written PNG is empty")
	}
}
