package facies

import (
	"testing"

	"fluvsynth/pkg/raster"
)

func TestFirstRespectsAliasOrder(t *testing.T) {
	channel := raster.NewFilled(2, 2, 1)
	branch := raster.NewFilled(2, 2, 0.5)

	s := Set{KeyBranchChannel: branch}
	if got := s.First(ChannelKeys...); got != branch {
		t.Fatal("First must fall through to branch_channel when channel is absent")
	}

	s[KeyChannel] = channel
	if got := s.First(ChannelKeys...); got != channel {
		t.Fatal("First must prefer channel over branch_channel")
	}

	if got := s.First(KeyMarsh, KeyFan); got != nil {
		t.Fatal("First must return nil when no alias is present")
	}
}

func TestMergeMaxAdoptsClones(t *testing.T) {
	dst := Set{}
	src := Set{KeyChannel: raster.NewFilled(2, 2, 0.4)}
	dst.MergeMax(src)

	src[KeyChannel].Pix[0] = 9
	if dst[KeyChannel].Pix[0] != 0.4 {
		t.Fatal("MergeMax must clone masks it adopts")
	}

	other := Set{KeyChannel: raster.NewFilled(2, 2, 0.7)}
	dst.MergeMax(other)
	for i, v := range dst[KeyChannel].Pix {
		if v != 0.7 {
			t.Fatalf("merged pixel %d = %g, want element-wise max 0.7", i, v)
		}
	}
}

func TestDefaultPalettesAreIsolatedPerCall(t *testing.T) {
	first := DefaultPalettes()
	first["meandering"][0].Color.R = 0x00
	first["meandering"] = nil

	second := DefaultPalettes()
	if second["meandering"] == nil {
		t.Fatal("palette tables must be rebuilt per call")
	}
	if second["meandering"][0].Color.R != 0x0f {
		t.Fatal("mutating a returned palette must not leak into later calls")
	}
}

func TestColorizeClampsChannels(t *testing.T) {
	masks := Set{
		KeyChannel:    raster.NewFilled(2, 2, 1),
		KeyFloodplain: raster.NewFilled(2, 2, 1),
	}
	palette := DefaultPalettes()["meandering"]
	r, g, b := Colorize(masks, palette)
	for _, plane := range []*raster.Raster{r, g, b} {
		if plane.Min() < 0 || plane.Max() > 1 {
			t.Fatalf("colorized plane range [%g, %g] outside [0, 1]", plane.Min(), plane.Max())
		}
	}
	if r.Pix[0] == 0 && g.Pix[0] == 0 && b.Pix[0] == 0 {
		t.Fatal("full masks must produce a non-black composite")
	}
}
