package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluvsynth/internal/facies"
	"fluvsynth/pkg/raster"
)

func blobMask() *raster.Raster {
	m := raster.New(8, 8)
	// Two separated 2x2 blobs.
	for _, at := range [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}, {5, 5}, {5, 6}, {6, 5}, {6, 6}} {
		m.Pix[at[0]*8+at[1]] = 1
	}
	return m
}

func TestTopologyCountsComponents(t *testing.T) {
	masks := facies.Set{facies.KeyChannel: blobMask()}
	out := TopologyMetrics(masks)

	assert.Equal(t, 2.0, out["channel_component_count"])
	assert.InDelta(t, 0.5, out["channel_largest_component_ratio"], 1e-3,
		"two equal blobs split the mass evenly")
	assert.InDelta(t, 8.0/64.0, out["channel_area_fraction"], 1e-12)
	assert.Greater(t, out["channel_compactness"], 0.0)
}

func TestTopologyDiagonalTouchIsOneComponent(t *testing.T) {
	m := raster.New(4, 4)
	m.Pix[0*4+0] = 1
	m.Pix[1*4+1] = 1
	out := TopologyMetrics(facies.Set{facies.KeyChannel: m})
	assert.Equal(t, 1.0, out["channel_component_count"],
		"labeling is 8-connected, so diagonal neighbors join")
}

func TestTopologyMissingMasksYieldZeros(t *testing.T) {
	out := TopologyMetrics(facies.Set{facies.KeyChannel: blobMask()})
	require.Contains(t, out, "levee_area_fraction")
	assert.Zero(t, out["levee_area_fraction"])
	assert.Zero(t, out["levee_component_count"])
	assert.Zero(t, out["levee_largest_component_ratio"])
	assert.Zero(t, out["floodplain_area_fraction"])
}

func TestTopologyUsesAliases(t *testing.T) {
	viaBranch := TopologyMetrics(facies.Set{facies.KeyBranchChannel: blobMask()})
	assert.Equal(t, 2.0, viaBranch["channel_component_count"],
		"branch_channel stands in for channel")

	viaOverbank := TopologyMetrics(facies.Set{facies.KeyOverbank: blobMask()})
	assert.Equal(t, 2.0, viaOverbank["floodplain_component_count"])
}

func TestTopologySubThresholdPixelsIgnored(t *testing.T) {
	m := raster.NewFilled(4, 4, 0.1)
	out := TopologyMetrics(facies.Set{facies.KeyChannel: m})
	assert.Zero(t, out["channel_component_count"],
		"values at or below 0.2 do not form components")
	assert.InDelta(t, 0.1, out["channel_area_fraction"], 1e-12,
		"area fraction still reflects the raw mean")
}
