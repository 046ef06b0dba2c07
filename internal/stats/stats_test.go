package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluvsynth/internal/facies"
	"fluvsynth/pkg/raster"
)

func testRealization() (gray *raster.Raster, masks facies.Set, meta *facies.Realization) {
	gray = raster.New(24, 24)
	for y := 0; y < 24; y++ {
		for x := 0; x < 24; x++ {
			gray.Pix[y*24+x] = float64((x*7+y*3)%24) / 24
		}
	}
	channel := raster.New(24, 24)
	for y := 10; y < 14; y++ {
		for x := 0; x < 24; x++ {
			channel.Pix[y*24+x] = 1
		}
	}
	masks = facies.Set{
		facies.KeyChannel:    channel,
		facies.KeyFloodplain: raster.NewFilled(24, 24, 0.4),
		facies.KeyLevee:      raster.NewFilled(24, 24, 0.1),
	}
	meta = &facies.Realization{
		Mineralogy:      facies.Mineralogy{Feldspar: 0.3, Quartz: 0.5, Clay: 0.2},
		CementSignature: "calcite",
	}
	return gray, masks, meta
}

func TestComputeMetricsRecordShape(t *testing.T) {
	gray, masks, meta := testRealization()
	record := ComputeMetrics(gray, masks, "meandering", meta)

	for _, key := range []string{
		"env", "beta_iso", "entropy_global", "fractal_dimension",
		"beta_seg1", "beta_seg2", "h0",
		"psd_aspect", "psd_theta", "anisotropy_ratio",
		"beta_dir_0", "beta_dir_45", "beta_dir_90", "beta_dir_135",
		"topology_channel_area_fraction", "topology_levee_compactness",
		"topology_floodplain_component_count",
		"qa_psd_anisotropy_warning", "qa_channel_area_warning",
		"metadata_hash",
	} {
		require.Contains(t, record, key)
	}
	assert.Equal(t, "meandering", record["env"])
	assert.Equal(t, record["psd_aspect"], record["anisotropy_ratio"])
	assert.NotContains(t, record, "stacked_package_count",
		"single-mode metadata carries no stack summary")
}

func TestComputeMetricsStackedCount(t *testing.T) {
	gray, masks, meta := testRealization()
	meta.Stacked = &facies.StackSummary{
		StackStatistics: facies.StackStatistics{PackageCount: 3},
	}
	record := ComputeMetrics(gray, masks, "braided", meta)
	assert.Equal(t, 3, record["stacked_package_count"])
}

func TestMetadataHashIsStable(t *testing.T) {
	_, _, meta := testRealization()
	first := metadataHash(meta)
	second := metadataHash(meta)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)

	changed := *meta
	changed.CementSignature = "kaolinite"
	assert.NotEqual(t, first, metadataHash(&changed))
}

func TestQAFlagChannelArea(t *testing.T) {
	gray, masks, _ := testRealization()
	record := ComputeMetrics(gray, masks, "meandering", nil)
	assert.Equal(t, false, record["qa_channel_area_warning"],
		"a 4/24-row channel sits inside the plausible band")

	empty := facies.Set{facies.KeyChannel: raster.New(24, 24)}
	record = ComputeMetrics(gray, empty, "meandering", nil)
	assert.Equal(t, true, record["qa_channel_area_warning"],
		"zero channel coverage is implausible")
}

func TestQAFlagAnisotropyOnlyForBraided(t *testing.T) {
	gradient := horizontalGradient(24, 24)
	_, masks, _ := testRealization()

	braided := ComputeMetrics(gradient, masks, "braided", nil)
	meandering := ComputeMetrics(gradient, masks, "meandering", nil)

	assert.Equal(t, false, meandering["qa_psd_anisotropy_warning"],
		"the anisotropy warning is braided-specific")
	if braided["anisotropy_ratio"].(float64) > 2.0 {
		assert.Equal(t, true, braided["qa_psd_anisotropy_warning"])
	}
}

func TestPreviewMetricsSubset(t *testing.T) {
	gray, _, _ := testRealization()
	record := PreviewMetrics(gray)
	require.Len(t, record, 3)
	require.Contains(t, record, "beta_iso")
	require.Contains(t, record, "fractal_dimension")
	require.Contains(t, record, "entropy_global")
}
