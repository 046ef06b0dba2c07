package stack

import (
	"testing"

	"github.com/stretchr/testify/require"

	"fluvsynth/internal/facies"
	"fluvsynth/internal/styles"
)

func stackedParams(extra map[string]string) map[string]string {
	params := map[string]string{
		"height":        "64",
		"width":         "64",
		"mode":          "stacked",
		"package_count": "2",
		"stack_seed":    "77",
		"style":         "meandering",
	}
	for k, v := range extra {
		params[k] = v
	}
	return params
}

func TestSinglePackageMatchesDirectGeneration(t *testing.T) {
	params := map[string]string{
		"height":        "64",
		"width":         "64",
		"mode":          "stacked",
		"package_count": "1",
		"style":         "braided",
		"seed":          "555",
	}
	stacked, err := Build(params)
	require.NoError(t, err)

	direct, err := styles.Generate(styles.Braided, map[string]string{
		"height": "64", "width": "64", "style": "braided", "seed": "555",
	})
	require.NoError(t, err)

	require.Equal(t, direct.Gray.Pix, stacked.Gray.Pix,
		"single-package stacking must reproduce the direct result bit for bit")
	require.NotContains(t, stacked.Masks, facies.KeyPackageIDMap,
		"single-package delegation must not add stacking masks")
}

func TestStackedDeterministic(t *testing.T) {
	a, err := Build(stackedParams(nil))
	require.NoError(t, err)
	b, err := Build(stackedParams(nil))
	require.NoError(t, err)
	require.Equal(t, a.Gray.Pix, b.Gray.Pix)
	require.Equal(t, a.Masks[facies.KeyPackageIDMap].Pix, b.Masks[facies.KeyPackageIDMap].Pix)
}

func TestStackedOutputContract(t *testing.T) {
	result, err := Build(stackedParams(map[string]string{
		"package_styles": "meandering,braided",
	}))
	require.NoError(t, err)

	idMap := result.Masks[facies.KeyPackageIDMap]
	require.NotNil(t, idMap)
	for _, v := range idMap.Pix {
		require.GreaterOrEqual(t, v, -1.0)
		require.LessOrEqual(t, v, 1.0, "ids must stay below the package count")
		require.Equal(t, v, float64(int(v)), "id map values must be integral")
	}

	require.NotNil(t, result.Masks[facies.KeyUpperSurface])
	require.NotNil(t, result.Masks[facies.KeyErosionSurface])

	require.NotNil(t, result.Meta)
	require.NotNil(t, result.Meta.Stacked)
	stats := result.Meta.Stacked.StackStatistics
	require.Equal(t, 2, stats.PackageCount)
	require.Len(t, result.Meta.Stacked.Packages, 2)
	require.Equal(t, map[string]int{"meandering": 1, "braided": 1}, stats.PackageMix)
	require.InDelta(t, 36, stats.TotalReliefPx, 1e-9, "default relief is 18 px per package")
}

func TestBuildSpecsCyclesSequences(t *testing.T) {
	cfg := FromMap(map[string]string{
		"package_count":        "4",
		"package_styles":       "braided,anastomosing",
		"package_thickness_px": "30,50",
		"package_relief_px":    "10",
	})
	specs := BuildSpecs(cfg)
	require.Len(t, specs, 4)
	require.Equal(t, styles.Braided, specs[0].Style)
	require.Equal(t, styles.Anastomosing, specs[1].Style)
	require.Equal(t, styles.Braided, specs[2].Style)
	require.Equal(t, 30.0, specs[0].ThicknessPx)
	require.Equal(t, 50.0, specs[1].ThicknessPx)
	require.Equal(t, 30.0, specs[2].ThicknessPx)
	require.Equal(t, 10.0, specs[3].ReliefPx)
	// Erosion defaults to max(4, 0.75 × relief).
	require.Equal(t, 7.5, specs[0].ErosionDepthPx)
}

func TestPackageSeedsAreDerivedNotSequential(t *testing.T) {
	cfg := FromMap(stackedParams(nil))
	specs := BuildSpecs(cfg)
	seq, err := Sequence(specs, cfg.Height, cfg.Width, cfg.StackSeed)
	require.NoError(t, err)
	require.Len(t, seq.Packages, 2)
	require.NotEqual(t, seq.Packages[0].Seed, seq.Packages[1].Seed)

	// Same stack seed, same derived package seeds.
	again, err := Sequence(specs, cfg.Height, cfg.Width, cfg.StackSeed)
	require.NoError(t, err)
	require.Equal(t, seq.Packages[0].Seed, again.Packages[0].Seed)
	require.Equal(t, seq.Packages[1].Seed, again.Packages[1].Seed)
}

func TestExplicitSeedOverridesDerivation(t *testing.T) {
	cfg := FromMap(stackedParams(map[string]string{"seed": "4242"}))
	// "seed" is a stack-level key; per-package params must not inherit it, so
	// specs fall back to derived seeds.
	specs := BuildSpecs(cfg)
	require.False(t, specs[0].HasSeed)

	withSeed := BuildSpecs(Config{
		Height: 64, Width: 64, Count: 1,
		Styles:    []styles.Style{styles.Meandering},
		StackSeed: 1,
		Base:      map[string]string{"seed": "909"},
	})
	require.True(t, withSeed[0].HasSeed)
	require.Equal(t, int64(909), withSeed[0].Seed)
}

func TestDeeperErosionCutsFewerCells(t *testing.T) {
	// A higher erosion depth raises the gradient threshold, so the cut
	// footprint can only shrink.
	result, err := styles.Generate(styles.Meandering, map[string]string{
		"height": "64", "width": "64", "seed": "11",
	})
	require.NoError(t, err)

	shallow := cutErosionalSurface(result.Gray.Clone(), 5, styles.Meandering)
	deep := cutErosionalSurface(result.Gray.Clone(), 60, styles.Meandering)
	require.LessOrEqual(t, deep.Sum(), shallow.Sum())
	for i, v := range deep.Pix {
		if v > 0 {
			require.Equal(t, 1.0, shallow.Pix[i], "deep cuts must be a subset of shallow cuts")
		}
	}
}

func TestBuildPropagatesPackageErrors(t *testing.T) {
	_, err := Build(stackedParams(map[string]string{
		"package_styles": "braided",
		"thread_count":   "99",
	}))
	require.Error(t, err)
	var rangeErr *styles.RangeError
	require.ErrorAs(t, err, &rangeErr)
}
