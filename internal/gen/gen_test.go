package gen

import (
	"errors"
	"testing"

	"fluvsynth/internal/facies"
	"fluvsynth/internal/styles"
)

func TestGenerateDefaultsToSingleMeandering(t *testing.T) {
	out, err := Generate(map[string]string{"height": "48", "width": "48", "seed": "9"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Style != styles.Meandering {
		t.Fatalf("style = %s, want meandering", out.Style)
	}
	if out.Mode != "single" {
		t.Fatalf("mode = %q, want single", out.Mode)
	}
	if out.Gray == nil || out.Gray.H != 48 || out.Gray.W != 48 {
		t.Fatal("grayscale shape must follow height/width params")
	}
}

func TestGenerateStackedByPackageCount(t *testing.T) {
	out, err := Generate(map[string]string{
		"height": "48", "width": "48", "seed": "9",
		"style": "braided", "package_count": "2",
	})
	if err != nil {
		t.Fatal(err)
	}
	if out.Mode != "stacked" {
		t.Fatalf("mode = %q, want stacked", out.Mode)
	}
	if out.Masks[facies.KeyPackageIDMap] == nil {
		t.Fatal("stacked output must include the package id map")
	}
	if out.Meta == nil || out.Meta.Stacked == nil || out.Meta.Stacked.StackStatistics.PackageCount != 2 {
		t.Fatal("stacked metadata must report package_count 2")
	}
}

func TestGenerateRejectsUnsupportedEnvironments(t *testing.T) {
	_, err := Generate(map[string]string{"style": "aeolian", "height": "32", "width": "32"})
	if !errors.Is(err, styles.ErrUnsupportedEnvironment) {
		t.Fatalf("aeolian error = %v, want ErrUnsupportedEnvironment", err)
	}
}

func TestGeneratePropagatesValidationErrors(t *testing.T) {
	_, err := Generate(map[string]string{
		"style": "braided", "thread_count": "1", "height": "32", "width": "32",
	})
	var rangeErr *styles.RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("error = %v, want RangeError", err)
	}
}
