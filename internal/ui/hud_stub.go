//go:build !ebiten

package ui

import (
	"fluvsynth/internal/facies"
	"fluvsynth/internal/stats"
)

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns a stub HUD in the headless build.
func NewHUD(int) *HUD { return &HUD{} }

// Width reports zero in the headless build.
func (h *HUD) Width() int { return 0 }

// SetState is a no-op in the headless build.
func (h *HUD) SetState(string, string, int64, *facies.Realization, stats.Record, string) {}

// Draw is a no-op placeholder.
func (h *HUD) Draw(any, int, int) {}
