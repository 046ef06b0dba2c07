//go:build !ebiten

package ui

import "fluvsynth/internal/facies"

// MaskOverlay is a no-op placeholder used when the ebiten build tag is absent.
type MaskOverlay struct{}

// NewMaskOverlay constructs a stub overlay.
func NewMaskOverlay() *MaskOverlay { return &MaskOverlay{} }

// SetMasks is a no-op in headless builds.
func (o *MaskOverlay) SetMasks(facies.Set, facies.Palette) {}

// Update is a no-op in headless builds.
func (o *MaskOverlay) Update() {}

// Selected always reports the off state.
func (o *MaskOverlay) Selected() string { return "" }

// Draw is a no-op placeholder.
func (o *MaskOverlay) Draw(any, int) {}
