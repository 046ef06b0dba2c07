//go:build ebiten

package ui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"fluvsynth/internal/facies"
	"fluvsynth/internal/stats"
)

// HUD renders the info panel to the right of the raster view: current style,
// seed, preview metrics, and mineralogy.
type HUD struct {
	width int
	panel *ebiten.Image

	lines []string
}

// NewHUD constructs a HUD with the given panel width in pixels.
func NewHUD(width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{width: width}
}

// Width reports the panel width.
func (h *HUD) Width() int { return h.width }

// SetState rebuilds the panel text after a regeneration.
func (h *HUD) SetState(style string, mode string, seed int64, meta *facies.Realization, preview stats.Record, maskName string) {
	h.lines = h.lines[:0]
	h.lines = append(h.lines,
		"fluvsynth preview",
		"",
		fmt.Sprintf("style  %s", style),
		fmt.Sprintf("mode   %s", mode),
		fmt.Sprintf("seed   %d", seed),
	)
	if maskName != "" {
		h.lines = append(h.lines, fmt.Sprintf("mask   %s", maskName))
	}
	if preview != nil {
		h.lines = append(h.lines, "",
			fmt.Sprintf("beta     %.3f", floatMetric(preview, "beta_iso")),
			fmt.Sprintf("fractal  %.3f", floatMetric(preview, "fractal_dimension")),
			fmt.Sprintf("entropy  %.3f", floatMetric(preview, "entropy_global")),
		)
	}
	if meta != nil {
		h.lines = append(h.lines, "",
			fmt.Sprintf("feldspar %.3f", meta.Mineralogy.Feldspar),
			fmt.Sprintf("quartz   %.3f", meta.Mineralogy.Quartz),
			fmt.Sprintf("clay     %.3f", meta.Mineralogy.Clay),
			fmt.Sprintf("cement   %s", meta.CementSignature),
		)
		if meta.Stacked != nil {
			h.lines = append(h.lines, "",
				fmt.Sprintf("packages %d", meta.Stacked.StackStatistics.PackageCount),
				fmt.Sprintf("mix      %s", mixLabel(meta.Stacked.StackStatistics.PackageMix)),
			)
		}
	}
	h.lines = append(h.lines, "",
		"keys:",
		" S reseed  R redo",
		" Tab style  C color",
		" I id map  M mask",
		" A slideshow  Q quit",
	)
}

func floatMetric(record stats.Record, key string) float64 {
	if v, ok := record[key].(float64); ok {
		return v
	}
	return 0
}

func mixLabel(mix map[string]int) string {
	parts := make([]string, 0, len(mix))
	for style, n := range mix {
		parts = append(parts, fmt.Sprintf("%s:%d", style, n))
	}
	return strings.Join(parts, " ")
}

// Draw paints the panel at the given x offset.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h.width == 0 {
		return
	}
	if h.panel == nil || h.panel.Bounds().Dy() != height {
		h.panel = ebiten.NewImage(h.width, height)
	}
	h.panel.Fill(color.NRGBA{R: 0x14, G: 0x14, B: 0x1a, A: 0xff})
	face := basicfont.Face7x13
	y := 18
	for _, line := range h.lines {
		text.Draw(h.panel, line, face, 10, y, color.White)
		y += 16
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}
