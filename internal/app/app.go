//go:build ebiten

// Package app hosts the interactive previewer: it regenerates realizations on
// keypress and displays the grayscale, colorized facies, package-id, and mask
// overlay views.
package app

import (
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"fluvsynth/internal/facies"
	"fluvsynth/internal/gen"
	"fluvsynth/internal/render"
	"fluvsynth/internal/stats"
	"fluvsynth/internal/styles"
	"fluvsynth/internal/ui"
)

type view int

const (
	viewGray view = iota
	viewColor
	viewIDMap
)

// Viewer adapts the generation pipeline to the ebiten.Game interface.
type Viewer struct {
	cfg    Config
	params map[string]string
	style  styles.Style
	seed   int64

	out     gen.Output
	preview stats.Record
	err     error

	grayImg  *ebiten.Image
	colorImg *ebiten.Image
	idImg    *ebiten.Image

	view      view
	hud       *ui.HUD
	overlay   *ui.MaskOverlay
	slideshow bool
	ticker    *IntervalTicker
}

// NewViewer builds a viewer and synthesizes the first realization.
func NewViewer(cfg Config) *Viewer {
	v := &Viewer{
		cfg:     cfg,
		params:  cfg.params(),
		style:   styles.ParseStyle(cfg.Style),
		seed:    cfg.Seed,
		hud:     ui.NewHUD(cfg.HUDWidth),
		overlay: ui.NewMaskOverlay(),
		ticker:  NewIntervalTicker(3 * time.Second),
	}
	v.regenerate()
	return v
}

// regenerate rebuilds the realization and all derived images for the current
// style and seed.
func (v *Viewer) regenerate() {
	v.params["style"] = string(v.style)
	v.params["seed"] = strconv.FormatInt(v.seed, 10)

	out, err := gen.Generate(v.params)
	if err != nil {
		v.err = err
		return
	}
	v.err = nil
	v.out = out
	v.preview = stats.PreviewMetrics(out.Gray)

	v.grayImg = ebiten.NewImageFromImage(render.GrayImage(out.Gray))
	palette := facies.DefaultPalettes()[string(out.Style)]
	v.colorImg = ebiten.NewImageFromImage(render.ColorImage(out.Masks, palette))
	if idMap, ok := out.Masks[facies.KeyPackageIDMap]; ok {
		v.idImg = ebiten.NewImageFromImage(render.IDMapImage(idMap))
	} else {
		v.idImg = nil
	}
	v.overlay.SetMasks(out.Masks, palette)
	v.syncHUD()
}

func (v *Viewer) syncHUD() {
	v.hud.SetState(string(v.out.Style), v.out.Mode, v.seed, v.out.Meta, v.preview, v.overlay.Selected())
}

// Update handles keys: reseed, style cycling, view switching, slideshow.
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		v.seed = time.Now().UnixNano()
		v.regenerate()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		v.regenerate()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		v.style = nextStyle(v.style)
		v.regenerate()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		if v.view == viewColor {
			v.view = viewGray
		} else {
			v.view = viewColor
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyI) && v.idImg != nil {
		if v.view == viewIDMap {
			v.view = viewGray
		} else {
			v.view = viewIDMap
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyA) {
		v.slideshow = !v.slideshow
		v.ticker.Reset()
	}
	if v.slideshow && v.ticker.Fire() {
		v.seed = time.Now().UnixNano()
		v.regenerate()
	}

	before := v.overlay.Selected()
	v.overlay.Update()
	if v.overlay.Selected() != before {
		v.syncHUD()
	}
	return nil
}

func nextStyle(s styles.Style) styles.Style {
	order := styles.Styles()
	for i, candidate := range order {
		if candidate == s {
			return order[(i+1)%len(order)]
		}
	}
	return order[0]
}

// Draw renders the active view plus the mask overlay and HUD.
func (v *Viewer) Draw(screen *ebiten.Image) {
	img := v.grayImg
	switch v.view {
	case viewColor:
		img = v.colorImg
	case viewIDMap:
		if v.idImg != nil {
			img = v.idImg
		}
	}
	if img != nil {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(v.cfg.Scale), float64(v.cfg.Scale))
		screen.DrawImage(img, op)
	}
	v.overlay.Draw(screen, v.cfg.Scale)
	v.hud.Draw(screen, v.cfg.Width*v.cfg.Scale, v.cfg.Height*v.cfg.Scale)
}

// Layout returns the logical screen size: raster view plus HUD panel.
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.cfg.Width*v.cfg.Scale + v.hud.Width(), v.cfg.Height * v.cfg.Scale
}

// Run opens the preview window and blocks until it closes.
func Run(cfg Config) error {
	viewer := NewViewer(cfg)
	if viewer.err != nil {
		return viewer.err
	}
	ebiten.SetWindowTitle("fluvsynth - " + cfg.Style)
	ebiten.SetWindowSize(cfg.Width*cfg.Scale+viewer.hud.Width(), cfg.Height*cfg.Scale)
	if err := ebiten.RunGame(viewer); err != nil && err != ebiten.Termination {
		return err
	}
	return nil
}
