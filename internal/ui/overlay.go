//go:build ebiten

package ui

import (
	"image/color"

	"sandpit/internal/core"
	"sandpit/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type awakeProvider interface {
	AwakeMask() []float32
}

type bundleProvider interface {
	BundleMask() []float32
}

// Overlay draws optional debugging visuals on top of the base simulation.
// Key 1 toggles the scheduled-cell mask, key 2 the emitter bundle mask.
type Overlay struct {
	sim         core.Sim
	scale       int
	showAwake   bool
	showBundles bool
	maskImg     *ebiten.Image
	maskBuf     []byte
}

// NewOverlay constructs a new overlay instance.
func NewOverlay(sim core.Sim, scale int) *Overlay {
	return &Overlay{sim: sim, scale: scale}
}

// Update toggles layers from the keyboard.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showAwake = !o.showAwake
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showBundles = !o.showBundles
	}
}

// Active lists the names of the visible layers.
func (o *Overlay) Active() []string {
	var names []string
	if o.showAwake {
		names = append(names, "awake")
	}
	if o.showBundles {
		names = append(names, "bundles")
	}
	return names
}

// Draw renders the enabled layers onto the provided screen.
func (o *Overlay) Draw(screen *ebiten.Image) {
	size := o.sim.Size()
	total := size.W * size.H
	if total <= 0 {
		return
	}
	if o.maskImg == nil || o.maskImg.Bounds().Dx() != size.W || o.maskImg.Bounds().Dy() != size.H {
		o.maskImg = ebiten.NewImage(size.W, size.H)
		o.maskBuf = make([]byte, 4*total)
	}

	if o.showAwake {
		if provider, ok := o.sim.(awakeProvider); ok {
			o.drawMask(screen, provider.AwakeMask(), color.RGBA{R: 80, G: 255, B: 120})
		}
	}
	if o.showBundles {
		if provider, ok := o.sim.(bundleProvider); ok {
			o.drawMask(screen, provider.BundleMask(), color.RGBA{R: 255, G: 80, B: 220})
		}
	}
}

func (o *Overlay) drawMask(screen *ebiten.Image, mask []float32, tint color.RGBA) {
	if len(mask)*4 != len(o.maskBuf) {
		return
	}
	render.FillMask(o.maskBuf, mask, tint)
	o.maskImg.WritePixels(o.maskBuf)
	op := &ebiten.DrawImageOptions{}
	scale := o.scale
	if scale <= 0 {
		scale = 1
	}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(o.maskImg, op)
}
