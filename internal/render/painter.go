//go:build ebiten

package render

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// GridPainter uploads a per-cell color buffer to a texture and draws it
// scaled onto the screen.
type GridPainter struct {
	img *ebiten.Image
	buf []byte
	w   int
	h   int
}

// NewGridPainter allocates a painter for a w*h grid.
func NewGridPainter(w, h int) *GridPainter {
	return &GridPainter{
		img: ebiten.NewImage(w, h),
		buf: make([]byte, 4*w*h),
		w:   w,
		h:   h,
	}
}

// BlitColors draws colors, one per cell, at the given integer scale.
func (p *GridPainter) BlitColors(screen *ebiten.Image, colors []color.RGBA, scale int) {
	FillColors(p.buf, colors)
	p.draw(screen, scale)
}

// BlitPalette draws palette-indexed cells at the given integer scale.
func (p *GridPainter) BlitPalette(screen *ebiten.Image, cells []uint8, palette []color.RGBA, scale int) {
	FillPalette(p.buf, cells, palette)
	p.draw(screen, scale)
}

func (p *GridPainter) draw(screen *ebiten.Image, scale int) {
	if scale <= 0 {
		scale = 1
	}
	p.img.WritePixels(p.buf)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(scale), float64(scale))
	screen.DrawImage(p.img, op)
}
