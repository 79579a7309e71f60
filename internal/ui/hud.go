//go:build ebiten

package ui

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"

	"sandpit/internal/core"
	"sandpit/internal/particle"
)

var (
	panelBG    = color.RGBA{R: 16, G: 16, B: 20, A: 255}
	titleFG    = color.RGBA{R: 200, G: 200, B: 210, A: 255}
	statusFG   = color.RGBA{R: 170, G: 200, B: 170, A: 255}
	labelFG    = color.RGBA{R: 220, G: 220, B: 230, A: 255}
	mutedFG    = color.RGBA{R: 160, G: 160, B: 170, A: 255}
	selectedFG = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	trackBG    = color.RGBA{R: 32, G: 34, B: 40, A: 255}
)

// HUD renders the sandbox panel to the right of the simulation view: a live
// readout, the brush palette, a histogram of cell types and the parameter
// controls.
type HUD struct {
	world      World
	width      int
	panel      *ebiten.Image
	lastHeight int
	pixel      *ebiten.Image
	title      string

	status   []string
	brush    particle.Type
	radius   int
	swatches []swatch
	picked   particle.Type
	hasPick  bool

	controls    []controlState
	intSetter   core.IntParameterSetter
	floatSetter core.FloatParameterSetter
}

// controlState is a parameter control with its last known value and buttons.
type controlState struct {
	control  core.ParameterControl
	value    float64
	hasValue bool

	top   int
	minus image.Rectangle
	plus  image.Rectangle
}

// NewHUD constructs a HUD for world with a panel of the given width.
func NewHUD(world World, width int) *HUD {
	if width < 0 {
		width = 0
	}
	h := &HUD{world: world, width: width, title: buildTitle(world)}
	if width == 0 {
		return h
	}
	h.pixel = ebiten.NewImage(1, 1)
	h.pixel.Fill(color.White)
	h.swatches = layoutSwatches(width, particle.Paintable())

	if provider, ok := world.(core.ParameterControlsProvider); ok {
		for i, ctrl := range provider.ParameterControls() {
			top := controlsTop + i*lineHeight
			y := top + (lineHeight-buttonSize)/2
			plus := image.Rect(width-panelPadding-buttonSize, y, width-panelPadding, y+buttonSize)
			minus := plus.Sub(image.Pt(buttonGap+buttonSize, 0))
			h.controls = append(h.controls, controlState{control: ctrl, top: top, minus: minus, plus: plus})
		}
	}
	h.intSetter, _ = world.(core.IntParameterSetter)
	h.floatSetter, _ = world.(core.FloatParameterSetter)
	return h
}

func buildTitle(world World) string {
	if world == nil || world.Name() == "" {
		return "Controls"
	}
	name := world.Name()
	return strings.ToUpper(name[:1]) + name[1:]
}

// SetStatus replaces the readout drawn under the title.
func (h *HUD) SetStatus(s Status) {
	if h == nil {
		return
	}
	lines := s.Lines()
	if len(lines) > statusRows {
		lines = lines[:statusRows]
	}
	h.status = lines
}

// SetBrush marks the selected brush type and radius in the palette.
func (h *HUD) SetBrush(t particle.Type, radius int) {
	if h == nil {
		return
	}
	h.brush, h.radius = t, radius
}

// Picked returns the brush type clicked in the palette since the last call.
func (h *HUD) Picked() (particle.Type, bool) {
	if h == nil || !h.hasPick {
		return particle.Background, false
	}
	h.hasPick = false
	return h.picked, true
}

// Update refreshes parameter values and handles clicks inside the panel, whose
// left edge sits at offsetX on screen.
func (h *HUD) Update(offsetX int) {
	if h == nil || h.width == 0 {
		return
	}
	if provider, ok := h.world.(core.ParameterProvider); ok {
		snap := provider.Parameters()
		for i := range h.controls {
			s := &h.controls[i]
			p, ok := snap.Lookup(s.control.Key)
			if !ok {
				s.hasValue = false
				continue
			}
			v, err := strconv.ParseFloat(p.Value, 64)
			s.value, s.hasValue = v, err == nil
		}
	}
	if !inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		return
	}
	mx, my := ebiten.CursorPosition()
	px := mx - offsetX
	if px < 0 {
		return
	}
	if t, ok := swatchAt(h.swatches, px, my); ok {
		h.picked, h.hasPick = t, true
		return
	}
	pt := image.Pt(px, my)
	for i := range h.controls {
		s := &h.controls[i]
		switch {
		case pt.In(s.minus):
			h.adjust(s, -1)
		case pt.In(s.plus):
			h.adjust(s, 1)
		default:
			continue
		}
		return
	}
}

// target returns the value one click away in direction dir, clamped to the
// control's range, and whether the click would change anything.
func (h *HUD) target(s *controlState, dir int) (float64, bool) {
	if !s.hasValue {
		return 0, false
	}
	step := s.control.Step
	switch s.control.Type {
	case core.ParamTypeInt:
		if h.intSetter == nil {
			return 0, false
		}
		step = math.Max(1, math.Round(step))
	case core.ParamTypeFloat:
		if h.floatSetter == nil {
			return 0, false
		}
		if step <= 0 {
			step = 0.05
		}
	default:
		return 0, false
	}
	v := s.value + float64(dir)*step
	if s.control.HasMin && v < s.control.Min {
		v = s.control.Min
	}
	if s.control.HasMax && v > s.control.Max {
		v = s.control.Max
	}
	return v, math.Abs(v-s.value) > 1e-9
}

func (h *HUD) adjust(s *controlState, dir int) {
	v, ok := h.target(s, dir)
	if !ok {
		return
	}
	if s.control.Type == core.ParamTypeInt {
		ok = h.intSetter.SetIntParameter(s.control.Key, int(math.Round(v)))
	} else {
		ok = h.floatSetter.SetFloatParameter(s.control.Key, v)
	}
	if ok {
		s.value = v
	}
}

// Draw paints the panel at offsetX, sized to the scaled simulation height.
func (h *HUD) Draw(screen *ebiten.Image, offsetX int, scale int) {
	if h == nil || h.width <= 0 {
		return
	}
	if scale <= 0 {
		scale = 1
	}
	height := h.world.Size().H * scale
	if height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(panelBG)

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	text.Draw(h.panel, h.title, face, panelPadding, y, titleFG)
	for _, line := range h.status {
		y += rowSpacing
		text.Draw(h.panel, line, face, panelPadding, y, statusFG)
	}

	h.drawPalette()
	h.drawHistogram()
	h.drawControls()

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}

func (h *HUD) drawPalette() {
	face := basicfont.Face7x13
	label := "Brush " + h.brush.String() + " r=" + strconv.Itoa(h.radius)
	text.Draw(h.panel, label, face, panelPadding, paletteTop+12, labelFG)

	palette := h.world.Palette()
	for _, s := range h.swatches {
		if s.typ == h.brush {
			h.fillRect(grow(s.rect, 2), selectedFG)
		}
		// Air is black on a near-black panel.
		if s.typ.IsBackground() {
			h.fillRect(s.rect, mutedFG)
			h.fillRect(grow(s.rect, -1), panelBG)
			continue
		}
		h.fillRect(s.rect, palette[s.typ])
	}
}

func (h *HUD) drawHistogram() {
	face := basicfont.Face7x13
	text.Draw(h.panel, "Cells", face, panelPadding, countsTop+12, labelFG)
	rows := histogram(h.world.Counts())
	if len(rows) == 0 {
		text.Draw(h.panel, "empty", face, panelPadding, countsTop+18+countSpacing-2, mutedFG)
		return
	}
	palette := h.world.Palette()
	trackX := panelPadding + countLabelW
	trackW := h.width - 2*panelPadding - countLabelW - countNumberW
	for i, r := range rows {
		top := countsTop + 18 + i*countSpacing
		text.Draw(h.panel, r.typ.String(), face, panelPadding, top+countSpacing-3, mutedFG)
		if trackW > 0 {
			h.fillRect(image.Rect(trackX, top+3, trackX+trackW, top+countSpacing-3), trackBG)
			bar := int(math.Ceil(r.frac * float64(trackW)))
			h.fillRect(image.Rect(trackX, top+3, trackX+bar, top+countSpacing-3), palette[r.typ])
		}
		n := humanize.Comma(int64(r.count))
		w := text.BoundString(face, n).Dx()
		text.Draw(h.panel, n, face, h.width-panelPadding-w, top+countSpacing-3, labelFG)
	}
}

func (h *HUD) drawControls() {
	face := basicfont.Face7x13
	if len(h.controls) == 0 {
		text.Draw(h.panel, "No adjustable parameters", face, panelPadding, controlsTop+lineHeight, mutedFG)
		return
	}
	for i := range h.controls {
		s := &h.controls[i]
		baseline := s.top + labelBaseline
		text.Draw(h.panel, s.control.Label, face, panelPadding, baseline, labelFG)

		value, fg := "--", mutedFG
		if s.hasValue {
			value, fg = formatValue(s.control, s.value), labelFG
		}
		w := text.BoundString(face, value).Dx()
		text.Draw(h.panel, value, face, s.minus.Min.X-buttonGap-w, baseline, fg)

		_, canDec := h.target(s, -1)
		_, canInc := h.target(s, 1)
		h.drawButton(s.minus, "-", canDec)
		h.drawButton(s.plus, "+", canInc)
	}
}

func (h *HUD) drawButton(rect image.Rectangle, label string, enabled bool) {
	bg := color.RGBA{R: 54, G: 56, B: 64, A: 255}
	fg := color.RGBA{R: 230, G: 230, B: 240, A: 255}
	if !enabled {
		bg = trackBG
		fg = color.RGBA{R: 120, G: 120, B: 130, A: 255}
	}
	h.fillRect(rect, bg)

	face := basicfont.Face7x13
	b := text.BoundString(face, label)
	x := rect.Min.X + (rect.Dx()-b.Dx())/2
	y := rect.Min.Y + (rect.Dy()-b.Dy())/2 + b.Dy()
	text.Draw(h.panel, label, face, x, y, fg)
}

func grow(r image.Rectangle, n int) image.Rectangle {
	d := image.Pt(n, n)
	return image.Rectangle{Min: r.Min.Sub(d), Max: r.Max.Add(d)}
}

func (h *HUD) fillRect(rect image.Rectangle, c color.RGBA) {
	if rect.Empty() {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(rect.Dx()), float64(rect.Dy()))
	op.GeoM.Translate(float64(rect.Min.X), float64(rect.Min.Y))
	op.ColorScale.ScaleWithColor(c)
	h.panel.DrawImage(h.pixel, op)
}

// formatValue prints ints plainly and floats with a precision that fits the
// control's step.
func formatValue(ctrl core.ParameterControl, v float64) string {
	if ctrl.Type == core.ParamTypeInt {
		return strconv.Itoa(int(math.Round(v)))
	}
	step := ctrl.Step
	if step <= 0 {
		step = 0.05
	}
	precision := 1
	switch {
	case step < 0.001:
		precision = 4
	case step < 0.01:
		precision = 3
	case step < 0.1:
		precision = 2
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}
