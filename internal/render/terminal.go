package render

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const halfBlock = "▀"

type colorPair struct {
	top, bottom color.RGBA
}

// Terminal renders a color grid as text, packing two rows into each line with
// an upper half block: the foreground paints the top cell and the background
// paints the one below.
type Terminal struct {
	// MaxWidth caps the output columns. Wider grids are sampled down evenly in
	// both directions. Zero means no cap.
	MaxWidth int

	styles map[colorPair]lipgloss.Style
}

// NewTerminal returns a renderer capped at maxWidth columns.
func NewTerminal(maxWidth int) *Terminal {
	return &Terminal{MaxWidth: maxWidth, styles: map[colorPair]lipgloss.Style{}}
}

// Step returns the sampling stride used for a grid of width w.
func (t *Terminal) Step(w int) int {
	if t.MaxWidth <= 0 || w <= t.MaxWidth {
		return 1
	}
	return (w + t.MaxWidth - 1) / t.MaxWidth
}

// Render converts a row-major w*h color grid into styled lines. Runs of equal
// color pairs share one style to keep escape sequences short.
func (t *Terminal) Render(w, h int, colors []color.RGBA) string {
	if w <= 0 || h <= 0 || len(colors) < w*h {
		return ""
	}
	step := t.Step(w)
	var sb strings.Builder
	sb.Grow((w/step + 1) * (h/step/2 + 1) * 4)

	sample := func(x, y int) color.RGBA {
		if y >= h {
			return color.RGBA{A: 255}
		}
		return colors[y*w+x]
	}

	first := true
	for y := 0; y < h; y += 2 * step {
		if !first {
			sb.WriteByte('\n')
		}
		first = false

		x := 0
		for x < w {
			pair := colorPair{top: sample(x, y), bottom: sample(x, y+step)}
			var run strings.Builder
			for x < w {
				next := colorPair{top: sample(x, y), bottom: sample(x, y+step)}
				if next != pair {
					break
				}
				run.WriteString(halfBlock)
				x += step
			}
			sb.WriteString(t.style(pair).Render(run.String()))
		}
	}
	return sb.String()
}

func (t *Terminal) style(p colorPair) lipgloss.Style {
	if s, ok := t.styles[p]; ok {
		return s
	}
	if t.styles == nil {
		t.styles = map[colorPair]lipgloss.Style{}
	}
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color(hex(p.top))).
		Background(lipgloss.Color(hex(p.bottom)))
	t.styles[p] = s
	return s
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
