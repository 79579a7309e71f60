package render

import (
	"image/color"
	"strings"
	"testing"
)

func TestFillColors(t *testing.T) {
	colors := []color.RGBA{{R: 1, G: 2, B: 3, A: 4}, {R: 5, G: 6, B: 7, A: 8}}
	buf := make([]byte, 8)
	FillColors(buf, colors)
	want := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	for i := range want {
		if buf[i] != want[i] {
			t.Fatalf("buf[%d] = %d, want %d", i, buf[i], want[i])
		}
	}
}

func TestFillPaletteClampsIndex(t *testing.T) {
	palette := []color.RGBA{{R: 10, A: 255}, {G: 20, A: 255}}
	buf := make([]byte, 8)
	FillPalette(buf, []uint8{0, 9}, palette)
	if buf[0] != 10 || buf[5] != 20 {
		t.Fatalf("unexpected pixels %v", buf)
	}
}

func TestFillMaskTransparentWhereZero(t *testing.T) {
	buf := make([]byte, 8)
	for i := range buf {
		buf[i] = 99
	}
	FillMask(buf, []float32{0, 1}, color.RGBA{R: 200, G: 100, B: 50})
	if buf[3] != 0 {
		t.Fatalf("zero mask entries must be transparent, alpha=%d", buf[3])
	}
	if buf[7] != 140 || buf[4] != 200 {
		t.Fatalf("full mask entries should carry the full tint, got %v", buf[4:])
	}
}

func TestTerminalPacksTwoRowsPerLine(t *testing.T) {
	colors := make([]color.RGBA, 4*3)
	for i := range colors {
		colors[i] = color.RGBA{R: uint8(i * 10), A: 255}
	}
	out := NewTerminal(0).Render(4, 3, colors)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("3 rows should pack into 2 lines, got %d", len(lines))
	}
	if n := strings.Count(out, halfBlock); n != 8 {
		t.Fatalf("expected 8 half blocks, got %d", n)
	}
}

func TestTerminalDownsamples(t *testing.T) {
	term := NewTerminal(10)
	if step := term.Step(40); step != 4 {
		t.Fatalf("step = %d, want 4", step)
	}
	colors := make([]color.RGBA, 40*8)
	out := term.Render(40, 8, colors)
	lines := strings.Split(out, "\n")
	if len(lines) != 1 {
		t.Fatalf("expected one line, got %d", len(lines))
	}
	if n := strings.Count(out, halfBlock); n != 10 {
		t.Fatalf("expected 10 columns, got %d", n)
	}
}
