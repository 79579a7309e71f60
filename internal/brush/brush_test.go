package brush

import (
	"image"
	"testing"

	"sandpit/internal/field"
	"sandpit/internal/particle"
)

func TestWalkIncludesEndpoints(t *testing.T) {
	var pts []image.Point
	Walk(image.Pt(0, 0), image.Pt(4, 2), func(p image.Point) { pts = append(pts, p) })
	if pts[0] != image.Pt(0, 0) || pts[len(pts)-1] != image.Pt(4, 2) {
		t.Fatalf("line must start and end at the endpoints, got %v", pts)
	}
	if len(pts) != 5 {
		t.Fatalf("a line spanning 5 columns visits 5 points, got %d", len(pts))
	}
	for i := 1; i < len(pts); i++ {
		d := pts[i].Sub(pts[i-1])
		if abs(d.X) > 1 || abs(d.Y) > 1 {
			t.Fatalf("gap between %v and %v", pts[i-1], pts[i])
		}
	}
}

func TestWalkSinglePoint(t *testing.T) {
	n := 0
	Walk(image.Pt(3, 3), image.Pt(3, 3), func(image.Point) { n++ })
	if n != 1 {
		t.Fatalf("degenerate line visits one point, got %d", n)
	}
}

func TestDabClipsToCanvas(t *testing.T) {
	f := field.New(4, 4)
	n := Dab(f, image.Pt(0, 0), particle.Sand, Options{Radius: 1})
	if n != 4 {
		t.Fatalf("corner dab of radius 1 covers 4 cells, got %d", n)
	}
	if f.Get(1, 1).Type != particle.Sand || f.Get(2, 2).Type != particle.Air {
		t.Fatal("dab painted the wrong cells")
	}
}

func TestDabRoutesThroughSet(t *testing.T) {
	f := field.New(3, 3)
	Dab(f, image.Pt(1, 1), particle.Water, Options{})
	if f.LastMutation().Type != particle.Water {
		t.Fatal("brush writes must be recorded as field mutations")
	}
	if f.ColorAt(1, 1) != particle.Water.Color() {
		t.Fatal("brush writes must refresh the color cache")
	}
}

func TestOnlyFilter(t *testing.T) {
	f := field.New(5, 1)
	f.Set(2, 0, field.Cell{Type: particle.Block})
	n := Line(f, image.Pt(0, 0), image.Pt(4, 0), particle.Water, OnlyOver(0, particle.Air))
	if n != 4 {
		t.Fatalf("expected 4 writes around the block, got %d", n)
	}
	if f.Get(2, 0).Type != particle.Block {
		t.Fatal("filtered brush overwrote a block")
	}
}
