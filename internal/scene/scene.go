// Package scene loads painted starting layouts for the sandbox. A scene is a
// YAML document with an optional noise-generated terrain and a list of brush
// strokes applied on top of it.
package scene

import (
	"errors"
	"fmt"
	"image"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
	"gopkg.in/yaml.v3"

	"sandpit/internal/brush"
	"sandpit/internal/particle"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid scene")

// Terrain describes a height map filled from the bottom of the field.
type Terrain struct {
	Seed int64 `yaml:"seed"`
	// Scale is the horizontal noise frequency per cell.
	Scale float64 `yaml:"scale"`
	// Base is the mean surface height as a fraction of the field height.
	Base float64 `yaml:"base"`
	// Amplitude is the surface variation as a fraction of the field height.
	Amplitude float64 `yaml:"amplitude"`
	Octaves   int     `yaml:"octaves"`
	Fill      string  `yaml:"fill"`
	Topsoil   string  `yaml:"topsoil"`
	Depth     int     `yaml:"depth"`

	fill, topsoil particle.Type
}

// Stroke is one brush application. Without To it is a single dab.
type Stroke struct {
	Type   string  `yaml:"type"`
	From   [2]int  `yaml:"from"`
	To     *[2]int `yaml:"to,omitempty"`
	Radius int     `yaml:"radius"`
	Only   string  `yaml:"only,omitempty"`

	typ  particle.Type
	only *particle.Type
}

// Scene is a parsed and validated layout.
type Scene struct {
	Name    string   `yaml:"name"`
	Width   int      `yaml:"width"`
	Height  int      `yaml:"height"`
	Terrain *Terrain `yaml:"terrain,omitempty"`
	Strokes []Stroke `yaml:"strokes"`
}

// Parse decodes and validates a scene document.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse scene: %w", err)
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

func (s *Scene) validate() error {
	if s.Width < 0 || s.Height < 0 {
		return fmt.Errorf("%w %q: negative size %dx%d", ErrInvalid, s.Name, s.Width, s.Height)
	}
	if t := s.Terrain; t != nil {
		var err error
		if t.fill, err = parseType(t.Fill, particle.Block); err != nil {
			return fmt.Errorf("%w %q: terrain fill: %w", ErrInvalid, s.Name, err)
		}
		if t.topsoil, err = parseType(t.Topsoil, t.fill); err != nil {
			return fmt.Errorf("%w %q: terrain topsoil: %w", ErrInvalid, s.Name, err)
		}
		if t.Scale <= 0 {
			t.Scale = 0.02
		}
		if t.Octaves <= 0 {
			t.Octaves = 3
		}
		if t.Base < 0 || t.Base > 1 || t.Amplitude < 0 || t.Amplitude > 1 {
			return fmt.Errorf("%w %q: terrain base and amplitude must lie in [0,1]", ErrInvalid, s.Name)
		}
		if t.Depth < 0 {
			return fmt.Errorf("%w %q: negative terrain depth", ErrInvalid, s.Name)
		}
	}
	for i := range s.Strokes {
		st := &s.Strokes[i]
		t, err := particle.Parse(st.Type)
		if err != nil {
			return fmt.Errorf("%w %q: stroke %d: %w", ErrInvalid, s.Name, i, err)
		}
		st.typ = t
		if st.Radius < 0 {
			return fmt.Errorf("%w %q: stroke %d: negative radius", ErrInvalid, s.Name, i)
		}
		if st.Only != "" {
			only, err := particle.Parse(st.Only)
			if err != nil {
				return fmt.Errorf("%w %q: stroke %d filter: %w", ErrInvalid, s.Name, i, err)
			}
			st.only = &only
		}
	}
	return nil
}

func parseType(name string, fallback particle.Type) (particle.Type, error) {
	if name == "" {
		return fallback, nil
	}
	return particle.Parse(name)
}

// Apply paints the scene onto c and returns the number of cell writes. A zero
// terrain seed takes the supplied seed so reseeding a world varies the terrain.
func (s *Scene) Apply(c brush.Canvas, seed int64) int {
	n := 0
	if s.Terrain != nil {
		n += s.Terrain.apply(c, seed)
	}
	for _, st := range s.Strokes {
		opt := brush.Options{Radius: st.Radius, Only: st.only}
		from := image.Pt(st.From[0], st.From[1])
		if st.To == nil {
			n += brush.Dab(c, from, st.typ, opt)
			continue
		}
		n += brush.Line(c, from, image.Pt(st.To[0], st.To[1]), st.typ, opt)
	}
	return n
}

func (t *Terrain) apply(c brush.Canvas, seed int64) int {
	if t.Seed != 0 {
		seed = t.Seed
	}
	noise := opensimplex.NewNormalized(seed)
	w, h := c.Width(), c.Height()
	n := 0
	for x := 0; x < w; x++ {
		v := octaveNoise(noise, float64(x)*t.Scale, t.Octaves)
		surface := int(math.Round(float64(h) * (t.Base + t.Amplitude*(v*2-1))))
		if surface <= 0 {
			continue
		}
		if surface > h {
			surface = h
		}
		top := h - surface
		for y := top; y < h; y++ {
			typ := t.fill
			if y < top+t.Depth {
				typ = t.topsoil
			}
			c.Paint(x, y, typ)
			n++
		}
	}
	return n
}

// octaveNoise layers doubling frequencies at halving weight along one row of
// the noise plane. The result stays in [0,1].
func octaveNoise(noise opensimplex.Noise, x float64, octaves int) float64 {
	total, amplitude, norm := 0.0, 1.0, 0.0
	frequency := 1.0
	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, 0.5) * amplitude
		norm += amplitude
		amplitude *= 0.5
		frequency *= 2
	}
	return total / norm
}
