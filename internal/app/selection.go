package app

import "sandpit/internal/particle"

// selection tracks the brush type among the paintable types.
type selection struct {
	idx int
}

func (s *selection) types() []particle.Type { return particle.Paintable() }

func (s *selection) current() particle.Type {
	types := s.types()
	return types[s.idx%len(types)]
}

// next moves dir steps through the paintable types, wrapping at both ends.
func (s *selection) next(dir int) {
	n := len(s.types())
	s.idx = ((s.idx+dir)%n + n) % n
}

// set selects t when it is paintable.
func (s *selection) set(t particle.Type) {
	for i, p := range s.types() {
		if p == t {
			s.idx = i
			return
		}
	}
}
