package particle

import "math/bits"

// Set is a bitset of particle types.
type Set uint32

// NewSet returns a set holding the given types.
func NewSet(types ...Type) Set {
	var s Set
	for _, t := range types {
		s = s.Add(t)
	}
	return s
}

// Add returns s with t included.
func (s Set) Add(t Type) Set {
	t.info()
	return s | 1<<t
}

// Has reports whether t is in s.
func (s Set) Has(t Type) bool { return t < Count && s&(1<<t) != 0 }

// Len returns the number of distinct types in s.
func (s Set) Len() int { return bits.OnesCount32(uint32(s)) }

// Any reports whether at least one member satisfies pred.
func (s Set) Any(pred func(Type) bool) bool {
	for t := Type(0); t < Count; t++ {
		if s.Has(t) && pred(t) {
			return true
		}
	}
	return false
}

// Types lists the members in ordinal order.
func (s Set) Types() []Type {
	var out []Type
	for t := Type(0); t < Count; t++ {
		if s.Has(t) {
			out = append(out, t)
		}
	}
	return out
}
