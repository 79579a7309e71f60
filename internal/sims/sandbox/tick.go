package sandbox

import (
	"image"

	"sandpit/internal/field"
	"sandpit/internal/particle"
)

// Tick advances the world once. elapsed is the wall time in seconds added to
// the age of every surviving processed particle.
//
// The awake cells of moving types are visited once each in a random order.
// Every move happens in place, so later cells in the same tick see earlier
// moves. The power network is recomputed after all movement.
func (w *World) Tick(elapsed float64) TickStats {
	f := w.field
	w.pending.Clear()
	w.order = w.order[:0]

	particles := 0
	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			p := image.Pt(x, y)
			c := f.Ref(p)
			if c.Type == particle.Background || processors[c.Type] == nil {
				continue
			}
			particles++
			if c.Awake {
				w.pending.Add(x, y)
				w.order = append(w.order, p)
			}
		}
	}
	awake := len(w.order)
	w.rng.Shuffle(len(w.order), func(i, j int) {
		w.order[i], w.order[j] = w.order[j], w.order[i]
	})

	m := motion{f: f, rng: w.rng, params: &w.cfg.Params}
	for len(w.order) > 0 {
		p := w.order[len(w.order)-1]
		w.order = w.order[:len(w.order)-1]
		// Entries whose cell was displaced by an earlier move are stale.
		if !w.pending.Remove(p.X, p.Y) {
			continue
		}
		w.process(m, p, elapsed)
	}

	w.power.Update(f)
	w.ticks++
	w.stats = TickStats{Particles: particles, Awake: awake}
	return w.stats
}

func (w *World) process(m motion, pos image.Point, elapsed float64) {
	f := w.field
	c := f.Ref(pos)
	if c.Type == particle.Background {
		return
	}
	proc := processors[c.Type]
	if proc == nil {
		return
	}

	dest := proc(m, pos, c)
	switch dest {
	case destroyed:
		f.Clear(pos)
		f.WakeAround(pos)
		return
	case pos:
	default:
		w.move(pos, dest)
	}
	w.settle(dest, dest == pos, elapsed)
}

// move swaps the particle at from into to and runs the contact reactions
// around its new position.
func (w *World) move(from, to image.Point) {
	f := w.field
	moved := f.TypeAt(from)
	displacedPending := w.pending.Remove(to.X, to.Y)

	f.Swap(from, to)
	f.Ref(to).Prev = from
	displaced := f.Ref(from)
	displaced.Prev = to
	if displaced.Type != particle.Background {
		displaced.Awake = true
	}
	if displacedPending {
		w.pending.Add(from.X, from.Y)
		w.order = append(w.order, from)
	}

	for _, d := range field.Adjacent {
		n := to.Add(d)
		if !f.InBounds(n) {
			continue
		}
		if f.TypeAt(n) == moved {
			f.Wake(n)
			continue
		}
		if resolve(f, to, n) && f.TypeAt(to) != moved {
			break
		}
	}
	f.WakeAround(from)
}

// settle updates the sleep flag, age and previous position of the particle
// that ended its move at p, unless a reaction removed it. A particle that
// stayed, or that falls asleep, is next processed from where it already sits.
func (w *World) settle(p image.Point, stayed bool, elapsed float64) {
	c := w.field.Ref(p)
	if c.Type == particle.Background {
		return
	}
	c.Awake = c.Type.NeverSleeps() || !w.surrounded(p, c.Type)
	if stayed || !c.Awake {
		c.Prev = p
	}
	c.Age += elapsed
}

// surrounded reports whether all four neighbours of p exist and hold t.
func (w *World) surrounded(p image.Point, t particle.Type) bool {
	for _, d := range field.Adjacent {
		n := p.Add(d)
		if !w.field.InBounds(n) || w.field.TypeAt(n) != t {
			return false
		}
	}
	return true
}
