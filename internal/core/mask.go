package core

// Mask stores one membership flag per cell of a W*H grid in row-major order.
type Mask struct {
	W, H  int
	data  []bool
	count int
}

// NewMask allocates a mask with the given dimensions.
func NewMask(w, h int) *Mask {
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	return &Mask{W: w, H: h, data: make([]bool, w*h)}
}

// Index returns the linear slice index for coordinates (x, y).
func (m *Mask) Index(x, y int) int { return y*m.W + x }

// InBounds reports whether (x, y) lies inside the mask.
func (m *Mask) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.W && y < m.H
}

// Has reports whether (x, y) is a member.
func (m *Mask) Has(x, y int) bool { return m.data[m.Index(x, y)] }

// Add marks (x, y) and reports whether it was newly added.
func (m *Mask) Add(x, y int) bool {
	i := m.Index(x, y)
	if m.data[i] {
		return false
	}
	m.data[i] = true
	m.count++
	return true
}

// Remove clears (x, y) and reports whether it was a member.
func (m *Mask) Remove(x, y int) bool {
	i := m.Index(x, y)
	if !m.data[i] {
		return false
	}
	m.data[i] = false
	m.count--
	return true
}

// Len returns the number of members.
func (m *Mask) Len() int { return m.count }

// Clear removes every member.
func (m *Mask) Clear() {
	if m.count == 0 {
		return
	}
	for i := range m.data {
		m.data[i] = false
	}
	m.count = 0
}
