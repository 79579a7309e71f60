package core

import "time"

// FrameTimer measures the wall time elapsed between simulation updates so that
// ages advance in seconds regardless of the achieved frame rate.
type FrameTimer struct {
	max  time.Duration
	last time.Time
	now  func() time.Time
}

// NewFrameTimer constructs a timer whose reported steps never exceed one frame at
// minTPS ticks per second.
func NewFrameTimer(minTPS int) *FrameTimer {
	if minTPS <= 0 {
		minTPS = 10
	}
	return &FrameTimer{max: time.Second / time.Duration(minTPS), now: time.Now}
}

// SetClock replaces the time source. Tests use it to drive the timer manually.
func (f *FrameTimer) SetClock(now func() time.Time) {
	if now == nil {
		now = time.Now
	}
	f.now = now
	f.last = time.Time{}
}

// Elapsed returns the seconds since the previous call, clamped to the maximum
// step. The first call returns zero.
func (f *FrameTimer) Elapsed() float64 {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
		return 0
	}
	delta := now.Sub(f.last)
	f.last = now
	if delta < 0 {
		delta = 0
	}
	if delta > f.max {
		delta = f.max
	}
	return delta.Seconds()
}

// Reset forgets the previous sample, so the next Elapsed returns zero.
func (f *FrameTimer) Reset() { f.last = time.Time{} }
