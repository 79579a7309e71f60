//go:build !ebiten

package ui

import "sandpit/internal/particle"

// HUD is a no-op placeholder for headless builds.
type HUD struct{}

// NewHUD returns nil in the headless build.
func NewHUD(World, int) *HUD { return nil }

// SetStatus is a no-op in the headless build.
func (h *HUD) SetStatus(Status) {}

// SetBrush is a no-op in the headless build.
func (h *HUD) SetBrush(particle.Type, int) {}

// Picked never reports a selection in the headless build.
func (h *HUD) Picked() (particle.Type, bool) { return particle.Background, false }

// Update is a no-op in the headless build.
func (h *HUD) Update(int) {}

// Draw is a no-op in the headless build.
func (h *HUD) Draw(any, int, int) {}
