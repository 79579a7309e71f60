//go:build ebiten

package app

import (
	"image"
	"time"

	"sandpit/internal/brush"
	"sandpit/internal/core"
	"sandpit/internal/particle"
	"sandpit/internal/render"
	"sandpit/internal/sims/sandbox"
	"sandpit/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Game adapts a sandbox world to the ebiten.Game interface.
type Game struct {
	world   *sandbox.World
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	timer   *core.FrameTimer

	scale    int
	hudWidth int
	paused   bool
	tickOnce bool
	seed     int64

	brush    selection
	radius   int
	last     image.Point
	stroking bool
	tickTime time.Duration
}

// New constructs a Game for the provided world.
func New(world *sandbox.World, cfg Config) *Game {
	cfg.Normalize()
	size := world.Size()
	g := &Game{
		world:    world,
		painter:  render.NewGridPainter(size.W, size.H),
		overlay:  ui.NewOverlay(world, cfg.Scale),
		hud:      ui.NewHUD(world, cfg.HUDWidth),
		timer:    core.NewFrameTimer(cfg.TPS / 4),
		scale:    cfg.Scale,
		hudWidth: cfg.HUDWidth,
		seed:     cfg.Seed,
		radius:   cfg.Radius,
	}
	g.brush.set(particle.Sand)
	return g
}

// Reset reinitializes the world with the provided seed.
func (g *Game) Reset(seed int64) {
	g.seed = seed
	g.world.Reset(seed)
	g.tickOnce = false
	g.timer.Reset()
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
		g.timer.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.Reset(g.seed)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.Reset(time.Now().UnixNano())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		if ebiten.IsKeyPressed(ebiten.KeyShift) {
			g.brush.next(-1)
		} else {
			g.brush.next(1)
		}
	}
	if _, dy := ebiten.Wheel(); dy != 0 {
		g.radius = adjustRadius(g.radius, dy)
	}

	g.overlay.Update()
	g.hud.Update(g.world.Size().W * g.scale)
	if t, ok := g.hud.Picked(); ok {
		g.brush.set(t)
	}
	g.paint()

	switch {
	case g.tickOnce:
		g.step(g.world.Config().StepSeconds)
		g.tickOnce = false
	case !g.paused:
		g.step(g.timer.Elapsed())
	}

	stats := g.world.Stats()
	firing := 0
	bundles := g.world.Power().Bundles()
	for _, b := range bundles {
		if b.Firing {
			firing++
		}
	}
	g.hud.SetStatus(ui.Status{
		Ticks:     g.world.Ticks(),
		Paused:    g.paused,
		Particles: stats.Particles,
		Awake:     stats.Awake,
		Bundles:   len(bundles),
		Firing:    firing,
		TickTime:  g.tickTime,
		Overlays:  g.overlay.Active(),
	})
	g.hud.SetBrush(g.brush.current(), g.radius)
	return nil
}

func (g *Game) step(elapsed float64) {
	start := time.Now()
	g.world.Tick(elapsed)
	g.tickTime = time.Since(start)
}

// paint draws a line from the previous cursor cell to the current one while a
// mouse button is held: left paints the selected type, right erases.
func (g *Game) paint() {
	var t particle.Type
	switch {
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft):
		t = g.brush.current()
	case ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight):
		t = particle.Background
	default:
		g.stroking = false
		return
	}
	mx, my := ebiten.CursorPosition()
	size := g.world.Size()
	cur := image.Pt(mx/g.scale, my/g.scale)
	if cur.X < 0 || cur.Y < 0 || cur.X >= size.W || cur.Y >= size.H {
		g.stroking = false
		return
	}
	from := cur
	if g.stroking {
		from = g.last
	}
	brush.Line(g.world.Field(), from, cur, t, brush.Options{Radius: g.radius})
	g.last = cur
	g.stroking = true
}

func adjustRadius(r int, dy float64) int {
	if dy > 0 {
		r++
	} else {
		r--
	}
	if r < 0 {
		return 0
	}
	if r > maxRadius {
		return maxRadius
	}
	return r
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.BlitColors(screen, g.world.Colors(), g.scale)
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.world.Size().W*g.scale, g.scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	s := g.world.Size()
	return s.W*g.scale + g.hudWidth, s.H * g.scale
}
