//go:build ebiten

package main

import (
	"errors"
	"flag"
	"os"

	"sandpit/internal/app"
	"sandpit/internal/core"
	"sandpit/internal/sims/sandbox"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	flag.Parse()
	cfg.Normalize()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "sandpit"})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Fatal("invalid log level", "level", cfg.LogLevel, "err", err)
	}
	logger.SetLevel(level)
	log.SetDefault(logger)

	factory, ok := core.Sims()[cfg.Sim]
	if !ok {
		logger.Fatal("unknown sim", "sim", cfg.Sim, "available", core.SimNames())
	}

	worldCfg, err := sandbox.LoadConfig(cfg.ConfigPath)
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}
	if cfg.Scene != "" {
		worldCfg.Scene = cfg.Scene
	}
	if cfg.Seed != 0 {
		worldCfg.Seed = cfg.Seed
	}

	world, ok := factory(worldCfg.Map()).(*sandbox.World)
	if !ok {
		logger.Fatal("sim does not drive a sandbox world", "sim", cfg.Sim)
	}
	cfg.Seed = worldCfg.Seed

	game := app.New(world, cfg)
	size := world.Size()

	title := "sandpit"
	if s := world.Scene(); s != nil && s.Name != "" {
		title += ": " + s.Name
	}
	ebiten.SetWindowTitle(title)
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(size.W*cfg.Scale+cfg.HUDWidth, size.H*cfg.Scale)

	logger.Info("starting", "scene", worldCfg.Scene, "w", size.W, "h", size.H, "seed", worldCfg.Seed)
	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("run", "err", err)
	}
}
