package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"sandpit/internal/particle"
	"sandpit/internal/render"
	"sandpit/internal/sims/sandbox"
)

var (
	runTicks    int
	runEvery    int
	runSnapshot bool
	runColumns  int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Simulate a scene for a number of ticks",
	Long: `Load the configured scene and advance it at the fixed step length,
logging particle statistics periodically.

Examples:
  sandctl run
  sandctl run --scene circuit --ticks 10 --snapshot
  sandctl run --scene ./my-scene.yaml --every 100 --log-level debug`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runTicks, "ticks", 600, "Ticks to simulate")
	runCmd.Flags().IntVar(&runEvery, "every", 60, "Log statistics every N ticks (0 = only at the end)")
	runCmd.Flags().BoolVar(&runSnapshot, "snapshot", false, "Print the final field as colored text")
	runCmd.Flags().IntVar(&runColumns, "columns", 100, "Maximum snapshot width in characters")
}

func runRun(cmd *cobra.Command, args []string) error {
	if runTicks < 0 {
		return fmt.Errorf("--ticks must not be negative")
	}
	logger, err := newLogger()
	if err != nil {
		return err
	}
	cfg, err := worldConfig()
	if err != nil {
		return err
	}
	world, err := sandbox.Open(cfg, logger)
	if err != nil {
		return err
	}

	size := world.Size()
	logger.Info("starting", "scene", cfg.Scene, "size", fmt.Sprintf("%dx%d", size.W, size.H), "seed", cfg.Seed, "ticks", runTicks)

	start := time.Now()
	for i := 1; i <= runTicks; i++ {
		stats := world.Tick(cfg.StepSeconds)
		if runEvery > 0 && i%runEvery == 0 {
			logger.Info("tick",
				"n", humanize.Comma(int64(i)),
				"particles", humanize.Comma(int64(stats.Particles)),
				"awake", humanize.Comma(int64(stats.Awake)),
				"rebuilds", world.Power().Rebuilds(),
			)
		}
	}
	elapsed := time.Since(start)

	perTick := time.Duration(0)
	if runTicks > 0 {
		perTick = elapsed / time.Duration(runTicks)
	}
	stats := world.Stats()
	logger.Info("finished",
		"elapsed", elapsed.Round(time.Millisecond),
		"per_tick", perTick,
		"particles", humanize.Comma(int64(stats.Particles)),
		"awake", humanize.Comma(int64(stats.Awake)),
		"bundles", len(world.Power().Bundles()),
	)
	counts := world.Counts()
	for _, t := range particle.All() {
		if n := counts[t]; n > 0 && !t.IsBackground() {
			logger.Debug("cells", "type", t, "count", humanize.Comma(int64(n)))
		}
	}

	if runSnapshot {
		fmt.Fprintln(cmd.OutOrStdout(), render.NewTerminal(runColumns).Render(size.W, size.H, world.Colors()))
	}
	return nil
}
