// Stress test for the collision core: moving colliders over a heightfield and a
// wall grid, narrow-phase on spatial-hash candidates, and octree vs linear raycasts.
package main

import (
	"flag"
	"log/slog"
	"os"

	"collide3d/internal/config"
	"collide3d/internal/debug"
)

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = use config)")
	ticks := flag.Int("ticks", 0, "Ticks to simulate (0 = use config)")
	verify := flag.Bool("verify", true, "Check spatial-hash candidates against all pairs on the first tick")
	drawDebug := flag.Bool("debug", false, "Record octree and terrain debug primitives to debug.csv")
	verbose := flag.Bool("v", false, "Enable debug logging")

	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *seed != 0 {
		cfg.Stress.Seed = *seed
	}
	if *ticks > 0 {
		cfg.Stress.Ticks = *ticks
	}

	out, err := debug.NewOutputManager(*outputDir)
	if err != nil {
		slog.Error("failed to create output", "error", err)
		os.Exit(1)
	}
	defer out.Close()

	if err := out.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
		os.Exit(1)
	}

	slog.Info("starting stress run",
		"colliders", cfg.Stress.Colliders,
		"ticks", cfg.Stress.Ticks,
		"rays", cfg.Stress.Rays,
		"seed", cfg.Stress.Seed,
	)

	sim := newSimulation(cfg)

	if *verify {
		if missing := sim.verifyBroadphase(); missing > 0 {
			slog.Warn("spatial hash missed intersecting pairs", "missing", missing)
		}
	}

	for i := 0; i < cfg.Stress.Ticks; i++ {
		stats := sim.step()
		if err := out.WriteTick(stats); err != nil {
			slog.Error("failed to write tick", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("ticks done", sim.summary()...)

	rays := sim.benchmarkRays()
	slog.Info("raycast benchmark",
		"rays", rays.Rays,
		"hits", rays.Hits,
		"mismatches", rays.Mismatches,
		"tree_mean_us", rays.TreeMeanUS,
		"linear_mean_us", rays.LinearMeanUS,
		"tree_nodes", rays.TreeNodes,
		"tree_depth", rays.TreeDepth,
	)
	if err := out.WriteRays(rays); err != nil {
		slog.Error("failed to write rays", "error", err)
		os.Exit(1)
	}

	if *drawDebug {
		rec := &debug.Recorder{}
		sim.draw(rec)
		if err := out.WriteDebug(rec); err != nil {
			slog.Error("failed to write debug primitives", "error", err)
			os.Exit(1)
		}
		slog.Info("debug primitives recorded", "boxes", rec.Count("box"), "points", rec.Count("point"), "lines", rec.Count("line"))
	}

	if rays.Mismatches > 0 {
		out.Close()
		os.Exit(2)
	}
}
