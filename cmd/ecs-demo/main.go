package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/plus3/miniecs/ecs"
	"github.com/plus3/miniecs/internal/config"
	"github.com/plus3/miniecs/internal/logging"
	"github.com/plus3/miniecs/internal/manifest"
	"github.com/plus3/miniecs/internal/script"
)

func main() {
	configPath := flag.String("config", "", "Path to a TOML config file. Defaults are used when empty.")
	passes := flag.Int("passes", -1, "Number of scheduling passes to run, 0 runs until interrupted. Overrides the config.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *passes >= 0 {
		cfg.Scheduler.Passes = *passes
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logger)
	stop()
	if err != nil {
		logger.Error("demo failed", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	policy, err := ecs.ParseLockPolicy(cfg.Scheduler.LockPolicy)
	if err != nil {
		return err
	}

	registry := ecs.NewComponentRegistry()
	registerComponents(registry)
	world := ecs.NewWorld(registry)
	logger = logger.With(zap.Stringer("world", world.ID()))

	engine := script.NewEngine(logger.Named("lua"))
	defer engine.Close()
	if err := engine.LoadString("builtin.lua", builtinSteering); err != nil {
		return err
	}
	if cfg.Demo.Scripts != "" {
		if err := engine.LoadDir(cfg.Demo.Scripts); err != nil {
			return err
		}
	}

	if cfg.Demo.Manifest != "" {
		m, err := manifest.Load(cfg.Demo.Manifest)
		if err != nil {
			return err
		}
		spawned, err := spawnManifest(world, m)
		if err != nil {
			return err
		}
		logger.Info("manifest spawned", zap.String("file", cfg.Demo.Manifest), zap.Int("entities", spawned))
	}

	rng := rand.New(rand.NewPCG(cfg.Demo.Seed, cfg.Demo.Seed))
	if err := spawnRandom(world, cfg.Demo.Entities, rng); err != nil {
		return err
	}

	sim := newSimulation(cfg.Scheduler.TickRate.Seconds(), engine, logger.Named("sim"))
	scheduler := ecs.NewScheduler(registry,
		ecs.WithLockPolicy(policy),
		ecs.WithLogger(logger.Named("scheduler")),
	)
	if err := sim.register(scheduler); err != nil {
		return err
	}

	logger.Info("demo started",
		zap.Int("entities", world.Len()),
		zap.Int("systems", scheduler.SystemCount()),
		zap.Duration("tick_rate", cfg.Scheduler.TickRate),
		zap.Stringer("lock_policy", policy),
		zap.Int("passes", cfg.Scheduler.Passes),
	)

	ticker := time.NewTicker(cfg.Scheduler.TickRate)
	defer ticker.Stop()

	var pass int
Loop:
	for cfg.Scheduler.Passes == 0 || pass < cfg.Scheduler.Passes {
		select {
		case <-ctx.Done():
			break Loop
		case <-ticker.C:
			scheduler.Schedule(world)
			pass++
			if cfg.Demo.StatsEvery > 0 && pass%cfg.Demo.StatsEvery == 0 {
				logStats(logger, scheduler, world, sim)
			}
		}
	}

	logStats(logger, scheduler, world, sim)
	logger.Info("demo stopped", zap.Int("passes", pass))
	return nil
}

func logStats(logger *zap.Logger, scheduler *ecs.Scheduler, world *ecs.World, sim *simulation) {
	stats := scheduler.GetStats()
	storage := world.CollectStats()

	logger.Info("stats",
		zap.Uint64("passes", stats.Passes),
		zap.Int("entities", storage.EntityCount),
		zap.Int("components", storage.ComponentCount),
		zap.Int64("executions", stats.TotalExecutions),
		zap.Int64("skips", stats.TotalSkips),
		zap.Int("expired", sim.expired),
		zap.Int("script_failures", sim.scriptFailures),
	)
	for _, system := range stats.Systems {
		logger.Debug("system stats",
			zap.String("name", system.Name),
			zap.Int("priority", system.Priority),
			zap.Int64("runs", system.ExecutionCount),
			zap.Int64("skips", system.SkipCount),
			zap.Duration("avg", system.AvgDuration),
			zap.Duration("max", system.MaxDuration),
		)
	}
}
