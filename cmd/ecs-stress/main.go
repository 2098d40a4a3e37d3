package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/zap"

	"github.com/plus3/miniecs/ecs"
	"github.com/plus3/miniecs/internal/config"
	"github.com/plus3/miniecs/internal/logging"
)

// options holds the command line flags of one stress run
type options struct {
	duration       time.Duration
	entities       int
	churnEvery     int
	lockPolicy     string
	contention     bool
	profileMode    string
	gcPauseMetrics bool
	seed           uint64
}

func main() {
	var opts options
	flag.DurationVar(&opts.duration, "duration", 10*time.Second, "The total duration the test should run for.")
	flag.IntVar(&opts.entities, "entities", 10000, "The initial number of entities to create.")
	flag.IntVar(&opts.churnEvery, "churn", 50, "Kill and respawn every Nth entity carrying C0 each pass, 0 disables churn.")
	flag.StringVar(&opts.lockPolicy, "lock-policy", "wait", "World lock policy: skip or wait.")
	flag.BoolVar(&opts.contention, "contention", false, "Run a goroutine that keeps taking the world lock during the test.")
	flag.StringVar(&opts.profileMode, "profile", "", "Write a profile to the current directory: cpu, mem or block.")
	flag.BoolVar(&opts.gcPauseMetrics, "gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flag.Uint64Var(&opts.seed, "seed", 1, "Random seed for the initial population.")
	flag.Parse()

	logger, err := logging.New(config.LoggingConfig{Level: "info", Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "build logger: %v\n", err)
		os.Exit(1)
	}

	err = run(opts, logger, os.Stdout)
	if err != nil {
		logger.Error("stress test failed", zap.Error(err))
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run performs one stress run and writes the report to out.
// Deferred cleanup, including the profile flush, runs before it returns.
func run(opts options, logger *zap.Logger, out io.Writer) error {
	policy, err := ecs.ParseLockPolicy(opts.lockPolicy)
	if err != nil {
		return err
	}

	stop, err := startProfile(opts.profileMode)
	if err != nil {
		return err
	}
	defer stop()

	logger.Info("starting ECS stress test")

	// 1. Setup Registry, World, and Scheduler
	registry := ecs.NewComponentRegistry()
	registerComponents(registry)
	world := ecs.NewWorld(registry)
	scheduler := ecs.NewScheduler(registry, ecs.WithLockPolicy(policy), ecs.WithLogger(logger.Named("scheduler")))
	systemCount, err := registerSystems(scheduler, opts.churnEvery)
	if err != nil {
		return fmt.Errorf("register systems: %w", err)
	}

	// 2. Populate the world with initial entities
	logger.Info("populating world", zap.Int("entities", opts.entities))
	rng := rand.New(rand.NewPCG(opts.seed, opts.seed))
	for i := 0; i < opts.entities; i++ {
		// Spawn an entity with 1 to 5 random components
		if err := spawnRandomEntity(world, rng, rng.IntN(5)+1); err != nil {
			return fmt.Errorf("populate: %w", err)
		}
	}
	logger.Info("population complete")

	// 3. Run the simulation loop
	report := &Report{
		Duration:       opts.duration,
		Entities:       opts.entities,
		Components:     componentCount,
		Systems:        systemCount,
		LockPolicy:     policy.String(),
		GCPauseMetrics: opts.gcPauseMetrics,
		UpdateTime: Stats{
			Samples: make([]time.Duration, 0),
		},
	}

	runtime.ReadMemStats(&report.MemStatsStart)

	logger.Info("running simulation", zap.Duration("duration", opts.duration))
	ctx, cancel := context.WithTimeout(context.Background(), opts.duration)
	defer cancel()

	if opts.contention {
		go contend(ctx, world)
	}

	startTime := time.Now()
	var totalUpdates int64

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			updateStart := time.Now()
			scheduler.Schedule(world)
			updateDuration := time.Since(updateStart)

			report.UpdateTime.Samples = append(report.UpdateTime.Samples, updateDuration)
			totalUpdates++
		}
	}

	report.TotalTime = time.Since(startTime)
	report.TotalUpdates = totalUpdates
	report.UpdateTime.Finalize()
	report.Scheduler = scheduler.GetStats()
	report.Storage = world.CollectStats()
	runtime.ReadMemStats(&report.MemStatsEnd)

	if err := world.Storage().Validate(); err != nil {
		logger.Error("storage invariant violated", zap.Error(err))
	}

	logger.Info("simulation finished")

	// 4. Generate Report
	fmt.Fprintln(out, "\n\n--- Stress Test Report ---")
	if err := report.Generate(out); err != nil {
		return fmt.Errorf("generate report: %w", err)
	}
	fmt.Fprintln(out, "--- End of Report ---")
	return nil
}

// startProfile starts pkg/profile for the given mode and returns its stop function.
// An empty mode profiles nothing.
func startProfile(mode string) (func(), error) {
	var option func(*profile.Profile)
	switch mode {
	case "":
		return func() {}, nil
	case "cpu":
		option = profile.CPUProfile
	case "mem":
		option = profile.MemProfileAllocs
	case "block":
		option = profile.BlockProfile
	default:
		return nil, fmt.Errorf("unknown profile mode %q", mode)
	}
	return profile.Start(option, profile.ProfilePath("."), profile.NoShutdownHook).Stop, nil
}

// contend holds the world lock for short bursts until ctx is done,
// so SkipIfLocked runs show up as skips in the report
func contend(ctx context.Context, world *ecs.World) {
	ticker := time.NewTicker(time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			world.Exec(func(s *ecs.Storage) {
				_ = s.Len()
				time.Sleep(200 * time.Microsecond)
			})
		}
	}
}
