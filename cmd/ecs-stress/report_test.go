package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/miniecs/ecs"
)

func TestStatsFinalize(t *testing.T) {
	s := Stats{Samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)

	empty := Stats{}
	empty.Finalize()
	assert.Zero(t, empty.Avg)
}

func TestReportGenerate(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	registerComponents(registry)
	world := ecs.NewWorld(registry)
	scheduler := ecs.NewScheduler(registry)
	systems, err := registerSystems(scheduler, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, systems)

	for i := 0; i < 10; i++ {
		_, err := world.SpawnWith(C0{V: float64(i)}, C1{V: 1})
		require.NoError(t, err)
	}
	scheduler.Schedule(world)
	assert.Equal(t, 10, world.Len())
	require.NoError(t, world.Storage().Validate())

	report := &Report{
		Duration:   time.Second,
		Entities:   10,
		Components: componentCount,
		Systems:    systems,
		LockPolicy: scheduler.LockPolicy().String(),
		Scheduler:  scheduler.GetStats(),
		Storage:    world.CollectStats(),
	}

	var out bytes.Buffer
	require.NoError(t, report.Generate(&out))
	assert.Contains(t, out.String(), "**Lock Policy:** skip")
	assert.Contains(t, out.String(), "**churn** (priority 3): 1 runs")
	assert.Contains(t, out.String(), "main.C0: 10")
}
