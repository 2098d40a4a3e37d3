package ecs_test

import (
	"testing"

	"github.com/plus3/miniecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// funcSystem is a hand-written System running once per pass regardless of entities
type funcSystem struct {
	name     string
	priority int
	run      func(storage *ecs.Storage, frame *ecs.UpdateFrame)
}

func (s *funcSystem) Run(storage *ecs.Storage, frame *ecs.UpdateFrame) { s.run(storage, frame) }
func (s *funcSystem) Priority() int                                      { return s.priority }
func (s *funcSystem) Signature() ecs.Signature                           { return nil }
func (s *funcSystem) Name() string                                       { return s.name }

func onceSystem(run func(frame *ecs.UpdateFrame)) *funcSystem {
	return &funcSystem{
		name:     "once",
		priority: ecs.DefaultPriority,
		run: func(_ *ecs.Storage, frame *ecs.UpdateFrame) {
			run(frame)
		},
	}
}

func TestCommands(t *testing.T) {
	registry := newTestRegistry()

	t.Run("spawn entities", func(t *testing.T) {
		world := ecs.NewWorld(registry)
		scheduler := ecs.NewScheduler(registry)

		executed := false
		scheduler.Push(onceSystem(func(frame *ecs.UpdateFrame) {
			executed = true
			frame.Commands.Spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
			frame.Commands.Spawn(&Position{X: 3, Y: 4})
		}))

		assert.Equal(t, 0, world.Len())
		scheduler.Schedule(world)

		assert.True(t, executed)
		assert.Equal(t, 2, world.Len())
		assert.NoError(t, world.Storage().Validate())
	})

	t.Run("spawn then", func(t *testing.T) {
		world := ecs.NewWorld(registry)
		scheduler := ecs.NewScheduler(registry)

		var spawned ecs.Entity
		scheduler.Push(onceSystem(func(frame *ecs.UpdateFrame) {
			frame.Commands.SpawnThen(func(e ecs.Entity) { spawned = e }, Name{Value: "child"})
		}))
		scheduler.Schedule(world)

		require.True(t, world.Alive(spawned))
		var name *Name
		world.Exec(func(s *ecs.Storage) {
			name, _ = ecs.Get[Name](s, spawned)
		})
		require.NotNil(t, name)
		assert.Equal(t, "child", name.Value)
	})

	t.Run("kill entities", func(t *testing.T) {
		world := ecs.NewWorld(registry)
		e1, err := world.SpawnWith(Position{X: 1, Y: 2})
		require.NoError(t, err)
		e2, err := world.SpawnWith(Position{X: 3, Y: 4})
		require.NoError(t, err)

		scheduler := ecs.NewScheduler(registry)
		scheduler.Push(onceSystem(func(frame *ecs.UpdateFrame) {
			frame.Commands.Kill(e1)
			frame.Commands.Kill(e1)
		}))
		scheduler.Schedule(world)

		assert.False(t, world.Alive(e1))
		assert.True(t, world.Alive(e2))
	})

	t.Run("add and take components", func(t *testing.T) {
		world := ecs.NewWorld(registry)
		e, err := world.SpawnWith(Position{X: 1, Y: 2}, Health{Current: 5, Max: 5})
		require.NoError(t, err)

		scheduler := ecs.NewScheduler(registry)
		scheduler.Push(onceSystem(func(frame *ecs.UpdateFrame) {
			frame.Commands.AddComponent(e, Velocity{DX: 5, DY: 10})
			frame.Commands.TakeComponent(e, componentID[Health](registry))
		}))
		scheduler.Schedule(world)

		vel, ok := ecs.Take[Velocity](world, e)
		require.True(t, ok)
		assert.Equal(t, Velocity{DX: 5, DY: 10}, vel)

		_, ok = ecs.Take[Health](world, e)
		assert.False(t, ok)
	})

	t.Run("operations on killed entities are dropped", func(t *testing.T) {
		world := ecs.NewWorld(registry)
		e, err := world.SpawnWith(Position{})
		require.NoError(t, err)

		scheduler := ecs.NewScheduler(registry)
		scheduler.Push(onceSystem(func(frame *ecs.UpdateFrame) {
			frame.Commands.AddComponent(e, Velocity{DX: 1, DY: 1})
			frame.Commands.Kill(e)
			frame.Commands.Spawn(Health{Current: 100, Max: 100})
		}))
		scheduler.Schedule(world)

		assert.False(t, world.Alive(e))
		assert.Equal(t, 1, world.Len())
		assert.NoError(t, world.Storage().Validate())
	})

	t.Run("changes are visible to later systems in the same pass", func(t *testing.T) {
		world := ecs.NewWorld(registry)
		e, err := world.SpawnWith(Position{}, Velocity{DX: 1})
		require.NoError(t, err)

		scheduler := ecs.NewScheduler(registry)
		removeVelocity := onceSystem(func(frame *ecs.UpdateFrame) {
			frame.Commands.TakeComponent(e, componentID[Velocity](registry))
		})
		removeVelocity.priority = 0
		scheduler.Push(removeVelocity)

		moved := 0
		_, err = ecs.Push(scheduler, func(item struct {
			*Position
			*Velocity
		}) {
			moved++
		}, ecs.WithPriority(1))
		require.NoError(t, err)

		scheduler.Schedule(world)
		assert.Equal(t, 0, moved)
	})

	t.Run("deferred functions run last", func(t *testing.T) {
		commands := ecs.NewCommands()
		storage := ecs.NewStorage(registry)

		var order []string
		commands.Defer(func() { order = append(order, "defer") })
		commands.SpawnThen(func(ecs.Entity) { order = append(order, "spawn") })
		assert.Equal(t, 2, commands.Len())

		require.NoError(t, commands.Flush(storage))
		assert.Equal(t, []string{"spawn", "defer"}, order)
		assert.Equal(t, 0, commands.Len())
	})

	t.Run("flush reports every failure", func(t *testing.T) {
		commands := ecs.NewCommands()
		storage := ecs.NewStorage(registry)

		commands.Kill(ecs.NewEntity(40, 1))
		commands.AddComponent(ecs.NewEntity(41, 1), Position{})
		commands.Spawn(struct{ Unknown int }{})

		err := commands.Flush(storage)
		assert.ErrorIs(t, err, ecs.ErrEntityNotFound)
		assert.ErrorIs(t, err, ecs.ErrComponentNotRegistered)
		assert.Equal(t, 0, storage.Len())
		assert.NoError(t, storage.Validate())
	})
}
