package ecs_test

import (
	"fmt"

	"github.com/plus3/miniecs/ecs"
)

// ExampleCommands demonstrates deferring structural changes from inside a system.
// Entities cannot be spawned or killed through the storage while a system
// iterates; the frame's command buffer collects those changes and the
// Scheduler applies them as soon as the system returns.
func ExampleCommands() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Health](registry)
	world := ecs.NewWorld(registry)

	world.SpawnWith(Position{X: 0, Y: 0}, Health{Current: 0, Max: 100})
	world.SpawnWith(Position{X: 10, Y: 10}, Health{Current: 50, Max: 100})
	world.SpawnWith(Position{X: 20, Y: 20}, Health{Current: 100, Max: 100})

	scheduler := ecs.NewScheduler(registry)
	ecs.PushEntity(scheduler, func(frame *ecs.UpdateFrame, e ecs.Entity, item struct{ Health Health }) {
		if item.Health.Current <= 0 {
			frame.Commands.Kill(e)
			frame.Commands.Defer(func() {
				fmt.Printf("Killed entity %v\n", e)
			})
		}
	})

	scheduler.Schedule(world)
	fmt.Printf("Remaining entities: %d\n", world.Len())

	// Output:
	// Killed entity 0.1
	// Remaining entities: 2
}
