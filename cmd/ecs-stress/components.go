package main

import (
	"math/rand/v2"

	"github.com/plus3/miniecs/ecs"
)

type C0 struct{ V float64 }
type C1 struct{ V float64 }
type C2 struct{ V float64 }
type C3 struct{ V float64 }
type C4 struct{ V float64 }
type C5 struct{ V float64 }
type C6 struct{ V float64 }
type C7 struct{ V float64 }

const componentCount = 8

func registerComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[C0](registry)
	ecs.RegisterComponent[C1](registry)
	ecs.RegisterComponent[C2](registry)
	ecs.RegisterComponent[C3](registry)
	ecs.RegisterComponent[C4](registry)
	ecs.RegisterComponent[C5](registry)
	ecs.RegisterComponent[C6](registry)
	ecs.RegisterComponent[C7](registry)
}

func newComponent(kind int, v float64) any {
	switch kind {
	case 0:
		return C0{V: v}
	case 1:
		return C1{V: v}
	case 2:
		return C2{V: v}
	case 3:
		return C3{V: v}
	case 4:
		return C4{V: v}
	case 5:
		return C5{V: v}
	case 6:
		return C6{V: v}
	default:
		return C7{V: v}
	}
}

// spawnRandomEntity spawns an entity carrying numComponents distinct random components
func spawnRandomEntity(world *ecs.World, rng *rand.Rand, numComponents int) error {
	kinds := rng.Perm(componentCount)[:numComponents]
	components := make([]any, len(kinds))
	for i, kind := range kinds {
		components[i] = newComponent(kind, rng.Float64())
	}
	_, err := world.SpawnWith(components...)
	return err
}
