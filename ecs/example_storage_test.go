package ecs_test

import (
	"fmt"

	"github.com/plus3/miniecs/ecs"
)

// ExampleStorage demonstrates the basic entity lifecycle.
// Killed entities leave their index behind for reuse, but the old handle
// stays dead because the generation moves on.
func ExampleStorage() {
	registry := ecs.NewComponentRegistry()
	position := ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	storage := ecs.NewStorage(registry)

	player := storage.Spawn()
	storage.AddComponent(player, Position{X: 1, Y: 2})
	storage.AddComponent(player, &Velocity{DX: 1})

	ids, _ := storage.ComponentIDs(player)
	fmt.Println("components:", ids)

	storage.TakeComponent(player, position.ID())
	fmt.Println("has position:", storage.Has(player, position.ID()))

	storage.Kill(player)
	next := storage.Spawn()
	fmt.Println(player, "->", next, storage.Alive(player))

	// Output:
	// components: [1 2]
	// has position: false
	// 0.1 -> 0.2 false
}

// ExampleQuery demonstrates iterating every entity that carries a set of components.
func ExampleQuery() {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	storage := ecs.NewStorage(registry)

	for i, name := range []string{"a", "b", "c"} {
		e := storage.Spawn()
		storage.AddComponent(e, Position{X: float32(i)})
		storage.AddComponent(e, Name{Value: name})
		if i != 1 {
			storage.AddComponent(e, Velocity{DX: 1})
		}
	}

	query, _ := ecs.NewQuery[struct {
		Name     Name
		Velocity *Velocity `ecs:"optional"`
	}](registry)

	for e, item := range query.Iter(storage) {
		fmt.Println(e, item.Name.Value, item.Velocity != nil)
	}

	// Output:
	// 0.1 a true
	// 1.1 b false
	// 2.1 c true
}
