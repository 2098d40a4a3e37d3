package main

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/plus3/miniecs/ecs"
)

type Transform struct {
	Position mgl64.Vec3
}

type Motion struct {
	Velocity mgl64.Vec3
}

// Lifetime counts down in simulated seconds; the entity is killed at zero
type Lifetime struct {
	Remaining float64
}

// Steering names the Lua function that adjusts the entity's velocity every pass
type Steering struct {
	Func string
}

type Label string

type Tags []string

func registerComponents(registry *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Transform](registry)
	ecs.RegisterComponent[Motion](registry)
	ecs.RegisterComponent[Lifetime](registry)
	ecs.RegisterComponent[Steering](registry)
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Tags](registry)
}
