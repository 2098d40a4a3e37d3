package ecs_test

import "github.com/plus3/miniecs/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerController struct{}

type Counter struct {
	N int
}

// Custom primitive types for testing non-struct components
type Score int32
type Tag string

type Inventory struct {
	Items []string
}

// SelfIdentified reports its own component id
type SelfIdentified struct {
	ID    ecs.ComponentID
	Value int
}

func (s SelfIdentified) ComponentID() ecs.ComponentID {
	return s.ID
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[PlayerController](registry)
	ecs.RegisterComponent[Counter](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Tag](registry)
	ecs.RegisterComponent[Inventory](registry)
	ecs.RegisterComponent[SelfIdentified](registry)
	return registry
}

func componentID[T any](registry *ecs.ComponentRegistry) ecs.ComponentID {
	ct, ok := ecs.ComponentTypeOf[T](registry)
	if !ok {
		panic("component not registered in test registry")
	}
	return ct.ID()
}
