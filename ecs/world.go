// Package ecs is an in-process entity-component-system runtime.
//
// A World stores components on entities behind a single lock. Systems declare
// the component views they need through a struct type and are run by a
// Scheduler once per pass, in priority order, against every entity that
// carries all of the required components.
package ecs

import (
	"sync"

	"github.com/google/uuid"
)

// World owns a Storage and the one mutex that serializes every access to it.
// A *World is the shared handle passed to Scheduler.Schedule; it is safe for
// concurrent use.
type World struct {
	id       uuid.UUID
	mu       sync.Mutex
	registry *ComponentRegistry
	storage  *Storage
}

// NewWorld creates an empty world resolving component types through registry
func NewWorld(registry *ComponentRegistry) *World {
	return &World{
		id:       uuid.New(),
		registry: registry,
		storage:  NewStorage(registry),
	}
}

// ID returns the unique id of the world, used to tell worlds apart in logs
func (w *World) ID() uuid.UUID {
	return w.id
}

// Registry returns the component registry of the world
func (w *World) Registry() *ComponentRegistry {
	return w.registry
}

// Spawn creates a new entity without components
func (w *World) Spawn() Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.storage.Spawn()
}

// SpawnWith creates a new entity and adds the given components.
// If any component is rejected, the entity is killed again and the error returned.
func (w *World) SpawnWith(components ...any) (Entity, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	return spawn(w.storage, components)
}

// Kill removes the entity and all of its components
func (w *World) Kill(e Entity) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.storage.Kill(e)
}

// AddComponent stores a copy of component on the entity, replacing one of the same type
func (w *World) AddComponent(e Entity, component any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.storage.AddComponent(e, component)
}

// TakeComponent removes a component from the entity and hands it to the caller as *T
func (w *World) TakeComponent(e Entity, id ComponentID) (any, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.storage.TakeComponent(e, id)
}

// Alive reports whether e refers to a live entity
func (w *World) Alive(e Entity) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.storage.Alive(e)
}

// Entities returns a snapshot of all live entities
func (w *World) Entities() []Entity {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.storage.Entities()
}

// Len returns the number of live entities
func (w *World) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.storage.Len()
}

// Exec runs fn with exclusive access to the storage
func (w *World) Exec(fn func(*Storage)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.storage)
}

// TryExec runs fn only if the lock is free right now.
// Returns false without calling fn if the lock is held elsewhere.
func (w *World) TryExec(fn func(*Storage)) bool {
	if !w.mu.TryLock() {
		return false
	}
	defer w.mu.Unlock()
	fn(w.storage)
	return true
}

// Lock acquires the world lock
func (w *World) Lock() {
	w.mu.Lock()
}

// TryLock attempts to acquire the world lock without blocking
// Returns true if lock acquired, false if already held
func (w *World) TryLock() bool {
	return w.mu.TryLock()
}

// Unlock releases the world lock
func (w *World) Unlock() {
	w.mu.Unlock()
}

// Storage returns the underlying storage. Callers must hold the lock while using it.
func (w *World) Storage() *Storage {
	return w.storage
}

// Take removes the entity's T component and returns its value
func Take[T any](w *World, e Entity) (T, bool) {
	var zero T

	ct, ok := ComponentTypeOf[T](w.registry)
	if !ok {
		return zero, false
	}

	box, ok := w.TakeComponent(e, ct.id)
	if !ok {
		return zero, false
	}

	ptr, ok := box.(*T)
	if !ok {
		return zero, false
	}
	return *ptr, true
}
