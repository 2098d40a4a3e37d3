package ecs

import (
	"errors"
	"fmt"
)

// Commands provides a buffer for deferred structural changes queued while a system runs.
// The Scheduler flushes it right after the system finishes, still holding the world lock,
// so deferred functions must not call World methods.
type Commands struct {
	spawns []spawnCommand
	kills  []Entity
	adds   []addComponentCommand
	takes  []takeComponentCommand
	defers []func()
}

func newCommands() *Commands {
	return &Commands{}
}

// NewCommands creates an empty command buffer
func NewCommands() *Commands {
	return newCommands()
}

type spawnCommand struct {
	components []any
	then       func(Entity)
}

type addComponentCommand struct {
	entity    Entity
	component any
}

type takeComponentCommand struct {
	entity Entity
	id     ComponentID
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.defers = append(c.defers, fn)
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components})
}

// SpawnThen queues a spawn and calls then with the new entity once it exists.
func (c *Commands) SpawnThen(then func(Entity), components ...any) {
	c.spawns = append(c.spawns, spawnCommand{components: components, then: then})
}

// Kill queues an entity kill operation.
func (c *Commands) Kill(entity Entity) {
	c.kills = append(c.kills, entity)
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity Entity, component any) {
	c.adds = append(c.adds, addComponentCommand{
		entity:    entity,
		component: component,
	})
}

// TakeComponent queues a component removal operation. The removed value is discarded.
func (c *Commands) TakeComponent(entity Entity, id ComponentID) {
	c.takes = append(c.takes, takeComponentCommand{
		entity: entity,
		id:     id,
	})
}

// Len returns the number of queued operations
func (c *Commands) Len() int {
	return len(c.spawns) + len(c.kills) + len(c.adds) + len(c.takes) + len(c.defers)
}

// spawn creates an entity with all components, or none at all
func spawn(storage *Storage, components []any) (Entity, error) {
	e := storage.Spawn()
	for _, component := range components {
		if err := storage.AddComponent(e, component); err != nil {
			_ = storage.Kill(e)
			return 0, fmt.Errorf("spawn: %w", err)
		}
	}
	return e, nil
}

// Flush applies all queued operations to storage and resets the buffer.
// Kills run first; removals and additions aimed at killed entities are dropped.
// A spawn whose components are rejected leaves no entity behind and skips its callback.
// Every operation is attempted and the failures are returned joined.
func (c *Commands) Flush(storage *Storage) error {
	var errs []error
	killed := make(map[Entity]bool, len(c.kills))

	for _, e := range c.kills {
		if killed[e] {
			continue
		}
		if err := storage.Kill(e); err != nil {
			errs = append(errs, err)
		}
		killed[e] = true
	}

	for _, cmd := range c.takes {
		if !killed[cmd.entity] {
			storage.TakeComponent(cmd.entity, cmd.id)
		}
	}

	for _, cmd := range c.adds {
		if killed[cmd.entity] {
			continue
		}
		if err := storage.AddComponent(cmd.entity, cmd.component); err != nil {
			errs = append(errs, err)
		}
	}

	for _, cmd := range c.spawns {
		e, err := spawn(storage, cmd.components)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if cmd.then != nil {
			cmd.then(e)
		}
	}

	for _, fn := range c.defers {
		fn()
	}

	c.spawns = c.spawns[:0]
	c.kills = c.kills[:0]
	c.adds = c.adds[:0]
	c.takes = c.takes[:0]
	c.defers = c.defers[:0]

	return errors.Join(errs...)
}
