package ecs

import "errors"

var (
	// ErrEntityNotFound is returned when an entity handle does not refer to a live entity.
	ErrEntityNotFound = errors.New("ecs: entity not found")

	// ErrSystemNotFound is returned by Scheduler.Drop for ids that were never pushed or were already dropped.
	ErrSystemNotFound = errors.New("ecs: system not found")

	// ErrComponentNotRegistered is returned when a component type is unknown to the registry.
	ErrComponentNotRegistered = errors.New("ecs: component type not registered")

	// ErrComponentMismatch is returned when a component reports an id that disagrees with the registry.
	ErrComponentMismatch = errors.New("ecs: component id mismatch")

	// ErrInvalidView is returned when a fetch struct cannot be turned into a signature.
	ErrInvalidView = errors.New("ecs: invalid view")
)
