package ecs

import (
	"cmp"
	"errors"
	"fmt"
	"slices"

	"github.com/kamstrup/intmap"
)

// componentIndex maps a component id to the slot holding it within one entity's slotMap
type componentIndex = intmap.Map[ComponentID, slotKey]

// Storage holds every live entity and its components.
//
// Two tables are kept in step: slots maps an entity to the slotMap owning its
// component values, index maps the same entity to component id -> slot key.
// Both always contain the same entities and, per entity, the same components.
//
// Storage does no locking of its own; World serializes access to it.
type Storage struct {
	registry *ComponentRegistry
	pool     entityPool
	slots    *intmap.Map[Entity, *slotMap]
	index    *intmap.Map[Entity, *componentIndex]
}

// NewStorage creates an empty storage resolving component types through registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry: registry,
		slots:    intmap.New[Entity, *slotMap](256),
		index:    intmap.New[Entity, *componentIndex](256),
	}
}

// Registry returns the component registry used by the storage
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Spawn creates a new entity without components
func (s *Storage) Spawn() Entity {
	e := s.pool.create()
	s.slots.Put(e, newSlotMap())
	s.index.Put(e, intmap.New[ComponentID, slotKey](4))
	return e
}

// Kill removes the entity and all of its components.
// Nothing is modified unless the entity is present in both tables.
func (s *Storage) Kill(e Entity) error {
	if _, ok := s.slots.Get(e); !ok {
		return fmt.Errorf("kill %v: %w", e, ErrEntityNotFound)
	}
	if _, ok := s.index.Get(e); !ok {
		return fmt.Errorf("kill %v: %w", e, ErrEntityNotFound)
	}

	s.slots.Del(e)
	s.index.Del(e)
	s.pool.retire(e)
	return nil
}

// Alive reports whether e refers to a live entity
func (s *Storage) Alive(e Entity) bool {
	_, ok := s.slots.Get(e)
	return ok
}

// Len returns the number of live entities
func (s *Storage) Len() int {
	return s.slots.Len()
}

// AddComponent stores a copy of component on the entity. T and *T are both accepted.
// A component of the same type already on the entity is replaced and its slot released.
func (s *Storage) AddComponent(e Entity, component any) error {
	slots, ids, err := s.row(e)
	if err != nil {
		return fmt.Errorf("add component: %w", err)
	}

	ct, err := s.registry.TypeOf(component)
	if err != nil {
		return fmt.Errorf("add component to %v: %w", e, err)
	}

	box, ok := ct.ops.box(component)
	if !ok {
		return fmt.Errorf("add component to %v: nil %s", e, ct.Name())
	}

	if old, ok := ids.Get(ct.id); ok {
		slots.remove(old)
	}
	ids.Put(ct.id, slots.insert(box))
	return nil
}

// TakeComponent removes the component with the given id from the entity and returns it as *T.
// It returns false when the entity or the component is absent.
func (s *Storage) TakeComponent(e Entity, id ComponentID) (any, bool) {
	slots, ids, err := s.row(e)
	if err != nil {
		return nil, false
	}

	key, ok := ids.Get(id)
	if !ok {
		return nil, false
	}

	ids.Del(id)
	return slots.remove(key)
}

// Has reports whether the entity carries a component with the given id
func (s *Storage) Has(e Entity, id ComponentID) bool {
	_, ids, err := s.row(e)
	if err != nil {
		return false
	}
	_, ok := ids.Get(id)
	return ok
}

// GetComponent returns the stored *T for the given component id
func (s *Storage) GetComponent(e Entity, id ComponentID) (any, bool) {
	slots, ids, err := s.row(e)
	if err != nil {
		return nil, false
	}

	key, ok := ids.Get(id)
	if !ok {
		return nil, false
	}
	return slots.get(key)
}

// ComponentIDs returns the ids of all components on the entity in ascending order
func (s *Storage) ComponentIDs(e Entity) ([]ComponentID, error) {
	_, ids, err := s.row(e)
	if err != nil {
		return nil, err
	}

	result := make([]ComponentID, 0, ids.Len())
	ids.ForEach(func(id ComponentID, _ slotKey) bool {
		result = append(result, id)
		return true
	})
	slices.Sort(result)
	return result, nil
}

// Entities returns a snapshot of all live entities ordered by index.
// Later mutations do not affect the returned slice.
func (s *Storage) Entities() []Entity {
	entities := make([]Entity, 0, s.slots.Len())
	s.slots.ForEach(func(e Entity, _ *slotMap) bool {
		entities = append(entities, e)
		return true
	})
	slices.SortFunc(entities, func(a, b Entity) int {
		return cmp.Compare(a.Index(), b.Index())
	})
	return entities
}

// row returns both table entries of an entity
func (s *Storage) row(e Entity) (*slotMap, *componentIndex, error) {
	slots, ok := s.slots.Get(e)
	if !ok {
		return nil, nil, fmt.Errorf("entity %v: %w", e, ErrEntityNotFound)
	}
	ids, ok := s.index.Get(e)
	if !ok {
		return nil, nil, fmt.Errorf("entity %v: %w", e, ErrEntityNotFound)
	}
	return slots, ids, nil
}

// Validate checks that both tables agree on the entity set and that every
// occupied slot is reachable from exactly one component id of the right type.
func (s *Storage) Validate() error {
	var errs []error

	if s.slots.Len() != s.index.Len() {
		errs = append(errs, fmt.Errorf("table size mismatch: %d slot maps, %d indexes", s.slots.Len(), s.index.Len()))
	}

	s.index.ForEach(func(e Entity, _ *componentIndex) bool {
		if _, ok := s.slots.Get(e); !ok {
			errs = append(errs, fmt.Errorf("entity %v indexed without slot map", e))
		}
		return true
	})

	s.slots.ForEach(func(e Entity, slots *slotMap) bool {
		ids, ok := s.index.Get(e)
		if !ok {
			errs = append(errs, fmt.Errorf("entity %v has slot map without index", e))
			return true
		}

		if slots.len() != ids.Len() {
			errs = append(errs, fmt.Errorf("entity %v: %d occupied slots, %d indexed components", e, slots.len(), ids.Len()))
		}

		ids.ForEach(func(id ComponentID, key slotKey) bool {
			box, ok := slots.get(key)
			if !ok {
				errs = append(errs, fmt.Errorf("entity %v: component %d points at empty slot", e, id))
				return true
			}
			ct, ok := s.registry.Lookup(id)
			if !ok || !ct.ops.check(box) {
				errs = append(errs, fmt.Errorf("entity %v: component %d holds %T", e, id, box))
			}
			return true
		})
		return true
	})

	return errors.Join(errs...)
}

// Get returns a pointer to the entity's T component
func Get[T any](s *Storage, e Entity) (*T, bool) {
	ct, ok := ComponentTypeOf[T](s.registry)
	if !ok {
		return nil, false
	}

	box, ok := s.GetComponent(e, ct.id)
	if !ok {
		return nil, false
	}

	ptr, ok := box.(*T)
	return ptr, ok
}
