package ecs

import (
	"fmt"
	"reflect"
)

// Fetch resolves a fixed signature of component views against single entities.
//
// The type T must be a struct whose fields each name one component:
//
//	type moveView struct {
//		Position *Position // write view: points into storage
//		Velocity Velocity  // read view: a copy of the stored value
//		Sprite   *Sprite `ecs:"optional"`
//	}
//
// Embedded fields are supported. Only pointer fields may be tagged optional;
// they are left nil when the entity lacks the component. Each component may
// appear once, so a write view is the only reference the fetch hands out.
//
// Read views are shallow copies. A component holding a slice, map or pointer
// shares that data with storage, and writes through it are visible to every
// later fetch. Such components should be treated as read-only or replaced
// with AddComponent.
type Fetch[T any] struct {
	registry  *ComponentRegistry
	signature Signature
	fields    []int
}

// NewFetch builds the signature of T against the registry
func NewFetch[T any](registry *ComponentRegistry) (*Fetch[T], error) {
	structType := reflect.TypeFor[T]()
	if structType.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s is not a struct", ErrInvalidView, structType)
	}

	signature := make(Signature, 0, structType.NumField())
	fields := make([]int, 0, structType.NumField())
	seen := make(map[ComponentID]bool, structType.NumField())

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			return nil, fmt.Errorf("%w: field %s.%s is not exported", ErrInvalidView, structType, field.Name)
		}

		view := View{}
		componentType := field.Type
		if componentType.Kind() == reflect.Pointer {
			view.Mutable = true
			componentType = componentType.Elem()
		}

		// Embedded fields are always required
		if tag := field.Tag.Get("ecs"); tag != "" && !field.Anonymous {
			if tag != "optional" {
				return nil, fmt.Errorf("%w: invalid ecs tag value %q on %s (only \"optional\" is supported)", ErrInvalidView, tag, field.Name)
			}
			if !view.Mutable {
				return nil, fmt.Errorf("%w: optional field %s must be a pointer", ErrInvalidView, field.Name)
			}
			view.Optional = true
		}

		ct, ok := registry.LookupType(componentType)
		if !ok {
			return nil, fmt.Errorf("field %s: %w: %s", field.Name, ErrComponentNotRegistered, componentType)
		}
		if seen[ct.id] {
			return nil, fmt.Errorf("%w: component %s requested twice", ErrInvalidView, ct.Name())
		}
		seen[ct.id] = true
		view.Type = ct

		signature = append(signature, view)
		fields = append(fields, i)
	}

	if len(signature) == 0 {
		return nil, fmt.Errorf("%w: %s has no component fields", ErrInvalidView, structType)
	}

	return &Fetch[T]{
		registry:  registry,
		signature: signature,
		fields:    fields,
	}, nil
}

// Signature returns the requested views in declared order
func (f *Fetch[T]) Signature() Signature {
	return f.signature
}

// IDs returns the requested component ids in declared order
func (f *Fetch[T]) IDs() []ComponentID {
	return f.signature.IDs()
}

// Fetch resolves the signature for one entity.
// It returns false if the entity is missing any required component.
func (f *Fetch[T]) Fetch(storage *Storage, e Entity) (T, bool) {
	var result T
	if !f.Fill(storage, e, &result) {
		var zero T
		return zero, false
	}
	return result, true
}

// Fill populates ptr for the given entity.
// On false the contents of ptr are unspecified.
func (f *Fetch[T]) Fill(storage *Storage, e Entity, ptr *T) bool {
	slots, ids, err := storage.row(e)
	if err != nil {
		return false
	}

	structValue := reflect.ValueOf(ptr).Elem()
	for i, view := range f.signature {
		field := structValue.Field(f.fields[i])

		box, ok := resolve(slots, ids, view)
		if !ok {
			if !view.Optional {
				return false
			}
			field.SetZero()
			continue
		}

		if view.Mutable {
			field.Set(reflect.ValueOf(box))
		} else {
			field.Set(reflect.ValueOf(box).Elem())
		}
	}
	return true
}

// FetchViews resolves views for one entity into out, which must have room for every view.
// Mutable views yield *T, read views a copy of T, and missing optional views nil.
func FetchViews(storage *Storage, e Entity, views []View, out []any) bool {
	if len(out) < len(views) {
		return false
	}

	slots, ids, err := storage.row(e)
	if err != nil {
		return false
	}

	for i, view := range views {
		box, ok := resolve(slots, ids, view)
		if !ok {
			if !view.Optional {
				return false
			}
			out[i] = nil
			continue
		}

		if view.Mutable {
			out[i] = box
		} else {
			out[i] = view.Type.ops.load(box)
		}
	}
	return true
}

// resolve looks up one view in an entity's tables. The stored value's concrete
// type is checked against the registered type before it is handed out.
func resolve(slots *slotMap, ids *componentIndex, view View) (any, bool) {
	key, ok := ids.Get(view.ID())
	if !ok {
		return nil, false
	}

	box, ok := slots.get(key)
	if !ok {
		return nil, false
	}

	if view.Type.ops == nil || !view.Type.ops.check(box) {
		return nil, false
	}
	return box, true
}
