package ecs

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// ComponentID identifies a component type within one ComponentRegistry.
// Ids are assigned in registration order starting at 1.
type ComponentID uint32

// Component may be implemented by component values that know their own id.
// The reported id is checked against the registry when the value is added.
type Component interface {
	ComponentID() ComponentID
}

// componentOps holds the type-specific operations captured at registration time
type componentOps struct {
	box   func(value any) (any, bool)
	check func(box any) bool
	load  func(box any) any
}

// ComponentType describes a registered component type
type ComponentType struct {
	id  ComponentID
	typ reflect.Type
	ops *componentOps
}

// ID returns the numeric identifier assigned by the registry
func (c ComponentType) ID() ComponentID {
	return c.id
}

// Type returns the value type of the component
func (c ComponentType) Type() reflect.Type {
	return c.typ
}

// Name returns the fully qualified type name
func (c ComponentType) Name() string {
	if c.typ == nil {
		return "<nil>"
	}
	return c.typ.String()
}

// ComponentRegistry manages component type registration for an ECS instance.
// Each World owns the registry it was created with, so independent worlds
// can assign ids without interfering with each other.
type ComponentRegistry struct {
	mu     sync.RWMutex
	byType map[reflect.Type]ComponentType
	byID   []ComponentType
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		byType: make(map[reflect.Type]ComponentType),
	}
}

// RegisterComponent registers a component type with the given registry and returns its descriptor.
// Registering the same type twice returns the existing descriptor.
//
// Storage keeps its own copy of each added value, made by assignment. Slices,
// maps and pointers inside T are not cloned: a caller that keeps using them after
// AddComponent shares them with the stored component.
func RegisterComponent[T any](r *ComponentRegistry) ComponentType {
	t := reflect.TypeFor[T]()

	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		panic("component type " + t.String() + " cannot be a pointer, map, channel, function or interface")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byType[t]; ok {
		return existing
	}

	ct := ComponentType{
		id:  ComponentID(len(r.byID) + 1),
		typ: t,
		ops: &componentOps{
			box: func(value any) (any, bool) {
				switch v := value.(type) {
				case T:
					p := new(T)
					*p = v
					return p, true
				case *T:
					if v == nil {
						return nil, false
					}
					p := new(T)
					*p = *v
					return p, true
				}
				return nil, false
			},
			check: func(box any) bool {
				_, ok := box.(*T)
				return ok
			},
			load: func(box any) any {
				return *box.(*T)
			},
		},
	}

	r.byType[t] = ct
	r.byID = append(r.byID, ct)
	return ct
}

// ComponentTypeOf returns the descriptor for T if it has been registered
func ComponentTypeOf[T any](r *ComponentRegistry) (ComponentType, bool) {
	return r.LookupType(reflect.TypeFor[T]())
}

// Lookup returns the descriptor registered under id
func (r *ComponentRegistry) Lookup(id ComponentID) (ComponentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if id == 0 || int(id) > len(r.byID) {
		return ComponentType{}, false
	}
	return r.byID[id-1], true
}

// LookupType returns the descriptor registered for the value type t
func (r *ComponentRegistry) LookupType(t reflect.Type) (ComponentType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ct, ok := r.byType[t]
	return ct, ok
}

// TypeOf resolves the descriptor of a component value. Both T and *T are accepted.
func (r *ComponentRegistry) TypeOf(value any) (ComponentType, error) {
	if value == nil {
		return ComponentType{}, fmt.Errorf("%w: nil component", ErrComponentNotRegistered)
	}

	t := reflect.TypeOf(value)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	ct, ok := r.LookupType(t)
	if !ok {
		return ComponentType{}, fmt.Errorf("%w: %s", ErrComponentNotRegistered, t)
	}

	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return ct, nil
	}

	if c, ok := value.(Component); ok && c.ComponentID() != ct.id {
		return ComponentType{}, fmt.Errorf("%w: %s reports %d, registered as %d", ErrComponentMismatch, t, c.ComponentID(), ct.id)
	}

	return ct, nil
}

// Len returns the number of registered component types
func (r *ComponentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Types returns all registered descriptors in id order
func (r *ComponentRegistry) Types() []ComponentType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]ComponentType, len(r.byID))
	copy(types, r.byID)
	return types
}

// View is a component descriptor tagged with the access a system requests.
// A mutable view resolves to a pointer into storage, a read view to a copy.
type View struct {
	Type     ComponentType
	Mutable  bool
	Optional bool
}

// ID returns the component id the view resolves
func (v View) ID() ComponentID {
	return v.Type.id
}

// IsMutable reports whether the view requests exclusive (write) access
func (v View) IsMutable() bool {
	return v.Mutable
}

func (v View) String() string {
	name := v.Type.Name()
	if v.Mutable {
		name = "*" + name
	}
	if v.Optional {
		name += "?"
	}
	return name
}

// Read returns a read view of T
func Read[T any](r *ComponentRegistry) (View, error) {
	ct, ok := ComponentTypeOf[T](r)
	if !ok {
		return View{}, fmt.Errorf("%w: %s", ErrComponentNotRegistered, reflect.TypeFor[T]())
	}
	return View{Type: ct}, nil
}

// Write returns a mutable view of T
func Write[T any](r *ComponentRegistry) (View, error) {
	v, err := Read[T](r)
	if err != nil {
		return View{}, err
	}
	v.Mutable = true
	return v, nil
}

// Signature is the ordered list of views a system requests
type Signature []View

// IDs returns the component ids of the signature in declared order
func (s Signature) IDs() []ComponentID {
	ids := make([]ComponentID, len(s))
	for i, v := range s {
		ids[i] = v.ID()
	}
	return ids
}

func (s Signature) String() string {
	names := make([]string, len(s))
	for i, v := range s {
		names[i] = v.String()
	}
	return "(" + strings.Join(names, ", ") + ")"
}
