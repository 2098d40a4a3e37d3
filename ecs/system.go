package ecs

// DefaultPriority is the priority given to systems that do not ask for one
const DefaultPriority = 1

// SystemID identifies a system registered with a Scheduler
type SystemID uint64

// System represents a behavior that operates on entities with specific components.
// Systems with a lower Priority run earlier within one scheduling pass.
type System interface {
	Run(storage *Storage, frame *UpdateFrame)
	Priority() int
	Signature() Signature
	Name() string
}

// SystemOption configures a system built by NewSystem or NewEntitySystem
type SystemOption func(*systemConfig)

type systemConfig struct {
	priority int
	name     string
}

// WithPriority sets the system priority. Lower values run earlier.
func WithPriority(priority int) SystemOption {
	return func(c *systemConfig) {
		c.priority = priority
	}
}

// WithName sets the name reported in stats and logs
func WithName(name string) SystemOption {
	return func(c *systemConfig) {
		c.name = name
	}
}

// SystemObject binds a callable to the views described by T.
// Each run it visits every live entity and invokes the callable for those
// that carry all required components; the rest are skipped.
type SystemObject[T any] struct {
	fetch    *Fetch[T]
	fn       func(*UpdateFrame, Entity, T)
	priority int
	name     string
}

// NewSystem wraps fn into a system requesting the views described by T
func NewSystem[T any](registry *ComponentRegistry, fn func(T), opts ...SystemOption) (*SystemObject[T], error) {
	return newSystemObject(registry, func(_ *UpdateFrame, _ Entity, item T) {
		fn(item)
	}, opts)
}

// NewEntitySystem is like NewSystem, but fn also receives the frame and the matched entity
func NewEntitySystem[T any](registry *ComponentRegistry, fn func(*UpdateFrame, Entity, T), opts ...SystemOption) (*SystemObject[T], error) {
	return newSystemObject(registry, fn, opts)
}

func newSystemObject[T any](registry *ComponentRegistry, fn func(*UpdateFrame, Entity, T), opts []SystemOption) (*SystemObject[T], error) {
	fetch, err := NewFetch[T](registry)
	if err != nil {
		return nil, err
	}

	cfg := systemConfig{priority: DefaultPriority}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.name == "" {
		cfg.name = "system" + fetch.Signature().String()
	}

	return &SystemObject[T]{
		fetch:    fetch,
		fn:       fn,
		priority: cfg.priority,
		name:     cfg.name,
	}, nil
}

// Run invokes the callable once for every matching entity of a snapshot taken at the start
func (s *SystemObject[T]) Run(storage *Storage, frame *UpdateFrame) {
	for _, e := range storage.Entities() {
		var item T
		if !s.fetch.Fill(storage, e, &item) {
			continue
		}
		s.fn(frame, e, item)
	}
}

// Priority returns the system priority
func (s *SystemObject[T]) Priority() int {
	return s.priority
}

// SetPriority changes the priority. Once the system is pushed, use Scheduler.SetPriority
// so the execution order follows.
func (s *SystemObject[T]) SetPriority(priority int) {
	s.priority = priority
}

// Signature returns the requested views
func (s *SystemObject[T]) Signature() Signature {
	return s.fetch.Signature()
}

// IDs returns the requested component ids in declared order
func (s *SystemObject[T]) IDs() []ComponentID {
	return s.fetch.IDs()
}

// Name returns the system name
func (s *SystemObject[T]) Name() string {
	return s.name
}
