package ecs

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// LockPolicy controls how the Scheduler acquires the world lock for each system.
type LockPolicy int

const (
	// SkipIfLocked tries the lock once and skips the system for this pass if it is held elsewhere.
	SkipIfLocked LockPolicy = iota
	// WaitForLock blocks until the lock is available, so every system runs every pass.
	WaitForLock
)

func (p LockPolicy) String() string {
	switch p {
	case SkipIfLocked:
		return "skip"
	case WaitForLock:
		return "wait"
	default:
		return fmt.Sprintf("LockPolicy(%d)", int(p))
	}
}

// ParseLockPolicy parses "skip" or "wait"
func ParseLockPolicy(s string) (LockPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "skip":
		return SkipIfLocked, nil
	case "wait":
		return WaitForLock, nil
	default:
		return SkipIfLocked, fmt.Errorf("unknown lock policy %q", s)
	}
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	Passes          uint64
	TotalExecutions int64
	TotalSkips      int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	ID             SystemID
	Name           string
	Priority       int
	ExecutionCount int64
	SkipCount      int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type systemStatsInternal struct {
	executionCount int64
	skipCount      int64
	minDuration    time.Duration
	maxDuration    time.Duration
	totalDuration  time.Duration
	lastDuration   time.Duration
}

type systemEntry struct {
	id       SystemID
	priority int
	system   System
	stats    systemStatsInternal
}

// SchedulerOption configures a Scheduler
type SchedulerOption func(*Scheduler)

// WithLockPolicy sets how the world lock is acquired for each system. The default is SkipIfLocked.
func WithLockPolicy(policy LockPolicy) SchedulerOption {
	return func(s *Scheduler) {
		s.policy = policy
	}
}

// WithLogger sets the logger used for scheduling events
func WithLogger(logger *zap.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Scheduler owns a set of systems and runs them in ascending priority order.
// Systems of equal priority run in the order they were pushed.
type Scheduler struct {
	mu       sync.Mutex
	registry *ComponentRegistry
	systems  map[SystemID]*systemEntry
	order    []*systemEntry
	nextID   SystemID
	policy   LockPolicy
	logger   *zap.Logger
	passes   uint64
	lastPass time.Time
}

// NewScheduler creates a scheduler whose generic helpers resolve components through registry
func NewScheduler(registry *ComponentRegistry, opts ...SchedulerOption) *Scheduler {
	s := &Scheduler{
		registry: registry,
		systems:  make(map[SystemID]*systemEntry),
		order:    make([]*systemEntry, 0),
		policy:   SkipIfLocked,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the component registry used by Push
func (s *Scheduler) Registry() *ComponentRegistry {
	return s.registry
}

// LockPolicy returns the configured lock policy
func (s *Scheduler) LockPolicy() LockPolicy {
	return s.policy
}

// Push registers a system and returns its id. Ids are never reused.
func (s *Scheduler) Push(system System) SystemID {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	entry := &systemEntry{
		id:       s.nextID,
		priority: system.Priority(),
		system:   system,
		stats: systemStatsInternal{
			minDuration: time.Duration(1<<63 - 1),
		},
	}

	s.systems[entry.id] = entry
	s.order = append(s.order, entry)
	s.sortOrder()

	s.logger.Debug("system pushed",
		zap.Uint64("system", uint64(entry.id)),
		zap.String("name", system.Name()),
		zap.Int("priority", entry.priority),
		zap.Stringer("signature", system.Signature()),
	)
	return entry.id
}

// Push wraps fn into a system over the views described by T and registers it
func Push[T any](s *Scheduler, fn func(T), opts ...SystemOption) (SystemID, error) {
	system, err := NewSystem(s.registry, fn, opts...)
	if err != nil {
		return 0, err
	}
	return s.Push(system), nil
}

// PushEntity is like Push, but fn also receives the frame and the matched entity
func PushEntity[T any](s *Scheduler, fn func(*UpdateFrame, Entity, T), opts ...SystemOption) (SystemID, error) {
	system, err := NewEntitySystem(s.registry, fn, opts...)
	if err != nil {
		return 0, err
	}
	return s.Push(system), nil
}

// Drop removes a system and returns it. Unknown ids leave the scheduler unchanged.
func (s *Scheduler) Drop(id SystemID) (System, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.systems[id]
	if !ok {
		return nil, fmt.Errorf("drop system %d: %w", id, ErrSystemNotFound)
	}

	delete(s.systems, id)
	s.order = slices.DeleteFunc(s.order, func(e *systemEntry) bool {
		return e.id == id
	})

	s.logger.Debug("system dropped", zap.Uint64("system", uint64(id)), zap.String("name", entry.system.Name()))
	return entry.system, nil
}

// SetPriority changes the priority of a pushed system and moves it to its new place
// in the execution order. Among equal priorities it runs after the systems already there.
func (s *Scheduler) SetPriority(id SystemID, priority int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.systems[id]
	if !ok {
		return fmt.Errorf("set priority of system %d: %w", id, ErrSystemNotFound)
	}

	entry.priority = priority
	if p, ok := entry.system.(interface{ SetPriority(int) }); ok {
		p.SetPriority(priority)
	}

	s.order = slices.DeleteFunc(s.order, func(e *systemEntry) bool {
		return e.id == id
	})
	s.order = append(s.order, entry)
	s.sortOrder()
	return nil
}

// SystemCount returns the number of registered systems
func (s *Scheduler) SystemCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.systems)
}

// Systems returns the registered system ids in execution order
func (s *Scheduler) Systems() []SystemID {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]SystemID, len(s.order))
	for i, entry := range s.order {
		ids[i] = entry.id
	}
	return ids
}

// Schedule runs every registered system once against the world, in priority order.
// Each system runs to completion while holding the world lock, followed by a flush of
// the commands it queued. Under SkipIfLocked a system whose lock attempt fails is
// skipped for this pass and not retried.
func (s *Scheduler) Schedule(w *World) {
	s.mu.Lock()
	entries := slices.Clone(s.order)
	s.passes++
	pass := s.passes
	now := time.Now()
	var dt float64
	if !s.lastPass.IsZero() {
		dt = now.Sub(s.lastPass).Seconds()
	}
	s.lastPass = now
	s.mu.Unlock()

	frame := newUpdateFrame(pass, dt)
	for _, entry := range entries {
		frame.System = entry.id
		s.runSystem(w, entry, frame)
	}
}

func (s *Scheduler) runSystem(w *World, entry *systemEntry, frame *UpdateFrame) {
	if !s.acquire(w) {
		s.mu.Lock()
		entry.stats.skipCount++
		s.mu.Unlock()

		s.logger.Debug("system skipped, world locked",
			zap.Stringer("world", w.ID()),
			zap.Uint64("system", uint64(entry.id)),
			zap.Uint64("pass", frame.Pass),
		)
		return
	}
	defer w.Unlock()

	start := time.Now()
	entry.system.Run(w.storage, frame)
	if err := frame.Commands.Flush(w.storage); err != nil {
		s.logger.Warn("command flush failed",
			zap.Stringer("world", w.ID()),
			zap.Uint64("system", uint64(entry.id)),
			zap.Error(err),
		)
	}
	duration := time.Since(start)

	s.mu.Lock()
	stats := &entry.stats
	stats.executionCount++
	stats.lastDuration = duration
	stats.totalDuration += duration
	if duration < stats.minDuration {
		stats.minDuration = duration
	}
	if duration > stats.maxDuration {
		stats.maxDuration = duration
	}
	s.mu.Unlock()
}

func (s *Scheduler) sortOrder() {
	slices.SortStableFunc(s.order, func(a, b *systemEntry) int {
		return cmp.Compare(a.priority, b.priority)
	})
}

func (s *Scheduler) acquire(w *World) bool {
	if s.policy == WaitForLock {
		w.Lock()
		return true
	}
	return w.TryLock()
}

// Run calls Schedule at the given interval until the context is cancelled.
// Cancellation is observed between passes; a pass in progress always completes.
func (s *Scheduler) Run(ctx context.Context, w *World, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Schedule(w)
		}
	}
}

// GetStats returns statistics about system execution, in execution order.
func (s *Scheduler) GetStats() *SchedulerStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := &SchedulerStats{
		SystemCount: len(s.order),
		Passes:      s.passes,
		Systems:     make([]SystemStats, len(s.order)),
	}

	for i, entry := range s.order {
		internal := entry.stats
		avgDuration := time.Duration(0)
		minDuration := time.Duration(0)
		if internal.executionCount > 0 {
			avgDuration = internal.totalDuration / time.Duration(internal.executionCount)
			minDuration = internal.minDuration
		}

		stats.Systems[i] = SystemStats{
			ID:             entry.id,
			Name:           entry.system.Name(),
			Priority:       entry.priority,
			ExecutionCount: internal.executionCount,
			SkipCount:      internal.skipCount,
			MinDuration:    minDuration,
			MaxDuration:    internal.maxDuration,
			AvgDuration:    avgDuration,
			LastDuration:   internal.lastDuration,
			TotalDuration:  internal.totalDuration,
		}
		stats.TotalExecutions += internal.executionCount
		stats.TotalSkips += internal.skipCount
	}

	return stats
}
