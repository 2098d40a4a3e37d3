package ecs

import "iter"

// Query iterates every entity matching a Fetch signature.
// Each iteration works on a snapshot of the live entities taken when it starts.
type Query[T any] struct {
	fetch *Fetch[T]
}

// NewQuery creates a Query over the views described by T
func NewQuery[T any](registry *ComponentRegistry) (*Query[T], error) {
	fetch, err := NewFetch[T](registry)
	if err != nil {
		return nil, err
	}
	return &Query[T]{fetch: fetch}, nil
}

// Fetch returns the underlying Fetch
func (q *Query[T]) Fetch() *Fetch[T] {
	return q.fetch
}

// Get resolves the views of a single entity
func (q *Query[T]) Get(storage *Storage, e Entity) (T, bool) {
	return q.fetch.Fetch(storage, e)
}

// Iter returns an iterator over matching entities and their resolved views
func (q *Query[T]) Iter(storage *Storage) iter.Seq2[Entity, T] {
	return func(yield func(Entity, T) bool) {
		for _, e := range storage.Entities() {
			var result T
			if !q.fetch.Fill(storage, e, &result) {
				continue
			}
			if !yield(e, result) {
				return
			}
		}
	}
}

// Values returns an iterator over the resolved views only
func (q *Query[T]) Values(storage *Storage) iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range q.Iter(storage) {
			if !yield(value) {
				return
			}
		}
	}
}

// Count returns the number of matching entities
func (q *Query[T]) Count(storage *Storage) int {
	count := 0
	for range q.Iter(storage) {
		count++
	}
	return count
}
