package ecs_test

import (
	"testing"

	"github.com/plus3/miniecs/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func spawnWith(t *testing.T, storage *ecs.Storage, components ...any) ecs.Entity {
	t.Helper()
	e := storage.Spawn()
	for _, c := range components {
		require.NoError(t, storage.AddComponent(e, c))
	}
	return e
}

func TestQuery(t *testing.T) {
	registry := newTestRegistry()
	storage := ecs.NewStorage(registry)

	first := spawnWith(t, storage, Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	second := spawnWith(t, storage, Position{X: 3, Y: 4}, Velocity{DX: 1.0, DY: 1.0})
	third := spawnWith(t, storage, Position{X: 5, Y: 6}, Velocity{DX: 1.5, DY: 1.5}, Health{Current: 100, Max: 100})
	spawnWith(t, storage, Position{X: 7, Y: 8})

	query, err := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](registry)
	require.NoError(t, err)

	t.Run("iter visits matching entities in index order", func(t *testing.T) {
		var visited []ecs.Entity
		for e := range query.Iter(storage) {
			visited = append(visited, e)
		}
		assert.Equal(t, []ecs.Entity{first, second, third}, visited)
	})

	t.Run("count", func(t *testing.T) {
		assert.Equal(t, 3, query.Count(storage))
	})

	t.Run("mutation through values", func(t *testing.T) {
		for item := range query.Values(storage) {
			item.Position.X += item.Velocity.DX
		}
		pos, _ := ecs.Get[Position](storage, first)
		assert.Equal(t, float32(1.5), pos.X)
	})

	t.Run("early break", func(t *testing.T) {
		count := 0
		for range query.Iter(storage) {
			count++
			if count == 2 {
				break
			}
		}
		assert.Equal(t, 2, count)
	})

	t.Run("get single entity", func(t *testing.T) {
		item, ok := query.Get(storage, second)
		require.True(t, ok)
		assert.Equal(t, float32(4), item.Position.Y)
	})

	t.Run("killed entities disappear", func(t *testing.T) {
		require.NoError(t, storage.Kill(second))
		assert.Equal(t, 2, query.Count(storage))
	})

	t.Run("kill during iteration", func(t *testing.T) {
		count := 0
		for e := range query.Iter(storage) {
			count++
			if e == first {
				require.NoError(t, storage.Kill(third))
			}
		}
		assert.Equal(t, 1, count)
	})

	assert.Len(t, query.Fetch().IDs(), 2)
}

func TestQueryEmpty(t *testing.T) {
	registry := newTestRegistry()
	storage := ecs.NewStorage(registry)

	query, err := ecs.NewQuery[struct{ Health *Health }](registry)
	require.NoError(t, err)
	assert.Equal(t, 0, query.Count(storage))

	_, err = ecs.NewQuery[struct{ Bad int }](registry)
	assert.Error(t, err)
}
