package ecs

import "fmt"

// Entity encodes the entity index (lower 32 bits) and its generation (upper 32 bits).
// Generations start at 1, so the zero Entity never refers to a live entity.
type Entity uint64

// NewEntity creates an Entity from an index and a generation
func NewEntity(index uint32, generation uint32) Entity {
	return Entity(uint64(generation)<<32 | uint64(index))
}

// Index extracts the entity index. Indices are recycled after an entity is killed.
func (e Entity) Index() uint32 {
	return uint32(e & 0xFFFFFFFF)
}

// Generation extracts the generation counter of the handle
func (e Entity) Generation() uint32 {
	return uint32(e >> 32)
}

func (e Entity) String() string {
	return fmt.Sprintf("%d.%d", e.Index(), e.Generation())
}

// entityPool allocates entity handles and recycles the indices of killed entities.
// A recycled index always comes back with a newer generation.
type entityPool struct {
	generations []uint32
	free        []uint32
}

func (p *entityPool) create() Entity {
	if len(p.free) > 0 {
		idx := p.free[len(p.free)-1]
		p.free = p.free[:len(p.free)-1]
		return NewEntity(idx, p.generations[idx])
	}

	idx := uint32(len(p.generations))
	p.generations = append(p.generations, 1)
	return NewEntity(idx, 1)
}

func (p *entityPool) retire(e Entity) {
	idx := e.Index()
	if int(idx) >= len(p.generations) || p.generations[idx] != e.Generation() {
		return
	}

	p.generations[idx]++
	if p.generations[idx] == 0 {
		p.generations[idx] = 1
	}
	p.free = append(p.free, idx)
}
