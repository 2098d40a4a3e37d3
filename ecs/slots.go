package ecs

// slotKey addresses one slot of a slotMap: index in the lower 32 bits, version in the upper 32 bits
type slotKey uint64

func newSlotKey(index uint32, version uint32) slotKey {
	return slotKey(uint64(version)<<32 | uint64(index))
}

func (k slotKey) index() uint32 {
	return uint32(k & 0xFFFFFFFF)
}

func (k slotKey) version() uint32 {
	return uint32(k >> 32)
}

// slotMap is the type-erased component store of a single entity.
// Freed slots are reused; the version bump makes keys of freed slots stale.
type slotMap struct {
	items     []any
	versions  []uint32
	filled    []bool
	freeSlots []uint32
	live      int
}

func newSlotMap() *slotMap {
	return &slotMap{
		items:    make([]any, 0, 4),
		versions: make([]uint32, 0, 4),
		filled:   make([]bool, 0, 4),
	}
}

// insert stores item and returns its key
func (m *slotMap) insert(item any) slotKey {
	m.live++

	if len(m.freeSlots) > 0 {
		index := m.freeSlots[len(m.freeSlots)-1]
		m.freeSlots = m.freeSlots[:len(m.freeSlots)-1]

		m.items[index] = item
		m.filled[index] = true
		return newSlotKey(index, m.versions[index])
	}

	index := uint32(len(m.items))
	m.items = append(m.items, item)
	m.versions = append(m.versions, 1)
	m.filled = append(m.filled, true)
	return newSlotKey(index, 1)
}

// get returns the item stored under key
func (m *slotMap) get(key slotKey) (any, bool) {
	index := key.index()
	if int(index) >= len(m.items) {
		return nil, false
	}
	if !m.filled[index] || m.versions[index] != key.version() {
		return nil, false
	}
	return m.items[index], true
}

// remove releases the slot and returns the item it held
func (m *slotMap) remove(key slotKey) (any, bool) {
	item, ok := m.get(key)
	if !ok {
		return nil, false
	}

	index := key.index()
	m.items[index] = nil
	m.filled[index] = false
	m.versions[index]++
	m.freeSlots = append(m.freeSlots, index)
	m.live--
	return item, true
}

// len returns the number of occupied slots
func (m *slotMap) len() int {
	return m.live
}

// free returns the number of released slots waiting for reuse
func (m *slotMap) free() int {
	return len(m.freeSlots)
}

// each calls fn for every occupied slot until fn returns false
func (m *slotMap) each(fn func(slotKey, any) bool) {
	for i, filled := range m.filled {
		if !filled {
			continue
		}
		if !fn(newSlotKey(uint32(i), m.versions[i]), m.items[i]) {
			return
		}
	}
}
