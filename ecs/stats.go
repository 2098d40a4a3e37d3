package ecs

// StorageStats summarizes the contents of a Storage
type StorageStats struct {
	EntityCount    int
	ComponentCount int
	// SlotCount is the number of occupied component slots; equals ComponentCount when no slot leaked
	SlotCount int
	// FreeSlots is the number of released slots kept for reuse
	FreeSlots          int
	ComponentBreakdown []ComponentStats
}

// ComponentStats counts the entities carrying one component type
type ComponentStats struct {
	ID          ComponentID
	Name        string
	EntityCount int
}

// CollectStats walks the storage and counts entities, components and slots
func (s *Storage) CollectStats() StorageStats {
	types := s.registry.Types()
	counts := make([]int, len(types)+1)

	stats := StorageStats{
		EntityCount: s.slots.Len(),
	}

	s.slots.ForEach(func(_ Entity, slots *slotMap) bool {
		stats.SlotCount += slots.len()
		stats.FreeSlots += slots.free()
		return true
	})

	s.index.ForEach(func(_ Entity, ids *componentIndex) bool {
		stats.ComponentCount += ids.Len()
		ids.ForEach(func(id ComponentID, _ slotKey) bool {
			if int(id) < len(counts) {
				counts[id]++
			}
			return true
		})
		return true
	})

	for _, ct := range types {
		if counts[ct.id] == 0 {
			continue
		}
		stats.ComponentBreakdown = append(stats.ComponentBreakdown, ComponentStats{
			ID:          ct.id,
			Name:        ct.Name(),
			EntityCount: counts[ct.id],
		})
	}

	return stats
}

// CollectStats locks the world and collects storage statistics
func (w *World) CollectStats() StorageStats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.storage.CollectStats()
}
