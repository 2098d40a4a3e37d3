package main

import (
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/plus3/miniecs/ecs"
	"github.com/plus3/miniecs/internal/manifest"
)

var steeringFuncs = []string{"damp", "orbit", "rise"}

// spawnManifest spawns every manifest entry and returns the number of entities created
func spawnManifest(world *ecs.World, m *manifest.Manifest) (int, error) {
	spawned := 0
	for _, entry := range m.Entities {
		components := []any{
			Transform{Position: mgl64.Vec3(entry.Position)},
			Label(entry.Name),
		}
		if entry.Velocity != nil {
			components = append(components, Motion{Velocity: mgl64.Vec3(*entry.Velocity)})
		}
		if entry.Lifetime > 0 {
			components = append(components, Lifetime{Remaining: entry.Lifetime})
		}
		if entry.Steering != "" {
			components = append(components, Steering{Func: entry.Steering})
		}

		for i := 0; i < entry.Count; i++ {
			values := components
			if len(entry.Tags) > 0 {
				// each entity owns its tags
				values = append(slices.Clip(components), Tags(slices.Clone(entry.Tags)))
			}
			if _, err := world.SpawnWith(values...); err != nil {
				return spawned, fmt.Errorf("spawn %q: %w", entry.Name, err)
			}
			spawned++
		}
	}
	return spawned, nil
}

// spawnRandom scatters n moving entities around the origin
func spawnRandom(world *ecs.World, n int, rng *rand.Rand) error {
	for i := 0; i < n; i++ {
		components := []any{
			Transform{Position: mgl64.Vec3{
				rng.Float64()*100 - 50,
				rng.Float64()*100 - 50,
				0,
			}},
			Motion{Velocity: mgl64.Vec3{
				rng.Float64()*2 - 1,
				rng.Float64()*2 - 1,
				0,
			}},
			Label(fmt.Sprintf("wanderer-%d", i)),
		}
		if rng.IntN(2) == 0 {
			components = append(components, Lifetime{Remaining: 1 + rng.Float64()*9})
		}
		if rng.IntN(4) == 0 {
			components = append(components, Steering{Func: steeringFuncs[rng.IntN(len(steeringFuncs))]})
		}

		if _, err := world.SpawnWith(components...); err != nil {
			return err
		}
	}
	return nil
}
