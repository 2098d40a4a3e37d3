// Package manifest loads spawn manifests: YAML documents listing the entities
// a world starts with.
package manifest

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Vec3 is a position or velocity written as a three element list
type Vec3 [3]float64

// Entry describes Count identical entities
type Entry struct {
	Name     string   `yaml:"name"`
	Count    int      `yaml:"count"`
	Position Vec3     `yaml:"position"`
	Velocity *Vec3    `yaml:"velocity"`
	Lifetime float64  `yaml:"lifetime"` // seconds, 0 = immortal
	Steering string   `yaml:"steering"` // lua function name
	Tags     []string `yaml:"tags"`
}

type Manifest struct {
	Entities []Entry `yaml:"entities"`
}

// Load reads and parses a manifest file
func Load(path string) (*Manifest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("manifest %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes a manifest and fills in defaults. A missing count means one entity.
func Parse(raw []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}

	for i := range m.Entities {
		e := &m.Entities[i]
		if e.Name == "" {
			return nil, fmt.Errorf("entity %d: missing name", i)
		}
		if e.Count < 0 {
			return nil, fmt.Errorf("entity %q: negative count %d", e.Name, e.Count)
		}
		if e.Count == 0 {
			e.Count = 1
		}
		if e.Lifetime < 0 {
			return nil, fmt.Errorf("entity %q: negative lifetime", e.Name)
		}
	}
	return &m, nil
}

// Total returns the number of entities the manifest spawns
func (m *Manifest) Total() int {
	total := 0
	for _, e := range m.Entities {
		total += e.Count
	}
	return total
}
