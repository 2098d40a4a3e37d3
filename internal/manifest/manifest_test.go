package manifest_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plus3/miniecs/internal/manifest"
)

const sample = `
entities:
  - name: beacon
    position: [1, 2, 3]
    tags: [static]
  - name: drone
    count: 4
    position: [0, 0, 0]
    velocity: [1, 0.5, 0]
    lifetime: 2.5
    steering: wobble
`

func TestParse(t *testing.T) {
	m, err := manifest.Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, m.Entities, 2)

	beacon := m.Entities[0]
	assert.Equal(t, "beacon", beacon.Name)
	assert.Equal(t, 1, beacon.Count)
	assert.Equal(t, manifest.Vec3{1, 2, 3}, beacon.Position)
	assert.Nil(t, beacon.Velocity)
	assert.Equal(t, []string{"static"}, beacon.Tags)

	drone := m.Entities[1]
	assert.Equal(t, 4, drone.Count)
	require.NotNil(t, drone.Velocity)
	assert.Equal(t, manifest.Vec3{1, 0.5, 0}, *drone.Velocity)
	assert.Equal(t, 2.5, drone.Lifetime)
	assert.Equal(t, "wobble", drone.Steering)

	assert.Equal(t, 5, m.Total())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing name", "entities:\n  - count: 2\n"},
		{"negative count", "entities:\n  - name: a\n    count: -1\n"},
		{"negative lifetime", "entities:\n  - name: a\n    lifetime: -3\n"},
		{"bad position", "entities:\n  - name: a\n    position: [1, 2, 3, 4]\n"},
		{"not yaml", "entities: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Parse([]byte(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	m, err := manifest.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, m.Total())

	_, err = manifest.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
