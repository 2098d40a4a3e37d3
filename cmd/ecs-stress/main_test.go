package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRun(t *testing.T) {
	opts := options{
		duration:   50 * time.Millisecond,
		entities:   200,
		churnEvery: 10,
		lockPolicy: "skip",
		contention: true,
		seed:       3,
	}

	var out bytes.Buffer
	require.NoError(t, run(opts, zap.NewNop(), &out))
	assert.Contains(t, out.String(), "--- Stress Test Report ---")
	assert.Contains(t, out.String(), "--- End of Report ---")

	t.Run("invalid lock policy", func(t *testing.T) {
		bad := opts
		bad.lockPolicy = "sometimes"
		var out bytes.Buffer
		assert.Error(t, run(bad, zap.NewNop(), &out))
		assert.Empty(t, out.String())
	})

	t.Run("unknown profile mode", func(t *testing.T) {
		bad := opts
		bad.profileMode = "gpu"
		var out bytes.Buffer
		assert.Error(t, run(bad, zap.NewNop(), &out))
		assert.Empty(t, out.String())
	})
}

func TestStartProfileDisabled(t *testing.T) {
	stop, err := startProfile("")
	require.NoError(t, err)
	stop()
}
