package command

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keyspace-io/jsondoc/config"
	"github.com/keyspace-io/jsondoc/jsonvalue"
)

type movingAllocator struct {
	moved int
}

func (a *movingAllocator) RelocateString(s *string) *string {
	a.moved++
	copied := *s
	return &copied
}

func (a *movingAllocator) RelocateBytes(b []byte) []byte { return nil }

func TestDefragCycle(t *testing.T) {
	cfg := config.Default()
	cfg.CompactStorage = true
	ks := NewMemoryKeyspace()
	e := NewEngine(ks, nil, cfg)

	exec(t, e, "JSON.SET", "a", "$", `{"k":"v"}`)
	exec(t, e, "JSON.SET", "b", "$", `["s1","s2"]`)

	before := exec(t, e, "JSON.GET", "a", "$")

	runner := NewDefragRunner(config.DefragConfig{KeysPerSecond: 0, Burst: 1})
	alloc := &movingAllocator{}
	require.NoError(t, runner.RunCycle(context.Background(), ks, alloc))

	stats := runner.Stats()
	assert.Equal(t, 1, stats.Cycles)
	assert.Equal(t, 2, stats.KeysVisited)
	assert.Equal(t, alloc.moved, stats.Moved)
	assert.Greater(t, stats.Moved, 0)

	// documents read back unchanged after compaction
	assert.Equal(t, before, exec(t, e, "JSON.GET", "a", "$"))
	assert.Equal(t, BulkReply(`[["s1","s2"]]`), exec(t, e, "JSON.GET", "b", "$"))
}

func TestDefragSkipsTreeBackedDocuments(t *testing.T) {
	ks := NewMemoryKeyspace()
	e := NewEngine(ks, nil, config.Default())
	exec(t, e, "JSON.SET", "a", "$", `{"k":"v"}`)

	runner := NewDefragRunner(config.DefragConfig{KeysPerSecond: 1000, Burst: 1})
	require.NoError(t, runner.RunCycle(context.Background(), ks, &movingAllocator{}))
	assert.Equal(t, 0, runner.Stats().Moved)
	assert.Equal(t, 1, runner.Stats().KeysVisited)
}

var _ jsonvalue.Allocator = &movingAllocator{}
