package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator_ValidFormat(t *testing.T) {
	id := UUIDv7Generator{}.Generate()
	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.Len(t, id, 36)
}

func TestUUIDv7Generator_Sortable(t *testing.T) {
	g := UUIDv7Generator{}
	prev := g.Generate()
	for i := 0; i < 100; i++ {
		next := g.Generate()
		assert.NotEqual(t, prev, next)
		prev = next
	}
}

func TestSequentialGenerator(t *testing.T) {
	g := NewSequentialGenerator("scan")
	assert.Equal(t, "scan-1", g.Generate())
	assert.Equal(t, "scan-2", g.Generate())
}
