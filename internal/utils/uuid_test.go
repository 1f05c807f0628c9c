package utils

import (
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()

	ids := make([]string, 0, 50)
	seen := make(map[string]struct{}, 50)
	for range 50 {
		id := g.Generate()
		parsed, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), parsed.Version())

		_, dup := seen[id]
		require.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	assert.True(t, sort.StringsAreSorted(ids), "v7 ids sort by creation")
}
