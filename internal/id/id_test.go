package id

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewSortableAndUnique(t *testing.T) {
	t.Parallel()

	ids := make([]string, 200)
	for i := range ids {
		ids[i] = New()
	}

	assert.True(t, sort.StringsAreSorted(ids), "ids must sort by creation order")

	seen := make(map[string]bool, len(ids))
	for _, v := range ids {
		assert.Len(t, v, 26)
		assert.False(t, seen[v], "duplicate id %s", v)
		seen[v] = true
	}
}
