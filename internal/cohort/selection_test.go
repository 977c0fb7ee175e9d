package cohort

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionDefaultsToFirstKey(t *testing.T) {
	var sel Selection
	sel.Reset([]string{"2024-03-11", "2024-03-04"})

	key, ok := sel.Key()
	require.True(t, ok)
	assert.Equal(t, "2024-03-11", key)
}

func TestSelectionNilOnEmptyGrouping(t *testing.T) {
	var sel Selection
	sel.Select("2024-03-11")
	sel.Reset(nil)

	_, ok := sel.Key()
	assert.False(t, ok)
}

func TestSelectionSelectIsLocal(t *testing.T) {
	var sel Selection
	sel.Reset([]string{"2024-03-11", "2024-03-04"})
	sel.Select("2024-03-04")

	key, ok := sel.Key()
	require.True(t, ok)
	assert.Equal(t, "2024-03-04", key)
}
