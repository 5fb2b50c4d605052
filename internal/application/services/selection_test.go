package services

import (
	"testing"

	"github.com/centaurhub/marketplace-backend/internal/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectionSet_ToggleAndBound(t *testing.T) {
	sel := NewSelectionSet()

	assert.True(t, sel.Toggle("a"))
	assert.True(t, sel.Toggle("b"))
	assert.True(t, sel.Toggle("c"))
	assert.Equal(t, 3, sel.Size())

	// A 4th distinct id is a no-op, not an error.
	assert.False(t, sel.Toggle("d"))
	assert.Equal(t, 3, sel.Size())
	assert.False(t, sel.Contains("d"))

	// Toggling an existing member removes it and frees a slot.
	assert.False(t, sel.Toggle("b"))
	assert.Equal(t, 2, sel.Size())
	assert.True(t, sel.Toggle("d"))
	assert.Equal(t, []string{"a", "c", "d"}, sel.IDs())
}

func TestSelectionSet_ResolveAgainstFullCollection(t *testing.T) {
	listings := mixedListings()
	sel := NewSelectionSet()
	sel.Toggle("5")
	sel.Toggle("1")

	resolved := sel.Resolve(listings)
	require.Len(t, resolved, 2)
	assert.Equal(t, "5", resolved[0].ID)
	assert.Equal(t, "1", resolved[1].ID)

	// Unknown ids are skipped, not errors.
	sel.Toggle("ghost")
	assert.Len(t, sel.Resolve(listings), 2)
}

func TestSelectionSet_Clear(t *testing.T) {
	sel := NewSelectionSet()
	sel.Toggle("a")
	sel.Clear()
	assert.Zero(t, sel.Size())
	assert.Nil(t, sel.Resolve([]*entities.Listing{{ID: "a"}}))
}
