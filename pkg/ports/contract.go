package ports

import (
	"testing"

	"github.com/aretw0/facet/pkg/domain"
	"github.com/aretw0/facet/pkg/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunClassStoreContract runs a suite of tests to verify that a ClassStore
// implementation adheres to the interface contract. newStore must return an
// empty store on every call.
func RunClassStoreContract(t *testing.T, newStore func() ClassStore) {
	t.Helper()

	define := func(t *testing.T, name string) *object.Class {
		c, err := object.NewClass(name, nil)
		require.NoError(t, err)
		return c
	}

	t.Run("Save and Lookup", func(t *testing.T) {
		store := newStore()
		c := define(t, "widget")
		require.NoError(t, store.Save(c))

		got, err := store.Lookup("widget")
		require.NoError(t, err)
		assert.Same(t, c, got)
		assert.True(t, got.Sealed(), "saved classes are sealed")
	})

	t.Run("Lookup Unknown", func(t *testing.T) {
		store := newStore()
		_, err := store.Lookup("ghost")
		assert.ErrorIs(t, err, domain.ErrUnknownClass)
	})

	t.Run("Duplicate Name", func(t *testing.T) {
		store := newStore()
		first := define(t, "widget")
		require.NoError(t, store.Save(first))

		err := store.Save(define(t, "widget"))
		assert.ErrorIs(t, err, domain.ErrDuplicateClass)

		got, err := store.Lookup("widget")
		require.NoError(t, err)
		assert.Same(t, first, got, "failed save must leave the store unchanged")
	})

	t.Run("Names", func(t *testing.T) {
		store := newStore()
		require.NoError(t, store.Save(define(t, "b")))
		require.NoError(t, store.Save(define(t, "a")))
		assert.Equal(t, []string{"a", "b"}, store.Names())
	})
}
