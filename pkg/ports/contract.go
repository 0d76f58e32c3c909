package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/turing/pkg/domain"
	"github.com/aretw0/turing/pkg/machine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunMachineStoreContract runs a suite of tests to verify that a MachineStore
// implementation adheres to the defined interface contract.
func RunMachineStoreContract(t *testing.T, store MachineStore) {
	ctx := context.Background()
	name := "contract-" + time.Now().Format("20060102150405")

	sample := func() *machine.Machine {
		m := machine.New()
		m.AddState(domain.Position{X: 3, Y: 4})
		m.AddState(domain.Position{X: 9, Y: 1})
		m.TryAddTransition(0, 1, "a", "b", 1)
		m.TryAddTransition(1, 0, "", "c", -2)
		return m
	}

	t.Run("Save and Load", func(t *testing.T) {
		m := sample()
		require.NoError(t, store.Save(ctx, name, m), "Save should not return error")

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err, "Load should not return error")
		assert.True(t, m.Equal(loaded), "loaded machine should equal the saved one")
	})

	t.Run("Save Isolates", func(t *testing.T) {
		m := sample()
		require.NoError(t, store.Save(ctx, name, m))
		m.AddState(domain.Position{})

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, 2, loaded.StateCount(), "mutating after Save must not leak into the store")
	})

	t.Run("Save Overwrites", func(t *testing.T) {
		m := sample()
		require.NoError(t, m.RemoveState(1))
		require.NoError(t, store.Save(ctx, name, m))

		loaded, err := store.Load(ctx, name)
		require.NoError(t, err)
		assert.Equal(t, 1, loaded.StateCount())
		assert.Empty(t, loaded.Transitions())
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+name)
		assert.ErrorIs(t, err, domain.ErrMachineNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, name, sample()))
		require.NoError(t, store.Delete(ctx, name), "Delete should not return error")

		_, err := store.Load(ctx, name)
		assert.ErrorIs(t, err, domain.ErrMachineNotFound, "Load after Delete should return ErrMachineNotFound")

		assert.NoError(t, store.Delete(ctx, name), "deleting twice is fine")
	})

	t.Run("List", func(t *testing.T) {
		id1 := name + "-1"
		id2 := name + "-2"
		require.NoError(t, store.Save(ctx, id2, sample()))
		require.NoError(t, store.Save(ctx, id1, sample()))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		names, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, names, id1)
		assert.Contains(t, names, id2)
		assert.IsNonDecreasing(t, names)
	})
}
