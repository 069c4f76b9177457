package saved_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jobmate/job-tracker/internal/saved"
	"jobmate/job-tracker/internal/store"
	"jobmate/job-tracker/internal/store/storetest"
)

func TestSave_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := saved.NewSet(store.NewMemory())

	assert.True(t, s.Save(ctx, 5))
	assert.False(t, s.Save(ctx, 5), "second save is a no-op")
	assert.Equal(t, []int{5}, s.IDs(ctx))
	assert.True(t, s.IsSaved(ctx, 5))
}

func TestSave_KeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := saved.NewSet(store.NewMemory())
	for _, id := range []int{3, 1, 2} {
		require.True(t, s.Save(ctx, id))
	}
	assert.Equal(t, []int{3, 1, 2}, s.IDs(ctx))
}

func TestUnsave(t *testing.T) {
	ctx := context.Background()
	s := saved.NewSet(store.NewMemory())
	require.True(t, s.Save(ctx, 1))
	require.True(t, s.Save(ctx, 2))

	assert.True(t, s.Unsave(ctx, 1))
	assert.False(t, s.Unsave(ctx, 1))
	assert.False(t, s.IsSaved(ctx, 1))
	assert.Equal(t, []int{2}, s.IDs(ctx))
}

func TestIDs_Corrupt(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()
	require.NoError(t, m.Set(ctx, store.KeySavedIDs, `"nope"`))
	s := saved.NewSet(m)

	assert.Equal(t, []int{}, s.IDs(ctx))
	assert.True(t, s.Save(ctx, 9), "a write replaces the corrupt record")
	assert.Equal(t, []int{9}, s.IDs(ctx))
}

func TestSave_StoreFailure(t *testing.T) {
	s := saved.NewSet(storetest.ReadOnly{Data: map[string]string{}})
	assert.False(t, s.Save(context.Background(), 1))
	assert.False(t, s.IsSaved(context.Background(), 1))
}
