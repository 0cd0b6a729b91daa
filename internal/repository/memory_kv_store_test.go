package repository

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryKVStore_GetSet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKVStore()

	entry, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, entry)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"a":1}`)))
	entry, err = store.Get(ctx, "k")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.JSONEq(t, `{"a":1}`, string(entry.Value))
	assert.Equal(t, int64(1), entry.Version)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"a":2}`)))
	entry, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, int64(2), entry.Version)
}

func TestMemoryKVStore_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKVStore()
	value := []byte(`{"a":1}`)
	require.NoError(t, store.Set(ctx, "k", value))
	value[2] = 'b'

	entry, err := store.Get(ctx, "k")
	require.NoError(t, err)
	entry.Value[2] = 'c'

	again, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(again.Value))
}

func TestMemoryKVStore_GetByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKVStore()
	require.NoError(t, store.Set(ctx, "candidate:1:a@x.io", []byte(`{}`)))
	require.NoError(t, store.Set(ctx, "candidate:2:b@x.io", []byte(`{}`)))
	require.NoError(t, store.Set(ctx, "settings:theme", []byte(`{}`)))

	entries, err := store.GetByPrefix(ctx, "candidate:")
	require.NoError(t, err)

	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		keys = append(keys, e.Key)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{"candidate:1:a@x.io", "candidate:2:b@x.io"}, keys)
}

func TestMemoryKVStore_CompareAndSwap(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryKVStore()

	ok, err := store.CompareAndSwap(ctx, "absent", 0, []byte(`{}`))
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", []byte(`{"v":1}`)))

	ok, err = store.CompareAndSwap(ctx, "k", 1, []byte(`{"v":2}`))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.CompareAndSwap(ctx, "k", 1, []byte(`{"v":3}`))
	require.NoError(t, err)
	assert.False(t, ok, "stale version must lose")

	entry, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.JSONEq(t, `{"v":2}`, string(entry.Value))
	assert.Equal(t, int64(2), entry.Version)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "candidate:", escapeLike("candidate:"))
	assert.Equal(t, `50\%\_off\\`, escapeLike(`50%_off\`))
}
