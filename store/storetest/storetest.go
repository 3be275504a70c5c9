// Package storetest provides a conformance suite for store.Backend
// implementations.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/prefs/store"
)

// Factory creates a new, empty backend for one subtest. The factory is
// responsible for registering cleanup.
type Factory func(t *testing.T) store.Backend

// RunBackendTests runs the complete backend suite against the factory.
func RunBackendTests(t *testing.T, factory Factory) {
	t.Run("GetMissing", func(t *testing.T) { testGetMissing(t, factory) })
	t.Run("PutAndGet", func(t *testing.T) { testPutAndGet(t, factory) })
	t.Run("PutReplaces", func(t *testing.T) { testPutReplaces(t, factory) })
	t.Run("SeqIncreases", func(t *testing.T) { testSeqIncreases(t, factory) })
	t.Run("Delete", func(t *testing.T) { testDelete(t, factory) })
	t.Run("DeleteMissing", func(t *testing.T) { testDeleteMissing(t, factory) })
	t.Run("ListOrderedByKey", func(t *testing.T) { testListOrderedByKey(t, factory) })
	t.Run("ListEmpty", func(t *testing.T) { testListEmpty(t, factory) })
	t.Run("ConcurrentPuts", func(t *testing.T) { testConcurrentPuts(t, factory) })
	t.Run("ConcurrentPutsSameKey", func(t *testing.T) { testConcurrentPutsSameKey(t, factory) })
}

func testGetMissing(t *testing.T, factory Factory) {
	b := factory(t)

	_, err := b.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testPutAndGet(t *testing.T, factory Factory) {
	b := factory(t)
	ctx := context.Background()

	put, err := b.Put(ctx, store.Entry{Key: "theme", Kind: "string", Value: []byte(`"dark"`)})
	require.NoError(t, err)
	assert.Positive(t, put.Seq)

	got, err := b.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Equal(t, "theme", got.Key)
	assert.Equal(t, "string", got.Kind)
	assert.Equal(t, `"dark"`, string(got.Value))
	assert.Equal(t, put.Seq, got.Seq)
}

func testPutReplaces(t *testing.T, factory Factory) {
	b := factory(t)
	ctx := context.Background()

	_, err := b.Put(ctx, store.Entry{Key: "k", Kind: "int", Value: []byte("1")})
	require.NoError(t, err)
	_, err = b.Put(ctx, store.Entry{Key: "k", Kind: "array<int>", Value: []byte("[1,2]")})
	require.NoError(t, err)

	got, err := b.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "array<int>", got.Kind)
	assert.Equal(t, "[1,2]", string(got.Value))

	all, err := b.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func testSeqIncreases(t *testing.T, factory Factory) {
	b := factory(t)
	ctx := context.Background()

	var last int64
	for i, key := range []string{"a", "b", "a", "c"} {
		e, err := b.Put(ctx, store.Entry{Key: key, Kind: "int", Value: []byte(fmt.Sprint(i))})
		require.NoError(t, err)
		assert.Greater(t, e.Seq, last)
		last = e.Seq
	}
}

func testDelete(t *testing.T, factory Factory) {
	b := factory(t)
	ctx := context.Background()

	_, err := b.Put(ctx, store.Entry{Key: "gone", Kind: "bool", Value: []byte("true")})
	require.NoError(t, err)

	require.NoError(t, b.Delete(ctx, "gone"))

	_, err = b.Get(ctx, "gone")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func testDeleteMissing(t *testing.T, factory Factory) {
	b := factory(t)
	assert.NoError(t, b.Delete(context.Background(), "never-set"))
}

func testListOrderedByKey(t *testing.T, factory Factory) {
	b := factory(t)
	ctx := context.Background()

	for _, key := range []string{"zeta", "alpha", "Mid", "beta"} {
		_, err := b.Put(ctx, store.Entry{Key: key, Kind: "string", Value: []byte(`"` + key + `"`)})
		require.NoError(t, err)
	}

	all, err := b.List(ctx)
	require.NoError(t, err)

	keys := make([]string, len(all))
	for i, e := range all {
		keys[i] = e.Key
		assert.Equal(t, `"`+e.Key+`"`, string(e.Value))
	}
	assert.Equal(t, []string{"Mid", "alpha", "beta", "zeta"}, keys)
}

func testListEmpty(t *testing.T, factory Factory) {
	b := factory(t)

	all, err := b.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func testConcurrentPuts(t *testing.T, factory Factory) {
	b := factory(t)
	ctx := context.Background()

	const writers = 8
	var wg sync.WaitGroup
	seqs := make([]int64, writers)
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e, err := b.Put(ctx, store.Entry{Key: fmt.Sprintf("k%d", i), Kind: "int", Value: []byte(fmt.Sprint(i))})
			seqs[i], errs[i] = e.Seq, err
		}()
	}
	wg.Wait()

	seen := make(map[int64]bool, writers)
	for i := range writers {
		require.NoError(t, errs[i])
		assert.False(t, seen[seqs[i]], "seq %d assigned twice", seqs[i])
		seen[seqs[i]] = true
	}

	all, err := b.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, writers)
}

// The stored entry must be the write that took the highest seq.
func testConcurrentPutsSameKey(t *testing.T, factory Factory) {
	b := factory(t)
	ctx := context.Background()

	const writers = 16
	var wg sync.WaitGroup
	puts := make([]store.Entry, writers)
	errs := make([]error, writers)
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			puts[i], errs[i] = b.Put(ctx, store.Entry{Key: "shared", Kind: "int", Value: []byte(fmt.Sprint(i))})
		}()
	}
	wg.Wait()

	latest := puts[0]
	for i := range writers {
		require.NoError(t, errs[i])
		if puts[i].Seq > latest.Seq {
			latest = puts[i]
		}
	}

	got, err := b.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, latest.Seq, got.Seq)
	assert.Equal(t, string(latest.Value), string(got.Value))
}
