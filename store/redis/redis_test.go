package redis

import (
	"context"
	"fmt"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/prefs/store"
	"github.com/roach88/prefs/store/storetest"
)

// testClient connects to a local Redis, skipping the test if none is
// reachable.
func testClient(t *testing.T) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{
		Addr: "127.0.0.1:6379",
		DB:   3, // Use separate DB for preference tests
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		t.Skipf("Redis not available: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestRedisBackend(t *testing.T) {
	client := testClient(t)

	n := 0
	storetest.RunBackendTests(t, func(t *testing.T) store.Backend {
		n++
		prefix := fmt.Sprintf("prefs-test:%d:", n)
		t.Cleanup(func() { flushPrefix(t, client, prefix) })

		b, err := New(context.Background(), Config{Client: client, KeyPrefix: prefix})
		require.NoError(t, err)
		t.Cleanup(func() { b.Close() })
		return b
	})
}

func TestRedisBackendIsolatesPrefixes(t *testing.T) {
	client := testClient(t)
	ctx := context.Background()
	t.Cleanup(func() {
		flushPrefix(t, client, "prefs-iso-a:")
		flushPrefix(t, client, "prefs-iso-b:")
	})

	a, err := New(ctx, Config{Client: client, KeyPrefix: "prefs-iso-a:"})
	require.NoError(t, err)
	b, err := New(ctx, Config{Client: client, KeyPrefix: "prefs-iso-b:"})
	require.NoError(t, err)

	_, err = a.Put(ctx, store.Entry{Key: "k", Kind: "int", Value: []byte("1")})
	require.NoError(t, err)

	_, err = b.Get(ctx, "k")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestNewRejectsGlobPrefix(t *testing.T) {
	_, err := New(context.Background(), Config{KeyPrefix: "bad*"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "glob")
}

func flushPrefix(t *testing.T, client *redis.Client, prefix string) {
	t.Helper()
	ctx := context.Background()
	iter := client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
