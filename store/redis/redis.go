// Package redis provides a Redis-backed store.Backend, for preferences
// shared between processes or hosts.
//
// Each entry is a hash at <prefix>entry:<key> with fields kind, value and
// seq. The logical clock is the counter at <prefix>seq.
package redis

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/roach88/prefs/store"
)

// DefaultKeyPrefix namespaces all keys written by the backend.
const DefaultKeyPrefix = "prefs:"

// Config contains configuration options for the Redis backend.
type Config struct {
	// Client is the Redis client instance. If nil, New dials Addr.
	Client redis.UniversalClient

	// Addr like "localhost:6379". Ignored when Client is set.
	Addr string

	// KeyPrefix for all keys. Must not contain glob metacharacters.
	// Defaults to DefaultKeyPrefix.
	KeyPrefix string
}

// putScript advances the clock and writes the entry atomically, so a
// write never lands with an older seq than one already stored.
//
// KEYS[1] = seq counter, KEYS[2] = entry hash
// ARGV[1] = kind, ARGV[2] = value
var putScript = redis.NewScript(`
local seq = redis.call('INCR', KEYS[1])
redis.call('HSET', KEYS[2], 'kind', ARGV[1], 'value', ARGV[2], 'seq', seq)
return seq
`)

// Backend implements store.Backend on Redis.
type Backend struct {
	client    redis.UniversalClient
	keyPrefix string
	owned     bool
}

var _ store.Backend = (*Backend)(nil)

// New creates a Redis backend and verifies the connection.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = DefaultKeyPrefix
	}
	if strings.ContainsAny(cfg.KeyPrefix, `*?[]\`) {
		return nil, fmt.Errorf("redis key prefix %q contains glob metacharacters", cfg.KeyPrefix)
	}

	client, owned := cfg.Client, false
	if client == nil {
		addr := cfg.Addr
		if addr == "" {
			addr = "localhost:6379"
		}
		client, owned = redis.NewClient(&redis.Options{Addr: addr}), true
	}

	if err := client.Ping(ctx).Err(); err != nil {
		if owned {
			_ = client.Close()
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Backend{client: client, keyPrefix: cfg.KeyPrefix, owned: owned}, nil
}

// Close closes the client if the backend dialed it.
func (b *Backend) Close() error {
	if !b.owned {
		return nil
	}
	return b.client.Close()
}

func (b *Backend) entryKey(key string) string { return b.keyPrefix + "entry:" + key }
func (b *Backend) seqKey() string             { return b.keyPrefix + "seq" }

// Get implements store.Backend.
func (b *Backend) Get(ctx context.Context, key string) (store.Entry, error) {
	fields, err := b.client.HGetAll(ctx, b.entryKey(key)).Result()
	if err != nil {
		return store.Entry{}, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	if len(fields) == 0 {
		return store.Entry{}, store.ErrNotFound
	}
	return decodeEntry(key, fields)
}

// Put implements store.Backend.
func (b *Backend) Put(ctx context.Context, e store.Entry) (store.Entry, error) {
	seq, err := putScript.Run(ctx, b.client,
		[]string{b.seqKey(), b.entryKey(e.Key)},
		e.Kind, string(e.Value),
	).Int64()
	if err != nil {
		return store.Entry{}, fmt.Errorf("failed to set key %s: %w", e.Key, err)
	}

	e.Seq = seq
	return e, nil
}

// Delete implements store.Backend.
func (b *Backend) Delete(ctx context.Context, key string) error {
	if err := b.client.Del(ctx, b.entryKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}
	return nil
}

// List implements store.Backend.
func (b *Backend) List(ctx context.Context) ([]store.Entry, error) {
	prefix := b.entryKey("")

	var out []store.Entry
	iter := b.client.Scan(ctx, 0, prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := strings.TrimPrefix(iter.Val(), prefix)
		fields, err := b.client.HGetAll(ctx, iter.Val()).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to get key %s: %w", key, err)
		}
		if len(fields) == 0 {
			// Deleted between SCAN and HGETALL.
			continue
		}
		e, err := decodeEntry(key, fields)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan keys: %w", err)
	}

	// SCAN may return a key more than once.
	slices.SortFunc(out, func(a, b store.Entry) int { return strings.Compare(a.Key, b.Key) })
	out = slices.CompactFunc(out, func(a, b store.Entry) bool { return a.Key == b.Key })
	return out, nil
}

func decodeEntry(key string, fields map[string]string) (store.Entry, error) {
	seq, err := strconv.ParseInt(fields["seq"], 10, 64)
	if err != nil {
		return store.Entry{}, fmt.Errorf("key %s: bad seq %q: %w", key, fields["seq"], err)
	}
	return store.Entry{
		Key:   key,
		Kind:  fields["kind"],
		Value: []byte(fields["value"]),
		Seq:   seq,
	}, nil
}
