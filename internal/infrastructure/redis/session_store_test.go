package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	keys   map[string]time.Duration
	failOn string
}

func newFakeClient() *fakeClient { return &fakeClient{keys: map[string]time.Duration{}} }

func (f *fakeClient) Set(_ context.Context, key string, _ interface{}, exp time.Duration) *goredis.StatusCmd {
	if f.failOn == "set" {
		return goredis.NewStatusResult("", errors.New("connection refused"))
	}
	f.keys[key] = exp
	return goredis.NewStatusResult("OK", nil)
}

func (f *fakeClient) Del(_ context.Context, keys ...string) *goredis.IntCmd {
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			delete(f.keys, k)
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func (f *fakeClient) Exists(_ context.Context, keys ...string) *goredis.IntCmd {
	if f.failOn == "exists" {
		return goredis.NewIntResult(0, errors.New("timeout"))
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.keys[k]; ok {
			n++
		}
	}
	return goredis.NewIntResult(n, nil)
}

func TestSessionStore_RevocarYRestaurar(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeClient()
	store := NewSessionStore(rdb, 60*time.Minute)

	revoked, err := store.IsRevoked(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "user-1"))
	assert.Equal(t, 60*time.Minute, rdb.keys["ecolend:revoked:user-1"], "la marca dura lo mismo que el JWT")

	revoked, err = store.IsRevoked(ctx, "user-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	other, err := store.IsRevoked(ctx, "user-2")
	require.NoError(t, err)
	assert.False(t, other)

	require.NoError(t, store.Restore(ctx, "user-1"))
	revoked, err = store.IsRevoked(ctx, "user-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	// restaurar dos veces no falla
	assert.NoError(t, store.Restore(ctx, "user-1"))
}

func TestSessionStore_PropagaErrores(t *testing.T) {
	ctx := context.Background()
	rdb := newFakeClient()
	store := NewSessionStore(rdb, time.Minute)

	rdb.failOn = "set"
	assert.EqualError(t, store.Revoke(ctx, "u"), "connection refused")

	rdb.failOn = "exists"
	_, err := store.IsRevoked(ctx, "u")
	assert.EqualError(t, err, "timeout")
}
