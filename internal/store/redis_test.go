package store

import (
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	kv := NewRedisKV(client, "")
	t.Cleanup(func() { kv.Close() })
	return kv, mr
}

func TestRedisKV_RoundTrip(t *testing.T) {
	kv, mr := newTestRedis(t)

	_, ok, err := kv.Get("username")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, kv.SetAll(map[string]string{"username": "Davi", "isAuthenticated": "true"}))

	got, ok, err := kv.Get("username")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Davi", got)

	// Keys are namespaced.
	raw, err := mr.Get(DefaultRedisPrefix + "isAuthenticated")
	require.NoError(t, err)
	assert.Equal(t, "true", raw)

	require.NoError(t, kv.DeleteAll("username", "isAuthenticated"))
	assert.False(t, mr.Exists(DefaultRedisPrefix+"username"))
	assert.NoError(t, kv.DeleteAll())
}

func TestRedisKV_ServerDown(t *testing.T) {
	kv, mr := newTestRedis(t)
	mr.Close()

	_, _, err := kv.Get("username")
	assert.Error(t, err)
	assert.Error(t, kv.Set("username", "Davi"))
}
