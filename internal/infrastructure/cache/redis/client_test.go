package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/card-service/internal/infrastructure/cache/redis"
)

func newClient(t *testing.T, prefix string) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := redis.NewClient(redis.Config{
		Host:       mr.Host(),
		Port:       mr.Port(),
		DefaultTTL: time.Minute,
		KeyPrefix:  prefix,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestClient_SetGetDelete(t *testing.T) {
	// Arrange
	client, mr := newClient(t, "card-service:")
	ctx := context.Background()

	// Act
	require.NoError(t, client.Set(ctx, "receipt:1", []byte("value"), 0))
	got, err := client.Get(ctx, "receipt:1")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), got)
	assert.True(t, mr.Exists("card-service:receipt:1"))
	assert.Equal(t, time.Minute, mr.TTL("card-service:receipt:1"))

	deleted, err := client.Delete(ctx, "receipt:1")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = client.Delete(ctx, "receipt:1")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestClient_GetMissing(t *testing.T) {
	client, _ := newClient(t, "")

	got, err := client.Get(context.Background(), "missing")

	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_ExplicitTTLExpires(t *testing.T) {
	client, mr := newClient(t, "p:")
	ctx := context.Background()
	require.NoError(t, client.Set(ctx, "k", []byte("v"), 10*time.Second))

	mr.FastForward(11 * time.Second)

	got, err := client.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestClient_Ping(t *testing.T) {
	client, mr := newClient(t, "")
	assert.NoError(t, client.Ping(context.Background()))

	mr.Close()
	assert.Error(t, client.Ping(context.Background()))
}

func TestNewClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := redis.NewClient(redis.Config{Host: host, Port: port})

	assert.Error(t, err)
}
