//go:build integration

// Package containers starts throwaway backing services for integration tests.
package containers

import (
	"context"
	"sync"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

// RedisImage is the image session store tests run against.
const RedisImage = "redis:7-alpine"

// RedisContainer is a running Redis with a connected client.
type RedisContainer struct {
	Container testcontainers.Container
	Client    *redis.Client
}

// StartRedis launches a Redis container and waits until it answers PING.
// The container is reaped by Ryuk when the test binary exits.
func StartRedis(t *testing.T) *RedisContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcredis.Run(ctx, RedisImage)
	require.NoError(t, err, "start redis container")

	url, err := container.ConnectionString(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		require.NoError(t, err, "redis connection string")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		_ = container.Terminate(ctx)
		require.NoError(t, err, "parse redis url")
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		_ = container.Terminate(ctx)
		require.NoError(t, err, "ping redis")
	}
	return &RedisContainer{Container: container, Client: client}
}

// FlushAll empties the database between tests.
func (r *RedisContainer) FlushAll(ctx context.Context) error {
	return r.Client.FlushAll(ctx).Err()
}

var (
	sharedOnce  sync.Once
	sharedRedis *RedisContainer
)

// SharedRedis returns one container for every suite in the test binary.
func SharedRedis(t *testing.T) *RedisContainer {
	t.Helper()
	sharedOnce.Do(func() {
		sharedRedis = StartRedis(t)
	})
	require.NotNil(t, sharedRedis, "redis container failed to start earlier in this run")
	return sharedRedis
}
