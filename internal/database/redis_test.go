package database

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/academico-latam/academico-api/internal/config"
)

func TestConnectRedisAppliesConfiguredTimeouts(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client, err := ConnectRedis(config.Config{
		RedisURL:         "redis://" + server.Addr(),
		RedisDialTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Ping(context.Background()).Err())
	require.Equal(t, 2*time.Second, client.Options().DialTimeout)
	require.Equal(t, 2*time.Second, client.Options().ReadTimeout)
	require.Equal(t, 2*time.Second, client.Options().WriteTimeout)
}

func TestConnectRedisDefaultsTheDialTimeout(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(server.Close)

	client, err := ConnectRedis(config.Config{RedisURL: "redis://" + server.Addr()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.Equal(t, defaultRedisDialTimeout, client.Options().DialTimeout)
}

func TestConnectRedisRejectsMissingURL(t *testing.T) {
	_, err := ConnectRedis(config.Config{})
	require.Error(t, err)
}

func TestConnectRedisRejectsMalformedURL(t *testing.T) {
	_, err := ConnectRedis(config.Config{RedisURL: "://not-a-url"})
	require.Error(t, err)
}

func TestConnectRedisFailsFastOnDeadServer(t *testing.T) {
	server, err := miniredis.Run()
	require.NoError(t, err)
	addr := server.Addr()
	server.Close()

	_, err = ConnectRedis(config.Config{
		RedisURL:         "redis://" + addr,
		RedisDialTimeout: 200 * time.Millisecond,
	})
	require.Error(t, err)
}
