package redis_test

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/tauribridge/pkg/adapters/redis"
	"github.com/aretw0/tauribridge/pkg/domain"
	"github.com/aretw0/tauribridge/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	return mr, backend.NewClient(&backend.Options{Addr: mr.Addr()})
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := newClient(t)
	ports.RunRecordStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_KeyLayout(t *testing.T) {
	mr, client := newClient(t)
	store := redis.NewFromClient(client, redis.WithPrefix("test:"))
	ctx := context.Background()

	require.NoError(t, store.SaveDriver(ctx, domain.DriverRecord{PID: 7, PGID: 7, Port: 4444}))
	require.NoError(t, store.SaveSession(ctx, domain.SessionRecord{ID: "tauri_1"}))

	assert.True(t, mr.Exists("test:drivers"))
	assert.True(t, mr.Exists("test:sessions"))
	assert.NotEmpty(t, mr.HGet("test:drivers", "4444"))
}
