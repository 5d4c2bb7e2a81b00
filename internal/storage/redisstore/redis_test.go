package redisstore

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fekuna/omnipos-stock-app/internal/storage"
	"github.com/fekuna/omnipos-stock-app/pkg/cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	s := New(client, "device-1")
	ctx := context.Background()

	_, err := s.Get(ctx, storage.KeyAccessToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, storage.KeyAccessToken, "tok"))
	got, err := mr.Get("device-1:access_token")
	require.NoError(t, err)
	assert.Equal(t, "tok", got)

	v, err := s.Get(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tok", v)

	require.NoError(t, s.Delete(ctx, storage.KeyAccessToken, storage.KeyUserData))
	assert.False(t, mr.Exists("device-1:access_token"))
}
