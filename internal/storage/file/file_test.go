package file

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-stock-app/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_RoundTripAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	s, err := New(dir, "plain.json")
	require.NoError(t, err)

	_, err = s.Get(ctx, storage.KeyAccessToken)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, s.Set(ctx, storage.KeyAccessToken, "tok-1"))
	require.NoError(t, s.Set(ctx, storage.KeyUserData, `{"id":"u1"}`))

	// A new instance pointing at the same file sees the data, as after a
	// process restart.
	reopened, err := New(dir, "plain.json")
	require.NoError(t, err)
	v, err := reopened.Get(ctx, storage.KeyAccessToken)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", v)

	require.NoError(t, reopened.Delete(ctx, storage.KeyAccessToken, storage.KeyUserData))
	_, err = s.Get(ctx, storage.KeyUserData)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
