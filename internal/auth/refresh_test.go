package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRefreshStore(t *testing.T) *RefreshStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRefreshStore(client, time.Hour)
}

func TestRefreshStoreIssueAndConsume(t *testing.T) {
	ctx := context.Background()
	store := newTestRefreshStore(t)

	token, err := store.Issue(ctx, 7)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := store.Consume(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), userID)
}

func TestRefreshStoreTokensAreSingleUse(t *testing.T) {
	ctx := context.Background()
	store := newTestRefreshStore(t)

	token, err := store.Issue(ctx, 7)
	require.NoError(t, err)

	_, err = store.Consume(ctx, token)
	require.NoError(t, err)

	_, err = store.Consume(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshStoreRejectsUnknownToken(t *testing.T) {
	ctx := context.Background()
	store := newTestRefreshStore(t)

	_, err := store.Consume(ctx, "never-issued")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshStoreRevoke(t *testing.T) {
	ctx := context.Background()
	store := newTestRefreshStore(t)

	token, err := store.Issue(ctx, 7)
	require.NoError(t, err)
	require.NoError(t, store.Revoke(ctx, token))

	_, err = store.Consume(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
