package redis

import (
	"context"
	"easyShop/domain"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return mr, client
}

func TestTokenRepository_StoreValidateDelete(t *testing.T) {
	mr, client := newTestClient(t)
	repo := NewTokenRepository(client)
	ctx := context.Background()

	data := TokenData{
		Username:  "george",
		Role:      "ROLE_USER",
		Token:     "tok-1",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, repo.StoreToken(ctx, data, time.Hour))

	username, err := repo.ValidateToken(ctx, "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "george", username)

	stored, err := repo.GetTokenData(ctx, "george")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", stored.Token)

	mr.FastForward(2 * time.Hour)
	_, err = repo.ValidateToken(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, repo.StoreToken(ctx, data, time.Hour))
	require.NoError(t, repo.DeleteToken(ctx, "george", "tok-1"))
	_, err = repo.ValidateToken(ctx, "tok-1")
	assert.ErrorIs(t, err, ErrTokenNotFound)
}

func TestCheckoutLock_SecondAcquireConflicts(t *testing.T) {
	_, client := newTestClient(t)
	lock := NewCheckoutLock(client, 30*time.Second)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, 7)
	require.NoError(t, err)

	_, err = lock.Acquire(ctx, 7)
	require.Error(t, err)
	assert.Equal(t, domain.KindConflict, domain.KindOf(err))

	// other users are independent
	releaseOther, err := lock.Acquire(ctx, 8)
	require.NoError(t, err)
	releaseOther()

	release()

	releaseAgain, err := lock.Acquire(ctx, 7)
	require.NoError(t, err)
	releaseAgain()
}

func TestCheckoutLock_ReleaseKeepsForeignLock(t *testing.T) {
	mr, client := newTestClient(t)
	lock := NewCheckoutLock(client, time.Second)
	ctx := context.Background()

	release, err := lock.Acquire(ctx, 9)
	require.NoError(t, err)

	// lock expires and another request takes it over
	mr.FastForward(2 * time.Second)
	_, err = lock.Acquire(ctx, 9)
	require.NoError(t, err)

	release()
	assert.True(t, mr.Exists(checkoutLockKey(9)))
}
