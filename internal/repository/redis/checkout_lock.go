package redis

import (
	"context"
	"easyShop/domain"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// release only deletes the key while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// CheckoutLock serializes checkouts per user across API instances.
type CheckoutLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCheckoutLock(client *redis.Client, ttl time.Duration) *CheckoutLock {
	return &CheckoutLock{
		client: client,
		ttl:    ttl,
	}
}

func checkoutLockKey(userID uint) string {
	return fmt.Sprintf("checkout:lock:user:%d", userID)
}

// Acquire takes the user's checkout lock. A lock held by another request
// is reported as a conflict.
func (l *CheckoutLock) Acquire(ctx context.Context, userID uint) (func(), error) {
	key := checkoutLockKey(userID)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire checkout lock: %w", err)
	}
	if !ok {
		return nil, domain.Conflict("checkout already in progress", nil)
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}

	return release, nil
}
