package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type TokenData struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}

var ErrTokenNotFound = errors.New("token not found or expired")

type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func userKey(username string) string {
	return fmt.Sprintf("token:user:%s", username)
}

func lookupKey(token string) string {
	return fmt.Sprintf("token:lookup:%s", token)
}

// StoreToken keeps the latest session per user plus a reverse
// token -> username lookup used by the auth middleware.
func (r *TokenRepository) StoreToken(ctx context.Context, data TokenData, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal token data: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, userKey(data.Username), jsonData, ttl)
	pipe.Set(ctx, lookupKey(data.Token), data.Username, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to store token in Redis: %w", err)
	}

	return nil
}

func (r *TokenRepository) GetTokenData(ctx context.Context, username string) (*TokenData, error) {
	val, err := r.client.Get(ctx, userKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrTokenNotFound
		}
		return nil, fmt.Errorf("failed to get token from Redis: %w", err)
	}

	var tokenData TokenData
	if err := json.Unmarshal([]byte(val), &tokenData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal token data: %w", err)
	}

	return &tokenData, nil
}

// ValidateToken returns the username the token was issued to.
func (r *TokenRepository) ValidateToken(ctx context.Context, token string) (string, error) {
	username, err := r.client.Get(ctx, lookupKey(token)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrTokenNotFound
		}
		return "", fmt.Errorf("failed to validate token: %w", err)
	}

	return username, nil
}

func (r *TokenRepository) DeleteToken(ctx context.Context, username, token string) error {
	if err := r.client.Del(ctx, userKey(username), lookupKey(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete token: %w", err)
	}

	return nil
}
