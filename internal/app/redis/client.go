package redis

import (
	"context"
	"fmt"
	"time"

	"backend/internal/app/config"

	"github.com/go-redis/redis/v8"
)

const (
	jwtPrefix  = "jwt."
	csrfPrefix = "csrf."
)

type Client struct {
	cfg    config.RedisConfig
	client *redis.Client
}

func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	client := &Client{cfg: cfg}

	client.client = redis.NewClient(&redis.Options{
		Password:    cfg.Password,
		Username:    cfg.User,
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		DB:          0,
		DialTimeout: cfg.DialTimeout,
		ReadTimeout: cfg.ReadTimeout,
	})

	if err := client.client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cannot ping redis: %w", err)
	}

	return client, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// WriteJWTToBlacklist invalidates a token until its natural expiry.
func (c *Client) WriteJWTToBlacklist(ctx context.Context, jwtStr string, jwtTTL time.Duration) error {
	return c.client.Set(ctx, jwtPrefix+jwtStr, true, jwtTTL).Err()
}

// CheckJWTInBlacklist returns nil when the token is blacklisted and
// redis.Nil when it is not.
func (c *Client) CheckJWTInBlacklist(ctx context.Context, jwtStr string) error {
	return c.client.Get(ctx, jwtPrefix+jwtStr).Err()
}

// WriteCSRFToken stores the per-user anti-forgery token issued at login.
func (c *Client) WriteCSRFToken(ctx context.Context, userID uint, token string, ttl time.Duration) error {
	return c.client.Set(ctx, fmt.Sprintf("%s%d", csrfPrefix, userID), token, ttl).Err()
}

// GetCSRFToken returns the stored anti-forgery token for the user.
func (c *Client) GetCSRFToken(ctx context.Context, userID uint) (string, error) {
	return c.client.Get(ctx, fmt.Sprintf("%s%d", csrfPrefix, userID)).Result()
}
