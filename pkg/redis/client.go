package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// BATCH JOB STATE IN REDIS

type Client struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a new Redis client
func New(addr, password string, db int, ttl time.Duration) *Client {
	return &Client{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
		ttl: ttl,
	}
}

// Close closes the Redis connection
func (c *Client) Close() {
	if c.client != nil {
		_ = c.client.Close()
	}
}

// AcquireLock takes a per-job lock so overlapping cron runs do not write the
// same payment columns twice. Returns false when another run holds it.
func (c *Client) AcquireLock(ctx context.Context, job string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, fmt.Sprintf("lock:%s", job), time.Now().Format(time.RFC3339), ttl).Result()
}

// ReleaseLock drops a job lock
func (c *Client) ReleaseLock(ctx context.Context, job string) error {
	return c.client.Del(ctx, fmt.Sprintf("lock:%s", job)).Err()
}

// MarkSeen remembers a processed attachment digest with the configured TTL.
// Returns false when the digest was already marked.
func (c *Client) MarkSeen(ctx context.Context, digest string) (bool, error) {
	return c.client.SetNX(ctx, fmt.Sprintf("ingest:seen:%s", digest), "1", c.ttl).Result()
}

// Forget removes a processed-attachment marker so the file is picked up again
func (c *Client) Forget(ctx context.Context, digest string) error {
	return c.client.Del(ctx, fmt.Sprintf("ingest:seen:%s", digest)).Err()
}
