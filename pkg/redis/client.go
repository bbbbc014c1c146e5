package redis

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const rideCacheTTL = 24 * time.Hour

// Client wraps the Redis connection.
type Client struct {
	rdb *goredis.Client
}

// NewClient connects to Redis with retry.
func NewClient(addr string) (*Client, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	for i := 0; i < 20; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := rdb.Ping(ctx).Err(); err == nil {
			cancel()
			log.Println("Connected to Redis")
			return &Client{rdb: rdb}, nil
		}
		cancel()
		log.Printf("Waiting for Redis... (%d/20)", i+1)
		time.Sleep(2 * time.Second)
	}
	return nil, fmt.Errorf("redis: failed to connect after 20 attempts")
}

// CacheRide stores a ride offer in a hash with TTL. Offers are immutable
// once created, so entries never need invalidation before expiry.
func (c *Client) CacheRide(ctx context.Context, rideID int64, fields map[string]string) error {
	key := rideKey(rideID)
	pipe := c.rdb.Pipeline()
	pipe.HSet(ctx, key, fields)
	pipe.Expire(ctx, key, rideCacheTTL)
	_, err := pipe.Exec(ctx)
	return err
}

// GetCachedRide retrieves a cached ride hash. An empty map means a miss.
func (c *Client) GetCachedRide(ctx context.Context, rideID int64) (map[string]string, error) {
	return c.rdb.HGetAll(ctx, rideKey(rideID)).Result()
}

// Close tears down the Redis connection.
func (c *Client) Close() error { return c.rdb.Close() }

func rideKey(rideID int64) string {
	return "ride:" + strconv.FormatInt(rideID, 10)
}
