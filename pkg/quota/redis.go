package quota

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// authorizeScript checks and increments in one server-side step. The first
// charge of a window starts the key's expiry when ARGV[3] is positive.
// Returns {ok, used}.
const authorizeScript = `
local cur = tonumber(redis.call('GET', KEYS[1]) or '0')
local n = tonumber(ARGV[1])
local ceiling = tonumber(ARGV[2])
local window = tonumber(ARGV[3])
if n > ceiling - cur then
  return {0, cur}
end
local used = redis.call('INCRBY', KEYS[1], n)
if window > 0 and redis.call('PTTL', KEYS[1]) < 0 then
  redis.call('PEXPIRE', KEYS[1], window)
end
return {1, used}
`

// RedisCounter keeps the budget in a Redis key so several processes can
// share one ceiling. With WithWindow the key expires on the server, so every
// process sees the same window.
type RedisCounter struct {
	rdb    redis.UniversalClient
	key    string
	window time.Duration
	script *redis.Script
}

type RedisOption func(*RedisCounter)

// WithKey overrides the default key "oars:quota". An empty key is ignored.
func WithKey(key string) RedisOption {
	return func(c *RedisCounter) {
		if k := strings.Trim(key, ":"); k != "" {
			c.key = k
		}
	}
}

// WithWindow expires the counter d after the first charge of each window.
func WithWindow(d time.Duration) RedisOption {
	return func(c *RedisCounter) {
		if d > 0 {
			c.window = d
		}
	}
}

func NewRedisCounter(rdb redis.UniversalClient, opts ...RedisOption) *RedisCounter {
	c := &RedisCounter{
		rdb:    rdb,
		key:    "oars:quota",
		script: redis.NewScript(authorizeScript),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Key returns the Redis key holding the counter.
func (c *RedisCounter) Key() string { return c.key }

// Expiry returns the server-side window, zero when none is set.
func (c *RedisCounter) Expiry() time.Duration { return c.window }

// TTL returns how long the current window has left. It is zero when no
// window is running.
func (c *RedisCounter) TTL(ctx context.Context) (time.Duration, error) {
	d, err := c.rdb.PTTL(ctx, c.key).Result()
	if err != nil {
		return 0, fmt.Errorf("redis ttl: %w", err)
	}
	if d < 0 {
		return 0, nil
	}
	return d, nil
}

func (c *RedisCounter) Add(ctx context.Context, n, ceiling int64) (int64, bool, error) {
	res, err := c.script.Run(ctx, c.rdb, []string{c.key}, n, ceiling, c.window.Milliseconds()).Result()
	if err != nil {
		return 0, false, fmt.Errorf("redis authorize: %w", err)
	}
	arr, ok := res.([]interface{})
	if !ok || len(arr) != 2 {
		return 0, false, fmt.Errorf("redis authorize: unexpected reply %v", res)
	}
	allowed, ok1 := arr[0].(int64)
	used, ok2 := arr[1].(int64)
	if !ok1 || !ok2 {
		return 0, false, fmt.Errorf("redis authorize: unexpected reply %v", res)
	}
	return used, allowed == 1, nil
}

func (c *RedisCounter) Load(ctx context.Context) (int64, error) {
	n, err := c.rdb.Get(ctx, c.key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis load: %w", err)
	}
	return n, nil
}

// Reset deletes the key, which also ends the running window.
func (c *RedisCounter) Reset(ctx context.Context) error {
	if err := c.rdb.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("redis reset: %w", err)
	}
	return nil
}
