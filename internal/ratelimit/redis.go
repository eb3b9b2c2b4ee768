package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const window = time.Minute

// Redis is a fixed-window limiter shared by every instance pointing at the
// same Redis.
type Redis struct {
	client    *redis.Client
	prefix    string
	perMinute int64
	now       func() time.Time
}

// NewRedis connects to url (redis://...) and verifies the connection.
func NewRedis(ctx context.Context, url string, perMinute int) (*Redis, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	if perMinute <= 0 {
		perMinute = 1
	}
	return &Redis{client: client, prefix: "folio:ratelimit", perMinute: int64(perMinute), now: time.Now}, nil
}

func (r *Redis) Allow(ctx context.Context, key string) (Decision, error) {
	now := r.now()
	k := windowKey(r.prefix, key, now)

	var incr *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, k)
		p.Expire(ctx, k, window+time.Second)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("redis incr: %w", err)
	}
	if incr.Val() > r.perMinute {
		return Decision{Allowed: false, RetryAfter: untilNextWindow(now)}, nil
	}
	return Decision{Allowed: true}, nil
}

// Ping reports whether Redis is reachable.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Close() error {
	return r.client.Close()
}

func windowKey(prefix, key string, now time.Time) string {
	return prefix + ":" + key + ":" + strconv.FormatInt(now.Unix()/int64(window/time.Second), 10)
}

func untilNextWindow(now time.Time) time.Duration {
	next := now.Truncate(window).Add(window)
	return next.Sub(now)
}
