// Package ratelimit guards the Gmail fetch endpoint against hammering.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cooldown enforces a per-key quiet period between expensive operations.
// Redis backs it when available so the cooldown survives restarts and is
// shared across instances; otherwise a local map takes over.
type Cooldown struct {
	redis    *redis.Client
	duration time.Duration
	local    map[string]time.Time
	mu       sync.RWMutex
}

func NewCooldown(redisClient *redis.Client, duration time.Duration) *Cooldown {
	return &Cooldown{
		redis:    redisClient,
		duration: duration,
		local:    make(map[string]time.Time),
	}
}

// Active reports whether the key is still cooling down.
func (c *Cooldown) Active(ctx context.Context, key string) bool {
	redisKey := fmt.Sprintf("cooldown:%s", key)

	if c.redis != nil {
		exists, err := c.redis.Exists(ctx, redisKey).Result()
		if err == nil {
			return exists > 0
		}
	}

	c.mu.RLock()
	last, ok := c.local[key]
	c.mu.RUnlock()
	return ok && time.Since(last) < c.duration
}

// Touch starts the key's cooldown window.
func (c *Cooldown) Touch(ctx context.Context, key string) {
	redisKey := fmt.Sprintf("cooldown:%s", key)

	if c.redis != nil {
		c.redis.Set(ctx, redisKey, "1", c.duration)
	}

	c.mu.Lock()
	c.local[key] = time.Now()
	c.mu.Unlock()

	go c.cleanup()
}

func (c *Cooldown) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for k, v := range c.local {
		if now.Sub(v) > c.duration*2 {
			delete(c.local, k)
		}
	}
}
