package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Burst is the number of requests the local limiter lets through at once
	Burst int
	// Key prefix for Redis keys
	KeyPrefix string
}

// Limiter decides whether a request identified by key may proceed.
// Returns: allowed, remaining requests, reset time, error
type Limiter interface {
	IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error)
	Config() RateLimitConfig
}

// RedisLimiter is a fixed window limiter shared by all API instances
type RedisLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
}

// NewRedisLimiter creates a new Redis backed limiter
func NewRedisLimiter(redisClient *redis.Client, config RateLimitConfig) *RedisLimiter {
	return &RedisLimiter{
		redis:  redisClient,
		config: config,
	}
}

// Config returns the limiter configuration
func (rl *RedisLimiter) Config() RateLimitConfig {
	return rl.config
}

// IsAllowed counts the request in the current window
func (rl *RedisLimiter) IsAllowed(ctx context.Context, key string) (bool, int, time.Time, error) {
	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	redisKey := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, key, windowStart.Unix())

	// Use Redis pipeline for atomic operations
	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	resetTime := windowStart.Add(rl.config.Window)
	allowed := count <= rl.config.Limit

	return allowed, remaining, resetTime, nil
}

// LocalLimiter is an in-process token bucket per key, used when no Redis is configured
type LocalLimiter struct {
	config RateLimitConfig

	mu        sync.Mutex
	buckets   map[string]*bucket
	lastPrune time.Time
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter creates a new in-process limiter
func NewLocalLimiter(config RateLimitConfig) *LocalLimiter {
	if config.Burst < 1 {
		config.Burst = 1
	}
	return &LocalLimiter{
		config:    config,
		buckets:   make(map[string]*bucket),
		lastPrune: time.Now(),
	}
}

// Config returns the limiter configuration
func (l *LocalLimiter) Config() RateLimitConfig {
	return l.config
}

// IsAllowed takes one token from the bucket of key
func (l *LocalLimiter) IsAllowed(_ context.Context, key string) (bool, int, time.Time, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastPrune) > l.config.Window {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > l.config.Window {
				delete(l.buckets, k)
			}
		}
		l.lastPrune = now
	}

	b, ok := l.buckets[key]
	if !ok {
		every := l.config.Window / time.Duration(l.config.Limit)
		b = &bucket{limiter: rate.NewLimiter(rate.Every(every), l.config.Burst)}
		l.buckets[key] = b
	}
	b.lastSeen = now

	allowed := b.limiter.AllowN(now, 1)
	remaining := int(b.limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	resetTime := now.Add(l.config.Window / time.Duration(l.config.Limit))

	return allowed, remaining, resetTime, nil
}

// NewMealCreationLimiter returns the limiter guarding meal creation: Redis
// backed when a client is given, otherwise in-process
func NewMealCreationLimiter(redisClient *redis.Client, perMinute, burst int) Limiter {
	config := RateLimitConfig{
		Window:    time.Minute,
		Limit:     perMinute,
		Burst:     burst,
		KeyPrefix: "rate_limit:meal_creation",
	}
	if redisClient != nil {
		return NewRedisLimiter(redisClient, config)
	}
	return NewLocalLimiter(config)
}

// RateLimit returns a Gin middleware that enforces limiter per client IP
func RateLimit(limiter Limiter) gin.HandlerFunc {
	config := limiter.Config()
	return func(c *gin.Context) {
		allowed, remaining, resetTime, err := limiter.IsAllowed(c.Request.Context(), c.ClientIP())
		if err != nil {
			// Don't fail the request when the limiter backend is down
			c.Header("X-RateLimit-Error", "rate limit check failed")
			c.Next()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", strconv.Itoa(config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			rateLimitRejects.Inc()
			retryAfter := int(time.Until(resetTime).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Zu viele Anfragen",
				"message":     fmt.Sprintf("Limit von %d Anfragen pro %v überschritten", config.Limit, config.Window),
				"retry_after": retryAfter,
			})
			return
		}

		c.Next()
	}
}
