package middleware

import (
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	domainerror "github.com/expense-tracker/backend/internal/domain/error"
)

const (
	// DefaultMaxLoginAttempts is the number of attempts allowed per window.
	DefaultMaxLoginAttempts = 5
	// DefaultLoginWindow is the sliding window for login attempts.
	DefaultLoginWindow = time.Minute
)

// RateLimiter limits login attempts per client IP. Counters live in redis
// when a client is configured, otherwise in an in-process map.
type RateLimiter struct {
	redisClient *redis.Client
	maxAttempts int
	window      time.Duration

	mu       sync.Mutex
	attempts map[string]*attemptRecord
}

type attemptRecord struct {
	count      int
	windowEnds time.Time
}

// NewRateLimiter creates a rate limiter. redisClient may be nil, in which
// case counting falls back to process memory.
func NewRateLimiter(redisClient *redis.Client, maxAttempts int, window time.Duration) *RateLimiter {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxLoginAttempts
	}
	if window <= 0 {
		window = DefaultLoginWindow
	}
	return &RateLimiter{
		redisClient: redisClient,
		maxAttempts: maxAttempts,
		window:      window,
		attempts:    make(map[string]*attemptRecord),
	}
}

// Middleware returns a gin handler enforcing the limit.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Skip rate limiting in test environments
		if os.Getenv("E2E_MODE") == "true" || os.Getenv("ENV") == "test" {
			c.Next()
			return
		}

		allowed, err := rl.allow(c, c.ClientIP())
		if err != nil {
			// Counting failures must not lock users out
			c.Next()
			return
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many login attempts, please try again later",
				"code":  string(domainerror.ErrCodeTooManyAttempts),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func (rl *RateLimiter) allow(c *gin.Context, clientIP string) (bool, error) {
	if rl.redisClient != nil {
		return rl.allowRedis(c, clientIP)
	}
	return rl.allowMemory(clientIP), nil
}

func (rl *RateLimiter) allowRedis(c *gin.Context, clientIP string) (bool, error) {
	ctx := c.Request.Context()
	key := fmt.Sprintf("rate_limit:login:%s", clientIP)

	count, err := rl.redisClient.Incr(ctx, key).Result()
	if err != nil {
		return false, err
	}
	if count == 1 {
		if err := rl.redisClient.Expire(ctx, key, rl.window).Err(); err != nil {
			return false, err
		}
	}
	return count <= int64(rl.maxAttempts), nil
}

func (rl *RateLimiter) allowMemory(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	record, exists := rl.attempts[clientIP]
	if !exists || now.After(record.windowEnds) {
		rl.attempts[clientIP] = &attemptRecord{
			count:      1,
			windowEnds: now.Add(rl.window),
		}
		return true
	}

	record.count++
	return record.count <= rl.maxAttempts
}

// Reset clears all counters. Intended for tests.
func (rl *RateLimiter) Reset(c *gin.Context) error {
	if rl.redisClient != nil {
		ctx := c.Request.Context()
		keys, err := rl.redisClient.Keys(ctx, "rate_limit:login:*").Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			return rl.redisClient.Del(ctx, keys...).Err()
		}
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.attempts = make(map[string]*attemptRecord)
	return nil
}

// Cleanup drops expired in-memory records. No-op when redis is used.
func (rl *RateLimiter) Cleanup() {
	if rl.redisClient != nil {
		return
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for ip, record := range rl.attempts {
		if now.After(record.windowEnds) {
			delete(rl.attempts, ip)
		}
	}
}
