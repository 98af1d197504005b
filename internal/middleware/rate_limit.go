package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

// ClapRateLimiter throttles clap requests per authenticated user, falling
// back to the client IP for anonymous callers.
type ClapRateLimiter struct {
	limiters          map[string]*rate.Limiter
	mutex             sync.Mutex
	rate              rate.Limit
	burst             int
	requestsPerMinute int
}

func NewClapRateLimiter(requestsPerMinute, burst int) *ClapRateLimiter {
	return &ClapRateLimiter{
		limiters:          make(map[string]*rate.Limiter),
		rate:              rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:             burst,
		requestsPerMinute: requestsPerMinute,
	}
}

// GetLimiter returns the limiter for key, creating it on first use.
func (rl *ClapRateLimiter) GetLimiter(key string) *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	limiter, exists := rl.limiters[key]
	if !exists {
		limiter = rate.NewLimiter(rl.rate, rl.burst)
		rl.limiters[key] = limiter
	}
	return limiter
}

// CleanupLimiters drops limiters that have refilled completely, i.e. keys
// that have been idle long enough to start over.
func (rl *ClapRateLimiter) CleanupLimiters() int {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	removed := 0
	for key, limiter := range rl.limiters {
		if limiter.Tokens() >= float64(rl.burst) {
			delete(rl.limiters, key)
			removed++
		}
	}
	return removed
}

// Run calls CleanupLimiters every interval until ctx is done.
func (rl *ClapRateLimiter) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.CleanupLimiters()
		case <-ctx.Done():
			return
		}
	}
}

func (rl *ClapRateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := c.RealIP()
			if id := UserID(c); id != 0 {
				key = "user:" + strconv.FormatUint(uint64(id), 10)
			}

			reset := strconv.FormatInt(time.Now().Add(time.Minute).Unix(), 10)
			limiter := rl.GetLimiter(key)
			if !limiter.Allow() {
				c.Response().Header().Set("X-RateLimit-Remaining", "0")
				c.Response().Header().Set("X-RateLimit-Reset", reset)
				return echo.NewHTTPError(http.StatusTooManyRequests,
					fmt.Sprintf("Too many requests. Limit: %d claps per minute", rl.requestsPerMinute))
			}

			c.Response().Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
			c.Response().Header().Set("X-RateLimit-Reset", reset)
			return next(c)
		}
	}
}
