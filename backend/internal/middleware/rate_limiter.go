package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Nienta-PK/taskmanager/backend/internal/cache"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// visitorIdleTTL is how long an IP's bucket survives without traffic.
const visitorIdleTTL = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is a per-client-IP token bucket kept in process memory.
func RateLimiter(r rate.Limit, b int) gin.HandlerFunc {
	visitors := make(map[string]*visitor)
	var mu sync.Mutex
	lastSweep := time.Now()

	getVisitor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()

		now := time.Now()
		if now.Sub(lastSweep) > visitorIdleTTL {
			for key, v := range visitors {
				if now.Sub(v.lastSeen) > visitorIdleTTL {
					delete(visitors, key)
				}
			}
			lastSweep = now
		}

		v, exists := visitors[ip]
		if !exists {
			v = &visitor{limiter: rate.NewLimiter(r, b)}
			visitors[ip] = v
		}
		v.lastSeen = now
		return v.limiter
	}

	return func(c *gin.Context) {
		if !getVisitor(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}

// PerMinute converts a requests-per-minute budget into a rate.Limit.
func PerMinute(n int) rate.Limit {
	if n <= 0 {
		return rate.Inf
	}
	return rate.Every(time.Minute / time.Duration(n))
}

// LoginLimiter throttles login attempts per client IP. With a redis client the
// window is shared by every instance, without one each process keeps its own
// buckets. A non-positive budget disables the limiter.
func LoginLimiter(client *redis.Client, perMinute int) gin.HandlerFunc {
	if perMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if client == nil {
		return RateLimiter(PerMinute(perMinute), perMinute)
	}

	return NewDistributedRateLimiter(client).CreateMiddleware("login", &RateLimit{
		Rate:    perMinute,
		Window:  time.Minute,
		KeyFunc: IPKeyFunc,
	})
}

// DistributedRateLimiter counts requests in a redis sorted-set sliding window
// shared by every instance. It fails open while redis is unavailable.
type DistributedRateLimiter struct {
	redis   *redis.Client
	limits  map[string]*RateLimit
	breaker *cache.CircuitBreaker
}

type RateLimit struct {
	Rate    int
	Window  time.Duration
	KeyFunc func(*gin.Context) string
	OnLimit func(*gin.Context)
}

func NewDistributedRateLimiter(redisClient *redis.Client) *DistributedRateLimiter {
	return &DistributedRateLimiter{
		redis:   redisClient,
		limits:  make(map[string]*RateLimit),
		breaker: cache.NewCircuitBreaker(cache.DefaultCircuitBreakerConfig()),
	}
}

func (rl *DistributedRateLimiter) CreateMiddleware(name string, limit *RateLimit) gin.HandlerFunc {
	rl.limits[name] = limit

	return func(c *gin.Context) {
		key := fmt.Sprintf("rate_limit:%s:%s", name, limit.KeyFunc(c))

		var allowed bool
		err := rl.breaker.Execute(func() error {
			var err error
			allowed, err = rl.checkLimit(c.Request.Context(), key, limit)
			return err
		})
		if err != nil {
			c.Header("X-RateLimit-Error", "true")
			c.Next()
			return
		}

		if !allowed {
			if limit.OnLimit != nil {
				limit.OnLimit(c)
				c.Abort()
				return
			}

			c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
			c.Header("X-RateLimit-Window", limit.Window.String())
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": limit.Window.Seconds(),
			})
			return
		}

		c.Next()
	}
}

func (rl *DistributedRateLimiter) checkLimit(ctx context.Context, key string, limit *RateLimit) (bool, error) {
	now := time.Now().UnixNano()
	windowStart := now - limit.Window.Nanoseconds()

	member, err := uuid.NewV4()
	if err != nil {
		return false, fmt.Errorf("failed to generate window member: %w", err)
	}

	pipe := rl.redis.Pipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	countCmd := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now), Member: member.String()})
	pipe.Expire(ctx, key, limit.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	return countCmd.Val() < int64(limit.Rate), nil
}

func IPKeyFunc(c *gin.Context) string {
	return c.ClientIP()
}

// UserKeyFunc keys authenticated callers by user id and everyone else by IP.
func UserKeyFunc(c *gin.Context) string {
	userID, exists := c.Get(ContextUserID)
	if !exists {
		return c.ClientIP()
	}
	return fmt.Sprintf("user:%v", userID)
}
