package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// idleAfter is how long a client's bucket may sit unused before it is
// forgotten.
const idleAfter = 10 * time.Minute

type clientBucket struct {
	bucket   *ratelimit.Bucket
	lastSeen time.Time
}

// IPRateLimiter keeps one token bucket per client IP.
type IPRateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*clientBucket
	rate     float64
	capacity int64
	lastGC   time.Time
}

// NewIPRateLimiter refills rate tokens per second up to capacity.
func NewIPRateLimiter(rate float64, capacity int64) *IPRateLimiter {
	return &IPRateLimiter{
		buckets:  make(map[string]*clientBucket),
		rate:     rate,
		capacity: capacity,
		lastGC:   time.Now(),
	}
}

func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	now := time.Now()
	if now.Sub(rl.lastGC) > idleAfter {
		for key, cb := range rl.buckets {
			if now.Sub(cb.lastSeen) > idleAfter {
				delete(rl.buckets, key)
			}
		}
		rl.lastGC = now
	}
	cb, ok := rl.buckets[ip]
	if !ok {
		cb = &clientBucket{bucket: ratelimit.NewBucketWithRate(rl.rate, rl.capacity)}
		rl.buckets[ip] = cb
	}
	cb.lastSeen = now
	rl.mu.Unlock()

	return cb.bucket.TakeAvailable(1) == 1
}

func RateLimit(rl *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !rl.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
