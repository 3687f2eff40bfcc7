package limiter

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type visitors struct {
	mu          sync.Mutex
	visitors    map[string]*visitor
	limit       rate.Limit
	burst       int
	ttl         time.Duration
	lastCleanup time.Time
}

func newVisitors(rps int, burst int, ttl time.Duration) *visitors {
	return &visitors{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
	}
}

func (v *visitors) get(ip string, now time.Time) *rate.Limiter {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.ttl > 0 && now.Sub(v.lastCleanup) > v.ttl {
		v.evictLocked(now)
	}

	vis, ok := v.visitors[ip]
	if !ok {
		vis = &visitor{limiter: rate.NewLimiter(v.limit, v.burst)}
		v.visitors[ip] = vis
	}
	vis.lastSeen = now

	return vis.limiter
}

func (v *visitors) cleanup(now time.Time) {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.evictLocked(now)
}

func (v *visitors) evictLocked(now time.Time) {
	v.lastCleanup = now
	if v.ttl <= 0 {
		return
	}

	for ip, vis := range v.visitors {
		if now.Sub(vis.lastSeen) > v.ttl {
			delete(v.visitors, ip)
		}
	}
}

// Limit returns a per client IP token bucket middleware. Clients idle for
// longer than ttl are evicted on a later request; ttl <= 0 keeps them forever.
func Limit(rps int, burst int, ttl time.Duration) gin.HandlerFunc {
	v := newVisitors(rps, burst, ttl)

	return func(c *gin.Context) {
		if !v.get(c.ClientIP(), time.Now()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"success": false,
				"message": "too many requests",
			})
			return
		}

		c.Next()
	}
}
