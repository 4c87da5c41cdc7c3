package middleware

import (
	"sync"
	"time"

	"github.com/dabinj96/Peaberry-sub000/config"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"

	"github.com/dabinj96/Peaberry-sub000/internal/delivery/http/response"
)

const (
	defaultRatePerSecond = 20
	defaultBurst         = 40

	// visitorTTL bounds how long an idle client's limiter is kept around.
	visitorTTL = 3 * time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitMiddleware throttles requests per client IP with a token bucket.
type RateLimitMiddleware struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int

	lastSweep time.Time
}

// NewRateLimitMiddleware builds the per-IP limiter from the HTTP config,
// falling back to permissive defaults when unset.
func NewRateLimitMiddleware(cfg *config.Config) *RateLimitMiddleware {
	perSecond := cfg.HTTP.RateLimit.PerSecond
	if perSecond <= 0 {
		perSecond = defaultRatePerSecond
	}
	burst := cfg.HTTP.RateLimit.Burst
	if burst <= 0 {
		burst = defaultBurst
	}

	return &RateLimitMiddleware{
		visitors:  make(map[string]*visitor),
		limit:     rate.Limit(perSecond),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

// Handle rejects requests that exceed the caller's token bucket with a 429.
func (m *RateLimitMiddleware) Handle(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !m.allow(c.RealIP()) {
			return response.TooManyRequests(c, "RATE_LIMITED", "Too many requests, slow down")
		}

		return next(c)
	}
}

func (m *RateLimitMiddleware) allow(ip string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if now.Sub(m.lastSweep) > visitorTTL {
		for addr, v := range m.visitors {
			if now.Sub(v.lastSeen) > visitorTTL {
				delete(m.visitors, addr)
			}
		}
		m.lastSweep = now
	}

	v, ok := m.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(m.limit, m.burst)}
		m.visitors[ip] = v
	}
	v.lastSeen = now

	return v.limiter.Allow()
}
