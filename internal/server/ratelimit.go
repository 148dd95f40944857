package server

import (
	"net"
	"net/http"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

const defaultMaxTrackedClients = 4096

// ipRateLimiter keeps one token bucket per client IP. The least recently
// seen clients are forgotten once maxClients is reached.
type ipRateLimiter struct {
	limit    rate.Limit
	burst    int
	limiters *lru.Cache[string, *rate.Limiter]
}

// newIPRateLimiter returns nil, which allows everything, when perMinute <= 0.
func newIPRateLimiter(perMinute, burst, maxClients int) *ipRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	if maxClients <= 0 {
		maxClients = defaultMaxTrackedClients
	}

	cache, err := lru.New[string, *rate.Limiter](maxClients)
	if err != nil {
		// Only returned for a non-positive size.
		panic(err)
	}

	return &ipRateLimiter{
		limit:    rate.Every(time.Minute / time.Duration(perMinute)),
		burst:    burst,
		limiters: cache,
	}
}

func (l *ipRateLimiter) Allow(ip string) bool {
	if l == nil {
		return true
	}

	limiter, ok := l.limiters.Get(ip)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		// A concurrent first request may have stored one already.
		if prev, loaded, _ := l.limiters.PeekOrAdd(ip, limiter); loaded {
			limiter = prev
		}
	}
	return limiter.Allow()
}

// clientIP extracts the client IP address from the request. Forwarding
// headers are only read when trustProxy is set.
func clientIP(r *http.Request, trustProxy bool) string {
	if trustProxy {
		// Check X-Forwarded-For header (proxy/load balancer)
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// Take first IP in the comma-separated list
			if idx := strings.Index(xff, ","); idx != -1 {
				return strings.TrimSpace(xff[:idx])
			}
			return strings.TrimSpace(xff)
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}
