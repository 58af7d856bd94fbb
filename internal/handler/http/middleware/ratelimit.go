package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/cmlabs-hris/payroll-engine/internal/handler/http/response"
	"golang.org/x/time/rate"
)

// ipLimiter stores per-IP rate limiters with automatic cleanup.
type ipLimiter struct {
	limiters map[string]*limiterEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newIPLimiter(r rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     r,
		burst:    burst,
		now:      time.Now,
	}
}

func (ipl *ipLimiter) getLimiter(ip string) *rate.Limiter {
	ipl.mu.Lock()
	defer ipl.mu.Unlock()

	entry, exists := ipl.limiters[ip]
	if !exists {
		limiter := rate.NewLimiter(ipl.rate, ipl.burst)
		ipl.limiters[ip] = &limiterEntry{limiter: limiter, lastSeen: ipl.now()}
		return limiter
	}

	entry.lastSeen = ipl.now()
	return entry.limiter
}

// sweep removes entries not seen within idle.
func (ipl *ipLimiter) sweep(idle time.Duration) {
	ipl.mu.Lock()
	defer ipl.mu.Unlock()
	for ip, entry := range ipl.limiters {
		if ipl.now().Sub(entry.lastSeen) > idle {
			delete(ipl.limiters, ip)
		}
	}
}

func (ipl *ipLimiter) runCleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ipl.sweep(10 * time.Minute)
		}
	}
}

// RateLimit returns middleware that limits requests per client IP. The cleanup
// goroutine stops when ctx is done.
//
// Example: RateLimit(ctx, rate.Every(time.Second), 20) allows one request per
// second per IP with bursts of 20.
func RateLimit(ctx context.Context, r rate.Limit, burst int) func(http.Handler) http.Handler {
	ipl := newIPLimiter(r, burst)
	go ipl.runCleanup(ctx)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !ipl.getLimiter(clientIP(r)).Allow() {
				w.Header().Set("Retry-After", "60")
				response.TooManyRequests(w, "Too many requests. Please try again later.")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers the first X-Forwarded-For hop, then the remote host.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
