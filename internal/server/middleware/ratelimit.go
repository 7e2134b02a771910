package middleware

import (
	"net"
	"net/http"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/carebridge/nutrimap/internal/server/response"
)

// visitorIdle is how long a client's bucket survives without requests.
const visitorIdle = 10 * time.Minute

// RateLimiter gives every client IP a token bucket holding limit requests
// and refilling at limit per minute.
type RateLimiter struct {
	limit    int
	visitors *gocache.Cache
	logger   *zerolog.Logger
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing limit requests per minute per
// IP. Buckets of idle clients are evicted.
func NewRateLimiter(limit int, logger *zerolog.Logger) *RateLimiter {
	return newRateLimiter(limit, visitorIdle, logger)
}

func newRateLimiter(limit int, idle time.Duration, logger *zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		visitors: gocache.New(idle, idle/2),
		logger:   logger,
		now:      time.Now,
	}
}

func (rl *RateLimiter) bucket(ip string) *rate.Limiter {
	if v, ok := rl.visitors.Get(ip); ok {
		lim := v.(*rate.Limiter)
		rl.visitors.SetDefault(ip, lim)
		return lim
	}
	lim := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.limit)), rl.limit)
	if err := rl.visitors.Add(ip, lim, gocache.DefaultExpiration); err != nil {
		// Lost the race to another request from the same client.
		if v, ok := rl.visitors.Get(ip); ok {
			return v.(*rate.Limiter)
		}
	}
	return lim
}

func (rl *RateLimiter) allow(ip string) bool {
	return rl.bucket(ip).AllowN(rl.now(), 1)
}

// clientIP returns the first X-Forwarded-For hop, or the remote host.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit answers 429 once a client's bucket is empty.
func RateLimit(rl *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !rl.allow(ip) {
				rl.logger.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("Rate limit exceeded")
				response.RateLimited(w, "Too many requests. Please try again later.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
