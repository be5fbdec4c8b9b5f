package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fixr105/Seven-Render-sub004/internal/adapter/http/response"
	"github.com/fixr105/Seven-Render-sub004/internal/ports"
)

// RateLimitMiddleware throttles by client IP. Login gets a tighter budget
// than the rest of the API since it is the brute-force surface.
type RateLimitMiddleware struct {
	limiter ports.RateLimiter
	logger  *logrus.Logger
}

// NewRateLimitMiddleware creates a new rate limit middleware
func NewRateLimitMiddleware(limiter ports.RateLimiter, logger *logrus.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		logger:  logger,
	}
}

// RateLimit applies the per-IP budget. A limiter backend failure lets the
// request through: availability beats throttling accuracy here.
func (m *RateLimitMiddleware) RateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.limiter == nil {
			next.ServeHTTP(w, r)
			return
		}

		clientIP := getClientIP(r)

		var key string
		var limit int
		var window time.Duration
		switch {
		case strings.HasSuffix(r.URL.Path, "/login"):
			key = fmt.Sprintf("login:ip:%s", clientIP)
			limit = 10
			window = 15 * time.Minute
		default:
			key = fmt.Sprintf("general:ip:%s", clientIP)
			limit = 100
			window = 1 * time.Minute
		}

		allowed, err := m.limiter.Allow(r.Context(), key, limit, window)
		if err != nil {
			m.logger.WithError(err).WithField("key", key).Error("Rate limit check failed, allowing request")
			next.ServeHTTP(w, r)
			return
		}

		if !allowed {
			m.logger.WithFields(logrus.Fields{
				"ip":   clientIP,
				"path": r.URL.Path,
			}).Warn("Rate limit exceeded")
			w.Header().Set("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			response.TooManyRequests(w, "Too many requests. Please try again later.")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// getClientIP extracts the client IP, honoring proxy headers
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ips := strings.Split(xff, ",")
		return strings.TrimSpace(ips[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}
