package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"vv-api/pkg/errors"
	"vv-api/pkg/logger"
	"vv-api/pkg/redis"
)

// RateLimitClass is one fixed-window rate limit bucket shared by all
// endpoints of a class
type RateLimitClass struct {
	Name   string
	Limit  int
	Window time.Duration
}

// The three endpoint classes. Limits come from config; windows are fixed.
func AuthClass(limit int) RateLimitClass {
	return RateLimitClass{Name: "auth", Limit: limit, Window: 15 * time.Minute}
}

func APIClass(limit int) RateLimitClass {
	return RateLimitClass{Name: "api", Limit: limit, Window: time.Minute}
}

func UploadClass(limit int) RateLimitClass {
	return RateLimitClass{Name: "upload", Limit: limit, Window: time.Hour}
}

// RateLimit creates a Redis fixed-window rate limiting middleware keyed
// by client IP. When Redis is unreachable the limiter fails open.
func RateLimit(cache *redis.Client, class RateLimitClass, logger *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			key := cache.KeyBuilder.KeyRateLimit(class.Name, hashIP(clientIP(r)))

			count, err := cache.Incr(ctx, key)
			if err != nil {
				logger.WithError(err).Warn("Rate limiter unavailable, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			if count == 1 {
				if err := cache.Expire(ctx, key, class.Window); err != nil {
					logger.WithError(err).Warn("Failed to set rate limit window")
				}
			}

			if count > int64(class.Limit) {
				retryAfter := int(class.Window.Seconds())
				if ttl, err := cache.TTL(ctx, key); err == nil && ttl > 0 {
					retryAfter = int(ttl.Seconds()) + 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeErrorResponse(w, r, errors.NewRateLimitError("Too many requests, slow down"), logger)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP resolves the caller's IP, honoring the proxy header set by
// the ingress
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// hashIP keeps raw addresses out of Redis keys and logs
func hashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:8])
}
