package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vv-api/pkg/logger"
	"vv-api/pkg/redis"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupLimiter(t *testing.T, class RateLimitClass) (*miniredis.Miniredis, http.Handler) {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	log, err := logger.New("error")
	require.NoError(t, err)

	client, err := redis.NewClient("redis://"+mr.Addr(), "development", log.Logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	return mr, RateLimit(client, class, log)(next)
}

func doRequest(handler http.Handler, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/battles", nil)
	req.RemoteAddr = ip + ":54321"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitAllowsUnderLimit(t *testing.T) {
	_, handler := setupLimiter(t, RateLimitClass{Name: "api", Limit: 3, Window: time.Minute})

	for i := 0; i < 3; i++ {
		rec := doRequest(handler, "10.0.0.1")
		assert.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	_, handler := setupLimiter(t, RateLimitClass{Name: "api", Limit: 2, Window: time.Minute})

	doRequest(handler, "10.0.0.1")
	doRequest(handler, "10.0.0.1")

	rec := doRequest(handler, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "rate_limit")
}

func TestRateLimitIsPerClient(t *testing.T) {
	_, handler := setupLimiter(t, RateLimitClass{Name: "api", Limit: 1, Window: time.Minute})

	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.1").Code)

	// A different client gets its own window
	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.2").Code)
}

func TestRateLimitWindowExpires(t *testing.T) {
	mr, handler := setupLimiter(t, RateLimitClass{Name: "api", Limit: 1, Window: time.Minute})

	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1").Code)
	assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, "10.0.0.1").Code)

	mr.FastForward(time.Minute + time.Second)
	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1").Code)
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr, handler := setupLimiter(t, RateLimitClass{Name: "api", Limit: 1, Window: time.Minute})

	// With Redis gone the limiter must not block traffic
	mr.Close()

	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, doRequest(handler, "10.0.0.1").Code)
}

func TestClientIPPrefersForwardedHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.0.1:1234"
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 192.168.0.1")

	assert.Equal(t, "203.0.113.7", clientIP(req))

	req.Header.Del("X-Forwarded-For")
	assert.Equal(t, "192.168.0.1", clientIP(req))
}
