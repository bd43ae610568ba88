package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimited(t *testing.T, handler echo.HandlerFunc, e *echo.Echo, ip string) (*httptest.ResponseRecorder, error) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/medicines", nil)
	if ip != "" {
		req.Header.Set("X-Real-IP", ip)
	}
	rec := httptest.NewRecorder()
	return rec, handler(e.NewContext(req, rec))
}

func TestRateLimitAllowsBurst(t *testing.T) {
	e := echo.New()
	handler := RateLimit(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 5; i++ {
		rec, err := rateLimited(t, handler, e, "")
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "10", rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitRejectsOverBurst(t *testing.T) {
	e := echo.New()
	handler := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 2})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	for i := 0; i < 2; i++ {
		_, err := rateLimited(t, handler, e, "")
		require.NoError(t, err)
	}

	rec, err := rateLimited(t, handler, e, "")
	require.Error(t, err)
	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusTooManyRequests, httpErr.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
}

func TestRateLimitIsolatesClients(t *testing.T) {
	e := echo.New()
	handler := RateLimit(RateLimitConfig{RequestsPerSecond: 1, BurstSize: 1})(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	_, err := rateLimited(t, handler, e, "10.0.0.1")
	require.NoError(t, err)

	_, err = rateLimited(t, handler, e, "10.0.0.1")
	require.Error(t, err, "second request from same IP should be limited")

	_, err = rateLimited(t, handler, e, "10.0.0.2")
	require.NoError(t, err, "other IPs keep their own allowance")
}

func TestLimiterStoreReusesEntries(t *testing.T) {
	store := newLimiterStore(RateLimitConfig{RequestsPerSecond: 10, BurstSize: 5})

	l1 := store.get("10.0.0.1")
	l2 := store.get("10.0.0.1")
	assert.Same(t, l1, l2)

	l3 := store.get("10.0.0.2")
	assert.NotSame(t, l1, l3)
}

func TestDefaultRateLimitConfig(t *testing.T) {
	cfg := DefaultRateLimitConfig()
	assert.Equal(t, float64(100), cfg.RequestsPerSecond)
	assert.Equal(t, 200, cfg.BurstSize)
}
