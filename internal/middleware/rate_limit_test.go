package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"

	apperrors "github.com/fomongole/User-Management-Api/internal/errors"
)

func TestRateLimiter_PerIP(t *testing.T) {
	limiter := NewRateLimiter(rate.Every(time.Hour), 2, time.Minute)
	h := limiter.Middleware()(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e := echo.New()
	e.IPExtractor = echo.ExtractIPDirect()

	call := func(ip string) error {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = ip + ":40000"
		// Spoofed headers must not move the caller to a fresh bucket.
		req.Header.Set(echo.HeaderXRealIP, "203.0.113.9")
		return h(e.NewContext(req, httptest.NewRecorder()))
	}

	assert.NoError(t, call("10.0.0.1"))
	assert.NoError(t, call("10.0.0.1"))
	assert.ErrorIs(t, call("10.0.0.1"), apperrors.ErrTooManyRequests)

	assert.NoError(t, call("10.0.0.2"))
}

func TestRateLimiter_CleanupDropsIdleClients(t *testing.T) {
	limiter := NewRateLimiter(rate.Limit(1), 1, time.Minute)
	limiter.getLimiter("10.0.0.1")
	limiter.lastSeen["10.0.0.1"] = time.Now().Add(-2 * time.Minute)

	limiter.getLimiter("10.0.0.2")

	assert.NotContains(t, limiter.limiters, "10.0.0.1")
	assert.Contains(t, limiter.limiters, "10.0.0.2")
}
