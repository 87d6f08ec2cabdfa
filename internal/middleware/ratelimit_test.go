package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/wardrobe-designer/internal/config"
)

func TestBuildRateKey(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPatch, "/v1/design/dimensions", nil)
	req.Header.Set(echo.HeaderXRealIP, "10.0.0.7")
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetPath("/v1/design/dimensions")
	c.Set(SessionKey, "sess-1")

	tests := map[string]string{
		"ip_session_route": "rl:ip:10.0.0.7:session:sess-1:route:PATCH /v1/design/dimensions",
		"session":          "rl:session:sess-1",
		"ip":               "rl:ip:10.0.0.7",
		"bogus":            "rl",
	}
	for strategy, want := range tests {
		cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: strategy}
		assert.Equal(t, want, buildRateKey(cfg, c), strategy)
	}
}

func TestDisabledMiddlewarePassesThrough(t *testing.T) {
	e := echo.New()
	called := 0
	next := func(c echo.Context) error { called++; return nil }
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())

	assert.NoError(t, NewTokenBucket(config.RateLimitConfig{Enabled: true}, nil)(next)(c))
	assert.NoError(t, NewRedisCache(config.CacheConfig{Enabled: true}, nil)(next)(c))
	assert.Equal(t, 2, called)
}
