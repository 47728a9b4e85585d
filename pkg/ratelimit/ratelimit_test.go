package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   RateLimitType
	}{
		{http.MethodGet, "/health", RateLimitTypeHealth},
		{http.MethodGet, "/ping", RateLimitTypeHealth},
		{http.MethodPost, "/login", RateLimitTypeAuth},
		{http.MethodPost, "/login/register", RateLimitTypeAuth},
		{http.MethodGet, "/login", RateLimitTypeDefault},
		{http.MethodPost, "/events", RateLimitTypeMutation},
		{http.MethodPost, "/events/:id/delete", RateLimitTypeMutation},
		{http.MethodPost, "/presets/:id/apply", RateLimitTypeMutation},
		{http.MethodPost, "/profile", RateLimitTypeMutation},
		{http.MethodGet, "/", RateLimitTypeBrowse},
		{http.MethodGet, "/api/v1/events", RateLimitTypeBrowse},
		{http.MethodPost, "/filters/apply", RateLimitTypeBrowse},
		{http.MethodPost, "/logout", RateLimitTypeDefault},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, getRateLimitType(tt.method, tt.path))
		})
	}
}

func TestIsAllowed_DisabledAndWhitelisted(t *testing.T) {
	cfg := &Config{
		Enabled:        false,
		WindowDuration: time.Minute,
		AuthRequests:   5,
		WhitelistedIPs: []string{"10.0.0.1"},
	}

	// no redis client is needed on these paths
	rl := NewRateLimiter(nil, cfg)

	res, err := rl.IsAllowed(context.Background(), "1.2.3.4", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
	assert.Equal(t, 5, res.Limit)

	cfg.Enabled = true
	res, err = rl.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.4"}, "10.0.0.2:1234", "198.51.100.4"},
		{"invalid forwarded", map[string]string{"X-Forwarded-For": "nope"}, "10.0.0.2:1234", "10.0.0.2"},
		{"remote addr", nil, "192.0.2.1:5555", "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			c.Request.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				c.Request.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(c))
		})
	}
}
