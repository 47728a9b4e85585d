package ratelimit

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"eventdesk/internal/shared/utils/response"
	"eventdesk/pkg/logger"

	"github.com/gin-gonic/gin"
)

// rate limiting middleware
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	log := logger.GetDefault()

	return func(c *gin.Context) {
		clientIP := getClientIP(c)
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		limitType := getRateLimitType(c.Request.Method, path)

		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			log.WithError(err).ErrorContext(c.Request.Context(), "rate limit check failed")
			abort(c, http.StatusInternalServerError, "Rate limit check failed", nil)
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetTime, 10))

		if !result.Allowed {
			log.LogRateLimitExceeded(c.Request.Context(), clientIP, path)
			abort(c, http.StatusTooManyRequests, "Rate limit exceeded", map[string]interface{}{
				"limit":      result.Limit,
				"reset_time": result.ResetTime,
			})
			return
		}

		c.Next()
	}
}

// JSON endpoints get the standard envelope, pages get plain text
func abort(c *gin.Context, code int, message string, details interface{}) {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") || strings.HasPrefix(c.Request.URL.Path, "/health") {
		response.RespondJSON(c, "error", code, message, nil, details)
		c.Abort()
		return
	}
	c.String(code, message)
	c.Abort()
}

func getRateLimitType(method, path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"):
		return RateLimitTypeHealth

	// login and register posts
	case method == http.MethodPost && strings.HasPrefix(path, "/login"):
		return RateLimitTypeAuth

	case method == http.MethodPost && (strings.HasPrefix(path, "/events") ||
		strings.HasPrefix(path, "/profile") ||
		strings.HasPrefix(path, "/presets")):
		return RateLimitTypeMutation

	case method == http.MethodGet && (path == "/" ||
		strings.HasPrefix(path, "/api/v1/events") ||
		strings.HasPrefix(path, "/events")):
		return RateLimitTypeBrowse

	case method == http.MethodPost && strings.HasPrefix(path, "/filters"):
		return RateLimitTypeBrowse

	default:
		return RateLimitTypeDefault
	}
}

// extracts real client IP
func getClientIP(c *gin.Context) string {
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}
