package middleware

import (
	"net/http"
	"strings"
	"time"

	"eventdesk/internal/session"
	"eventdesk/internal/shared/utils/response"
	"eventdesk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextRequestID  = "request_id"
	ContextUserID     = "user_id"
	ContextSessionKey = "session_key"

	HeaderRequestID = "X-Request-ID"
)

// paths served without consulting the session gate
var ungatedPrefixes = []string{"/static/", "/health", "/ping"}

// RequestID tags every request with an id, reusing one sent by a proxy.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// SessionGate binds the cookie credentials to the request and applies
// session.Decide. Anonymous JSON requests get a 401 instead of a redirect.
func SessionGate(cfg session.CookieConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		creds := session.Bind(c, cfg)
		token, ok := creds.Token()
		if ok {
			c.Set(ContextSessionKey, session.Key(token))
			if subject := session.Subject(token); subject != "" {
				c.Set(ContextUserID, subject)
			}
		}

		path := c.Request.URL.Path
		if isUngated(path) {
			c.Next()
			return
		}

		decision := session.Decide(path, ok)
		if decision.Allow {
			c.Next()
			return
		}

		if IsJSONRequest(c) {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authentication required", nil, nil)
			c.Abort()
			return
		}
		c.Redirect(http.StatusSeeOther, decision.Redirect)
		c.Abort()
	}
}

// ExpireSession handles a 401 from the events API: the credential is
// cleared and the request ends at the login page, or with 401 for JSON.
func ExpireSession(c *gin.Context) {
	if creds, ok := session.FromContext(c); ok {
		_ = creds.Clear()
	}
	logger.GetDefault().LogSessionExpired(c.Request.Context(), c.GetString(ContextUserID), c.Request.URL.Path)

	if IsJSONRequest(c) {
		response.RespondJSON(c, "error", http.StatusUnauthorized, "Session expired, please log in again", nil, nil)
		c.Abort()
		return
	}
	response.RedirectWithFlash(c, session.LoginRoute, response.FlashInfo, "Your session has expired. Please log in again.")
}

// Token returns the credential bound to the request.
func Token(c *gin.Context) string {
	creds, ok := session.FromContext(c)
	if !ok {
		return ""
	}
	token, _ := creds.Token()
	return token
}

// SessionKey returns the fingerprint of the request's credential.
func SessionKey(c *gin.Context) string {
	return c.GetString(ContextSessionKey)
}

func IsJSONRequest(c *gin.Context) bool {
	return strings.HasPrefix(c.Request.URL.Path, "/api/")
}

func isUngated(path string) bool {
	for _, prefix := range ungatedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequestLogger logs each request with its id and token subject.
func RequestLogger(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		reqLogger := l.WithRequestID(c.GetString(ContextRequestID))
		if userID := c.GetString(ContextUserID); userID != "" {
			reqLogger = reqLogger.WithUserID(userID)
		}
		reqLogger.LogHTTPRequest(c, time.Since(start))
	}
}
