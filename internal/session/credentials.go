package session

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Credentials holds at most one opaque token. Setting a token replaces the
// previous one.
type Credentials interface {
	Token() (string, bool)
	Set(token string) error
	Clear() error
}

// CookieConfig describes the browser cookie carrying the token.
type CookieConfig struct {
	Name   string
	MaxAge time.Duration
	Secure bool
}

const contextKey = "session_credentials"

// CookieCredentials stores the token in a cookie on the current request.
// Writes are visible to later reads within the same request.
type CookieCredentials struct {
	c       *gin.Context
	cfg     CookieConfig
	written *string
}

func NewCookieCredentials(c *gin.Context, cfg CookieConfig) *CookieCredentials {
	return &CookieCredentials{c: c, cfg: cfg}
}

// Bind attaches cookie credentials to the request so handlers can reach
// them through FromContext.
func Bind(c *gin.Context, cfg CookieConfig) *CookieCredentials {
	creds := NewCookieCredentials(c, cfg)
	c.Set(contextKey, creds)
	return creds
}

// FromContext returns the credentials bound by Bind.
func FromContext(c *gin.Context) (Credentials, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return nil, false
	}
	creds, ok := v.(Credentials)
	return creds, ok
}

func (cc *CookieCredentials) Token() (string, bool) {
	if cc.written != nil {
		return *cc.written, *cc.written != ""
	}
	token, err := cc.c.Cookie(cc.cfg.Name)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

func (cc *CookieCredentials) Set(token string) error {
	if token == "" {
		return errors.New("session: empty token")
	}
	cc.c.SetSameSite(http.SameSiteStrictMode)
	cc.c.SetCookie(cc.cfg.Name, token, int(cc.cfg.MaxAge.Seconds()), "/", "", cc.cfg.Secure, true)
	cc.written = &token
	return nil
}

func (cc *CookieCredentials) Clear() error {
	cc.c.SetSameSite(http.SameSiteStrictMode)
	cc.c.SetCookie(cc.cfg.Name, "", -1, "/", "", cc.cfg.Secure, true)
	empty := ""
	cc.written = &empty
	return nil
}

// FileCredentials keeps the token in a file, for command line use.
type FileCredentials struct {
	path string
}

func NewFileCredentials(path string) *FileCredentials {
	return &FileCredentials{path: path}
}

func (fc *FileCredentials) Token() (string, bool) {
	data, err := os.ReadFile(fc.path)
	if err != nil {
		return "", false
	}
	token := strings.TrimSpace(string(data))
	return token, token != ""
}

func (fc *FileCredentials) Set(token string) error {
	if token == "" {
		return errors.New("session: empty token")
	}
	if err := os.MkdirAll(filepath.Dir(fc.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(fc.path), ".token-*")
	if err != nil {
		return fmt.Errorf("create token file: %w", err)
	}
	if _, err := tmp.WriteString(token); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write token file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("chmod token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close token file: %w", err)
	}
	if err := os.Rename(tmp.Name(), fc.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace token file: %w", err)
	}
	return nil
}

func (fc *FileCredentials) Clear() error {
	if err := os.Remove(fc.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token file: %w", err)
	}
	return nil
}
