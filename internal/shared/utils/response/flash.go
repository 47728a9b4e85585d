package response

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const flashCookie = "flash"

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot notification carried to the next page render.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

func SetFlash(c *gin.Context, kind, message string) {
	data, err := json.Marshal(Flash{Kind: kind, Message: message})
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(flashCookie, base64.RawURLEncoding.EncodeToString(data), 60, "/", "", false, true)
}

// PopFlash returns the pending notification, if any, and removes it.
func PopFlash(c *gin.Context) *Flash {
	raw, err := c.Cookie(flashCookie)
	if err != nil || raw == "" {
		return nil
	}
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(flashCookie, "", -1, "/", "", false, true)

	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return nil
	}
	var f Flash
	if err := json.Unmarshal(data, &f); err != nil || f.Message == "" {
		return nil
	}
	return &f
}

// RedirectWithFlash stores a notification and sends the browser to location.
func RedirectWithFlash(c *gin.Context, location, kind, message string) {
	SetFlash(c, kind, message)
	c.Redirect(http.StatusSeeOther, location)
	c.Abort()
}
