package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	RespondJSON(c, "error", http.StatusConflict, "stale", nil, map[string]int{"ticket": 3})

	var body StandardApiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "error", body.Status)
	assert.Equal(t, "stale", body.Message)
}

func TestFlash_RoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/events", func(c *gin.Context) {
		RedirectWithFlash(c, "/", FlashSuccess, "Event created")
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/events", nil))

	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c2.Request.AddCookie(cookies[0])

	f := PopFlash(c2)
	require.NotNil(t, f)
	assert.Equal(t, FlashSuccess, f.Kind)
	assert.Equal(t, "Event created", f.Message)

	// removal cookie written
	require.Len(t, w2.Result().Cookies(), 1)
	assert.Less(t, w2.Result().Cookies()[0].MaxAge, 0)
}

func TestPopFlash_Garbage(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Request.AddCookie(&http.Cookie{Name: flashCookie, Value: "%%%"})

	assert.Nil(t, PopFlash(c))
}
