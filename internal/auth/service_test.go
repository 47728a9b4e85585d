package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"eventdesk/internal/activity"
	"eventdesk/internal/remote"
	"eventdesk/internal/session"
	"eventdesk/internal/shared/middleware"
	"eventdesk/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAccounts struct {
	token       string
	registerTok string
	err         error
	registered  []remote.RegisterRequest
}

func (f *fakeAccounts) Login(_ context.Context, req remote.LoginRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if req.Password != "secret1" {
		return "", &remote.Error{Kind: remote.KindAuth, Op: "users.login", Status: http.StatusUnauthorized}
	}
	return f.token, nil
}

func (f *fakeAccounts) Register(_ context.Context, req remote.RegisterRequest) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.registered = append(f.registered, req)
	return f.registerTok, nil
}

type recordingCleaner struct {
	cleared []string
	forgot  []string
}

func (r *recordingCleaner) ClearSession(_ context.Context, key string) error {
	r.cleared = append(r.cleared, key)
	return nil
}

func (r *recordingCleaner) Forget(_ context.Context, token string) {
	r.forgot = append(r.forgot, token)
}

type recordingPublisher struct {
	mu      sync.Mutex
	records []*activity.Record
}

func (p *recordingPublisher) Publish(_ context.Context, r *activity.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, r)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func newAuthEngine(t *testing.T, accounts *fakeAccounts, cleaner *recordingCleaner, pub activity.Publisher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.RequestID(), middleware.SessionGate(session.CookieConfig{Name: "token", MaxAge: time.Hour}))

	svc := NewService(accounts, cleaner, cleaner)
	svc.SetPublisher(pub)
	SetupRoutes(r, NewController(svc))
	return r
}

func post(r http.Handler, target string, form url.Values, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if token != "" {
		req.AddCookie(&http.Cookie{Name: "token", Value: token})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func cookieValue(w *httptest.ResponseRecorder, name string) (string, bool) {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c.Value, c.MaxAge >= 0
		}
	}
	return "", false
}

func TestShowLogin(t *testing.T) {
	r := newAuthEngine(t, &fakeAccounts{}, &recordingCleaner{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/login"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login?mode=register", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Create an account")
	assert.Contains(t, w.Body.String(), `action="/login/register"`)
}

func TestLogin(t *testing.T) {
	t.Run("success stores the token", func(t *testing.T) {
		pub := &recordingPublisher{}
		r := newAuthEngine(t, &fakeAccounts{token: "tok-1"}, &recordingCleaner{}, pub)

		w := post(r, "/login", url.Values{"email": {"ada@example.com"}, "password": {"secret1"}}, "")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		value, live := cookieValue(w, "token")
		assert.True(t, live)
		assert.Equal(t, "tok-1", value)

		require.Len(t, pub.records, 1)
		assert.Equal(t, activity.TypeLogin, pub.records[0].Type)
	})

	t.Run("wrong password", func(t *testing.T) {
		r := newAuthEngine(t, &fakeAccounts{token: "tok-1"}, &recordingCleaner{}, nil)

		w := post(r, "/login", url.Values{"email": {"ada@example.com"}, "password": {"nope"}}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid email or password")
		assert.Contains(t, w.Body.String(), `value="ada@example.com"`)
		_, live := cookieValue(w, "token")
		assert.False(t, live)
	})

	t.Run("invalid form", func(t *testing.T) {
		r := newAuthEngine(t, &fakeAccounts{}, &recordingCleaner{}, nil)

		w := post(r, "/login", url.Values{"email": {"not-an-email"}}, "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Enter a valid email address")
		assert.Contains(t, w.Body.String(), "Password is required")
	})

	t.Run("api down", func(t *testing.T) {
		r := newAuthEngine(t, &fakeAccounts{err: &remote.Error{Kind: remote.KindNetwork}}, &recordingCleaner{}, nil)

		w := post(r, "/login", url.Values{"email": {"ada@example.com"}, "password": {"secret1"}}, "")
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "The events service could not be reached")
	})
}

func TestRegister(t *testing.T) {
	form := url.Values{
		"name":            {"Ada Lovelace"},
		"email":           {"ada@example.com"},
		"password":        {"secret1"},
		"confirmPassword": {"secret1"},
	}

	t.Run("mismatched passwords", func(t *testing.T) {
		accounts := &fakeAccounts{}
		r := newAuthEngine(t, accounts, &recordingCleaner{}, nil)

		bad := url.Values{}
		for k, v := range form {
			bad[k] = v
		}
		bad.Set("confirmPassword", "other1")

		w := post(r, "/login/register", bad, "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "Passwords do not match")
		assert.NotContains(t, w.Body.String(), "secret1")
		assert.Empty(t, accounts.registered)
	})

	t.Run("without token goes to login", func(t *testing.T) {
		accounts := &fakeAccounts{}
		r := newAuthEngine(t, accounts, &recordingCleaner{}, nil)

		w := post(r, "/login/register", form, "")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/login", w.Header().Get("Location"))
		require.Len(t, accounts.registered, 1)
		assert.Equal(t, "Ada Lovelace", accounts.registered[0].Name)
	})

	t.Run("with token signs in", func(t *testing.T) {
		r := newAuthEngine(t, &fakeAccounts{registerTok: "tok-new"}, &recordingCleaner{}, nil)

		w := post(r, "/login/register", form, "")
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		value, _ := cookieValue(w, "token")
		assert.Equal(t, "tok-new", value)
	})
}

func TestLogout(t *testing.T) {
	cleaner := &recordingCleaner{}
	pub := &recordingPublisher{}
	r := newAuthEngine(t, &fakeAccounts{}, cleaner, pub)

	w := post(r, "/logout", url.Values{}, "tok-1")
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	_, live := cookieValue(w, "token")
	assert.False(t, live)
	assert.Equal(t, []string{session.Key("tok-1")}, cleaner.cleared)
	assert.Equal(t, []string{"tok-1"}, cleaner.forgot)
	require.Len(t, pub.records, 1)
	assert.Equal(t, activity.TypeLogout, pub.records[0].Type)
}
