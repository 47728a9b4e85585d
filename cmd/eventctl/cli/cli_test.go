package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	mu       sync.Mutex
	searches []url.Values
	deleted  []string
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	events := []map[string]any{{
		"_id": "e1", "title": "Jazz Night", "date": "2099-06-01T20:30:00.000Z",
		"capacity": 80, "ticketPrice": 12.5, "location": "Blue Room", "description": "Live jazz",
	}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/users/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-cli"})
	})
	mux.HandleFunc("GET /api/users", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("access_token") != "tok-cli" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"user": map[string]string{"name": "Ada", "email": "ada@example.com"}})
	})
	mux.HandleFunc("GET /api/events", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(events)
	})
	mux.HandleFunc("GET /api/events/search", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.searches = append(f.searches, r.URL.Query())
		f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(events)
	})
	mux.HandleFunc("DELETE /api/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.deleted = append(f.deleted, r.PathValue("id"))
		f.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

type harness struct {
	api       *fakeAPI
	url       string
	tokenFile string
}

func newHarness(t *testing.T) *harness {
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	return &harness{api: api, url: srv.URL, tokenFile: filepath.Join(t.TempDir(), "token")}
}

func (h *harness) run(args ...string) (string, error) {
	root := NewRootCommand(VersionInfo{Version: "test", Commit: "none"})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(""))
	root.SetArgs(append([]string{"--api-url", h.url, "--token-file", h.tokenFile}, args...))
	err := root.Execute()
	return out.String(), err
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	t.Setenv("EVENTCTL_PASSWORD", "secret1")
	_, err := h.run("login", "--email", "ada@example.com")
	require.NoError(t, err)
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	_, err := h.run("whoami")
	assert.ErrorIs(t, err, errNotLoggedIn)

	h.login(t)
	data, err := os.ReadFile(h.tokenFile)
	require.NoError(t, err)
	assert.Equal(t, "tok-cli", string(data))

	out, err := h.run("whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "ada@example.com")

	out, err = h.run("logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	_, err = os.Stat(h.tokenFile)
	assert.True(t, os.IsNotExist(err))
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)
	t.Setenv("EVENTCTL_PASSWORD", "wrong")

	_, err := h.run("login", "--email", "ada@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid email or password")
	_, statErr := os.Stat(h.tokenFile)
	assert.True(t, os.IsNotExist(statErr))
}

func TestLogin_PasswordFromStdin(t *testing.T) {
	h := newHarness(t)

	root := NewRootCommand(VersionInfo{})
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetIn(strings.NewReader("secret1\n"))
	root.SetArgs([]string{"--api-url", h.url, "--token-file", h.tokenFile, "login", "-e", "ada@example.com", "--password-stdin"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "Logged in as ada@example.com")
}

func TestEventsList(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	out, err := h.run("events", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "TITLE")
	assert.Contains(t, out, "Jazz Night")
	assert.Contains(t, out, "$12.50")
	assert.Contains(t, out, "June 1, 2099")
}

func TestEventsSearch(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	t.Run("uses the search endpoint with composed query", func(t *testing.T) {
		_, err := h.run("events", "search", "-q", "jazz", "--to", "2024-06-30")
		require.NoError(t, err)
		require.Len(t, h.api.searches, 1)
		assert.Equal(t, "jazz", h.api.searches[0].Get("q"))
		assert.Equal(t, "2024-06-30T23:59", h.api.searches[0].Get("endDate"))
	})

	t.Run("no constraints lists all", func(t *testing.T) {
		out, err := h.run("events", "search")
		require.NoError(t, err)
		assert.Contains(t, out, "Jazz Night")
		assert.Len(t, h.api.searches, 1)
	})

	t.Run("inverted range is rejected before any call", func(t *testing.T) {
		_, err := h.run("events", "search", "--from", "2024-06-10", "--to", "2024-06-01")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "end date must not be before start date")
		assert.Len(t, h.api.searches, 1)
	})
}

func TestEventsDelete(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	_, err := h.run("events", "delete", "e1")
	require.Error(t, err)
	assert.Empty(t, h.api.deleted)

	out, err := h.run("events", "delete", "e1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted e1")
	assert.Equal(t, []string{"e1"}, h.api.deleted)
}

func TestExpiredTokenIsCleared(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, os.WriteFile(h.tokenFile, []byte("stale"), 0o600))

	_, err := h.run("whoami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "session expired")
	_, statErr := os.Stat(h.tokenFile)
	assert.True(t, os.IsNotExist(statErr))
}
