package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"eventdesk/internal/presets"
	"eventdesk/internal/remote"
	"eventdesk/internal/session"
	"eventdesk/internal/shared/middleware"
	"eventdesk/internal/viewstate"
	"eventdesk/web"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPresets []presets.PresetResponse

func (s stubPresets) List(context.Context, string) ([]presets.PresetResponse, error) {
	return s, nil
}

func newTestEngine(t *testing.T, repo *fakeRepo, lister PresetLister) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	tmpl, err := web.Templates()
	require.NoError(t, err)

	r := gin.New()
	r.SetHTMLTemplate(tmpl)
	r.Use(middleware.RequestID(), middleware.SessionGate(session.CookieConfig{Name: "token", MaxAge: time.Hour}))

	ctrl := NewController(NewService(repo, viewstate.NewMemoryStore()), lister)
	SetupEventPages(r, ctrl)
	SetupEventAPI(r.Group("/api/v1"), ctrl)
	return r
}

func serve(r http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req.AddCookie(&http.Cookie{Name: "token", Value: "tok"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIndex_RendersListing(t *testing.T) {
	repo := &fakeRepo{list: func(int) ([]remote.Event, error) {
		return []remote.Event{{ID: "e1", Title: "Jazz Night", Date: "2099-06-01T20:30:00.000Z", Capacity: 120, Location: "Blue Room"}}, nil
	}}
	r := newTestEngine(t, repo, stubPresets{{ID: "p1", Name: "Cheap jazz"}})

	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Jazz Night")
	assert.Contains(t, body, "120 attendees")
	assert.Contains(t, body, "Free")
	assert.Contains(t, body, "Cheap jazz")
	assert.Equal(t, 1, repo.listCalls)
	assert.Equal(t, "tok", repo.lastToken)
}

func TestApplyFilters_SearchesOnNextLoad(t *testing.T) {
	repo := &fakeRepo{}
	r := newTestEngine(t, repo, nil)

	w := serve(r, http.MethodPost, "/filters/apply", url.Values{"searchTerm": {"jazz"}, "maxPrice": {"20"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	w = serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, repo.searchCalls, 1)
	assert.Equal(t, "jazz", repo.searchCalls[0].Get("q"))
	assert.Equal(t, "20", repo.searchCalls[0].Get("maxPrice"))
	assert.Equal(t, 0, repo.listCalls)
}

func TestApplyFilters_InvertedRangeKeepsPreviousFilter(t *testing.T) {
	repo := &fakeRepo{}
	r := newTestEngine(t, repo, nil)

	w := serve(r, http.MethodPost, "/filters/apply", url.Values{
		"startDate": {"2024-06-10"},
		"endDate":   {"2024-06-01"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "End date must not be before start date")
	assert.Equal(t, 0, repo.listCalls)
	assert.Empty(t, repo.searchCalls)

	serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, 1, repo.listCalls)
	assert.Empty(t, repo.searchCalls)
}

func TestController_ResetFilters(t *testing.T) {
	repo := &fakeRepo{}
	r := newTestEngine(t, repo, nil)

	serve(r, http.MethodPost, "/filters/apply", url.Values{"searchTerm": {"jazz"}})
	w := serve(r, http.MethodPost, "/filters/reset", url.Values{})
	require.Equal(t, http.StatusSeeOther, w.Code)

	serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, 1, repo.listCalls)
	assert.Empty(t, repo.searchCalls)
}

func TestIndex_FetchFailureShowsRetry(t *testing.T) {
	repo := &fakeRepo{list: func(int) ([]remote.Event, error) {
		return nil, &remote.Error{Kind: remote.KindNetwork, Op: "events.list"}
	}}
	r := newTestEngine(t, repo, nil)

	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "The events service could not be reached")
	assert.Contains(t, w.Body.String(), "Retry")
}

func TestIndex_AuthFailureExpiresSession(t *testing.T) {
	repo := &fakeRepo{list: func(int) ([]remote.Event, error) {
		return nil, &remote.Error{Kind: remote.KindAuth, Status: http.StatusUnauthorized}
	}}
	r := newTestEngine(t, repo, nil)

	w := serve(r, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "token" && c.MaxAge < 0 {
			cleared = true
		}
	}
	assert.True(t, cleared, "token cookie should be cleared")
}

func TestFeed(t *testing.T) {
	repo := &fakeRepo{}
	r := newTestEngine(t, repo, nil)

	t.Run("lists as json", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/v1/events", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data Listing `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.Data.Events, 1)
		assert.Equal(t, "all", body.Data.Events[0].ID)
	})

	t.Run("query filters search", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/v1/events?searchTerm=jazz", nil)
		require.Equal(t, http.StatusOK, w.Code)
		require.NotEmpty(t, repo.searchCalls)
		assert.Equal(t, "jazz", repo.searchCalls[len(repo.searchCalls)-1].Get("q"))
	})

	t.Run("invalid filter is 400", func(t *testing.T) {
		w := serve(r, http.MethodGet, "/api/v1/events?startDate=2024-06-10&endDate=2024-06-01", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "inverted_range")
	})
}

func TestCreateEvent(t *testing.T) {
	t.Run("invalid form re-renders with errors", func(t *testing.T) {
		repo := &fakeRepo{}
		r := newTestEngine(t, repo, nil)

		w := serve(r, http.MethodPost, "/events", url.Values{"title": {"Jazz Night"}, "capacity": {"0"}})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		body := w.Body.String()
		assert.Contains(t, body, "Capacity must be a whole number of at least 1")
		assert.Contains(t, body, "Location is required")
		assert.Contains(t, body, `value="Jazz Night"`)
		assert.Empty(t, repo.created)
	})

	t.Run("valid form creates and redirects", func(t *testing.T) {
		repo := &fakeRepo{}
		r := newTestEngine(t, repo, nil)

		f := validForm()
		w := serve(r, http.MethodPost, "/events", url.Values{
			"title":       {f.Title},
			"date":        {f.Date},
			"capacity":    {f.Capacity},
			"ticketPrice": {f.TicketPrice},
			"location":    {f.Location},
			"description": {f.Description},
		})
		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		require.Len(t, repo.created, 1)
		assert.Equal(t, 120, repo.created[0].Capacity)
	})
}

func TestDeleteEvent_RequiresConfirmation(t *testing.T) {
	repo := &fakeRepo{}
	r := newTestEngine(t, repo, nil)

	w := serve(r, http.MethodPost, "/events/e1/delete", url.Values{})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Empty(t, repo.deleted)

	w = serve(r, http.MethodPost, "/events/e1/delete", url.Values{"confirm": {"yes"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, []string{"e1"}, repo.deleted)
}
