package events

import (
	"context"
	"errors"
	"net/http"
	"time"

	"eventdesk/internal/filters"
	"eventdesk/internal/presets"
	"eventdesk/internal/remote"
	"eventdesk/internal/session"
	"eventdesk/internal/shared/middleware"
	"eventdesk/internal/shared/utils/response"
	"eventdesk/internal/shared/utils/validation"
	"eventdesk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// PresetLister supplies the saved filters shown beside the listing.
type PresetLister interface {
	List(ctx context.Context, token string) ([]presets.PresetResponse, error)
}

type Controller interface {
	// Pages
	Index(c *gin.Context)
	ApplyFilters(c *gin.Context)
	ResetFilters(c *gin.Context)
	NewEvent(c *gin.Context)
	CreateEvent(c *gin.Context)
	EditEvent(c *gin.Context)
	UpdateEvent(c *gin.Context)
	DeleteEvent(c *gin.Context)

	// JSON
	Feed(c *gin.Context)
}

type controller struct {
	service   Service
	presets   PresetLister
	validator *validator.Validate
	log       *logger.Logger
	now       func() time.Time
}

// NewController builds the listing controller. lister may be nil when
// saved filters are disabled.
func NewController(service Service, lister PresetLister) Controller {
	v := validation.New()
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return &controller{
		service:   service,
		presets:   lister,
		validator: v,
		log:       logger.GetDefault(),
		now:       time.Now,
	}
}

type indexView struct {
	listing     *Listing
	fetchError  string
	filterError string
	stale       bool
}

func (ctrl *controller) Index(c *gin.Context) {
	ctx := c.Request.Context()
	listing, err := ctrl.service.Refresh(ctx, middleware.SessionKey(c), middleware.Token(c))

	view := indexView{listing: listing}
	switch {
	case err == nil:
	case errors.Is(err, ErrStaleListing):
		view.stale = true
	case remote.IsAuth(err):
		middleware.ExpireSession(c)
		return
	case listing != nil:
		view.fetchError = remote.Message(err)
	default:
		ctrl.log.LogHTTPError(c, err, http.StatusInternalServerError)
		view.listing = &Listing{Events: []Event{}}
		view.fetchError = "Could not load events, please try again"
	}

	ctrl.renderIndex(c, http.StatusOK, view)
}

func (ctrl *controller) ApplyFilters(c *gin.Context) {
	ctx := c.Request.Context()
	key := middleware.SessionKey(c)

	if err := c.Request.ParseForm(); err != nil {
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, "Invalid filter form")
		return
	}

	state, err := ctrl.service.State(ctx, key)
	if err != nil {
		ctrl.log.ErrorWithContext(ctx, "load view state failed", err, map[string]interface{}{
			"request_id": c.GetString(middleware.ContextRequestID),
			"path":       c.Request.URL.Path,
		})
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, "Could not apply filters, please try again")
		return
	}

	draft := filters.ParseForm(c.Request.PostForm, state.Draft)
	if _, err := ctrl.service.ApplyFilters(ctx, key, draft); err != nil {
		var verr *filters.ValidationError
		if errors.As(err, &verr) {
			// previous filter and collection stay; nothing is fetched
			ctrl.renderIndex(c, http.StatusUnprocessableEntity, indexView{
				listing: &Listing{
					Events:      nonNil(state.Events),
					Draft:       draft,
					Active:      state.Active,
					Mode:        filters.PlanFetch(state.Active).Mode,
					Ticket:      state.Ticket,
					RefreshedAt: state.RefreshedAt,
				},
				filterError: validation.Capitalize(verr.Error()),
			})
			return
		}
		ctrl.log.ErrorWithContext(ctx, "apply filters failed", err, map[string]interface{}{
			"request_id": c.GetString(middleware.ContextRequestID),
		})
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, "Could not apply filters, please try again")
		return
	}

	c.Redirect(http.StatusSeeOther, session.DefaultRoute)
}

func (ctrl *controller) ResetFilters(c *gin.Context) {
	if err := ctrl.service.ResetFilters(c.Request.Context(), middleware.SessionKey(c)); err != nil {
		ctrl.log.WithError(err).ErrorContext(c.Request.Context(), "reset filters failed")
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, "Could not clear filters, please try again")
		return
	}
	c.Redirect(http.StatusSeeOther, session.DefaultRoute)
}

func (ctrl *controller) NewEvent(c *gin.Context) {
	ctrl.renderForm(c, http.StatusOK, "", EventForm{}, nil, nil)
}

func (ctrl *controller) CreateEvent(c *gin.Context) {
	form, errs := ctrl.bindForm(c)
	if errs != nil {
		ctrl.renderForm(c, http.StatusUnprocessableEntity, "", form, errs, nil)
		return
	}

	event, err := ctrl.service.CreateEvent(c.Request.Context(), actorFrom(c), form)
	if err != nil {
		if remote.IsAuth(err) {
			middleware.ExpireSession(c)
			return
		}
		ctrl.log.LogHTTPError(c, err, http.StatusBadGateway)
		ctrl.renderForm(c, http.StatusBadGateway, "", form, nil, errorFlash(err))
		return
	}

	response.RedirectWithFlash(c, session.DefaultRoute, response.FlashSuccess, "Created \""+event.Title+"\"")
}

func (ctrl *controller) EditEvent(c *gin.Context) {
	event, err := ctrl.service.GetEvent(c.Request.Context(), middleware.Token(c), c.Param("id"))
	if err != nil {
		if remote.IsAuth(err) {
			middleware.ExpireSession(c)
			return
		}
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, remote.Message(err))
		return
	}

	ctrl.renderForm(c, http.StatusOK, event.ID, FormFromEvent(*event), nil, nil)
}

func (ctrl *controller) UpdateEvent(c *gin.Context) {
	id := c.Param("id")
	form, errs := ctrl.bindForm(c)
	if errs != nil {
		ctrl.renderForm(c, http.StatusUnprocessableEntity, id, form, errs, nil)
		return
	}

	event, err := ctrl.service.UpdateEvent(c.Request.Context(), actorFrom(c), id, form)
	if err != nil {
		switch {
		case remote.IsAuth(err):
			middleware.ExpireSession(c)
		case errors.Is(err, ErrEventNotFound):
			response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, "That event no longer exists")
		default:
			ctrl.log.LogHTTPError(c, err, http.StatusBadGateway)
			ctrl.renderForm(c, http.StatusBadGateway, id, form, nil, errorFlash(err))
		}
		return
	}

	response.RedirectWithFlash(c, session.DefaultRoute, response.FlashSuccess, "Updated \""+event.Title+"\"")
}

func (ctrl *controller) DeleteEvent(c *gin.Context) {
	if c.PostForm("confirm") != "yes" {
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashInfo, "Deletion was not confirmed")
		return
	}

	err := ctrl.service.DeleteEvent(c.Request.Context(), actorFrom(c), c.Param("id"))
	switch {
	case err == nil:
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashSuccess, "Event deleted")
	case remote.IsAuth(err):
		middleware.ExpireSession(c)
	case errors.Is(err, ErrEventNotFound):
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, "That event no longer exists")
	default:
		ctrl.log.LogHTTPError(c, err, http.StatusBadGateway)
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, remote.Message(err)+". Please try again.")
	}
}

// Feed serves the listing as JSON. Filter fields in the query string are
// applied first, using the same rules as the filter panel.
func (ctrl *controller) Feed(c *gin.Context) {
	ctx := c.Request.Context()
	key := middleware.SessionKey(c)

	if hasFilterFields(c) {
		state, err := ctrl.service.State(ctx, key)
		if err != nil {
			ctrl.log.LogHTTPError(c, err, http.StatusInternalServerError)
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load filters", nil, nil)
			return
		}
		draft := filters.ParseForm(c.Request.URL.Query(), state.Draft)
		if _, err := ctrl.service.ApplyFilters(ctx, key, draft); err != nil {
			var verr *filters.ValidationError
			if errors.As(err, &verr) {
				response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid filter", nil, gin.H{
					"code":  verr.Code,
					"field": verr.Field,
					"error": verr.Error(),
				})
				return
			}
			ctrl.log.LogHTTPError(c, err, http.StatusInternalServerError)
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to apply filters", nil, nil)
			return
		}
	}

	listing, err := ctrl.service.Refresh(ctx, key, middleware.Token(c))
	switch {
	case err == nil:
		response.RespondJSON(c, "success", http.StatusOK, "Events retrieved successfully", listing, nil)
	case errors.Is(err, ErrStaleListing):
		response.RespondJSON(c, "error", http.StatusConflict, "Superseded by a newer request", listing, nil)
	case remote.IsAuth(err):
		middleware.ExpireSession(c)
	case remote.KindOf(err) != "":
		response.RespondJSON(c, "error", http.StatusBadGateway, remote.Message(err), listing, nil)
	default:
		ctrl.log.LogHTTPError(c, err, http.StatusInternalServerError)
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to load events", nil, nil)
	}
}

func hasFilterFields(c *gin.Context) bool {
	q := c.Request.URL.Query()
	for _, field := range []string{
		filters.FieldSearchTerm, filters.FieldStartDate, filters.FieldStartTime,
		filters.FieldEndDate, filters.FieldEndTime, filters.FieldMinPrice, filters.FieldMaxPrice,
	} {
		if _, ok := q[field]; ok {
			return true
		}
	}
	return false
}

func (ctrl *controller) bindForm(c *gin.Context) (EventForm, validation.FieldErrors) {
	var form EventForm
	if err := c.ShouldBind(&form); err != nil {
		return form, validation.Messages(err)
	}
	form.Trim()
	if err := ctrl.validator.Struct(&form); err != nil {
		return form, validation.Messages(err)
	}
	return form, nil
}

func (ctrl *controller) renderIndex(c *gin.Context, code int, view indexView) {
	listing := view.listing
	data := gin.H{
		"Title":       "Events",
		"Draft":       listing.Draft,
		"SearchTerm":  listing.Draft.Term(),
		"Active":      listing.Active,
		"Filtered":    filters.HasActiveConstraints(listing.Active),
		"Summary":     presets.Summarize(listing.Active),
		"Cards":       NewCards(listing.Events, ctrl.now()),
		"FetchError":  view.fetchError,
		"FilterError": view.filterError,
		"Stale":       view.stale,
	}

	if ctrl.presets != nil {
		list, err := ctrl.presets.List(c.Request.Context(), middleware.Token(c))
		if err != nil {
			ctrl.log.WithError(err).WarnContext(c.Request.Context(), "list presets failed")
		}
		data["Presets"] = list
		data["PresetsEnabled"] = true
	}

	response.RenderPage(c, code, "index.html", data)
}

func (ctrl *controller) renderForm(c *gin.Context, code int, id string, form EventForm, errs validation.FieldErrors, flash *response.Flash) {
	title := "New event"
	action := "/events"
	if id != "" {
		title = "Edit event"
		action = "/events/" + id
	}
	data := gin.H{
		"Title":  title,
		"Action": action,
		"Form":   form,
		"Errors": errs,
	}
	if flash != nil {
		data["Flash"] = flash
	}
	response.RenderPage(c, code, "event_form.html", data)
}

func actorFrom(c *gin.Context) Actor {
	return Actor{
		Token:     middleware.Token(c),
		UserID:    c.GetString(middleware.ContextUserID),
		RequestID: c.GetString(middleware.ContextRequestID),
	}
}

func errorFlash(err error) *response.Flash {
	return &response.Flash{Kind: response.FlashError, Message: remote.Message(err) + ". Your changes were kept, please try again."}
}
