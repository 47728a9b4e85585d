package presets

import (
	"errors"
	"net/http"

	"eventdesk/internal/remote"
	"eventdesk/internal/session"
	"eventdesk/internal/shared/middleware"
	"eventdesk/internal/shared/utils/response"
	"eventdesk/internal/shared/utils/validation"
	"eventdesk/internal/viewstate"
	"eventdesk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller interface {
	Save(c *gin.Context)
	Apply(c *gin.Context)
	Delete(c *gin.Context)
}

type controller struct {
	service   Service
	store     viewstate.Store
	validator *validator.Validate
	log       *logger.Logger
}

func NewController(service Service, store viewstate.Store) Controller {
	return &controller{
		service:   service,
		store:     store,
		validator: validation.New(),
		log:       logger.GetDefault(),
	}
}

func (ctrl *controller) Save(c *gin.Context) {
	var req SavePresetRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, "Invalid preset form")
		return
	}
	if err := ctrl.validator.Struct(&req); err != nil {
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, "Give the preset a name of up to 100 characters")
		return
	}

	ctx := c.Request.Context()
	state, err := ctrl.store.Load(ctx, middleware.SessionKey(c))
	if err != nil {
		ctrl.log.ErrorWithContext(ctx, "load view state failed", err, map[string]interface{}{
			"request_id": c.GetString(middleware.ContextRequestID),
		})
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, "Could not save the preset, please try again")
		return
	}

	preset, err := ctrl.service.Save(ctx, middleware.Token(c), req.Name, state.Active)
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	response.RedirectWithFlash(c, session.DefaultRoute, response.FlashSuccess, "Saved preset \""+preset.Name+"\"")
}

func (ctrl *controller) Apply(c *gin.Context) {
	ctx := c.Request.Context()
	preset, err := ctrl.service.Get(ctx, middleware.Token(c), c.Param("id"))
	if err != nil {
		ctrl.fail(c, err)
		return
	}

	active := preset.Active()
	if err := ctrl.store.SaveFilters(ctx, middleware.SessionKey(c), active.Input(), active); err != nil {
		ctrl.log.ErrorWithContext(ctx, "save filters failed", err, map[string]interface{}{
			"request_id": c.GetString(middleware.ContextRequestID),
			"preset_id":  preset.ID.String(),
		})
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, "Could not apply the preset, please try again")
		return
	}

	response.RedirectWithFlash(c, session.DefaultRoute, response.FlashInfo, "Applied preset \""+preset.Name+"\"")
}

func (ctrl *controller) Delete(c *gin.Context) {
	if err := ctrl.service.Delete(c.Request.Context(), middleware.Token(c), c.Param("id")); err != nil {
		ctrl.fail(c, err)
		return
	}
	response.RedirectWithFlash(c, session.DefaultRoute, response.FlashSuccess, "Preset deleted")
}

func (ctrl *controller) fail(c *gin.Context, err error) {
	switch {
	case remote.IsAuth(err):
		middleware.ExpireSession(c)
	case errors.Is(err, ErrPresetNotFound),
		errors.Is(err, ErrDuplicateName),
		errors.Is(err, ErrEmptyFilter),
		errors.Is(err, ErrEmptyName):
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, validation.Capitalize(err.Error()))
	case remote.KindOf(err) != "":
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, remote.Message(err))
	default:
		ctrl.log.LogHTTPError(c, err, http.StatusInternalServerError)
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, "Something went wrong with presets, please try again")
	}
}
