package users

import (
	"context"
	"net/http"

	"eventdesk/internal/remote"
	"eventdesk/internal/session"
	"eventdesk/internal/shared/middleware"
	"eventdesk/internal/shared/utils/response"
	"eventdesk/internal/shared/utils/validation"
	"eventdesk/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// SessionCleaner drops per-session state once the account is gone.
type SessionCleaner interface {
	ClearSession(ctx context.Context, sessionKey string) error
}

type Controller interface {
	Show(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

type controller struct {
	service   Service
	sessions  SessionCleaner
	validator *validator.Validate
	log       *logger.Logger
}

func NewController(service Service, sessions SessionCleaner) Controller {
	return &controller{
		service:   service,
		sessions:  sessions,
		validator: validation.New(),
		log:       logger.GetDefault(),
	}
}

func (ctrl *controller) Show(c *gin.Context) {
	user, err := ctrl.service.Profile(c.Request.Context(), middleware.Token(c))
	if err != nil {
		if remote.IsAuth(err) {
			middleware.ExpireSession(c)
			return
		}
		response.RedirectWithFlash(c, session.DefaultRoute, response.FlashError, remote.Message(err))
		return
	}

	ctrl.render(c, http.StatusOK, user, FormFromUser(user), nil, nil)
}

func (ctrl *controller) Update(c *gin.Context) {
	ctx := c.Request.Context()
	token := middleware.Token(c)

	var form ProfileForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.render(c, http.StatusBadRequest, nil, form, validation.Messages(err), nil)
		return
	}
	form.Trim()
	if err := ctrl.validator.Struct(&form); err != nil {
		ctrl.render(c, http.StatusUnprocessableEntity, nil, form, validation.Messages(err), nil)
		return
	}

	if _, err := ctrl.service.UpdateProfile(ctx, token, c.GetString(middleware.ContextRequestID), form); err != nil {
		if remote.IsAuth(err) {
			middleware.ExpireSession(c)
			return
		}
		ctrl.log.LogHTTPError(c, err, http.StatusBadGateway)
		ctrl.render(c, http.StatusBadGateway, nil, form, nil, &response.Flash{Kind: response.FlashError, Message: remote.Message(err)})
		return
	}

	response.RedirectWithFlash(c, "/profile", response.FlashSuccess, "Profile updated")
}

func (ctrl *controller) Delete(c *gin.Context) {
	if c.PostForm("confirm") != "yes" {
		response.RedirectWithFlash(c, "/profile", response.FlashInfo, "Account deletion was not confirmed")
		return
	}

	ctx := c.Request.Context()
	token := middleware.Token(c)
	if err := ctrl.service.DeleteAccount(ctx, token, c.GetString(middleware.ContextRequestID)); err != nil {
		if remote.IsAuth(err) {
			middleware.ExpireSession(c)
			return
		}
		response.RedirectWithFlash(c, "/profile", response.FlashError, remote.Message(err))
		return
	}

	if err := ctrl.sessions.ClearSession(ctx, middleware.SessionKey(c)); err != nil {
		ctrl.log.WithError(err).WarnContext(ctx, "clear view state failed")
	}
	if creds, ok := session.FromContext(c); ok {
		_ = creds.Clear()
	}
	response.RedirectWithFlash(c, session.LoginRoute, response.FlashSuccess, "Your account has been deleted")
}

// render shows the profile page; user falls back to the cached profile.
func (ctrl *controller) render(c *gin.Context, code int, user *User, form ProfileForm, errs validation.FieldErrors, flash *response.Flash) {
	if user == nil {
		if u, err := ctrl.service.Profile(c.Request.Context(), middleware.Token(c)); err == nil {
			user = u
		} else {
			user = &User{Name: form.Name, Email: form.Email}
		}
	}
	data := gin.H{
		"Title":    "Profile",
		"User":     user,
		"Initials": Initials(user.Name),
		"Form":     form,
		"Errors":   errs,
	}
	if flash != nil {
		data["Flash"] = flash
	}
	response.RenderPage(c, code, "profile.html", data)
}
