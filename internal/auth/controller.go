package auth

import (
	"errors"
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

const modeRegister = "register"

type Controller struct {
	service   Service
	validator *validator.Validate
	log       *logger.Logger
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validation.New(),
		log:       logger.GetDefault(),
	}
}

func (ctrl *Controller) ShowLogin(c *gin.Context) {
	if c.Query("mode") == modeRegister {
		ctrl.render(c, http.StatusOK, modeRegister, RegisterForm{}, nil, nil)
		return
	}
	ctrl.render(c, http.StatusOK, "", LoginForm{}, nil, nil)
}

func (ctrl *Controller) Login(c *gin.Context) {
	var form LoginForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.render(c, http.StatusBadRequest, "", form, validation.Messages(err), nil)
		return
	}
	form.Trim()
	if err := ctrl.validator.Struct(&form); err != nil {
		ctrl.render(c, http.StatusUnprocessableEntity, "", LoginForm{Email: form.Email}, validation.Messages(err), nil)
		return
	}

	token, err := ctrl.service.Login(c.Request.Context(), form, c.GetString(middleware.ContextRequestID))
	if err != nil {
		ctrl.log.LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
		code, flash := loginFailure(err)
		ctrl.render(c, code, "", LoginForm{Email: form.Email}, nil, flash)
		return
	}

	if !ctrl.storeToken(c, token) {
		return
	}
	response.RedirectWithFlash(c, session.DefaultRoute, response.FlashSuccess, "Welcome back")
}

func (ctrl *Controller) Register(c *gin.Context) {
	var form RegisterForm
	if err := c.ShouldBind(&form); err != nil {
		ctrl.render(c, http.StatusBadRequest, modeRegister, form.redacted(), validation.Messages(err), nil)
		return
	}
	form.Trim()
	if err := ctrl.validator.Struct(&form); err != nil {
		ctrl.render(c, http.StatusUnprocessableEntity, modeRegister, form.redacted(), validation.Messages(err), nil)
		return
	}

	token, err := ctrl.service.Register(c.Request.Context(), form, c.GetString(middleware.ContextRequestID))
	if err != nil {
		ctrl.log.LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
		code := http.StatusBadGateway
		if remote.KindOf(err) == remote.KindValidation {
			code = http.StatusUnprocessableEntity
		}
		ctrl.render(c, code, modeRegister, form.redacted(), nil, &response.Flash{Kind: response.FlashError, Message: remote.Message(err)})
		return
	}

	if token == "" {
		response.RedirectWithFlash(c, session.LoginRoute, response.FlashSuccess, "Account created, you can now log in")
		return
	}
	if !ctrl.storeToken(c, token) {
		return
	}
	response.RedirectWithFlash(c, session.DefaultRoute, response.FlashSuccess, "Welcome to Eventdesk")
}

func (ctrl *Controller) Logout(c *gin.Context) {
	ctrl.service.Logout(c.Request.Context(), middleware.Token(c), c.GetString(middleware.ContextRequestID))
	if creds, ok := session.FromContext(c); ok {
		if err := creds.Clear(); err != nil {
			ctrl.log.WithError(err).WarnContext(c.Request.Context(), "clear credential failed")
		}
	}
	response.RedirectWithFlash(c, session.LoginRoute, response.FlashInfo, "You have been logged out")
}

func (ctrl *Controller) storeToken(c *gin.Context, token string) bool {
	creds, ok := session.FromContext(c)
	if !ok {
		ctrl.log.ErrorContext(c.Request.Context(), "no credential store bound to request")
		ctrl.render(c, http.StatusInternalServerError, "", LoginForm{}, nil, &response.Flash{Kind: response.FlashError, Message: "Could not sign you in, please try again"})
		return false
	}
	if err := creds.Set(token); err != nil {
		ctrl.log.WithError(err).ErrorContext(c.Request.Context(), "store credential failed")
		ctrl.render(c, http.StatusInternalServerError, "", LoginForm{}, nil, &response.Flash{Kind: response.FlashError, Message: "Could not sign you in, please try again"})
		return false
	}
	return true
}

func (ctrl *Controller) render(c *gin.Context, code int, mode string, form any, errs validation.FieldErrors, flash *response.Flash) {
	title := "Log in"
	if mode == modeRegister {
		title = "Register"
	}
	data := gin.H{
		"Title":  title,
		"Mode":   mode,
		"Form":   form,
		"Errors": errs,
	}
	if flash != nil {
		data["Flash"] = flash
	}
	response.RenderPage(c, code, "login.html", data)
}

func loginFailure(err error) (int, *response.Flash) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized, &response.Flash{Kind: response.FlashError, Message: "Invalid email or password"}
	case errors.Is(err, ErrMissingToken):
		return http.StatusBadGateway, &response.Flash{Kind: response.FlashError, Message: "The events service did not return a session"}
	default:
		return http.StatusBadGateway, &response.Flash{Kind: response.FlashError, Message: remote.Message(err)}
	}
}

// redacted drops the passwords before the form is rendered back.
func (f RegisterForm) redacted() RegisterForm {
	f.Password = ""
	f.ConfirmPassword = ""
	return f
}
