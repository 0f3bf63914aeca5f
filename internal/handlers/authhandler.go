package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/nextstep-web/internal/dtos"
	"github.com/justsurfingit/nextstep-web/internal/services"
	"github.com/justsurfingit/nextstep-web/internal/session"
	"github.com/justsurfingit/nextstep-web/internal/views"
)

type AuthHandler struct {
	AuthService *services.AuthService
}

func NewAuthHandler(a *services.AuthService) *AuthHandler {
	return &AuthHandler{AuthService: a}
}

func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, views.LoginTemplate, views.LoginPage{
		Page: views.NewPage("Login", session.FromGin(c).Current()),
	})
}

// Login is POST /login. On success the browser lands on the job list.
func (h *AuthHandler) Login(c *gin.Context) {
	sc := session.FromGin(c)
	var form dtos.LoginForm
	err := c.ShouldBind(&form)
	if err == nil {
		err = h.AuthService.Login(c.Request.Context(), sc, form.Username, form.Password)
	}
	if err != nil {
		slog.Info("login failed", slog.String("username", form.Username), slog.String("error", err.Error()))
		page := views.LoginPage{Page: views.NewPage("Login", sc.Current()), Username: form.Username}
		page.Error = msgLoginFailed
		c.HTML(failureStatus(err), views.LoginTemplate, page)
		return
	}

	slog.Info("login", slog.String("username", sc.Current().Username), slog.String("role", sc.Current().Role))
	c.Redirect(http.StatusSeeOther, "/browse")
}

// Logout is POST /logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.AuthService.Logout(c.Request.Context(), session.FromGin(c)); err != nil {
		slog.Warn("logout failed", slog.String("error", err.Error()))
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.HTML(http.StatusOK, views.RegisterTemplate, views.RegisterPage{
		Page: views.NewPage("Register", session.FromGin(c).Current()),
	})
}

// Register is POST /register. A password mismatch is reported before any
// other validation and never reaches the backend.
func (h *AuthHandler) Register(c *gin.Context) {
	page := views.RegisterPage{Page: views.NewPage("Register", session.FromGin(c).Current())}
	var form dtos.RegisterForm
	bindErr := c.ShouldBind(&form)

	var err error
	if bindErr != nil && form.Password == form.Confirm {
		err = bindErr
	} else {
		err = h.AuthService.Register(c.Request.Context(), form)
	}

	if err != nil {
		form.Password, form.Confirm = "", ""
		page.Form = form
		switch {
		case errors.Is(err, services.ErrPasswordMismatch):
			page.Error = msgPasswordMismatch
		case errors.Is(err, services.ErrInvalidUCID):
			page.Error = msgInvalidUCID
		default:
			slog.Info("registration failed", slog.String("username", form.Username), slog.String("error", err.Error()))
			page.Error = msgRegisterFailed
		}
		c.HTML(failureStatus(err), views.RegisterTemplate, page)
		return
	}

	page.Message = msgRegistered
	c.HTML(http.StatusOK, views.RegisterTemplate, page)
}
