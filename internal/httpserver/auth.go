package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kurimacye/marketplace/internal/logging"
	"github.com/kurimacye/marketplace/internal/service"
	"github.com/kurimacye/marketplace/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Name, req.Email, req.Password, req.Role)
	if err != nil {
		l.Warn("register_error", "error", err)
		return httpError(err)
	}

	l.Info("user registered", "user_id", user.ID, "role", user.Role)
	return c.JSON(http.StatusCreated, user)
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	token, user, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		l.Warn("login_error", "error", err)
		return httpError(err)
	}

	l.Info("login_success", "user_id", user.ID)
	return c.JSON(http.StatusOK, transport.TokenResponse{
		AccessToken: token,
		Role:        user.Role,
	})
}
