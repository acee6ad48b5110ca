package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kurimacye/marketplace/internal/service"
)

func GetID(c echo.Context) (uuid.UUID, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return uuid.Nil, errors.New("unauthorized")
	}

	userID, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, errors.New("unauthorized")
	}

	return userID, nil
}

func GetRole(c echo.Context) string {
	if role, ok := c.Get("role").(string); ok {
		return role
	}
	return ""
}

// httpError maps the service error taxonomy onto stable HTTP statuses,
// keeping the message so callers can react to the specific cause.
func httpError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrEmptyOrder),
		errors.Is(err, service.ErrInsufficientStock):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrPaymentBridge):
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
