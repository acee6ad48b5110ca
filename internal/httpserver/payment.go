package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kurimacye/marketplace/internal/logging"
	"github.com/kurimacye/marketplace/internal/service"
	"github.com/kurimacye/marketplace/internal/transport"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

func (h *PaymentHTTP) PayWithMoMo(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.momo")

	var req transport.MoMoPaymentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("momo_payment_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.PayWithMoMo(ctx, req.OrderID, req.PhoneNumber)
	if err != nil {
		l.Warn("momo_payment_error", "order_id", req.OrderID, "error", err)
		return httpError(err)
	}

	l.Info("momo payment recorded", "order_id", order.ID, "payment", order.PaymentResult.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *PaymentHTTP) PayWithStripe(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.stripe")

	var req transport.StripePaymentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("stripe_payment_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.PayWithStripe(ctx, req.OrderID, req.PaymentID)
	if err != nil {
		l.Warn("stripe_payment_error", "order_id", req.OrderID, "error", err)
		return httpError(err)
	}

	l.Info("stripe payment recorded", "order_id", order.ID, "payment", order.PaymentResult.ID)
	return c.JSON(http.StatusOK, order)
}
