package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kurimacye/marketplace/internal/logging"
	"github.com/kurimacye/marketplace/internal/models"
	"github.com/kurimacye/marketplace/internal/service"
	"github.com/kurimacye/marketplace/internal/transport"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("create_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.PlaceOrder(ctx, userID, req.ShippingAddress, req.PaymentMethod, req.ShippingPrice)
	if err != nil {
		l.Warn("create_order_error", "error", err)
		return httpError(err)
	}

	l.Info("order created", "order_id", order.ID, "total", order.TotalPrice)
	return c.JSON(http.StatusCreated, order)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("get_order_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	order, err := h.Svc.GetOrder(ctx, orderID, userID, GetRole(c))
	if err != nil {
		l.Warn("get_order_error", "order_id", orderID, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) GetMyOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.my_orders")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("my_orders_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Svc.ListMyOrders(ctx, userID)
	if err != nil {
		l.Error("my_orders_error", "status", 500, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

// GetOrders serves the admin and seller dashboards; the service scopes
// what each role sees.
func (h *OrderHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("list_orders_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orders, err := h.Svc.ListOrders(ctx, userID, GetRole(c))
	if err != nil {
		l.Warn("list_orders_error", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) UpdateOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.SetOrderStatus(ctx, orderID, models.OrderStatus(req.Status))
	if err != nil {
		l.Warn("update_status_error", "order_id", orderID, "error", err)
		return httpError(err)
	}

	l.Info("order status updated", "order_id", orderID, "status", order.OrderStatus)
	return c.JSON(http.StatusOK, order)
}

func (h *OrderHTTP) UpdateShippingStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_shipping")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("update_shipping_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid order id")
	}

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_shipping_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.SetShippingStatus(ctx, orderID, userID, GetRole(c), models.ShippingStatus(req.Status))
	if err != nil {
		l.Warn("update_shipping_error", "order_id", orderID, "error", err)
		return httpError(err)
	}

	l.Info("shipping status updated", "order_id", orderID, "status", order.ShippingStatus)
	return c.JSON(http.StatusOK, order)
}
