package httpserver

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/kurimacye/marketplace/internal/logging"
	"github.com/kurimacye/marketplace/internal/service"
	"github.com/kurimacye/marketplace/internal/transport"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("get_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("add_to_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cart, err := h.Svc.AddItem(ctx, userID, GetRole(c), req.ProductID, req.Qty)
	if err != nil {
		l.Warn("add_to_cart_error", "error", err)
		return httpError(err)
	}

	l.Info("item added to cart", "product_id", req.ProductID)
	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) UpdateCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("update_cart_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_item_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Qty < 1 {
		return echo.NewHTTPError(http.StatusBadRequest, "qty must be >= 1")
	}

	cart, err := h.Svc.UpdateItemQty(ctx, userID, itemID, req.Qty)
	if err != nil {
		l.Warn("update_cart_item_error", "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHTTP) RemoveCartItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("remove_cart_item_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	cart, err := h.Svc.RemoveItem(ctx, userID, itemID)
	if err != nil {
		l.Error("remove_cart_item_error", "status", 500, "error", err)
		return httpError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

// MergeCart folds the guest cart sent by the client into the server
// cart after login. Per-line failures are reported, not fatal.
func (h *CartHTTP) MergeCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.merge")

	userID, err := GetID(c)
	if err != nil {
		l.Warn("merge_cart_error", "status", 401, "error", err)
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	var req transport.MergeCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("merge_cart_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	cart, failures, err := h.Svc.Merge(ctx, userID, GetRole(c), req.CartItems)
	if err != nil {
		l.Error("merge_cart_error", "status", 500, "error", err)
		return httpError(err)
	}

	l.Info("cart merged", "failed_lines", len(failures))
	return c.JSON(http.StatusOK, map[string]any{
		"cart":     cart,
		"failures": failures,
	})
}
