package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	authmw "github.com/kurimacye/marketplace/internal/middleware/auth"
	"github.com/kurimacye/marketplace/internal/models"
)

type Deps struct {
	AuthHandler    *AuthHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	PaymentHandler *PaymentHTTP
	JWTMiddleware  echo.MiddlewareFunc
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	api := e.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)

	cart := api.Group("/cart", d.JWTMiddleware)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.POST("/merge", d.CartHandler.MergeCart)
	cart.PUT("/:id", d.CartHandler.UpdateCartItem)
	cart.DELETE("/:id", d.CartHandler.RemoveCartItem)

	orders := api.Group("/orders", d.JWTMiddleware)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.GetOrders, authmw.RequireRole(models.RoleSeller, models.RoleAdmin))
	orders.GET("/myorders", d.OrderHandler.GetMyOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.PUT("/:id/status", d.OrderHandler.UpdateOrderStatus, authmw.RequireAdmin)
	orders.PUT("/:id/shipping", d.OrderHandler.UpdateShippingStatus, authmw.RequireRole(models.RoleSeller, models.RoleAdmin))

	payments := api.Group("/payments", d.JWTMiddleware)
	payments.POST("/momo", d.PaymentHandler.PayWithMoMo)
	payments.POST("/stripe", d.PaymentHandler.PayWithStripe)
}
