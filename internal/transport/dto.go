package transport

import (
	"github.com/google/uuid"

	"github.com/kurimacye/marketplace/internal/models"
	"github.com/kurimacye/marketplace/internal/service"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
}

type AddToCartRequest struct {
	ProductID uuid.UUID `json:"productId"`
	Qty       int       `json:"qty"`
}

type UpdateCartItemRequest struct {
	Qty int `json:"qty"`
}

type MergeCartRequest struct {
	CartItems []service.MergeLine `json:"cartItems"`
}

// PlaceOrderRequest mirrors the original wire body. The client-derived
// item list and itemsPrice/totalPrice are advisory; the ledger builds
// the order from the server-held cart and recomputes totals.
type PlaceOrderRequest struct {
	OrderItems      []PlaceOrderItem       `json:"orderItems"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	PaymentMethod   string                 `json:"paymentMethod"`
	ItemsPrice      float64                `json:"itemsPrice"`
	ShippingPrice   float64                `json:"shippingPrice"`
	TotalPrice      float64                `json:"totalPrice"`
}

type PlaceOrderItem struct {
	ProductID uuid.UUID `json:"product"`
	Name      string    `json:"name"`
	Image     string    `json:"image"`
	Price     float64   `json:"price"`
	Qty       int       `json:"qty"`
	SellerID  uuid.UUID `json:"seller"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type MoMoPaymentRequest struct {
	OrderID     uuid.UUID `json:"orderId"`
	PhoneNumber string    `json:"phoneNumber"`
}

type StripePaymentRequest struct {
	OrderID   uuid.UUID `json:"orderId"`
	PaymentID string    `json:"paymentId"`
}
