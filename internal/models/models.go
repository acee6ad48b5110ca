package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

type ShippingStatus string

const (
	ShippingStatusNotShipped ShippingStatus = "NOT_SHIPPED"
	ShippingStatusInTransit  ShippingStatus = "IN_TRANSIT"
	ShippingStatusDelivered  ShippingStatus = "DELIVERED"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	Name         string    `gorm:"not null"                  json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	Role         string    `gorm:"not null;default:customer" json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Product is owned by the catalog; this engine reads price/seller and
// contends over the stock counter only.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Name          string    `gorm:"not null"                 json:"name"`
	Description   string    `json:"description"`
	Price         float64   `gorm:"not null"                 json:"price"`
	Stock         int       `gorm:"not null;default:0;check:stock>=0" json:"stock"`
	Category      string    `json:"category"`
	ImageURL      string    `json:"imageUrl"`
	SellerID      uuid.UUID `gorm:"type:uuid;index;not null" json:"sellerId"`
	AverageRating float64   `json:"averageRating"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Cart struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"           json:"id"`
	UserID    uuid.UUID  `gorm:"type:uuid;uniqueIndex;not null" json:"user"`
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"cartItems"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// CartItem snapshots name/price/image/seller from the catalog at add
// time. Qty is the only field mutated afterwards.
type CartItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	CartID    uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"       json:"product"`
	Name      string    `gorm:"not null"                 json:"name"`
	Image     string    `json:"image"`
	Price     float64   `gorm:"not null"                 json:"price"`
	Qty       int       `gorm:"default:1"                json:"qty"`
	SellerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"seller"`
}

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type PaymentResult struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	UpdateTime string `json:"update_time"`
}

// Order is the immutable receipt cut from a cart. Only status
// transitions and payment confirmation touch it after creation.
type Order struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"     json:"id"`
	CustomerID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"customer"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"orderItems"`
	ShippingAddress ShippingAddress `gorm:"embedded;embeddedPrefix:shipping_" json:"shippingAddress"`
	PaymentMethod   string          `gorm:"not null"                 json:"paymentMethod"`
	ItemsPrice      float64         `gorm:"not null"                 json:"itemsPrice"`
	ShippingPrice   float64         `json:"shippingPrice"`
	TotalPrice      float64         `gorm:"not null"                 json:"totalPrice"`
	OrderStatus     OrderStatus     `gorm:"not null;default:PENDING" json:"orderStatus"`
	ShippingStatus  ShippingStatus  `gorm:"not null;default:NOT_SHIPPED" json:"shippingStatus"`
	IsPaid          bool            `gorm:"not null;default:false"   json:"isPaid"`
	PaidAt          *time.Time      `json:"paidAt,omitempty"`
	PaymentResult   PaymentResult   `gorm:"embedded;embeddedPrefix:payment_" json:"paymentResult"`
	IsDelivered     bool            `gorm:"not null;default:false"   json:"isDelivered"`
	DeliveredAt     *time.Time      `json:"deliveredAt,omitempty"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// OrderItem carries the same snapshot as the cart line it was copied
// from, permanently frozen.
type OrderItem struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null" json:"-"`
	ProductID uuid.UUID `gorm:"type:uuid;not null"       json:"product"`
	Name      string    `gorm:"not null"                 json:"name"`
	Image     string    `json:"image"`
	Price     float64   `gorm:"not null"                 json:"price"`
	Qty       int       `gorm:"not null"                 json:"qty"`
	SellerID  uuid.UUID `gorm:"type:uuid;index;not null" json:"seller"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}
