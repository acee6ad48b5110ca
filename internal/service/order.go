package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kurimacye/marketplace/internal/logging"
	"github.com/kurimacye/marketplace/internal/models"
	"github.com/kurimacye/marketplace/internal/mykafka"
	"github.com/kurimacye/marketplace/internal/repo"
)

type OrderService struct {
	Repo     *repo.GormRepo
	Producer *mykafka.Producer
}

var orderStatuses = map[models.OrderStatus]bool{
	models.OrderStatusPending:   true,
	models.OrderStatusPaid:      true,
	models.OrderStatusShipped:   true,
	models.OrderStatusDelivered: true,
	models.OrderStatusCancelled: true,
}

var shippingStatuses = map[models.ShippingStatus]bool{
	models.ShippingStatusNotShipped: true,
	models.ShippingStatusInTransit:  true,
	models.ShippingStatusDelivered:  true,
}

// PlaceOrder turns the customer's cart into an immutable order. The
// validation pass reads the catalog without touching it; the mutation
// pass runs in one transaction where each line's stock is decremented
// conditionally (only if stock >= qty), so a concurrent placement that
// loses the race rolls the whole order back instead of overselling.
// The cart is cleared in the same transaction: it empties if and only
// if the order persists.
func (s *OrderService) PlaceOrder(ctx context.Context, customerID uuid.UUID, addr models.ShippingAddress, paymentMethod string, shippingPrice float64) (*models.Order, error) {
	if addr.Address == "" || addr.City == "" || addr.Country == "" {
		return nil, fmt.Errorf("shipping address incomplete: %w", ErrValidation)
	}
	if paymentMethod == "" {
		return nil, fmt.Errorf("payment method required: %w", ErrValidation)
	}
	if shippingPrice < 0 {
		return nil, fmt.Errorf("shipping price must be >= 0: %w", ErrValidation)
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	for i := range cart.Items {
		item := &cart.Items[i]
		product, err := s.Repo.GetProduct(ctx, item.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("product not found with id of %s: %w", item.ProductID, ErrNotFound)
			}
			return nil, err
		}
		if product.Stock < item.Qty {
			return nil, &InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: item.Qty,
				Available: product.Stock,
			}
		}
	}

	var itemsPrice float64
	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		itemsPrice += ci.Price * float64(ci.Qty)
		items = append(items, models.OrderItem{
			ProductID: ci.ProductID,
			Name:      ci.Name,
			Image:     ci.Image,
			Price:     ci.Price,
			Qty:       ci.Qty,
			SellerID:  ci.SellerID,
		})
	}

	order := &models.Order{
		CustomerID:      customerID,
		Items:           items,
		ShippingAddress: addr,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      itemsPrice,
		ShippingPrice:   shippingPrice,
		TotalPrice:      itemsPrice + shippingPrice,
		OrderStatus:     models.OrderStatusPending,
		ShippingStatus:  models.ShippingStatusNotShipped,
	}

	err = s.Repo.PlaceOrder(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for _, item := range order.Items {
			ok, err := repo.DecrementStock(tx, item.ProductID, item.Qty)
			if err != nil {
				return err
			}
			if !ok {
				var product models.Product
				if err := tx.Where("id = ?", item.ProductID).First(&product).Error; err != nil {
					return err
				}
				return &InsufficientStockError{
					ProductID: product.ID,
					Name:      product.Name,
					Requested: item.Qty,
					Available: product.Stock,
				}
			}
		}
		return tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":     "order_created",
		"orderID":  order.ID,
		"customer": order.CustomerID,
		"total":    order.TotalPrice,
	})

	return order, nil
}

// Transition applies one status change from either axis and computes
// the coupled fields in a single place, so the two call paths cannot
// drift. Marking delivered from either side marks both; SHIPPED forces
// shipping IN_TRANSIT; no other shipping value propagates back.
func Transition(o *models.Order, orderStatus *models.OrderStatus, shippingStatus *models.ShippingStatus, now time.Time) {
	if orderStatus != nil {
		o.OrderStatus = *orderStatus
		switch *orderStatus {
		case models.OrderStatusDelivered:
			o.ShippingStatus = models.ShippingStatusDelivered
			markDelivered(o, now)
		case models.OrderStatusShipped:
			o.ShippingStatus = models.ShippingStatusInTransit
		}
	}
	if shippingStatus != nil {
		o.ShippingStatus = *shippingStatus
		if *shippingStatus == models.ShippingStatusDelivered {
			o.OrderStatus = models.OrderStatusDelivered
			markDelivered(o, now)
		}
	}
}

func markDelivered(o *models.Order, now time.Time) {
	o.IsDelivered = true
	o.DeliveredAt = &now
}

// SetOrderStatus is admin-driven; route middleware enforces the role.
func (s *OrderService) SetOrderStatus(ctx context.Context, orderID uuid.UUID, status models.OrderStatus) (*models.Order, error) {
	if !orderStatuses[status] {
		return nil, fmt.Errorf("unknown order status %q: %w", status, ErrValidation)
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found: %w", ErrNotFound)
		}
		return nil, err
	}

	Transition(order, &status, nil, time.Now().UTC())
	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":    "order_status_updated",
		"orderID": order.ID,
		"status":  order.OrderStatus,
	})

	return order, nil
}

// SetShippingStatus is driven by a seller owning at least one line in
// the order, or an admin.
func (s *OrderService) SetShippingStatus(ctx context.Context, orderID uuid.UUID, requesterID uuid.UUID, role string, status models.ShippingStatus) (*models.Order, error) {
	if !shippingStatuses[status] {
		return nil, fmt.Errorf("unknown shipping status %q: %w", status, ErrValidation)
	}

	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found: %w", ErrNotFound)
		}
		return nil, err
	}

	if role != models.RoleAdmin {
		if role != models.RoleSeller || !sellerOwnsItems(order, requesterID) {
			return nil, fmt.Errorf("not authorized to update shipping for this order: %w", ErrUnauthorized)
		}
	}

	Transition(order, nil, &status, time.Now().UTC())
	if err := s.Repo.SaveOrder(ctx, order); err != nil {
		return nil, err
	}

	s.publish(ctx, map[string]any{
		"type":    "shipping_status_updated",
		"orderID": order.ID,
		"status":  order.ShippingStatus,
	})

	return order, nil
}

func sellerOwnsItems(order *models.Order, sellerID uuid.UUID) bool {
	for _, item := range order.Items {
		if item.SellerID == sellerID {
			return true
		}
	}
	return false
}

func (s *OrderService) publish(ctx context.Context, event map[string]any) {
	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.Producer.PublishEvent(pubCtx, "order_events", fmt.Sprint(event["orderID"]), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "error", err)
	}
}
