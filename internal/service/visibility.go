package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kurimacye/marketplace/internal/models"
)

// ViewOrder projects an order into what the requester may see:
// admin and the owning customer get everything, a seller gets only
// their own lines, everyone else is refused.
func ViewOrder(order *models.Order, requesterID uuid.UUID, role string) (*models.Order, error) {
	if role == models.RoleAdmin || order.CustomerID == requesterID {
		return order, nil
	}

	if role == models.RoleSeller {
		var mine []models.OrderItem
		for _, item := range order.Items {
			if item.SellerID == requesterID {
				mine = append(mine, item)
			}
		}
		if len(mine) > 0 {
			view := *order
			view.Items = mine
			return &view, nil
		}
	}

	return nil, fmt.Errorf("not authorized to view this order: %w", ErrUnauthorized)
}

func (s *OrderService) GetOrder(ctx context.Context, orderID, requesterID uuid.UUID, role string) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return ViewOrder(order, requesterID, role)
}

// ListOrders returns all orders for an admin and the seller's filtered
// view for a seller. Customers use ListMyOrders.
func (s *OrderService) ListOrders(ctx context.Context, requesterID uuid.UUID, role string) ([]models.Order, error) {
	switch role {
	case models.RoleAdmin:
		return s.Repo.ListOrders(ctx)
	case models.RoleSeller:
		orders, err := s.Repo.ListOrdersBySeller(ctx, requesterID)
		if err != nil {
			return nil, err
		}
		views := make([]models.Order, 0, len(orders))
		for i := range orders {
			view, err := ViewOrder(&orders[i], requesterID, role)
			if err != nil {
				continue
			}
			views = append(views, *view)
		}
		return views, nil
	default:
		return nil, fmt.Errorf("role %q may not list orders: %w", role, ErrForbidden)
	}
}

func (s *OrderService) ListMyOrders(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	return s.Repo.ListOrdersByCustomer(ctx, customerID)
}
