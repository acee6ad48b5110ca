package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kurimacye/marketplace/internal/models"
)

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) SaveOrder(ctx context.Context, order *models.Order) error {
	return r.DB.WithContext(ctx).Save(order).Error
}

func (r *GormRepo) ListOrders(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *GormRepo) ListOrdersByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("customer_id = ?", customerID).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// ListOrdersBySeller returns orders containing at least one line owned
// by the seller. Line filtering happens in the visibility layer.
func (r *GormRepo) ListOrdersBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Order, error) {
	var orders []models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").
		Where("id IN (?)", r.DB.Model(&models.OrderItem{}).
			Select("order_id").Where("seller_id = ?", sellerID)).
		Order("created_at DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// PlaceOrder persists the order, conditionally decrements every line's
// stock and clears the cart, all inside one transaction. The run
// callback sees the transaction and decides per-item failure handling.
func (r *GormRepo) PlaceOrder(ctx context.Context, run func(tx *gorm.DB) error) error {
	return r.DB.WithContext(ctx).Transaction(run)
}
