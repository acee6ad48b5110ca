package repo

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kurimacye/marketplace/internal/models"
)

// GetOrCreateCart returns the user's cart with its items, creating an
// empty one on first access.
func (r *GormRepo) GetOrCreateCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.DB.WithContext(ctx).Preload("Items").Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userID}
	if err := r.DB.WithContext(ctx).Create(&cart).Error; err != nil {
		return nil, err
	}
	cart.Items = []models.CartItem{}
	return &cart, nil
}

// AddItem merges into an existing line for the same product or appends
// a new snapshot line.
func (r *GormRepo) AddItem(ctx context.Context, cartID uuid.UUID, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.CartItem{}).
			Where("cart_id = ? AND product_id = ?", cartID, item.ProductID).
			Update("qty", gorm.Expr("qty + ?", item.Qty))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return tx.Where("cart_id = ? AND product_id = ?", cartID, item.ProductID).First(item).Error
		}

		item.CartID = cartID
		return tx.Create(item).Error
	})
}

func (r *GormRepo) GetCartItem(ctx context.Context, cartID, itemID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) UpdateCartItemQty(ctx context.Context, cartID, itemID uuid.UUID, qty int) (*models.CartItem, error) {
	var item models.CartItem
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND cart_id = ?", itemID, cartID).First(&item).Error; err != nil {
			return err
		}
		item.Qty = qty
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveCartItem is idempotent; a missing item is not an error.
func (r *GormRepo) RemoveCartItem(ctx context.Context, cartID, itemID uuid.UUID) error {
	return r.DB.WithContext(ctx).
		Where("id = ? AND cart_id = ?", itemID, cartID).
		Delete(&models.CartItem{}).Error
}

func (r *GormRepo) ClearCart(ctx context.Context, cartID uuid.UUID) error {
	return r.DB.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartItem{}).Error
}
