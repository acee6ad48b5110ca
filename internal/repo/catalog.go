package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kurimacye/marketplace/internal/models"
)

// The catalog owns products; this engine only reads them and moves the
// stock counter.

func (r *GormRepo) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// DecrementStock applies a conditional decrement: it succeeds only if
// the row still holds at least qty units. The RowsAffected result is
// the success signal, so two concurrent placements can never drive the
// counter below zero.
func DecrementStock(tx *gorm.DB, productID uuid.UUID, qty int) (bool, error) {
	res := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, qty).
		Update("stock", gorm.Expr("stock - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// RestoreStock is the compensating action for DecrementStock.
func RestoreStock(tx *gorm.DB, productID uuid.UUID, qty int) error {
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", qty)).Error
}
