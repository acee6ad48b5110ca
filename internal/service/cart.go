package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kurimacye/marketplace/internal/logging"
	"github.com/kurimacye/marketplace/internal/models"
	"github.com/kurimacye/marketplace/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) GetCart(ctx context.Context, userID uuid.UUID) (*models.Cart, error) {
	return s.Repo.GetOrCreateCart(ctx, userID)
}

// AddItem appends a catalog snapshot line, or bumps qty when the
// product is already in the cart. Stock is deliberately not checked
// here; only order placement looks at it.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, role string, productID uuid.UUID, qty int) (*models.Cart, error) {
	if role != models.RoleCustomer {
		return nil, fmt.Errorf("only customers can add items to cart: %w", ErrForbidden)
	}
	if productID == uuid.Nil {
		return nil, fmt.Errorf("product_id required: %w", ErrValidation)
	}
	if qty < 1 {
		qty = 1
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product not found: %w", ErrNotFound)
		}
		return nil, err
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	item := models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Image:     product.ImageURL,
		Price:     product.Price,
		Qty:       qty,
		SellerID:  product.SellerID,
	}
	if err := s.Repo.AddItem(ctx, cart.ID, &item); err != nil {
		return nil, err
	}

	return s.Repo.GetOrCreateCart(ctx, userID)
}

// UpdateItemQty stores the quantity verbatim. Callers are expected to
// reject non-positive values before calling.
func (s *CartService) UpdateItemQty(ctx context.Context, userID, itemID uuid.UUID, qty int) (*models.Cart, error) {
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if _, err := s.Repo.UpdateCartItemQty(ctx, cart.ID, itemID, qty); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("item not found in cart: %w", ErrNotFound)
		}
		return nil, err
	}

	return s.Repo.GetOrCreateCart(ctx, userID)
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*models.Cart, error) {
	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := s.Repo.RemoveCartItem(ctx, cart.ID, itemID); err != nil {
		return nil, err
	}

	return s.Repo.GetOrCreateCart(ctx, userID)
}

type MergeLine struct {
	ProductID uuid.UUID `json:"product"`
	Qty       int       `json:"qty"`
}

type MergeFailure struct {
	ProductID uuid.UUID `json:"product"`
	Error     string    `json:"error"`
}

// Merge folds a client-held guest cart into the server cart at login.
// Each line goes through the same add semantics; a failed line is
// reported but never aborts the rest.
func (s *CartService) Merge(ctx context.Context, userID uuid.UUID, role string, lines []MergeLine) (*models.Cart, []MergeFailure, error) {
	l := logging.FromContext(ctx).With("service", "cart.merge")

	var failures []MergeFailure
	for _, line := range lines {
		if _, err := s.AddItem(ctx, userID, role, line.ProductID, line.Qty); err != nil {
			l.Warn("merge_line_failed", "product_id", line.ProductID, "error", err)
			failures = append(failures, MergeFailure{ProductID: line.ProductID, Error: err.Error()})
		}
	}

	cart, err := s.Repo.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, failures, err
	}
	return cart, failures, nil
}
