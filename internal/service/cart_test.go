package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurimacye/marketplace/internal/models"
)

func TestGetCart_CreatesEmptyCartOnFirstAccess(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	customerID := uuid.New()

	cart, err := env.Cart.GetCart(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, customerID, cart.UserID)
	assert.Empty(t, cart.Items)

	again, err := env.Cart.GetCart(ctx, customerID)
	require.NoError(t, err)
	assert.Equal(t, cart.ID, again.ID)
}

func TestAddItem_SnapshotsCatalogFields(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	customerID := uuid.New()
	sellerID := uuid.New()

	product := env.createProduct(t, "basket", 1500, 10, sellerID)

	cart, err := env.Cart.AddItem(ctx, customerID, models.RoleCustomer, product.ID, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	item := cart.Items[0]
	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, "basket", item.Name)
	assert.Equal(t, "basket.jpg", item.Image)
	assert.Equal(t, 1500.0, item.Price)
	assert.Equal(t, 2, item.Qty)
	assert.Equal(t, sellerID, item.SellerID)
}

func TestAddItem_MergesExistingLine(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	customerID := uuid.New()

	product := env.createProduct(t, "basket", 1500, 10, uuid.New())

	_, err := env.Cart.AddItem(ctx, customerID, models.RoleCustomer, product.ID, 2)
	require.NoError(t, err)
	cart, err := env.Cart.AddItem(ctx, customerID, models.RoleCustomer, product.ID, 3)
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Qty)
}

func TestAddItem_IgnoresStock(t *testing.T) {
	// stock is only checked at placement, an explicit policy choice
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	customerID := uuid.New()

	product := env.createProduct(t, "basket", 1500, 1, uuid.New())

	cart, err := env.Cart.AddItem(ctx, customerID, models.RoleCustomer, product.ID, 50)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 50, cart.Items[0].Qty)
}

func TestAddItem_OnlyCustomersHoldCarts(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "basket", 1500, 10, uuid.New())

	for _, role := range []string{models.RoleSeller, models.RoleAdmin} {
		_, err := env.Cart.AddItem(ctx, uuid.New(), role, product.ID, 1)
		require.ErrorIs(t, err, ErrForbidden)
	}
}

func TestAddItem_UnknownProduct(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.Cart.AddItem(context.Background(), uuid.New(), models.RoleCustomer, uuid.New(), 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateItemQty_SetsVerbatim(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	customerID := uuid.New()

	product := env.createProduct(t, "basket", 1500, 10, uuid.New())
	cart, err := env.Cart.AddItem(ctx, customerID, models.RoleCustomer, product.ID, 2)
	require.NoError(t, err)

	updated, err := env.Cart.UpdateItemQty(ctx, customerID, cart.Items[0].ID, 7)
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.Equal(t, 7, updated.Items[0].Qty)
}

func TestUpdateItemQty_UnknownItem(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.Cart.UpdateItemQty(context.Background(), uuid.New(), uuid.New(), 3)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestRemoveItem_Idempotent(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	customerID := uuid.New()

	product := env.createProduct(t, "basket", 1500, 10, uuid.New())
	cart, err := env.Cart.AddItem(ctx, customerID, models.RoleCustomer, product.ID, 2)
	require.NoError(t, err)

	after, err := env.Cart.RemoveItem(ctx, customerID, cart.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, after.Items)

	// removing a missing item succeeds and leaves the cart unchanged
	after, err = env.Cart.RemoveItem(ctx, customerID, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, after.Items)
}

func TestMerge_BestEffortPerLine(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	customerID := uuid.New()

	known := env.createProduct(t, "basket", 1500, 10, uuid.New())
	alsoKnown := env.createProduct(t, "mat", 900, 10, uuid.New())

	_, err := env.Cart.AddItem(ctx, customerID, models.RoleCustomer, known.ID, 1)
	require.NoError(t, err)

	cart, failures, err := env.Cart.Merge(ctx, customerID, models.RoleCustomer, []MergeLine{
		{ProductID: known.ID, Qty: 2},
		{ProductID: uuid.New(), Qty: 1}, // gone from the catalog
		{ProductID: alsoKnown.ID, Qty: 1},
	})
	require.NoError(t, err)

	// the bad line is reported, the lines after it still merged
	require.Len(t, failures, 1)
	require.Len(t, cart.Items, 2)

	byProduct := map[uuid.UUID]int{}
	for _, item := range cart.Items {
		byProduct[item.ProductID] = item.Qty
	}
	assert.Equal(t, 3, byProduct[known.ID])
	assert.Equal(t, 1, byProduct[alsoKnown.ID])
}
