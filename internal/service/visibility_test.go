package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kurimacye/marketplace/internal/models"
)

// placeMultiSellerOrder builds one order holding lines from sellers A
// and B for a fresh customer.
func placeMultiSellerOrder(t *testing.T, env *testEnv) (order *models.Order, customerID, sellerA, sellerB uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	customerID = uuid.New()
	sellerA = uuid.New()
	sellerB = uuid.New()

	pa := env.createProduct(t, "from-a", 1000, 5, sellerA)
	pb := env.createProduct(t, "from-b", 2000, 5, sellerB)
	env.fillCart(t, customerID, map[*models.Product]int{pa: 1, pb: 2})

	order, err := env.Order.PlaceOrder(ctx, customerID, testAddress, "Stripe", 0)
	require.NoError(t, err)
	require.Len(t, order.Items, 2)
	return order, customerID, sellerA, sellerB
}

func TestViewOrder_AdminAndOwnerSeeEverything(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	order, customerID, _, _ := placeMultiSellerOrder(t, env)

	full, err := env.Order.GetOrder(ctx, order.ID, uuid.New(), models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, full.Items, 2)

	own, err := env.Order.GetOrder(ctx, order.ID, customerID, models.RoleCustomer)
	require.NoError(t, err)
	assert.Len(t, own.Items, 2)
}

func TestViewOrder_SellerSeesOnlyTheirLines(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	order, _, sellerA, _ := placeMultiSellerOrder(t, env)

	view, err := env.Order.GetOrder(ctx, order.ID, sellerA, models.RoleSeller)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, sellerA, view.Items[0].SellerID)
	assert.Equal(t, "from-a", view.Items[0].Name)
}

func TestViewOrder_StrangersRefused(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()
	order, _, _, _ := placeMultiSellerOrder(t, env)

	// a seller with no lines in the order
	_, err := env.Order.GetOrder(ctx, order.ID, uuid.New(), models.RoleSeller)
	require.ErrorIs(t, err, ErrUnauthorized)

	// another customer
	_, err = env.Order.GetOrder(ctx, order.ID, uuid.New(), models.RoleCustomer)
	require.ErrorIs(t, err, ErrUnauthorized)
}

func TestViewOrder_UnknownOrder(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)

	_, err := env.Order.GetOrder(context.Background(), uuid.New(), uuid.New(), models.RoleAdmin)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListOrders_ScopedByRole(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t)
	ctx := context.Background()

	_, customerID, sellerA, _ := placeMultiSellerOrder(t, env)

	// a second order with no lines from seller A
	otherCustomer := uuid.New()
	pc := env.createProduct(t, "from-c", 300, 5, uuid.New())
	env.fillCart(t, otherCustomer, map[*models.Product]int{pc: 1})
	_, err := env.Order.PlaceOrder(ctx, otherCustomer, testAddress, "Stripe", 0)
	require.NoError(t, err)

	all, err := env.Order.ListOrders(ctx, uuid.New(), models.RoleAdmin)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	mine, err := env.Order.ListOrders(ctx, sellerA, models.RoleSeller)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Len(t, mine[0].Items, 1)
	assert.Equal(t, sellerA, mine[0].Items[0].SellerID)

	_, err = env.Order.ListOrders(ctx, customerID, models.RoleCustomer)
	require.ErrorIs(t, err, ErrForbidden)

	own, err := env.Order.ListMyOrders(ctx, customerID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Len(t, own[0].Items, 2)
}
