package service

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kurimacye/marketplace/internal/models"
	"github.com/kurimacye/marketplace/internal/repo"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// one in-memory sqlite DB per test; a single connection keeps
	// every session on the same database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))

	return db
}

type testEnv struct {
	DB    *gorm.DB
	Repo  *repo.GormRepo
	Cart  *CartService
	Order *OrderService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := newTestDB(t)
	r := repo.New(db)
	return &testEnv{
		DB:    db,
		Repo:  r,
		Cart:  &CartService{Repo: r},
		Order: &OrderService{Repo: r},
	}
}

func (env *testEnv) createProduct(t *testing.T, name string, price float64, stock int, sellerID uuid.UUID) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     name,
		Price:    price,
		Stock:    stock,
		SellerID: sellerID,
		ImageURL: name + ".jpg",
	}
	require.NoError(t, env.DB.Create(product).Error)
	return product
}

func (env *testEnv) fillCart(t *testing.T, customerID uuid.UUID, lines map[*models.Product]int) {
	t.Helper()
	ctx := context.Background()
	for product, qty := range lines {
		_, err := env.Cart.AddItem(ctx, customerID, models.RoleCustomer, product.ID, qty)
		require.NoError(t, err)
	}
}

func (env *testEnv) productStock(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	var product models.Product
	require.NoError(t, env.DB.Where("id = ?", productID).First(&product).Error)
	return product.Stock
}

var testAddress = models.ShippingAddress{
	Address:    "12 KG 7 Ave",
	City:       "Kigali",
	PostalCode: "00000",
	Country:    "Rwanda",
}
