package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kurimacye/marketplace/internal/models"
	"github.com/kurimacye/marketplace/internal/repo"
	"github.com/kurimacye/marketplace/internal/service"
)

type testEnv struct {
	E     *echo.Echo
	DB    *gorm.DB
	Cart  *CartHTTP
	Order *OrderHTTP
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
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

	r := repo.New(db)
	return &testEnv{
		E:     echo.New(),
		DB:    db,
		Cart:  &CartHTTP{Svc: &service.CartService{Repo: r}},
		Order: &OrderHTTP{Svc: &service.OrderService{Repo: r}},
	}
}

func (env *testEnv) doJSONRequest(t *testing.T, method, target string, body any, userID uuid.UUID, role string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	if userID != uuid.Nil {
		c.Set("user_id", userID.String())
		c.Set("role", role)
	}
	return rec, c
}

func (env *testEnv) seedCart(t *testing.T, customerID uuid.UUID, price float64, stock, qty int) *models.Product {
	t.Helper()
	product := &models.Product{Name: "basket", Price: price, Stock: stock, SellerID: uuid.New()}
	require.NoError(t, env.DB.Create(product).Error)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/cart", map[string]any{
		"productId": product.ID,
		"qty":       qty,
	}, customerID, models.RoleCustomer)
	require.NoError(t, env.Cart.AddToCart(c))
	require.Equal(t, http.StatusOK, rec.Code)
	return product
}

func TestCreateOrder_RequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(t, http.MethodPost, "/api/orders", map[string]any{}, uuid.Nil, "")
	err := env.Order.CreateOrder(c)

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestCreateOrder_HappyPath(t *testing.T) {
	env := newTestEnv(t)
	customerID := uuid.New()
	env.seedCart(t, customerID, 1000, 5, 2)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/orders", map[string]any{
		"shippingAddress": map[string]string{
			"address": "12 KG 7 Ave",
			"city":    "Kigali",
			"country": "Rwanda",
		},
		"paymentMethod": "Stripe",
		"shippingPrice": 100,
	}, customerID, models.RoleCustomer)

	require.NoError(t, env.Order.CreateOrder(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
	require.Equal(t, models.OrderStatusPending, order.OrderStatus)
	require.Equal(t, 2000.0, order.ItemsPrice)
	require.Equal(t, 2100.0, order.TotalPrice)
	require.Len(t, order.Items, 1)
}

func TestCreateOrder_EmptyCartIsBadRequest(t *testing.T) {
	env := newTestEnv(t)

	_, c := env.doJSONRequest(t, http.MethodPost, "/api/orders", map[string]any{
		"shippingAddress": map[string]string{
			"address": "12 KG 7 Ave",
			"city":    "Kigali",
			"country": "Rwanda",
		},
		"paymentMethod": "Stripe",
	}, uuid.New(), models.RoleCustomer)

	err := env.Order.CreateOrder(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestGetOrder_SellerViewIsFiltered(t *testing.T) {
	env := newTestEnv(t)
	customerID := uuid.New()
	product := env.seedCart(t, customerID, 1000, 5, 1)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/orders", map[string]any{
		"shippingAddress": map[string]string{
			"address": "12 KG 7 Ave",
			"city":    "Kigali",
			"country": "Rwanda",
		},
		"paymentMethod": "Stripe",
	}, customerID, models.RoleCustomer)
	require.NoError(t, env.Order.CreateOrder(c))

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))

	rec, c = env.doJSONRequest(t, http.MethodGet, "/api/orders/"+order.ID.String(), nil, product.SellerID, models.RoleSeller)
	c.SetParamNames("id")
	c.SetParamValues(order.ID.String())
	require.NoError(t, env.Order.GetOrder(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var view models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	require.Len(t, view.Items, 1)
	require.Equal(t, product.SellerID, view.Items[0].SellerID)

	// a seller with no lines in the order is refused
	_, c = env.doJSONRequest(t, http.MethodGet, "/api/orders/"+order.ID.String(), nil, uuid.New(), models.RoleSeller)
	c.SetParamNames("id")
	c.SetParamValues(order.ID.String())
	err := env.Order.GetOrder(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestUpdateCartItem_RejectsNonPositiveQty(t *testing.T) {
	env := newTestEnv(t)
	customerID := uuid.New()
	env.seedCart(t, customerID, 1000, 5, 1)

	_, c := env.doJSONRequest(t, http.MethodPut, "/api/cart/"+uuid.NewString(), map[string]any{
		"qty": 0,
	}, customerID, models.RoleCustomer)
	c.SetParamNames("id")
	c.SetParamValues(uuid.NewString())

	err := env.Cart.UpdateCartItem(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestUpdateOrderStatus_CouplingVisibleOnWire(t *testing.T) {
	env := newTestEnv(t)
	customerID := uuid.New()
	env.seedCart(t, customerID, 1000, 5, 1)

	rec, c := env.doJSONRequest(t, http.MethodPost, "/api/orders", map[string]any{
		"shippingAddress": map[string]string{
			"address": "12 KG 7 Ave",
			"city":    "Kigali",
			"country": "Rwanda",
		},
		"paymentMethod": "Stripe",
	}, customerID, models.RoleCustomer)
	require.NoError(t, env.Order.CreateOrder(c))

	var order models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))

	rec, c = env.doJSONRequest(t, http.MethodPut, "/api/orders/"+order.ID.String()+"/status", map[string]string{
		"status": "DELIVERED",
	}, uuid.New(), models.RoleAdmin)
	c.SetParamNames("id")
	c.SetParamValues(order.ID.String())
	require.NoError(t, env.Order.UpdateOrderStatus(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	require.Equal(t, models.OrderStatusDelivered, updated.OrderStatus)
	require.Equal(t, models.ShippingStatusDelivered, updated.ShippingStatus)
	require.True(t, updated.IsDelivered)
}
