package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cenkalti/backoff"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-food-ordering/catalog"
	"go-food-ordering/config"
	"go-food-ordering/identity"
	"go-food-ordering/models"
	"go-food-ordering/storage"
	"go-food-ordering/store"
)

func testConfig() config.Config {
	return config.Config{
		Port:             "8000",
		SecretKey:        "test-secret",
		StorageDriver:    config.DriverMemory,
		CorsAllowOrigins: []string{"http://localhost:9000"},
		DeliveryFee:      decimal.RequireFromString("2.99"),
		ServiceFee:       decimal.RequireFromString("1.99"),
	}
}

func newTestApp(t *testing.T, backend storage.Storage) *App {
	t.Helper()
	gin.SetMode(gin.TestMode)
	a, err := NewWithStorage(context.Background(), testConfig(), backend, identity.NewStorageUserRepository(backend),
		storage.WithBackOff(func() backoff.BackOff { return &backoff.StopBackOff{} }))
	require.NoError(t, err)
	return a
}

func burger(t *testing.T) models.CartLineItem {
	t.Helper()
	menu, err := catalog.Default()
	require.NoError(t, err)
	item, err := menu.PriceLineItem(catalog.LineItemRequest{MenuItemID: "1-1", Quantity: 2})
	require.NoError(t, err)
	return item
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.StorageDriver = "cassandra"
	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestNew_Memory(t *testing.T) {
	ctx := context.Background()
	a, err := New(ctx, testConfig())
	require.NoError(t, err)
	assert.False(t, a.Auth.IsLoading())
	assert.False(t, a.Auth.IsAuthenticated())
	assert.NoError(t, a.Close(ctx))
}

func TestApp_StateSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()

	first := newTestApp(t, backend)
	require.NoError(t, first.Auth.SignUp(ctx, "ana@example.com", "secret123", "Ana Lima"))
	first.Cart.AddItem(burger(t))
	order, err := first.Checkout.PlaceOrder(store.CheckoutRequest{DeliveryAddress: "12 Main St"})
	require.NoError(t, err)
	first.Cart.AddItem(burger(t))
	require.NoError(t, first.Close(ctx))

	second := newTestApp(t, backend)
	defer second.Close(ctx)

	assert.Equal(t, 2, second.Cart.GetCartItemCount())
	restored, ok := second.Orders.GetOrderById(order.ID)
	require.True(t, ok)
	assert.True(t, order.Total.Equal(restored.Total))
	current, ok := second.Orders.CurrentOrder()
	require.True(t, ok)
	assert.Equal(t, order.ID, current.ID)

	assert.True(t, second.Auth.IsAuthenticated())
	user, ok := second.Auth.User()
	require.True(t, ok)
	assert.Equal(t, "ana@example.com", user.Email)
}

func TestApp_Reset(t *testing.T) {
	ctx := context.Background()
	backend := storage.NewMemoryStorage()

	a := newTestApp(t, backend)
	require.NoError(t, a.Auth.SignUp(ctx, "ana@example.com", "secret123", "Ana Lima"))
	a.Cart.AddItem(burger(t))
	a.Orders.AddOrder(models.OrderDraft{DeliveryAddress: "12 Main St"})
	require.NoError(t, a.Reset(ctx))
	require.NoError(t, a.Close(ctx))

	for _, key := range []string{store.CartNamespace, store.OrderNamespace, store.AuthNamespace, identity.SessionKey} {
		_, err := backend.Get(ctx, key)
		assert.Equal(t, storage.ErrNotFound, err, key)
	}

	// registered users are kept
	again := newTestApp(t, backend)
	defer again.Close(ctx)
	assert.False(t, again.Auth.IsAuthenticated())
	assert.Zero(t, again.Cart.GetCartItemCount())
	assert.Empty(t, again.Orders.Orders())
	assert.NoError(t, again.Auth.SignIn(ctx, "ana@example.com", "secret123"))
}

func TestApp_Router(t *testing.T) {
	a := newTestApp(t, storage.NewMemoryStorage())
	defer a.Close(context.Background())
	router := a.Router()

	req := httptest.NewRequest(http.MethodGet, "/restaurants", nil)
	req.Header.Set("Origin", "http://localhost:9000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "http://localhost:9000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/checkout", nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
