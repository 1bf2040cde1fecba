package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"go-food-ordering/catalog"
	"go-food-ordering/helpers"
	"go-food-ordering/identity"
	"go-food-ordering/middleware"
	"go-food-ordering/storage"
	"go-food-ordering/store"
)

type testServer struct {
	router   *gin.Engine
	menu     *catalog.Catalog
	cart     *store.CartStore
	orders   *store.OrderStore
	auth     *store.AuthStore
	checkout *store.Checkout
	hub      *NotificationHub
}

func newTestServer(t *testing.T, enforceTransitions bool) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	menu, err := catalog.Default()
	require.NoError(t, err)

	backend := storage.NewMemoryStorage()
	persist := storage.NewWriteBehind(backend)
	t.Cleanup(func() { persist.Close() })

	provider := identity.NewLocalProvider(
		identity.NewStorageUserRepository(backend),
		backend,
		helpers.NewTokenIssuer("test-secret", time.Hour),
		identity.WithHashCost(4),
	)

	hub := NewNotificationHub()
	t.Cleanup(hub.Close)

	s := &testServer{
		menu:   menu,
		cart:   store.NewCartStore(persist),
		orders: store.NewOrderStore(persist, store.WithDispatcher(hub)),
		auth:   store.NewAuthStore(provider, persist),
		hub:    hub,
	}
	s.checkout = store.NewCheckout(s.cart, s.orders, s.auth, store.DefaultFees())
	t.Cleanup(s.auth.Close)

	authenticated := middleware.Authentication(provider)
	router := gin.New()
	router.GET("/restaurants", GetRestaurants(menu))
	router.GET("/restaurants/:restaurant_id", GetRestaurant(menu))
	router.GET("/menu-items/:menu_item_id", GetMenuItem(menu))
	router.GET("/search", SearchMenu(menu))
	router.GET("/modifiers", GetModifiers(menu))
	router.GET("/categories", GetCategories(menu))
	router.GET("/cart", GetCart(s.cart))
	router.POST("/cart/items", AddCartItem(s.cart, menu))
	router.PATCH("/cart/items/:item_id", UpdateCartItem(s.cart))
	router.DELETE("/cart/items/:item_id", RemoveCartItem(s.cart))
	router.DELETE("/cart", ClearCart(s.cart))
	router.POST("/users/signup", SignUp(s.auth))
	router.POST("/users/login", Login(s.auth))
	router.POST("/users/logout", Logout(s.auth))
	router.GET("/users/me", authenticated, GetProfile(s.auth))
	router.PATCH("/users/me", authenticated, UpdateProfile(s.auth))
	router.GET("/checkout", authenticated, GetCheckout(s.checkout, s.auth))
	router.POST("/checkout", authenticated, PlaceOrder(s.checkout, s.auth))
	router.GET("/orders", GetOrders(s.orders))
	router.GET("/orders/current", GetCurrentOrder(s.orders))
	router.GET("/orders/:order_id", GetOrder(s.orders))
	router.PATCH("/orders/:order_id", UpdateOrder(s.orders, enforceTransitions))
	router.GET("/ws", hub.HandleWebSocket())
	s.router = router
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

// signUp registers a user and returns the access token.
func (s *testServer) signUp(t *testing.T, email string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/users/signup", gin.H{
		"email":     email,
		"password":  "secret123",
		"full_name": "Ana Lima",
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var body struct {
		AccessToken string `json:"access_token"`
	}
	decodeBody(t, w, &body)
	require.NotEmpty(t, body.AccessToken)
	return body.AccessToken
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst), w.Body.String())
}
