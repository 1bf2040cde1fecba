package controllers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-food-ordering/models"
)

type addedItem struct {
	Item models.CartLineItem `json:"item"`
	Cart cartResponse        `json:"cart"`
}

func TestAddCartItem(t *testing.T) {
	s := newTestServer(t, false)

	burger := gin.H{"menuItemId": "1-1", "toppings": []string{"Cheese"}, "quantity": 1}

	w := s.do(t, http.MethodPost, "/cart/items", burger, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var first addedItem
	decodeBody(t, w, &first)
	assert.Equal(t, "Regular", first.Item.Size)
	assert.Equal(t, 1, first.Cart.ItemCount)

	// the same configuration merges into the existing line
	w = s.do(t, http.MethodPost, "/cart/items", burger, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var second addedItem
	decodeBody(t, w, &second)
	assert.Equal(t, first.Item.ID, second.Item.ID)
	assert.Equal(t, 2, second.Item.Quantity)
	assert.Len(t, second.Cart.Items, 1)
	assert.True(t, decimal.RequireFromString("19.98").Equal(second.Cart.Total))

	w = s.do(t, http.MethodGet, "/cart", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var cart cartResponse
	decodeBody(t, w, &cart)
	assert.Equal(t, 2, cart.ItemCount)
}

func TestAddCartItem_Rejected(t *testing.T) {
	s := newTestServer(t, false)

	tests := []struct {
		name   string
		body   gin.H
		status int
	}{
		{"zero quantity", gin.H{"menuItemId": "1-1", "quantity": 0}, http.StatusBadRequest},
		{"too many", gin.H{"menuItemId": "1-1", "quantity": 100}, http.StatusBadRequest},
		{"missing item", gin.H{"quantity": 1}, http.StatusBadRequest},
		{"unknown item", gin.H{"menuItemId": "nope", "quantity": 1}, http.StatusNotFound},
		{"unknown topping", gin.H{"menuItemId": "1-1", "quantity": 1, "toppings": []string{"Gold"}}, http.StatusBadRequest},
		{"unknown size", gin.H{"menuItemId": "1-1", "quantity": 1, "size": "Huge"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/cart/items", tt.body, "")
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
	assert.Zero(t, s.cart.GetCartItemCount())
}

func TestUpdateAndRemoveCartItem(t *testing.T) {
	s := newTestServer(t, false)

	w := s.do(t, http.MethodPost, "/cart/items", gin.H{"menuItemId": "1-1", "quantity": 1}, "")
	require.Equal(t, http.StatusCreated, w.Code)
	var added addedItem
	decodeBody(t, w, &added)
	path := "/cart/items/" + added.Item.ID

	w = s.do(t, http.MethodPatch, path, gin.H{"quantity": 3}, "")
	require.Equal(t, http.StatusOK, w.Code)
	var cart cartResponse
	decodeBody(t, w, &cart)
	assert.Equal(t, 3, cart.ItemCount)

	w = s.do(t, http.MethodPatch, "/cart/items/unknown", gin.H{"quantity": 3}, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPatch, path, gin.H{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	t.Run("zero quantity removes the line", func(t *testing.T) {
		w := s.do(t, http.MethodPatch, path, gin.H{"quantity": 0}, "")
		require.Equal(t, http.StatusOK, w.Code)
		var cart cartResponse
		decodeBody(t, w, &cart)
		assert.Empty(t, cart.Items)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		w := s.do(t, http.MethodDelete, path, nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("clear", func(t *testing.T) {
		s.do(t, http.MethodPost, "/cart/items", gin.H{"menuItemId": "2-1", "quantity": 2}, "")
		w := s.do(t, http.MethodDelete, "/cart", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var cart cartResponse
		decodeBody(t, w, &cart)
		assert.Zero(t, cart.ItemCount)
		assert.True(t, cart.Total.IsZero())
	})
}
