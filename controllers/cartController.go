package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"go-food-ordering/catalog"
	"go-food-ordering/models"
	"go-food-ordering/store"
)

type addCartItemRequest struct {
	MenuItemID          string   `json:"menuItemId" validate:"required"`
	Size                string   `json:"size"`
	Toppings            []string `json:"toppings"`
	Sides               []string `json:"sides"`
	Quantity            int      `json:"quantity" validate:"required,min=1,max=99"`
	SpecialInstructions string   `json:"specialInstructions" validate:"max=500"`
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity" validate:"required"`
}

type cartResponse struct {
	Items     []models.CartLineItem `json:"items"`
	Total     decimal.Decimal       `json:"total"`
	ItemCount int                   `json:"itemCount"`
}

func cartView(cart *store.CartStore) cartResponse {
	return cartResponse{
		Items:     cart.Items(),
		Total:     cart.GetCartTotal(),
		ItemCount: cart.GetCartItemCount(),
	}
}

func GetCart(cart *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, cartView(cart))
	}
}

func AddCartItem(cart *store.CartStore, menu *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addCartItemRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&req); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		candidate, err := menu.PriceLineItem(catalog.LineItemRequest{
			MenuItemID:          req.MenuItemID,
			Size:                req.Size,
			Toppings:            req.Toppings,
			Sides:               req.Sides,
			Quantity:            req.Quantity,
			SpecialInstructions: req.SpecialInstructions,
		})
		if errors.Cause(err) == catalog.ErrMenuItemNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id := cart.AddItem(candidate)
		item, _ := cart.Item(id)
		c.JSON(http.StatusCreated, gin.H{
			"item": item,
			"cart": cartView(cart),
		})
	}
}

// UpdateCartItem sets a line's quantity; zero or less removes the line.
func UpdateCartItem(cart *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateCartItemRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&req); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		itemId := c.Param("item_id")
		if _, ok := cart.Item(itemId); !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
			return
		}
		cart.UpdateQuantity(itemId, *req.Quantity)
		c.JSON(http.StatusOK, cartView(cart))
	}
}

func RemoveCartItem(cart *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart.RemoveItem(c.Param("item_id"))
		c.JSON(http.StatusOK, cartView(cart))
	}
}

func ClearCart(cart *store.CartStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		cart.ClearCart()
		c.JSON(http.StatusOK, cartView(cart))
	}
}
