package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"go-food-ordering/models"
	"go-food-ordering/store"
)

type updateOrderRequest struct {
	Status models.OrderStatus `json:"status" validate:"required,oneof=pending confirmed preparing on-the-way delivered cancelled"`
}

func GetOrders(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, orders.Orders())
	}
}

func GetCurrentOrder(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := orders.CurrentOrder()
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "no current order"})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func GetOrder(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, ok := orders.GetOrderById(c.Param("order_id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": store.ErrOrderNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

// UpdateOrder changes an order's status. With enforce set, moves outside the
// delivery workflow are rejected with 409.
func UpdateOrder(orders *store.OrderStore, enforce bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req updateOrderRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&req); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		orderId := c.Param("order_id")
		if enforce {
			err := orders.AdvanceOrderStatus(orderId, req.Status)
			if err == store.ErrOrderNotFound {
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
				return
			}
			if err != nil {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
				return
			}
		} else {
			if _, ok := orders.GetOrderById(orderId); !ok {
				c.JSON(http.StatusNotFound, gin.H{"error": store.ErrOrderNotFound.Error()})
				return
			}
			orders.UpdateOrderStatus(orderId, req.Status)
		}

		order, _ := orders.GetOrderById(orderId)
		c.JSON(http.StatusOK, order)
	}
}
