package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"go-food-ordering/store"
)

type placeOrderRequest struct {
	DeliveryAddress string `json:"deliveryAddress" validate:"max=300"`
	PaymentMethod   string `json:"paymentMethod"`
}

func GetCheckout(checkout *store.Checkout, auth *store.AuthStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sessionUser(c, auth); !ok {
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"summary":         checkout.Summary(),
			"paymentMethods":  store.PaymentMethods,
			"deliveryAddress": checkout.DefaultAddress(),
		})
	}
}

func PlaceOrder(checkout *store.Checkout, auth *store.AuthStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sessionUser(c, auth); !ok {
			return
		}

		var req placeOrderRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&req); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		order, err := checkout.PlaceOrder(store.CheckoutRequest{
			DeliveryAddress: req.DeliveryAddress,
			PaymentMethod:   req.PaymentMethod,
		})
		switch err {
		case nil:
		case store.ErrCartEmpty, store.ErrDeliveryAddressRequired:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "order was not created"})
			return
		}

		log.WithFields(log.Fields{
			"order_id": order.ID,
			"total":    order.Total.StringFixed(2),
			"uid":      c.GetString("uid"),
		}).Info("order placed")
		c.JSON(http.StatusCreated, order)
	}
}
