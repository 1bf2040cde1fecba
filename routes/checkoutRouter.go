package routes

import (
	"github.com/gin-gonic/gin"

	controller "go-food-ordering/controllers"
	"go-food-ordering/store"
)

func CheckoutRoutes(incomingRoutes *gin.Engine, checkout *store.Checkout, auth *store.AuthStore, authenticated gin.HandlerFunc) {
	group := incomingRoutes.Group("/checkout", authenticated)
	group.GET("", controller.GetCheckout(checkout, auth))
	group.POST("", controller.PlaceOrder(checkout, auth))
}
