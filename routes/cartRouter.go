package routes

import (
	"github.com/gin-gonic/gin"

	"go-food-ordering/catalog"
	controller "go-food-ordering/controllers"
	"go-food-ordering/store"
)

func CartRoutes(incomingRoutes *gin.Engine, cart *store.CartStore, menu *catalog.Catalog) {
	incomingRoutes.GET("/cart", controller.GetCart(cart))
	incomingRoutes.POST("/cart/items", controller.AddCartItem(cart, menu))
	incomingRoutes.PATCH("/cart/items/:item_id", controller.UpdateCartItem(cart))
	incomingRoutes.DELETE("/cart/items/:item_id", controller.RemoveCartItem(cart))
	incomingRoutes.DELETE("/cart", controller.ClearCart(cart))
}
