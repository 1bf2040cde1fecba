package routes

import (
	"github.com/gin-gonic/gin"

	controller "go-food-ordering/controllers"
	"go-food-ordering/store"
)

func OrderRoutes(incomingRoutes *gin.Engine, orders *store.OrderStore, enforceTransitions bool) {
	incomingRoutes.GET("/orders", controller.GetOrders(orders))
	incomingRoutes.GET("/orders/current", controller.GetCurrentOrder(orders))
	incomingRoutes.GET("/orders/:order_id", controller.GetOrder(orders))
	incomingRoutes.PATCH("/orders/:order_id", controller.UpdateOrder(orders, enforceTransitions))
}
