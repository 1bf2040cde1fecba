package routes

import (
	"github.com/gin-gonic/gin"

	"go-food-ordering/catalog"
	controller "go-food-ordering/controllers"
)

func FoodRoutes(incomingRoutes *gin.Engine, menu *catalog.Catalog) {
	incomingRoutes.GET("/restaurants", controller.GetRestaurants(menu))
	incomingRoutes.GET("/restaurants/:restaurant_id", controller.GetRestaurant(menu))
	incomingRoutes.GET("/menu-items/:menu_item_id", controller.GetMenuItem(menu))
	incomingRoutes.GET("/search", controller.SearchMenu(menu))
	incomingRoutes.GET("/modifiers", controller.GetModifiers(menu))
	incomingRoutes.GET("/categories", controller.GetCategories(menu))
}
