package routes

import (
	"github.com/gin-gonic/gin"

	controller "go-food-ordering/controllers"
	"go-food-ordering/store"
)

func UserRoutes(incomingRoutes *gin.Engine, auth *store.AuthStore, hub *controller.NotificationHub, authenticated gin.HandlerFunc) {
	incomingRoutes.POST("/users/signup", controller.SignUp(auth))
	incomingRoutes.POST("/users/login", controller.Login(auth))
	incomingRoutes.POST("/users/logout", controller.Logout(auth))
	incomingRoutes.GET("/users/me", authenticated, controller.GetProfile(auth))
	incomingRoutes.PATCH("/users/me", authenticated, controller.UpdateProfile(auth))
	incomingRoutes.GET("/ws", hub.HandleWebSocket())
}
