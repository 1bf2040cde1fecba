package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator"

	"go-food-ordering/catalog"
)

var validate = validator.New()

func GetRestaurants(menu *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, menu.ListRestaurants(c.Query("category")))
	}
}

func GetRestaurant(menu *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		restaurant, err := menu.Restaurant(c.Param("restaurant_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, restaurant)
	}
}

func GetMenuItem(menu *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		item, err := menu.MenuItem(c.Param("menu_item_id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

func SearchMenu(menu *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, menu.Search(c.Query("q"), c.Query("category")))
	}
}

func GetModifiers(menu *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"toppings": menu.Toppings,
			"sides":    menu.Sides,
		})
	}
}

func GetCategories(menu *catalog.Catalog) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, menu.Categories)
	}
}
