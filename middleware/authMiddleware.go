package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"go-food-ordering/helpers"
)

type TokenValidator interface {
	ValidateAccessToken(token string) (*helpers.SignedDetails, error)
}

// Authentication accepts the access token from the "token" header or an
// "Authorization: Bearer" header.
func Authentication(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		clientToken := c.Request.Header.Get("token")
		if clientToken == "" {
			clientToken = strings.TrimPrefix(c.Request.Header.Get("Authorization"), "Bearer ")
		}
		if clientToken == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no authorization header provided"})
			c.Abort()
			return
		}
		claims, err := validator.ValidateAccessToken(clientToken)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			c.Abort()
			return
		}
		c.Set("email", claims.Email)
		c.Set("Name", claims.Name)
		c.Set("uid", claims.Uid)
		c.Next()
	}
}
