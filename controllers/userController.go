package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"go-food-ordering/identity"
	"go-food-ordering/models"
	"go-food-ordering/store"
)

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,min=2,max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func sessionView(auth *store.AuthStore) gin.H {
	user, _ := auth.User()
	response := gin.H{"user": user, "isAuthenticated": auth.IsAuthenticated()}
	if session, ok := auth.Session(); ok {
		response["access_token"] = session.AccessToken
		response["refresh_token"] = session.RefreshToken
		response["expires_at"] = session.ExpiresAt
	}
	return response
}

func SignUp(auth *store.AuthStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signUpRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&req); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		if err := auth.SignUp(c.Request.Context(), req.Email, req.Password, req.FullName); err != nil {
			c.JSON(authStatus(err), gin.H{"error": authMessage(err)})
			return
		}
		c.JSON(http.StatusCreated, sessionView(auth))
	}
}

func Login(auth *store.AuthStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.BindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&req); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		if err := auth.SignIn(c.Request.Context(), req.Email, req.Password); err != nil {
			c.JSON(authStatus(err), gin.H{"error": authMessage(err)})
			return
		}
		c.JSON(http.StatusOK, sessionView(auth))
	}
}

func Logout(auth *store.AuthStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.SignOut(c.Request.Context()); err != nil {
			c.JSON(authStatus(err), gin.H{"error": authMessage(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"isAuthenticated": false})
	}
}

// sessionUser returns the signed-in user when it is the one the request's
// token was issued to. It writes a 401 otherwise.
func sessionUser(c *gin.Context, auth *store.AuthStore) (models.User, bool) {
	user, ok := auth.User()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": identity.ErrNoSession.Error()})
		return models.User{}, false
	}
	if uid := c.GetString("uid"); uid == "" || uid != user.ID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "token does not belong to the signed-in user"})
		return models.User{}, false
	}
	return user, true
}

func GetProfile(auth *store.AuthStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := sessionUser(c, auth)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func UpdateProfile(auth *store.AuthStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := sessionUser(c, auth); !ok {
			return
		}

		var update models.ProfileUpdate
		if err := c.BindJSON(&update); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if validationErr := validate.Struct(&update); validationErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
			return
		}

		if err := auth.UpdateProfile(c.Request.Context(), update); err != nil {
			c.JSON(authStatus(err), gin.H{"error": authMessage(err)})
			return
		}
		user, _ := auth.User()
		c.JSON(http.StatusOK, user)
	}
}

func authStatus(err error) int {
	switch errors.Cause(err) {
	case identity.ErrInvalidCredentials, identity.ErrNoSession:
		return http.StatusUnauthorized
	case identity.ErrEmailTaken:
		return http.StatusConflict
	case identity.ErrInvalidEmail, identity.ErrWeakPassword:
		return http.StatusBadRequest
	case identity.ErrUserNotFound:
		return http.StatusNotFound
	}
	log.WithError(err).Error("identity provider failure")
	return http.StatusInternalServerError
}

func authMessage(err error) string {
	var authErr *store.AuthError
	if errors.As(err, &authErr) {
		return authErr.Message
	}
	return err.Error()
}
