package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/snapvent/internal/helpers"
	"github.com/joshua-takyi/snapvent/internal/models"
	"github.com/joshua-takyi/snapvent/internal/services"
)

func Login(us *services.UserService, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		resp, err := us.Login(c.Request.Context(), &req)
		if err != nil {
			if errors.Is(err, models.ErrUnauthorized) {
				c.JSON(http.StatusUnauthorized, helpers.ErrorResponse("invalid email or password"))
				return
			}
			respondError(c, err)
			return
		}
		helpers.SetAuthCookies(c, resp.AccessToken, resp.RefreshToken, resp.ExpiresIn, secureCookies)
		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{
			"user_id":    resp.User.ID,
			"email":      resp.User.Email,
			"expires_in": resp.ExpiresIn,
		}, "Login successful"))
	}
}

func Logout(secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		helpers.ClearAuthCookies(c, secureCookies)
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Logged out successfully"))
	}
}

// Me returns the stored profile, falling back to token claims before the
// identity webhook has synced the user.
func Me(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		user, err := us.GetUser(c.Request.Context(), claims.UserID)
		if errors.Is(err, models.ErrUserNotFound) {
			user = &models.User{ID: claims.UserID, Email: claims.Email, Name: claims.Fullname}
		} else if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(user, "Profile retrieved"))
	}
}

// IdentityWebhook answers 200 for rejected deletions so the provider does
// not retry them.
func IdentityWebhook(us *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var hook models.IdentityWebhook
		if err := c.ShouldBindJSON(&hook); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		user, err := us.HandleWebhook(c.Request.Context(), &hook)
		if errors.Is(err, models.ErrUserHasEvents) {
			c.JSON(http.StatusOK, helpers.ErrorResponse(err.Error()))
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(user, "Webhook processed"))
	}
}
