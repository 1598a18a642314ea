package helpers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
	refreshTokenMaxAge = 3600 * 24 * 30
)

// CurrentUser returns the claims set by the auth middleware.
func CurrentUser(c *gin.Context) (*EnhancedClaims, bool) {
	v, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	claims, ok := v.(*EnhancedClaims)
	return claims, ok && claims != nil
}

// ParamObjectID reads a hex object id path parameter.
func ParamObjectID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(strings.TrimSpace(c.Param(name)))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

func SetAuthCookies(c *gin.Context, accessToken, refreshToken string, expiresIn int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(AccessTokenCookie, accessToken, expiresIn, "/", "", secure, true)
	if refreshToken != "" {
		c.SetCookie(RefreshTokenCookie, refreshToken, refreshTokenMaxAge, "/", "", secure, true)
	}
}

func ClearAuthCookies(c *gin.Context, secure bool) {
	c.SetCookie(AccessTokenCookie, "", -1, "/", "", secure, true)
	c.SetCookie(RefreshTokenCookie, "", -1, "/", "", secure, true)
}
