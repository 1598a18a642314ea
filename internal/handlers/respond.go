package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/snapvent/internal/helpers"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

// respondError writes the mapped status. Internal failures are also attached
// to the context so the error middleware logs them.
func respondError(c *gin.Context, err error) {
	status := helpers.StatusFromError(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, helpers.ErrorResponse(helpers.PublicMessage(err)))
}

func requireUser(c *gin.Context) (*helpers.EnhancedClaims, bool) {
	claims, ok := helpers.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, helpers.ErrorResponse("unauthorized"))
		return nil, false
	}
	return claims, true
}

func requireID(c *gin.Context, name string) (primitive.ObjectID, bool) {
	oid, ok := helpers.ParamObjectID(c, name)
	if !ok {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid "+name+" parameter"))
	}
	return oid, ok
}

// paginate slices items by the page and limit query parameters.
func paginate[T any](c *gin.Context, items []T) ([]T, int, int, bool) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid page parameter"))
		return nil, 0, 0, false
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit <= 0 || limit > maxLimit {
		c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid limit parameter"))
		return nil, 0, 0, false
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}, page, limit, true
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end], page, limit, true
}
