package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/snapvent/internal/helpers"
	"github.com/joshua-takyi/snapvent/internal/models"
	"github.com/joshua-takyi/snapvent/internal/services"
)

// RegisterGuest is called by the public camera page; no login required.
func RegisterGuest(gs *services.GuestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := requireID(c, "id")
		if !ok {
			return
		}
		var req models.RegisterGuestRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		guest, err := gs.RegisterGuest(c.Request.Context(), eventID, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(guest, "Guest registered successfully"))
	}
}

// LookupGuest returns data null when the visitor is not registered yet.
func LookupGuest(gs *services.GuestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := requireID(c, "id")
		if !ok {
			return
		}
		guest, err := gs.FindGuestByFingerprint(c.Request.Context(), eventID, c.Query("visitor_id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if guest == nil {
			c.JSON(http.StatusOK, helpers.ApiResponse{Success: true, Message: "Guest not registered"})
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(guest, "Guest found"))
	}
}

func ListGuests(gs *services.GuestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		eventID, ok := requireID(c, "id")
		if !ok {
			return
		}
		guests, err := gs.ListGuests(c.Request.Context(), claims.UserID, eventID)
		if err != nil {
			respondError(c, err)
			return
		}
		pageItems, page, limit, ok := paginate(c, guests)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, helpers.PaginatedResponse(pageItems, page, limit, int64(len(guests))))
	}
}

func GetGuest(gs *services.GuestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := requireID(c, "id")
		if !ok {
			return
		}
		guest, err := gs.GetGuest(c.Request.Context(), claims.UserID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(guest, "Guest retrieved successfully"))
	}
}

func UpdateGuest(gs *services.GuestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := requireID(c, "id")
		if !ok {
			return
		}
		var patch models.UpdateGuestRequest
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		guest, err := gs.UpdateGuest(c.Request.Context(), claims.UserID, id, &patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(guest, "Guest updated successfully"))
	}
}

func DeleteGuest(gs *services.GuestService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := requireID(c, "id")
		if !ok {
			return
		}
		deleted, err := gs.DeleteGuest(c.Request.Context(), claims.UserID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{"gallery_items_deleted": deleted}, "Guest deleted successfully"))
	}
}
