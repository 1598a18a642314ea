package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/snapvent/internal/helpers"
	"github.com/joshua-takyi/snapvent/internal/models"
	"github.com/joshua-takyi/snapvent/internal/services"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type uploadURLRequest struct {
	GuestID string `json:"guest_id" binding:"required"`
}

func GenerateUploadURL(gs *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := requireID(c, "id")
		if !ok {
			return
		}
		var req uploadURLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		guestID, err := primitive.ObjectIDFromHex(req.GuestID)
		if err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("invalid guest_id"))
			return
		}
		ticket, err := gs.GenerateUploadURL(c.Request.Context(), eventID, guestID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(ticket, "Upload URL generated"))
	}
}

func RegisterUpload(gs *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := requireID(c, "id")
		if !ok {
			return
		}
		var req models.RegisterUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		item, err := gs.RegisterUpload(c.Request.Context(), eventID, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(item, "Upload registered"))
	}
}

func GuestUsage(gs *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		eventID, ok := requireID(c, "id")
		if !ok {
			return
		}
		guestID, ok := requireID(c, "guest_id")
		if !ok {
			return
		}
		usage, err := gs.GuestUsage(c.Request.Context(), eventID, guestID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(usage, "Capture usage retrieved"))
	}
}

func ListEventGallery(gs *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		eventID, ok := requireID(c, "id")
		if !ok {
			return
		}
		items, err := gs.ListEventGallery(c.Request.Context(), claims.UserID, eventID)
		if err != nil {
			respondError(c, err)
			return
		}
		pageItems, page, limit, ok := paginate(c, items)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, helpers.PaginatedResponse(pageItems, page, limit, int64(len(items))))
	}
}

func DeleteEventGallery(gs *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		eventID, ok := requireID(c, "id")
		if !ok {
			return
		}
		deleted, err := gs.DeleteEventGallery(c.Request.Context(), claims.UserID, eventID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(gin.H{"deleted": deleted}, "Gallery deleted"))
	}
}

func ListGuestGallery(gs *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		guestID, ok := requireID(c, "id")
		if !ok {
			return
		}
		items, err := gs.ListGuestGallery(c.Request.Context(), claims.UserID, guestID)
		if err != nil {
			respondError(c, err)
			return
		}
		pageItems, page, limit, ok := paginate(c, items)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, helpers.PaginatedResponse(pageItems, page, limit, int64(len(items))))
	}
}

func GetGalleryItem(gs *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := requireID(c, "id")
		if !ok {
			return
		}
		view, err := gs.GetDownload(c.Request.Context(), claims.UserID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(view, "Gallery item retrieved"))
	}
}

func DeleteGalleryItem(gs *services.GalleryService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := requireID(c, "id")
		if !ok {
			return
		}
		if err := gs.DeleteGalleryItem(c.Request.Context(), claims.UserID, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(nil, "Gallery item deleted"))
	}
}
