package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/snapvent/internal/helpers"
	"github.com/joshua-takyi/snapvent/internal/services"
)

func PreviewPrice(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req services.PricePreviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		breakdown, err := cs.PreviewPrice(c.Request.Context(), &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(breakdown, "Price calculated"))
	}
}

func ListCapturePlans(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		plans, err := cs.ListCapturePlans(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(plans, "Capture plans retrieved"))
	}
}

func ListGuestTiers(cs *services.CatalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, helpers.SuccessResponse(cs.ListGuestTiers(), "Guest tiers retrieved"))
	}
}
