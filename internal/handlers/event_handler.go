package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/snapvent/internal/helpers"
	"github.com/joshua-takyi/snapvent/internal/models"
	"github.com/joshua-takyi/snapvent/internal/services"
)

func CreateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		var req models.CreateEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}

		event, err := es.CreateEvent(c.Request.Context(), claims.UserID, &req)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, helpers.SuccessResponse(event, "Event created successfully"))
	}
}

// ListEvents lists the caller's events, optionally narrowed by ?status=.
func ListEvents(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}

		var (
			events []*models.Event
			err    error
		)
		if status := c.Query("status"); status != "" {
			events, err = es.ListEventsByStatus(c.Request.Context(), claims.UserID, models.EventStatus(status))
		} else {
			events, err = es.ListEvents(c.Request.Context(), claims.UserID)
		}
		if err != nil {
			respondError(c, err)
			return
		}

		pageItems, page, limit, ok := paginate(c, events)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, helpers.PaginatedResponse(pageItems, page, limit, int64(len(events))))
	}
}

func GetEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := requireID(c, "id")
		if !ok {
			return
		}
		event, err := es.GetEvent(c.Request.Context(), claims.UserID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(event, "Event retrieved successfully"))
	}
}

func UpdateEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := requireID(c, "id")
		if !ok {
			return
		}
		var patch models.UpdateEventRequest
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse(err.Error()))
			return
		}
		event, err := es.UpdateEvent(c.Request.Context(), claims.UserID, id, &patch)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(event, "Event updated successfully"))
	}
}

func DeleteEvent(es *services.EventService) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := requireUser(c)
		if !ok {
			return
		}
		id, ok := requireID(c, "id")
		if !ok {
			return
		}
		result, err := es.DeleteEvent(c.Request.Context(), claims.UserID, id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, helpers.SuccessResponse(result, "Event deleted successfully"))
	}
}
