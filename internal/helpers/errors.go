package helpers

import (
	"errors"
	"net/http"

	"github.com/joshua-takyi/snapvent/internal/models"
)

// StatusFromError maps domain errors onto HTTP status codes.
func StatusFromError(err error) int {
	var dup *models.DuplicateDeviceError
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &dup):
		return http.StatusConflict
	case errors.Is(err, models.ErrUserHasEvents):
		return http.StatusConflict
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, models.ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage hides internal failures from clients.
func PublicMessage(err error) string {
	if StatusFromError(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}
