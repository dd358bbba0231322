// Package httperror maps errors to HTTP responses.
package httperror

import (
	"errors"
	"net/http"

	"github.com/saude-emendas/backend/internal/models"
)

// Error is the body of an error response.
type Error struct {
	Message string `json:"error" example:"there is no amendment matching your query"` // The error that occurred
}

func New(e error) Error {
	return Error{
		Message: e.Error(),
	}
}

// Status returns the appropriate HTTP status for an error.
func Status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}
