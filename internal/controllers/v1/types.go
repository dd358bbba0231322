package v1

import (
	"context"
	"errors"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/saude-emendas/backend/internal/repository"
	emendas_uuid "github.com/saude-emendas/backend/internal/uuid"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// defaultLimit is the number of resources returned by list endpoints
// when no limit is requested.
const defaultLimit = 50

var errCleanupConfirmation = errors.New("the confirmation for the cleanup API call was incorrect")

type URIID struct {
	ID emendas_uuid.UUID `uri:"id" binding:"required"` // The ID of the resource
}

// Pagination is the pagination information for offset based lists.
type Pagination struct {
	Count  int   `json:"count" example:"25"`  // The amount of records returned in this response
	Offset uint  `json:"offset" example:"50"` // The offset for the first record returned
	Limit  int   `json:"limit" example:"25"`  // The maximum amount of resources to return for this request
	Total  int64 `json:"total" example:"827"` // The total number of resources matching the query
}

// requestContext returns the request context carrying the request ID so
// that it is recorded in the audit trail.
func requestContext(c *gin.Context) context.Context {
	return context.WithValue(c.Request.Context(), models.ContextRequestID, requestid.Get(c))
}

// db returns the database handle for the request.
func db(c *gin.Context) *gorm.DB {
	return models.DB.WithContext(requestContext(c))
}

// store returns the repositories for the request.
func store(c *gin.Context) repository.Store {
	return repository.NewGorm(db(c))
}

// limit returns the limit to use for a list query.
func limit(setFields []string, requested int) int {
	if slices.Contains(setFields, "Limit") {
		return requested
	}
	return defaultLimit
}
