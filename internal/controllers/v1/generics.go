package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/saude-emendas/backend/internal/httperror"
	"github.com/saude-emendas/backend/internal/httputil"
	"github.com/saude-emendas/backend/internal/models"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// resourceOptionsDetail returns the appropriate response for an HTTP OPTIONS request for a specific resource.
func resourceOptionsDetail[R models.Amendment | models.Action | models.Destination | models.Expense | models.Transfer](c *gin.Context, resource R) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	err = db(c).First(&resource, uri.ID.UUID).Error
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	httputil.OptionsGetPatchDelete(c)
}

// textFilter filters on column containing value. If the query parameter
// for field is set, but empty, it filters for an empty column.
func textFilter(query *gorm.DB, setFields []string, field, column, value string) *gorm.DB {
	if value != "" {
		return query.Where(fmt.Sprintf("%s LIKE ?", column), fmt.Sprintf("%%%s%%", value))
	}

	if slices.Contains(setFields, field) {
		return query.Where(fmt.Sprintf("%s = ''", column))
	}

	return query
}

// dateFilter filters on column being between the days of from and until,
// both inclusive. Zero times do not filter.
func dateFilter(query *gorm.DB, column string, from, until time.Time) *gorm.DB {
	if !from.IsZero() {
		query = query.Where(fmt.Sprintf("%s >= date(?)", column), time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC))
	}

	if !until.IsZero() {
		query = query.Where(fmt.Sprintf("%s < date(?)", column), time.Date(until.Year(), until.Month(), until.Day()+1, 0, 0, 0, 0, time.UTC))
	}

	return query
}
