package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saude-emendas/backend/internal/httperror"
	"github.com/saude-emendas/backend/internal/models"
)

// @Summary		Delete everything
// @Description	Permanently deletes all resources
// @Tags			v1
// @Success		204
// @Failure		400		{object}	httperror.Error
// @Failure		500		{object}	httperror.Error
// @Param			confirm	query		string	false	"Confirmation to delete all resources. Must have the value 'yes-please-delete-everything'"
// @Router			/v1 [delete]
func Cleanup(c *gin.Context) {
	var params struct {
		Confirm string `form:"confirm"`
	}

	err := c.ShouldBindQuery(&params)
	if err != nil || params.Confirm != "yes-please-delete-everything" {
		c.JSON(http.StatusBadRequest, httperror.New(errCleanupConfirmation))
		return
	}

	// Foreign keys are checked during cleanup,
	// add new models *before* any of the models
	// they reference
	resources := []any{
		models.Expense{},
		models.Transfer{},
		models.Destination{},
		models.Action{},
		models.Amendment{},
		models.AuditEntry{},
	}

	// Use a transaction so that we can roll back if errors happen
	tx := db(c).Begin()

	for _, model := range resources {
		err := tx.Unscoped().Where("true").Delete(&model).Error
		if err != nil {
			c.JSON(httperror.Status(err), httperror.New(err))
			tx.Rollback()
			return
		}
	}

	err = tx.Commit().Error
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
