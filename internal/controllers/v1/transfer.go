package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saude-emendas/backend/internal/httperror"
	"github.com/saude-emendas/backend/internal/httputil"
	"github.com/saude-emendas/backend/internal/models"
)

func RegisterTransferRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsTransfers)
		r.GET("", GetTransfers)
		r.POST("", CreateTransfers)
	}
	{
		r.OPTIONS("/:id", OptionsTransferDetail)
		r.GET("/:id", GetTransfer)
		r.PATCH("/:id", UpdateTransfer)
		r.DELETE("/:id", DeleteTransfer)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transfers
// @Success		204
// @Router			/v1/transfers [options]
func OptionsTransfers(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Transfers
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transfers/{id} [options]
func OptionsTransferDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Transfer{})
}

// @Summary		Create transfers
// @Description	Creates new transfers
// @Tags			Transfers
// @Produce		json
// @Success		201			{object}	TransferCreateResponse
// @Failure		400			{object}	TransferCreateResponse
// @Failure		404			{object}	TransferCreateResponse
// @Failure		500			{object}	TransferCreateResponse
// @Param			transfers	body		[]TransferEditable	true	"Transfers"
// @Router			/v1/transfers [post]
func CreateTransfers(c *gin.Context) {
	var transfers []TransferEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &transfers)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransferCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := TransferCreateResponse{}

	for _, create := range transfers {
		transfer := create.model()
		err = store(c).Transfers().Create(requestContext(c), &transfer)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		apiResource := newTransfer(c, transfer)
		r.Data = append(r.Data, TransferResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get transfers
// @Description	Returns a list of transfers, oldest first
// @Tags			Transfers
// @Produce		json
// @Success		200	{object}	TransferListResponse
// @Failure		400	{object}	TransferListResponse
// @Failure		500	{object}	TransferListResponse
// @Router			/v1/transfers [get]
// @Param			amendment	query	string	false	"Filter by amendment ID"
// @Param			status		query	string	false	"Filter by status"
// @Param			observacao	query	string	false	"Filter by notes"
// @Param			dataInicio	query	string	false	"On or after this date, YYYY-MM-DD"
// @Param			dataFim		query	string	false	"On or before this date, YYYY-MM-DD"
// @Param			offset		query	uint	false	"The offset of the first transfer returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of transfers to return. Defaults to 50."
func GetTransfers(c *gin.Context) {
	var filter TransferQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, TransferListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where := filter.model()
	q := db(c).
		Order("datetime(transfers.data) ASC, datetime(transfers.created_at) ASC").
		Where(&where, queryFields...)

	q = textFilter(q, setFields, "Observacao", "transfers.observacao", filter.Observacao)
	q = dateFilter(q, "transfers.data", filter.DataInicio, filter.DataFim)

	limit := limit(setFields, filter.Limit)
	q = q.Offset(int(filter.Offset)).Limit(limit)

	var transfers []models.Transfer
	err := q.Find(&transfers).Error
	if err != nil {
		s := err.Error()
		c.JSON(httperror.Status(err), TransferListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(httperror.Status(err), TransferListResponse{
			Error: &s,
		})
		return
	}

	// Transform resources to their API representation
	data := make([]Transfer, 0, len(transfers))
	for _, transfer := range transfers {
		data = append(data, newTransfer(c, transfer))
	}

	c.JSON(http.StatusOK, TransferListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get transfer
// @Description	Returns a specific transfer
// @Tags			Transfers
// @Produce		json
// @Success		200	{object}	TransferResponse
// @Failure		400	{object}	TransferResponse
// @Failure		404	{object}	TransferResponse
// @Failure		500	{object}	TransferResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transfers/{id} [get]
func GetTransfer(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransferResponse{
			Error: &e,
		})
		return
	}

	var transfer models.Transfer
	err = db(c).First(&transfer, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransferResponse{
			Error: &e,
		})
		return
	}

	apiResource := newTransfer(c, transfer)
	c.JSON(http.StatusOK, TransferResponse{Data: &apiResource})
}

// @Summary		Update transfer
// @Description	Updates an existing transfer. Only values to be updated need to be specified.
// @Tags			Transfers
// @Accept			json
// @Produce		json
// @Success		200		{object}	TransferResponse
// @Failure		400		{object}	TransferResponse
// @Failure		404		{object}	TransferResponse
// @Failure		500		{object}	TransferResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			transfer	body		TransferEditable	true	"Transfer"
// @Router			/v1/transfers/{id} [patch]
func UpdateTransfer(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransferResponse{
			Error: &e,
		})
		return
	}

	var transfer models.Transfer
	err = db(c).First(&transfer, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransferResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, TransferEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransferResponse{
			Error: &e,
		})
		return
	}

	// Bind the data for the patch
	var data TransferEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransferResponse{
			Error: &e,
		})
		return
	}

	err = db(c).Model(&transfer).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), TransferResponse{
			Error: &e,
		})
		return
	}

	apiResource := newTransfer(c, transfer)
	c.JSON(http.StatusOK, TransferResponse{Data: &apiResource})
}

// @Summary		Delete transfer
// @Description	Deletes a transfer
// @Tags			Transfers
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/transfers/{id} [delete]
func DeleteTransfer(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	var transfer models.Transfer
	err = db(c).First(&transfer, uri.ID.UUID).Error
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	err = db(c).Delete(&transfer).Error
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
