package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/allocation"
	"github.com/saude-emendas/backend/internal/filter"
	"github.com/saude-emendas/backend/internal/httperror"
	"github.com/saude-emendas/backend/internal/httputil"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/saude-emendas/backend/internal/planning"
	"github.com/saude-emendas/backend/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func RegisterAmendmentRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsAmendments)
		r.GET("", GetAmendments)
		r.POST("", CreateAmendments)
	}
	{
		r.OPTIONS("/:id", OptionsAmendmentDetail)
		r.GET("/:id", GetAmendment)
		r.PATCH("/:id", UpdateAmendment)
		r.DELETE("/:id", DeleteAmendment)
	}
	{
		r.OPTIONS("/:id/allocation-preview", OptionsAllocationPreview)
		r.POST("/:id/allocation-preview", PreviewAllocation)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Amendments
// @Success		204
// @Router			/v1/amendments [options]
func OptionsAmendments(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Amendments
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/amendments/{id} [options]
func OptionsAmendmentDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Amendment{})
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Amendments
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/amendments/{id}/allocation-preview [options]
func OptionsAllocationPreview(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	err = db(c).First(&models.Amendment{}, uri.ID.UUID).Error
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	httputil.OptionsPost(c)
}

// amendmentRecord loads the expenses and transfers of the amendment and
// the value allocated to its destinations.
func amendmentRecord(c *gin.Context, amendment models.Amendment) (filter.Record, decimal.Decimal, error) {
	ctx := requestContext(c)
	s := store(c)

	expenses, err := s.Expenses().ListByAmendment(ctx, amendment.ID)
	if err != nil {
		return filter.Record{}, decimal.Zero, err
	}

	transfers, err := s.Transfers().ListByAmendment(ctx, amendment.ID)
	if err != nil {
		return filter.Record{}, decimal.Zero, err
	}

	lines, err := models.AllocationLines(db(c), amendment.ID)
	if err != nil {
		return filter.Record{}, decimal.Zero, err
	}

	return filter.Record{Amendment: amendment, Expenses: expenses, Transfers: transfers}, allocation.Sum(lines), nil
}

// allocatedByAmendment returns the value allocated to destinations for
// every amendment that has at least one destination.
func allocatedByAmendment(c *gin.Context) (map[uuid.UUID]decimal.Decimal, error) {
	var rows []struct {
		AmendmentID uuid.UUID
		Valor       decimal.Decimal
	}

	err := db(c).
		Model(&models.Destination{}).
		Select("actions.amendment_id AS amendment_id, destinations.valor_destinado AS valor").
		Joins("JOIN actions ON actions.id = destinations.action_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	allocated := make(map[uuid.UUID]decimal.Decimal)
	for _, row := range rows {
		allocated[row.AmendmentID] = allocated[row.AmendmentID].Add(row.Valor)
	}

	return allocated, nil
}

// @Summary		Create amendments
// @Description	Creates new amendments
// @Tags			Amendments
// @Produce		json
// @Success		201			{object}	AmendmentCreateResponse
// @Failure		400			{object}	AmendmentCreateResponse
// @Failure		404			{object}	AmendmentCreateResponse
// @Failure		500			{object}	AmendmentCreateResponse
// @Param			amendments	body		[]AmendmentEditable	true	"Amendments"
// @Router			/v1/amendments [post]
func CreateAmendments(c *gin.Context) {
	var amendments []AmendmentEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &amendments)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AmendmentCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := AmendmentCreateResponse{}

	for _, create := range amendments {
		amendment := create.model()
		err = db(c).Create(&amendment).Error
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		apiResource := newAmendment(c, filter.Record{Amendment: amendment}, decimal.Zero)
		r.Data = append(r.Data, AmendmentResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get amendments
// @Description	Returns the amendments matching the filters, sorted and paginated, together with the totals of all matching amendments
// @Tags			Amendments
// @Produce		json
// @Success		200	{object}	AmendmentListResponse
// @Failure		400	{object}	AmendmentListResponse
// @Failure		500	{object}	AmendmentListResponse
// @Router			/v1/amendments [get]
// @Param			parlamentar			query	string	false	"Case-insensitive substring or glob pattern matching either parliamentarian"
// @Param			tipoRecurso			query	string	false	"Filter by funding instrument"
// @Param			statusOficial		query	string	false	"Filter by official status"
// @Param			statusInterno		query	string	false	"Filter by internal status"
// @Param			valorMin			query	string	false	"Total value more or equal to this"
// @Param			valorMax			query	string	false	"Total value less or equal to this"
// @Param			dataInicio			query	string	false	"Registered on or after this date, YYYY-MM-DD"
// @Param			dataFim				query	string	false	"Registered on or before this date, YYYY-MM-DD"
// @Param			possuiAnexos		query	bool	false	"Has attachments?"
// @Param			possuiPortaria		query	bool	false	"Has an ordinance?"
// @Param			possuiDeliberacao	query	bool	false	"Has a deliberation?"
// @Param			possuiRepasses		query	bool	false	"Has completed transfers?"
// @Param			possuiPendencias	query	bool	false	"Has pending items?"
// @Param			sortBy				query	string	false	"One of parlamentar, valorTotal, data, numero, statusOficial"
// @Param			sortDesc			query	bool	false	"Sort descending"
// @Param			page				query	int		false	"Page to return, starting at 1"
// @Param			pageSize			query	int		false	"Amendments per page. Defaults to 10."
func GetAmendments(c *gin.Context) {
	var query AmendmentQueryFilter
	if err := c.Bind(&query); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AmendmentListResponse{
			Error: &s,
		})
		return
	}

	criteria, err := query.criteria()
	if err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AmendmentListResponse{
			Error: &s,
		})
		return
	}

	records, err := repository.Records(requestContext(c), store(c))
	if err != nil {
		s := err.Error()
		c.JSON(httperror.Status(err), AmendmentListResponse{
			Error: &s,
		})
		return
	}

	allocated, err := allocatedByAmendment(c)
	if err != nil {
		s := err.Error()
		c.JSON(httperror.Status(err), AmendmentListResponse{
			Error: &s,
		})
		return
	}

	matching := filter.Filter(records, criteria)
	totals := filter.Totals(matching)
	page := filter.Paginate(filter.Sort(matching, criteria.SortBy, criteria.SortDesc), criteria.Page, criteria.PageSize)

	// Transform resources to their API representation
	data := make([]Amendment, 0, len(page.Records))
	for _, record := range page.Records {
		data = append(data, newAmendment(c, record, allocated[record.Amendment.ID]))
	}

	c.JSON(http.StatusOK, AmendmentListResponse{
		Data: data,
		Pagination: &PagePagination{
			Count:    len(data),
			Page:     page.Page,
			PageSize: page.PageSize,
			Pages:    page.Pages,
			Total:    page.Total,
		},
		Totals: &totals,
	})
}

// @Summary		Get amendment
// @Description	Returns a specific amendment with its derived values
// @Tags			Amendments
// @Produce		json
// @Success		200	{object}	AmendmentResponse
// @Failure		400	{object}	AmendmentResponse
// @Failure		404	{object}	AmendmentResponse
// @Failure		500	{object}	AmendmentResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/amendments/{id} [get]
func GetAmendment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AmendmentResponse{
			Error: &e,
		})
		return
	}

	var amendment models.Amendment
	err = db(c).First(&amendment, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AmendmentResponse{
			Error: &e,
		})
		return
	}

	record, allocated, err := amendmentRecord(c, amendment)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AmendmentResponse{
			Error: &e,
		})
		return
	}

	apiResource := newAmendment(c, record, allocated)
	c.JSON(http.StatusOK, AmendmentResponse{Data: &apiResource})
}

// @Summary		Update amendment
// @Description	Updates an existing amendment. Only values to be updated need to be specified.
// @Tags			Amendments
// @Accept			json
// @Produce		json
// @Success		200			{object}	AmendmentResponse
// @Failure		400			{object}	AmendmentResponse
// @Failure		404			{object}	AmendmentResponse
// @Failure		500			{object}	AmendmentResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			amendment	body		AmendmentEditable	true	"Amendment"
// @Router			/v1/amendments/{id} [patch]
func UpdateAmendment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AmendmentResponse{
			Error: &e,
		})
		return
	}

	var amendment models.Amendment
	err = db(c).First(&amendment, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AmendmentResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, AmendmentEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AmendmentResponse{
			Error: &e,
		})
		return
	}

	// Bind the data for the patch
	var data AmendmentEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AmendmentResponse{
			Error: &e,
		})
		return
	}

	err = db(c).Model(&amendment).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AmendmentResponse{
			Error: &e,
		})
		return
	}

	record, allocated, err := amendmentRecord(c, amendment)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AmendmentResponse{
			Error: &e,
		})
		return
	}

	apiResource := newAmendment(c, record, allocated)
	c.JSON(http.StatusOK, AmendmentResponse{Data: &apiResource})
}

// @Summary		Delete amendment
// @Description	Deletes an amendment together with its actions, destinations, expenses and transfers
// @Tags			Amendments
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/amendments/{id} [delete]
func DeleteAmendment(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	var amendment models.Amendment
	err = db(c).First(&amendment, uri.ID.UUID).Error
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	err = db(c).Transaction(func(tx *gorm.DB) error {
		return models.DeleteAmendment(tx, amendment)
	})
	err = models.GeneralError(requestContext(c), err)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

// @Summary		Preview allocation
// @Description	Computes the balance of the action form without saving anything
// @Tags			Amendments
// @Accept			json
// @Produce		json
// @Success		200		{object}	AllocationPreviewResponse
// @Failure		400		{object}	AllocationPreviewResponse
// @Failure		404		{object}	AllocationPreviewResponse
// @Failure		500		{object}	AllocationPreviewResponse
// @Param			id		path		URIID						true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			preview	body		AllocationPreviewRequest	true	"Proposed values"
// @Router			/v1/amendments/{id}/allocation-preview [post]
func PreviewAllocation(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AllocationPreviewResponse{
			Error: &e,
		})
		return
	}

	var request AllocationPreviewRequest
	err = httputil.BindData(c, &request)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AllocationPreviewResponse{
			Error: &e,
		})
		return
	}

	balance, err := planning.NewService(store(c)).Preview(requestContext(c), uri.ID.UUID, request.ActionID, request.Values, request.Editable...)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AllocationPreviewResponse{
			Error: &e,
		})
		return
	}

	c.JSON(http.StatusOK, AllocationPreviewResponse{Data: &balance})
}
