package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saude-emendas/backend/internal/httperror"
	"github.com/saude-emendas/backend/internal/httputil"
	"github.com/saude-emendas/backend/internal/models"
	emendas_uuid "github.com/saude-emendas/backend/internal/uuid"
)

func RegisterExpenseRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsExpenses)
		r.GET("", GetExpenses)
		r.POST("", CreateExpenses)
	}
	{
		r.OPTIONS("/:id", OptionsExpenseDetail)
		r.GET("/:id", GetExpense)
		r.PATCH("/:id", UpdateExpense)
		r.DELETE("/:id", DeleteExpense)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Router			/v1/expenses [options]
func OptionsExpenses(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [options]
func OptionsExpenseDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Expense{})
}

// @Summary		Create expenses
// @Description	Creates new expenses
// @Tags			Expenses
// @Produce		json
// @Success		201			{object}	ExpenseCreateResponse
// @Failure		400			{object}	ExpenseCreateResponse
// @Failure		404			{object}	ExpenseCreateResponse
// @Failure		500			{object}	ExpenseCreateResponse
// @Param			expenses	body		[]ExpenseEditable	true	"Expenses"
// @Router			/v1/expenses [post]
func CreateExpenses(c *gin.Context) {
	var expenses []ExpenseEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &expenses)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ExpenseCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ExpenseCreateResponse{}

	for _, create := range expenses {
		expense := create.model()
		err = store(c).Expenses().Create(requestContext(c), &expense)
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		apiResource := newExpense(c, expense)
		r.Data = append(r.Data, ExpenseResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get expenses
// @Description	Returns a list of expenses, oldest first
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseListResponse
// @Failure		400	{object}	ExpenseListResponse
// @Failure		500	{object}	ExpenseListResponse
// @Router			/v1/expenses [get]
// @Param			amendment			query	string	false	"Filter by amendment ID"
// @Param			destination			query	string	false	"Filter by destination ID"
// @Param			statusExecucao		query	string	false	"Filter by execution status"
// @Param			autorizada			query	bool	false	"Is the expense authorized?"
// @Param			categoria			query	string	false	"Filter by category"
// @Param			descricao			query	string	false	"Filter by description"
// @Param			valorLessOrEqual	query	string	false	"Value less than or equal to this"
// @Param			valorMoreOrEqual	query	string	false	"Value more than or equal to this"
// @Param			dataInicio			query	string	false	"On or after this date, YYYY-MM-DD"
// @Param			dataFim				query	string	false	"On or before this date, YYYY-MM-DD"
// @Param			offset				query	uint	false	"The offset of the first expense returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of expenses to return. Defaults to 50."
func GetExpenses(c *gin.Context) {
	var filter ExpenseQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ExpenseListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where := filter.model()
	q := db(c).
		Order("datetime(expenses.data) ASC, datetime(expenses.created_at) ASC").
		Where(&where, queryFields...)

	q = textFilter(q, setFields, "Categoria", "expenses.categoria", filter.Categoria)
	q = textFilter(q, setFields, "Descricao", "expenses.descricao", filter.Descricao)
	q = dateFilter(q, "expenses.data", filter.DataInicio, filter.DataFim)

	if filter.DestinationID != emendas_uuid.Nil {
		q = q.Where("expenses.destination_id = ?", filter.DestinationID.UUID)
	}

	if !filter.ValorLessOrEqual.IsZero() {
		q = q.Where("expenses.valor <= ?", filter.ValorLessOrEqual)
	}

	if !filter.ValorMoreOrEqual.IsZero() {
		q = q.Where("expenses.valor >= ?", filter.ValorMoreOrEqual)
	}

	limit := limit(setFields, filter.Limit)
	q = q.Offset(int(filter.Offset)).Limit(limit)

	var expenses []models.Expense
	err := q.Find(&expenses).Error
	if err != nil {
		s := err.Error()
		c.JSON(httperror.Status(err), ExpenseListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(httperror.Status(err), ExpenseListResponse{
			Error: &s,
		})
		return
	}

	// Transform resources to their API representation
	data := make([]Expense, 0, len(expenses))
	for _, expense := range expenses {
		data = append(data, newExpense(c, expense))
	}

	c.JSON(http.StatusOK, ExpenseListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get expense
// @Description	Returns a specific expense
// @Tags			Expenses
// @Produce		json
// @Success		200	{object}	ExpenseResponse
// @Failure		400	{object}	ExpenseResponse
// @Failure		404	{object}	ExpenseResponse
// @Failure		500	{object}	ExpenseResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [get]
func GetExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	var expense models.Expense
	err = db(c).First(&expense, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	apiResource := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &apiResource})
}

// @Summary		Update expense
// @Description	Updates an existing expense. Only values to be updated need to be specified.
// @Tags			Expenses
// @Accept			json
// @Produce		json
// @Success		200		{object}	ExpenseResponse
// @Failure		400		{object}	ExpenseResponse
// @Failure		404		{object}	ExpenseResponse
// @Failure		500		{object}	ExpenseResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			expense	body		ExpenseEditable	true	"Expense"
// @Router			/v1/expenses/{id} [patch]
func UpdateExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	var expense models.Expense
	err = db(c).First(&expense, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	// Get the fields that are set to be updated
	updateFields, err := httputil.GetBodyFields(c, ExpenseEditable{})
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	// Bind the data for the patch
	var data ExpenseEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	err = db(c).Model(&expense).Select("", updateFields...).Updates(data.model()).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ExpenseResponse{
			Error: &e,
		})
		return
	}

	apiResource := newExpense(c, expense)
	c.JSON(http.StatusOK, ExpenseResponse{Data: &apiResource})
}

// @Summary		Delete expense
// @Description	Deletes an expense
// @Tags			Expenses
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/expenses/{id} [delete]
func DeleteExpense(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	var expense models.Expense
	err = db(c).First(&expense, uri.ID.UUID).Error
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	err = db(c).Delete(&expense).Error
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
