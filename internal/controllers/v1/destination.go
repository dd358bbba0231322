package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saude-emendas/backend/internal/httperror"
	"github.com/saude-emendas/backend/internal/httputil"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/saude-emendas/backend/internal/planning"
	emendas_uuid "github.com/saude-emendas/backend/internal/uuid"
)

func RegisterDestinationRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsDestinations)
		r.GET("", GetDestinations)
		r.POST("", CreateDestinations)
	}
	{
		r.OPTIONS("/:id", OptionsDestinationDetail)
		r.GET("/:id", GetDestination)
		r.PATCH("/:id", UpdateDestination)
		r.DELETE("/:id", DeleteDestination)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Destinations
// @Success		204
// @Router			/v1/destinations [options]
func OptionsDestinations(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Destinations
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/destinations/{id} [options]
func OptionsDestinationDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Destination{})
}

// @Summary		Create destinations
// @Description	Creates new destinations. A destination is only created if the amendment of its action has enough unallocated value.
// @Tags			Destinations
// @Produce		json
// @Success		201				{object}	DestinationCreateResponse
// @Failure		400				{object}	DestinationCreateResponse
// @Failure		404				{object}	DestinationCreateResponse
// @Failure		500				{object}	DestinationCreateResponse
// @Param			destinations	body		[]DestinationEditable	true	"Destinations"
// @Router			/v1/destinations [post]
func CreateDestinations(c *gin.Context) {
	var destinations []DestinationEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &destinations)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), DestinationCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := DestinationCreateResponse{}
	service := planning.NewService(store(c))

	for _, create := range destinations {
		destination, err := service.SaveDestination(requestContext(c), create.model())
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		apiResource := newDestination(c, destination)
		r.Data = append(r.Data, DestinationResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// @Summary		Get destinations
// @Description	Returns a list of destinations
// @Tags			Destinations
// @Produce		json
// @Success		200	{object}	DestinationListResponse
// @Failure		400	{object}	DestinationListResponse
// @Failure		500	{object}	DestinationListResponse
// @Router			/v1/destinations [get]
// @Param			action			query	string	false	"Filter by action ID"
// @Param			amendment		query	string	false	"Filter by amendment ID"
// @Param			tipoDestinacao	query	string	false	"Filter by spending category"
// @Param			grupoDespesa	query	string	false	"Filter by expense group"
// @Param			subtipo			query	string	false	"Filter by subtype"
// @Param			offset			query	uint	false	"The offset of the first destination returned. Defaults to 0."
// @Param			limit			query	int		false	"Maximum number of destinations to return. Defaults to 50."
func GetDestinations(c *gin.Context) {
	var filter DestinationQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, DestinationListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where := filter.model()
	q := db(c).
		Order("destinations.created_at ASC").
		Where(&where, queryFields...)

	q = textFilter(q, setFields, "GrupoDespesa", "destinations.grupo_despesa", filter.GrupoDespesa)
	q = textFilter(q, setFields, "Subtipo", "destinations.subtipo", filter.Subtipo)

	if filter.AmendmentID != emendas_uuid.Nil {
		q = q.
			Joins("JOIN actions ON actions.id = destinations.action_id").
			Where("actions.amendment_id = ?", filter.AmendmentID.UUID)
	}

	limit := limit(setFields, filter.Limit)
	q = q.Offset(int(filter.Offset)).Limit(limit)

	var destinations []models.Destination
	err := q.Find(&destinations).Error
	if err != nil {
		s := err.Error()
		c.JSON(httperror.Status(err), DestinationListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(httperror.Status(err), DestinationListResponse{
			Error: &s,
		})
		return
	}

	// Transform resources to their API representation
	data := make([]Destination, 0, len(destinations))
	for _, destination := range destinations {
		data = append(data, newDestination(c, destination))
	}

	c.JSON(http.StatusOK, DestinationListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get destination
// @Description	Returns a specific destination
// @Tags			Destinations
// @Produce		json
// @Success		200	{object}	DestinationResponse
// @Failure		400	{object}	DestinationResponse
// @Failure		404	{object}	DestinationResponse
// @Failure		500	{object}	DestinationResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/destinations/{id} [get]
func GetDestination(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), DestinationResponse{
			Error: &e,
		})
		return
	}

	destination, err := store(c).Destinations().Get(requestContext(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), DestinationResponse{
			Error: &e,
		})
		return
	}

	apiResource := newDestination(c, destination)
	c.JSON(http.StatusOK, DestinationResponse{Data: &apiResource})
}

// @Summary		Update destination
// @Description	Updates an existing destination. Only values to be updated need to be specified. The new value must fit into the unallocated value of the amendment.
// @Tags			Destinations
// @Accept			json
// @Produce		json
// @Success		200			{object}	DestinationResponse
// @Failure		400			{object}	DestinationResponse
// @Failure		404			{object}	DestinationResponse
// @Failure		500			{object}	DestinationResponse
// @Param			id			path		URIID				true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			destination	body		DestinationEditable	true	"Destination"
// @Router			/v1/destinations/{id} [patch]
func UpdateDestination(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), DestinationResponse{
			Error: &e,
		})
		return
	}

	current, err := store(c).Destinations().Get(requestContext(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), DestinationResponse{
			Error: &e,
		})
		return
	}

	// Fields not in the body keep their current values
	data := newDestination(c, current).DestinationEditable
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), DestinationResponse{
			Error: &e,
		})
		return
	}

	update := data.model()
	update.DefaultModel = current.DefaultModel

	destination, err := planning.NewService(store(c)).SaveDestination(requestContext(c), update)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), DestinationResponse{
			Error: &e,
		})
		return
	}

	apiResource := newDestination(c, destination)
	c.JSON(http.StatusOK, DestinationResponse{Data: &apiResource})
}

// @Summary		Delete destination
// @Description	Deletes a destination. Expenses linked to it are kept.
// @Tags			Destinations
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/destinations/{id} [delete]
func DeleteDestination(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	err = planning.NewService(store(c)).DeleteDestination(requestContext(c), uri.ID.UUID)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
