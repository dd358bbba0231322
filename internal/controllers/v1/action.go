package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/httperror"
	"github.com/saude-emendas/backend/internal/httputil"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/saude-emendas/backend/internal/planning"
)

func RegisterActionRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsActions)
		r.GET("", GetActions)
		r.POST("", CreateActions)
	}
	{
		r.OPTIONS("/:id", OptionsActionDetail)
		r.GET("/:id", GetAction)
		r.PATCH("/:id", UpdateAction)
		r.DELETE("/:id", DeleteAction)
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Actions
// @Success		204
// @Router			/v1/actions [options]
func OptionsActions(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Actions
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/actions/{id} [options]
func OptionsActionDetail(c *gin.Context) {
	resourceOptionsDetail(c, models.Action{})
}

// @Summary		Create actions
// @Description	Creates new actions together with their destinations. Each action is saved in one transaction and only if the amendment has enough unallocated value.
// @Tags			Actions
// @Produce		json
// @Success		201		{object}	ActionCreateResponse
// @Failure		400		{object}	ActionCreateResponse
// @Failure		404		{object}	ActionCreateResponse
// @Failure		500		{object}	ActionCreateResponse
// @Param			actions	body		[]ActionEditable	true	"Actions"
// @Router			/v1/actions [post]
func CreateActions(c *gin.Context) {
	var actions []ActionEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &actions)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ActionCreateResponse{
			Error: &e,
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := ActionCreateResponse{}
	service := planning.NewService(store(c))

	for _, create := range actions {
		action, destinations, err := service.SaveAction(requestContext(c), create.plan(nil))
		if err != nil {
			status = r.appendError(err, status)
			continue
		}

		apiResource := newAction(c, action, destinations)
		r.Data = append(r.Data, ActionResponse{Data: &apiResource})
	}

	c.JSON(status, r)
}

// destinationsByAction returns the destinations of the actions, grouped by action ID.
func destinationsByAction(c *gin.Context, actions []models.Action) (map[uuid.UUID][]models.Destination, error) {
	ids := make([]uuid.UUID, 0, len(actions))
	for _, a := range actions {
		ids = append(ids, a.ID)
	}

	grouped := make(map[uuid.UUID][]models.Destination, len(actions))
	if len(ids) == 0 {
		return grouped, nil
	}

	var destinations []models.Destination
	err := db(c).
		Where("destinations.action_id IN ?", ids).
		Order("destinations.created_at ASC").
		Find(&destinations).Error
	if err != nil {
		return nil, err
	}

	for _, d := range destinations {
		grouped[d.ActionID] = append(grouped[d.ActionID], d)
	}

	return grouped, nil
}

// @Summary		Get actions
// @Description	Returns a list of actions with their destinations
// @Tags			Actions
// @Produce		json
// @Success		200	{object}	ActionListResponse
// @Failure		400	{object}	ActionListResponse
// @Failure		500	{object}	ActionListResponse
// @Router			/v1/actions [get]
// @Param			amendment			query	string	false	"Filter by amendment ID"
// @Param			complexidade		query	string	false	"Filter by complexity"
// @Param			nomeAcao			query	string	false	"Filter by name"
// @Param			area				query	string	false	"Filter by area"
// @Param			descricaoOficial	query	string	false	"Filter by official description"
// @Param			offset				query	uint	false	"The offset of the first action returned. Defaults to 0."
// @Param			limit				query	int		false	"Maximum number of actions to return. Defaults to 50."
func GetActions(c *gin.Context) {
	var filter ActionQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, ActionListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where := filter.model()
	q := db(c).
		Order("actions.created_at ASC").
		Where(&where, queryFields...)

	q = textFilter(q, setFields, "NomeAcao", "actions.nome_acao", filter.NomeAcao)
	q = textFilter(q, setFields, "Area", "actions.area", filter.Area)
	q = textFilter(q, setFields, "DescricaoOficial", "actions.descricao_oficial", filter.DescricaoOficial)

	limit := limit(setFields, filter.Limit)
	q = q.Offset(int(filter.Offset)).Limit(limit)

	var actions []models.Action
	err := q.Find(&actions).Error
	if err != nil {
		s := err.Error()
		c.JSON(httperror.Status(err), ActionListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(httperror.Status(err), ActionListResponse{
			Error: &s,
		})
		return
	}

	destinations, err := destinationsByAction(c, actions)
	if err != nil {
		s := err.Error()
		c.JSON(httperror.Status(err), ActionListResponse{
			Error: &s,
		})
		return
	}

	// Transform resources to their API representation
	data := make([]Action, 0, len(actions))
	for _, action := range actions {
		data = append(data, newAction(c, action, destinations[action.ID]))
	}

	c.JSON(http.StatusOK, ActionListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get action
// @Description	Returns a specific action with its destinations
// @Tags			Actions
// @Produce		json
// @Success		200	{object}	ActionResponse
// @Failure		400	{object}	ActionResponse
// @Failure		404	{object}	ActionResponse
// @Failure		500	{object}	ActionResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/actions/{id} [get]
func GetAction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ActionResponse{
			Error: &e,
		})
		return
	}

	s := store(c)
	action, err := s.Actions().Get(requestContext(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ActionResponse{
			Error: &e,
		})
		return
	}

	destinations, err := s.Destinations().ListByAction(requestContext(c), action.ID)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ActionResponse{
			Error: &e,
		})
		return
	}

	apiResource := newAction(c, action, destinations)
	c.JSON(http.StatusOK, ActionResponse{Data: &apiResource})
}

// @Summary		Update action
// @Description	Updates an existing action and its destinations in one transaction. Only values to be updated need to be specified. Destinations in categories that are neither planned nor removed are not changed.
// @Tags			Actions
// @Accept			json
// @Produce		json
// @Success		200		{object}	ActionResponse
// @Failure		400		{object}	ActionResponse
// @Failure		404		{object}	ActionResponse
// @Failure		500		{object}	ActionResponse
// @Param			id		path		URIID			true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Param			action	body		ActionEditable	true	"Action"
// @Router			/v1/actions/{id} [patch]
func UpdateAction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ActionResponse{
			Error: &e,
		})
		return
	}

	current, err := store(c).Actions().Get(requestContext(c), uri.ID.UUID)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ActionResponse{
			Error: &e,
		})
		return
	}

	// Fields not in the body keep their current values
	data := ActionEditable{
		AmendmentID:      current.AmendmentID,
		NomeAcao:         current.NomeAcao,
		Area:             current.Area,
		DescricaoOficial: current.DescricaoOficial,
		Complexidade:     current.Complexidade,
	}
	err = httputil.BindData(c, &data)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ActionResponse{
			Error: &e,
		})
		return
	}

	action, destinations, err := planning.NewService(store(c)).SaveAction(requestContext(c), data.plan(&current.ID))
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), ActionResponse{
			Error: &e,
		})
		return
	}

	apiResource := newAction(c, action, destinations)
	c.JSON(http.StatusOK, ActionResponse{Data: &apiResource})
}

// @Summary		Delete action
// @Description	Deletes an action and all of its destinations
// @Tags			Actions
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/actions/{id} [delete]
func DeleteAction(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	err = planning.NewService(store(c)).DeleteAction(requestContext(c), uri.ID.UUID)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
