package v1

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/httperror"
	"github.com/saude-emendas/backend/internal/httputil"
	"github.com/saude-emendas/backend/internal/models"
	emendas_uuid "github.com/saude-emendas/backend/internal/uuid"
)

func RegisterAuditRoutes(r *gin.RouterGroup) {
	{
		r.OPTIONS("", OptionsAuditEntries)
		r.GET("", GetAuditEntries)
	}
	{
		r.OPTIONS("/:id", OptionsAuditEntryDetail)
		r.GET("/:id", GetAuditEntry)
	}
}

type AuditEntry struct {
	models.DefaultModel
	Resource  string                `json:"resource" example:"destinations"`                          // Table of the changed resource
	RecordID  uuid.UUID             `json:"recordId" example:"1f2e3d4c-5b6a-4978-8695-a4b3c2d1e0f9"`  // ID of the changed resource
	Operation models.AuditOperation `json:"operation" example:"update"`                               // One of create, update, delete
	RequestID string                `json:"requestId" example:"3c1e5c1f-7e8b-4b3a-9d55-0b2c6f1a2e4d"` // ID of the request that made the change
	Links     AuditEntryLinks       `json:"links"`
}

type AuditEntryLinks struct {
	Self string `json:"self" example:"https://example.com/api/v1/audit-entries/9a8b7c6d-5e4f-4a3b-8c2d-1e0f9a8b7c6d"` // The audit entry itself
}

// newAuditEntry returns the API v1 representation of the resource
func newAuditEntry(c *gin.Context, model models.AuditEntry) AuditEntry {
	url := c.GetString(string(models.DBContextURL))

	return AuditEntry{
		DefaultModel: model.DefaultModel,
		Resource:     model.Resource,
		RecordID:     model.RecordID,
		Operation:    model.Operation,
		RequestID:    model.RequestID,
		Links: AuditEntryLinks{
			Self: fmt.Sprintf("%s/v1/audit-entries/%s", url, model.ID),
		},
	}
}

type AuditEntryListResponse struct {
	Data       []AuditEntry `json:"data"`                                                          // List of resources
	Error      *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination  `json:"pagination"`                                                    // Pagination information
}

type AuditEntryResponse struct {
	Error *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *AuditEntry `json:"data"`                                                          // The resource
}

type AuditEntryQueryFilter struct {
	Resource  string                `form:"resource"`                   // Table of the changed resource
	RecordID  emendas_uuid.UUID     `form:"record"`                     // ID of the changed resource
	Operation models.AuditOperation `form:"operation"`                  // One of create, update, delete
	RequestID string                `form:"requestId"`                  // ID of the request
	Offset    uint                  `form:"offset" filterField:"false"` // The offset of the first entry returned. Defaults to 0.
	Limit     int                   `form:"limit" filterField:"false"`  // Maximum number of entries to return. Defaults to 50.
}

func (f AuditEntryQueryFilter) model() models.AuditEntry {
	return models.AuditEntry{
		Resource:  f.Resource,
		RecordID:  f.RecordID.UUID,
		Operation: f.Operation,
		RequestID: f.RequestID,
	}
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Audit Entries
// @Success		204
// @Router			/v1/audit-entries [options]
func OptionsAuditEntries(c *gin.Context) {
	httputil.OptionsGet(c)
}

// @Summary		Allowed HTTP verbs
// @Description	Returns an empty response with the HTTP Header "allow" set to the allowed HTTP verbs
// @Tags			Audit Entries
// @Success		204
// @Failure		400	{object}	httperror.Error
// @Failure		404	{object}	httperror.Error
// @Failure		500	{object}	httperror.Error
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/audit-entries/{id} [options]
func OptionsAuditEntryDetail(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	err = db(c).First(&models.AuditEntry{}, uri.ID.UUID).Error
	if err != nil {
		c.JSON(httperror.Status(err), httperror.New(err))
		return
	}

	httputil.OptionsGet(c)
}

// @Summary		Get audit entries
// @Description	Returns the recorded changes, newest first
// @Tags			Audit Entries
// @Produce		json
// @Success		200	{object}	AuditEntryListResponse
// @Failure		400	{object}	AuditEntryListResponse
// @Failure		500	{object}	AuditEntryListResponse
// @Router			/v1/audit-entries [get]
// @Param			resource	query	string	false	"Filter by table of the changed resource"
// @Param			record		query	string	false	"Filter by ID of the changed resource"
// @Param			operation	query	string	false	"Filter by operation"
// @Param			requestId	query	string	false	"Filter by request ID"
// @Param			offset		query	uint	false	"The offset of the first entry returned. Defaults to 0."
// @Param			limit		query	int		false	"Maximum number of entries to return. Defaults to 50."
func GetAuditEntries(c *gin.Context) {
	var filter AuditEntryQueryFilter
	if err := c.Bind(&filter); err != nil {
		s := err.Error()
		c.JSON(http.StatusBadRequest, AuditEntryListResponse{
			Error: &s,
		})
		return
	}

	queryFields, setFields := httputil.GetURLFields(c.Request.URL, filter)

	where := filter.model()
	limit := limit(setFields, filter.Limit)
	q := db(c).
		Order("datetime(audit_entries.created_at) DESC").
		Where(&where, queryFields...).
		Offset(int(filter.Offset)).
		Limit(limit)

	var entries []models.AuditEntry
	err := q.Find(&entries).Error
	if err != nil {
		s := err.Error()
		c.JSON(httperror.Status(err), AuditEntryListResponse{
			Error: &s,
		})
		return
	}

	var count int64
	err = q.Limit(-1).Offset(-1).Count(&count).Error
	if err != nil {
		s := err.Error()
		c.JSON(httperror.Status(err), AuditEntryListResponse{
			Error: &s,
		})
		return
	}

	data := make([]AuditEntry, 0, len(entries))
	for _, entry := range entries {
		data = append(data, newAuditEntry(c, entry))
	}

	c.JSON(http.StatusOK, AuditEntryListResponse{
		Data: data,
		Pagination: &Pagination{
			Count:  len(data),
			Total:  count,
			Offset: filter.Offset,
			Limit:  limit,
		},
	})
}

// @Summary		Get audit entry
// @Description	Returns a specific audit entry
// @Tags			Audit Entries
// @Produce		json
// @Success		200	{object}	AuditEntryResponse
// @Failure		400	{object}	AuditEntryResponse
// @Failure		404	{object}	AuditEntryResponse
// @Failure		500	{object}	AuditEntryResponse
// @Param			id	path		URIID	true	"ignored, but needed: https://github.com/swaggo/swag/issues/1014"
// @Router			/v1/audit-entries/{id} [get]
func GetAuditEntry(c *gin.Context) {
	var uri URIID
	err := c.ShouldBindUri(&uri)
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AuditEntryResponse{
			Error: &e,
		})
		return
	}

	var entry models.AuditEntry
	err = db(c).First(&entry, uri.ID.UUID).Error
	if err != nil {
		e := err.Error()
		c.JSON(httperror.Status(err), AuditEntryResponse{
			Error: &e,
		})
		return
	}

	apiResource := newAuditEntry(c, entry)
	c.JSON(http.StatusOK, AuditEntryResponse{Data: &apiResource})
}
