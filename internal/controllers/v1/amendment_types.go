package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/allocation"
	"github.com/saude-emendas/backend/internal/filter"
	"github.com/saude-emendas/backend/internal/httperror"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/shopspring/decimal"
)

type AmendmentEditable struct {
	Numero                  string              `json:"numero" example:"2024.123.45678"`                   // Official number of the amendment
	Ano                     int                 `json:"ano" example:"2024"`                                // Budget year
	Parlamentar             string              `json:"parlamentar" example:"Dep. Maria Souza"`            // The responsible parliamentarian
	SegundoParlamentar      string              `json:"segundoParlamentar" example:"Dep. João Lima"`       // Second responsible parliamentarian, if any
	ValorTotal              decimal.Decimal     `json:"valorTotal" example:"100000" minimum:"0"`           // Total value of the amendment
	ValorSegundoResponsavel decimal.Decimal     `json:"valorSegundoResponsavel" example:"25000"`           // Part of the total the second parliamentarian is responsible for
	TipoRecurso             models.ResourceType `json:"tipoRecurso" example:"INCREMENTO_MAC"`              // Funding instrument
	StatusOficial           string              `json:"statusOficial" example:"PAGO"`                      // Status in the official federal system
	StatusInterno           string              `json:"statusInterno" example:"EM_EXECUCAO"`               // Status in the secretariat
	Objeto                  string              `json:"objeto" example:"Custeio da atenção especializada"` // What the amendment is for
	Portaria                *string             `json:"portaria" example:"Portaria GM/MS 123/2024"`        // Ordinance authorizing the amendment
	DeliberacaoCIE          *string             `json:"deliberacaoCie" example:"Deliberação CIE 45/2024"`  // Deliberation of the bipartite commission
	AnexosEssenciais        bool                `json:"anexosEssenciais" example:"true" default:"false"`   // All essential attachments are present
	PossuiAnexos            bool                `json:"possuiAnexos" example:"true" default:"false"`       // The amendment has attachments
	Data                    time.Time           `json:"data" example:"2024-03-01T00:00:00Z"`               // Date the amendment was registered
}

// model returns the database resource for the API representation of the editable fields
func (editable AmendmentEditable) model() models.Amendment {
	return models.Amendment{
		Numero:                  editable.Numero,
		Ano:                     editable.Ano,
		Parlamentar:             editable.Parlamentar,
		SegundoParlamentar:      editable.SegundoParlamentar,
		ValorTotal:              editable.ValorTotal,
		ValorSegundoResponsavel: editable.ValorSegundoResponsavel,
		TipoRecurso:             editable.TipoRecurso,
		StatusOficial:           editable.StatusOficial,
		StatusInterno:           editable.StatusInterno,
		Objeto:                  editable.Objeto,
		Portaria:                editable.Portaria,
		DeliberacaoCIE:          editable.DeliberacaoCIE,
		AnexosEssenciais:        editable.AnexosEssenciais,
		PossuiAnexos:            editable.PossuiAnexos,
		Data:                    editable.Data,
	}
}

type AmendmentLinks struct {
	Self              string `json:"self" example:"https://example.com/api/v1/amendments/0b3b1a4c-5d6e-4f70-8a9b-0c1d2e3f4a5b"`                                 // The amendment itself
	Actions           string `json:"actions" example:"https://example.com/api/v1/actions?amendment=0b3b1a4c-5d6e-4f70-8a9b-0c1d2e3f4a5b"`                       // Actions of the amendment
	Destinations      string `json:"destinations" example:"https://example.com/api/v1/destinations?amendment=0b3b1a4c-5d6e-4f70-8a9b-0c1d2e3f4a5b"`             // Destinations of all actions of the amendment
	Expenses          string `json:"expenses" example:"https://example.com/api/v1/expenses?amendment=0b3b1a4c-5d6e-4f70-8a9b-0c1d2e3f4a5b"`                     // Expenses of the amendment
	Transfers         string `json:"transfers" example:"https://example.com/api/v1/transfers?amendment=0b3b1a4c-5d6e-4f70-8a9b-0c1d2e3f4a5b"`                   // Transfers of the amendment
	AllocationPreview string `json:"allocationPreview" example:"https://example.com/api/v1/amendments/0b3b1a4c-5d6e-4f70-8a9b-0c1d2e3f4a5b/allocation-preview"` // Balance preview for the action form
}

type Amendment struct {
	models.DefaultModel
	AmendmentEditable
	PrimeiroParlamentarShare decimal.Decimal      `json:"primeiroParlamentarShare" example:"75000"` // Part of the total the first parliamentarian is responsible for
	Allocated                decimal.Decimal      `json:"allocated" example:"60000"`                // Sum of the values of all destinations
	Unallocated              decimal.Decimal      `json:"unallocated" example:"40000"`              // Total value minus allocated
	Received                 decimal.Decimal      `json:"received" example:"50000"`                 // Sum of completed transfers
	Executed                 decimal.Decimal      `json:"executed" example:"30000"`                 // Sum of settled and paid expenses
	Pending                  []filter.PendingItem `json:"pending"`                                  // Missing documents and inconsistencies
	Links                    AmendmentLinks       `json:"links"`
}

// newAmendment returns the API v1 representation of the resource
func newAmendment(c *gin.Context, record filter.Record, allocated decimal.Decimal) Amendment {
	url := c.GetString(string(models.DBContextURL))
	model := record.Amendment

	share, err := model.PrimeiroParlamentarShare()
	if err != nil {
		share = decimal.Zero
	}

	return Amendment{
		DefaultModel: model.DefaultModel,
		AmendmentEditable: AmendmentEditable{
			Numero:                  model.Numero,
			Ano:                     model.Ano,
			Parlamentar:             model.Parlamentar,
			SegundoParlamentar:      model.SegundoParlamentar,
			ValorTotal:              model.ValorTotal,
			ValorSegundoResponsavel: model.ValorSegundoResponsavel,
			TipoRecurso:             model.TipoRecurso,
			StatusOficial:           model.StatusOficial,
			StatusInterno:           model.StatusInterno,
			Objeto:                  model.Objeto,
			Portaria:                model.Portaria,
			DeliberacaoCIE:          model.DeliberacaoCIE,
			AnexosEssenciais:        model.AnexosEssenciais,
			PossuiAnexos:            model.PossuiAnexos,
			Data:                    model.Data,
		},
		PrimeiroParlamentarShare: share,
		Allocated:                allocated,
		Unallocated:              model.ValorTotal.Sub(allocated),
		Received:                 record.Received(),
		Executed:                 record.Executed(),
		Pending:                  filter.Pending(record),
		Links: AmendmentLinks{
			Self:              fmt.Sprintf("%s/v1/amendments/%s", url, model.ID),
			Actions:           fmt.Sprintf("%s/v1/actions?amendment=%s", url, model.ID),
			Destinations:      fmt.Sprintf("%s/v1/destinations?amendment=%s", url, model.ID),
			Expenses:          fmt.Sprintf("%s/v1/expenses?amendment=%s", url, model.ID),
			Transfers:         fmt.Sprintf("%s/v1/transfers?amendment=%s", url, model.ID),
			AllocationPreview: fmt.Sprintf("%s/v1/amendments/%s/allocation-preview", url, model.ID),
		},
	}
}

// PagePagination is the pagination information for page based lists.
type PagePagination struct {
	Count    int `json:"count" example:"10"`    // The amount of records returned in this response
	Page     int `json:"page" example:"2"`      // The page returned, starting at 1
	PageSize int `json:"pageSize" example:"10"` // The maximum amount of records per page
	Pages    int `json:"pages" example:"5"`     // The number of pages
	Total    int `json:"total" example:"47"`    // The total number of records matching the query
}

type AmendmentListResponse struct {
	Data       []Amendment             `json:"data"`                                                          // List of resources
	Error      *string                 `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *PagePagination         `json:"pagination"`                                                    // Pagination information
	Totals     *filter.DashboardTotals `json:"totals"`                                                        // Totals of all amendments matching the query
}

type AmendmentCreateResponse struct {
	Error *string             `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []AmendmentResponse `json:"data"`                                                          // List of created resources
}

func (a *AmendmentCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, AmendmentResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := httperror.Status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type AmendmentResponse struct {
	Error *string    `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Amendment `json:"data"`                                                          // The resource
}

type AmendmentQueryFilter struct {
	Parlamentar       string              `form:"parlamentar"`                                      // Substring or glob pattern matching either parliamentarian
	TipoRecurso       models.ResourceType `form:"tipoRecurso"`                                      // Funding instrument
	StatusOficial     string              `form:"statusOficial"`                                    // Official status
	StatusInterno     string              `form:"statusInterno"`                                    // Internal status
	ValorMin          decimal.NullDecimal `form:"valorMin"`                                         // Total value at least this
	ValorMax          decimal.NullDecimal `form:"valorMax"`                                         // Total value at most this
	DataInicio        time.Time           `form:"dataInicio" time_format:"2006-01-02" time_utc:"1"` // Registered on or after this date
	DataFim           time.Time           `form:"dataFim" time_format:"2006-01-02" time_utc:"1"`    // Registered on or before this date
	PossuiAnexos      *bool               `form:"possuiAnexos"`                                     // Has attachments
	PossuiPortaria    *bool               `form:"possuiPortaria"`                                   // Has an ordinance
	PossuiDeliberacao *bool               `form:"possuiDeliberacao"`                                // Has a deliberation
	PossuiRepasses    *bool               `form:"possuiRepasses"`                                   // Has received transfers
	PossuiPendencias  *bool               `form:"possuiPendencias"`                                 // Has pending items
	SortBy            string              `form:"sortBy"`                                           // Sort key
	SortDesc          bool                `form:"sortDesc"`                                         // Sort descending
	Page              int                 `form:"page"`                                             // Page, starting at 1
	PageSize          int                 `form:"pageSize"`                                         // Amendments per page, defaults to 10
}

func (f AmendmentQueryFilter) criteria() (filter.Criteria, error) {
	criteria := filter.Criteria{
		Parlamentar:       f.Parlamentar,
		TipoRecurso:       f.TipoRecurso,
		StatusOficial:     f.StatusOficial,
		StatusInterno:     f.StatusInterno,
		ValorMin:          f.ValorMin,
		ValorMax:          f.ValorMax,
		DataInicio:        f.DataInicio,
		DataFim:           f.DataFim,
		PossuiAnexos:      f.PossuiAnexos,
		PossuiPortaria:    f.PossuiPortaria,
		PossuiDeliberacao: f.PossuiDeliberacao,
		PossuiRepasses:    f.PossuiRepasses,
		PossuiPendencias:  f.PossuiPendencias,
		SortDesc:          f.SortDesc,
		Page:              f.Page,
		PageSize:          f.PageSize,
	}

	if f.SortBy != "" {
		key, err := filter.ParseSortKey(f.SortBy)
		if err != nil {
			return filter.Criteria{}, err
		}
		criteria.SortBy = key
	}

	return criteria, nil
}

type AllocationPreviewRequest struct {
	ActionID *uuid.UUID                              `json:"actionId" example:"6b1f2a3c-4d5e-4f60-8a7b-9c0d1e2f3a4b"` // The action being edited. Omit for a new action
	Values   map[allocation.Category]decimal.Decimal `json:"values"`                                                  // Proposed value per category
	Editable []allocation.Category                   `json:"editable"`                                                // Additional categories of the action shown in the form. Their current values are not counted
}

type AllocationPreviewResponse struct {
	Error *string             `json:"error" example:"there is no amendment matching your query"` // The error, if any occurred
	Data  *allocation.Balance `json:"data"`                                                      // The balance of the form
}
