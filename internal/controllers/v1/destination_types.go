package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/allocation"
	"github.com/saude-emendas/backend/internal/httperror"
	"github.com/saude-emendas/backend/internal/models"
	emendas_uuid "github.com/saude-emendas/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

type DestinationEditable struct {
	ActionID          uuid.UUID           `json:"actionId" example:"6b1f2a3c-4d5e-4f60-8a7b-9c0d1e2f3a4b"`    // ID of the action
	TipoDestinacao    allocation.Category `json:"tipoDestinacao" example:"MATERIAL_CONSUMO"`                  // Spending category
	ValorDestinado    decimal.Decimal     `json:"valorDestinado" example:"20000" minimum:"0"`                 // Value allocated to the category
	GrupoDespesa      string              `json:"grupoDespesa" example:"3.3.90"`                              // Expense group
	Subtipo           string              `json:"subtipo" example:"Medicamentos"`                             // Subtype of the category
	PortariaVinculada string              `json:"portariaVinculada" example:"Portaria GM/MS 123/2024"`        // Ordinance the destination is bound to
	ObservacaoTecnica string              `json:"observacaoTecnica" example:"Aquisição para a rede estadual"` // Technical notes
}

// model returns the database resource for the API representation of the editable fields
func (editable DestinationEditable) model() models.Destination {
	return models.Destination{
		ActionID:          editable.ActionID,
		TipoDestinacao:    editable.TipoDestinacao,
		ValorDestinado:    editable.ValorDestinado,
		GrupoDespesa:      editable.GrupoDespesa,
		Subtipo:           editable.Subtipo,
		PortariaVinculada: editable.PortariaVinculada,
		ObservacaoTecnica: editable.ObservacaoTecnica,
	}
}

type DestinationLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/destinations/1f2e3d4c-5b6a-4978-8695-a4b3c2d1e0f9"`             // The destination itself
	Action   string `json:"action" example:"https://example.com/api/v1/actions/6b1f2a3c-4d5e-4f60-8a7b-9c0d1e2f3a4b"`                // The action of the destination
	Expenses string `json:"expenses" example:"https://example.com/api/v1/expenses?destination=1f2e3d4c-5b6a-4978-8695-a4b3c2d1e0f9"` // Expenses linked to the destination
}

type Destination struct {
	models.DefaultModel
	DestinationEditable
	Links DestinationLinks `json:"links"`
}

// newDestination returns the API v1 representation of the resource
func newDestination(c *gin.Context, model models.Destination) Destination {
	url := c.GetString(string(models.DBContextURL))

	return Destination{
		DefaultModel: model.DefaultModel,
		DestinationEditable: DestinationEditable{
			ActionID:          model.ActionID,
			TipoDestinacao:    model.TipoDestinacao,
			ValorDestinado:    model.ValorDestinado,
			GrupoDespesa:      model.GrupoDespesa,
			Subtipo:           model.Subtipo,
			PortariaVinculada: model.PortariaVinculada,
			ObservacaoTecnica: model.ObservacaoTecnica,
		},
		Links: DestinationLinks{
			Self:     fmt.Sprintf("%s/v1/destinations/%s", url, model.ID),
			Action:   fmt.Sprintf("%s/v1/actions/%s", url, model.ActionID),
			Expenses: fmt.Sprintf("%s/v1/expenses?destination=%s", url, model.ID),
		},
	}
}

type DestinationListResponse struct {
	Data       []Destination `json:"data"`                                                          // List of resources
	Error      *string       `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination   `json:"pagination"`                                                    // Pagination information
}

type DestinationCreateResponse struct {
	Error *string               `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []DestinationResponse `json:"data"`                                                          // List of created resources
}

func (d *DestinationCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	d.Data = append(d.Data, DestinationResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := httperror.Status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type DestinationResponse struct {
	Error *string      `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Destination `json:"data"`                                                          // The resource
}

type DestinationQueryFilter struct {
	ActionID       emendas_uuid.UUID   `form:"action"`                           // ID of the action
	AmendmentID    emendas_uuid.UUID   `form:"amendment" filterField:"false"`    // ID of the amendment of the action
	TipoDestinacao allocation.Category `form:"tipoDestinacao"`                   // Spending category
	GrupoDespesa   string              `form:"grupoDespesa" filterField:"false"` // By expense group
	Subtipo        string              `form:"subtipo" filterField:"false"`      // By subtype
	Offset         uint                `form:"offset" filterField:"false"`       // The offset of the first destination returned. Defaults to 0.
	Limit          int                 `form:"limit" filterField:"false"`        // Maximum number of destinations to return. Defaults to 50.
}

func (f DestinationQueryFilter) model() models.Destination {
	// The string fields are handled in the controller function
	return models.Destination{
		ActionID:       f.ActionID.UUID,
		TipoDestinacao: f.TipoDestinacao,
	}
}
