package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/allocation"
	"github.com/saude-emendas/backend/internal/httperror"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/saude-emendas/backend/internal/planning"
	emendas_uuid "github.com/saude-emendas/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

// DestinationPlan is the planned value of one category in the action form.
type DestinationPlan struct {
	TipoDestinacao    allocation.Category `json:"tipoDestinacao" example:"SERVICOS_TERCEIROS"`         // Spending category
	ValorDestinado    decimal.Decimal     `json:"valorDestinado" example:"40000" minimum:"0"`          // Value allocated to the category
	GrupoDespesa      string              `json:"grupoDespesa" example:"3.3.90"`                       // Expense group
	Subtipo           string              `json:"subtipo" example:"Consultoria"`                       // Subtype of the category
	PortariaVinculada string              `json:"portariaVinculada" example:"Portaria GM/MS 123/2024"` // Ordinance the destination is bound to
	ObservacaoTecnica string              `json:"observacaoTecnica" example:""`                        // Technical notes
}

type ActionEditable struct {
	AmendmentID      uuid.UUID             `json:"amendmentId" example:"0b3b1a4c-5d6e-4f70-8a9b-0c1d2e3f4a5b"` // ID of the amendment
	NomeAcao         string                `json:"nomeAcao" example:"Ampliação da oferta de exames"`           // Name of the action
	Area             string                `json:"area" example:"Atenção Especializada"`                       // Area of the secretariat
	DescricaoOficial string                `json:"descricaoOficial" example:""`                                // Official description
	Complexidade     models.Complexity     `json:"complexidade" example:"MEDIA"`                               // One of BAIXA, MEDIA, ALTA
	Destinations     []DestinationPlan     `json:"destinations"`                                               // Destinations to create or update, one per category
	Remove           []allocation.Category `json:"remove"`                                                     // Categories whose destinations are deleted
}

// plan returns the write plan for the action with the given ID, or for a
// new action if id is nil.
func (editable ActionEditable) plan(id *uuid.UUID) planning.ActionPlan {
	destinations := make([]planning.DestinationPlan, 0, len(editable.Destinations))
	for _, d := range editable.Destinations {
		destinations = append(destinations, planning.DestinationPlan{
			Category:          d.TipoDestinacao,
			Value:             d.ValorDestinado,
			GrupoDespesa:      d.GrupoDespesa,
			Subtipo:           d.Subtipo,
			PortariaVinculada: d.PortariaVinculada,
			ObservacaoTecnica: d.ObservacaoTecnica,
		})
	}

	return planning.ActionPlan{
		ID:               id,
		AmendmentID:      editable.AmendmentID,
		NomeAcao:         editable.NomeAcao,
		Area:             editable.Area,
		DescricaoOficial: editable.DescricaoOficial,
		Complexidade:     editable.Complexidade,
		Destinations:     destinations,
		Remove:           editable.Remove,
	}
}

type ActionLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/actions/6b1f2a3c-4d5e-4f60-8a7b-9c0d1e2f3a4b"`                     // The action itself
	Amendment    string `json:"amendment" example:"https://example.com/api/v1/amendments/0b3b1a4c-5d6e-4f70-8a9b-0c1d2e3f4a5b"`             // The amendment of the action
	Destinations string `json:"destinations" example:"https://example.com/api/v1/destinations?action=6b1f2a3c-4d5e-4f60-8a7b-9c0d1e2f3a4b"` // Destinations of the action
}

type Action struct {
	models.DefaultModel
	AmendmentID      uuid.UUID         `json:"amendmentId" example:"0b3b1a4c-5d6e-4f70-8a9b-0c1d2e3f4a5b"` // ID of the amendment
	NomeAcao         string            `json:"nomeAcao" example:"Ampliação da oferta de exames"`           // Name of the action
	Area             string            `json:"area" example:"Atenção Especializada"`                       // Area of the secretariat
	DescricaoOficial string            `json:"descricaoOficial" example:""`                                // Official description
	Complexidade     models.Complexity `json:"complexidade" example:"MEDIA"`                               // One of BAIXA, MEDIA, ALTA
	Planned          decimal.Decimal   `json:"planned" example:"60000"`                                    // Sum of the values of all destinations
	Destinations     []Destination     `json:"destinations"`                                               // Destinations of the action
	Links            ActionLinks       `json:"links"`
}

// newAction returns the API v1 representation of the resource
func newAction(c *gin.Context, model models.Action, destinations []models.Destination) Action {
	url := c.GetString(string(models.DBContextURL))

	planned := decimal.Zero
	apiDestinations := make([]Destination, 0, len(destinations))
	for _, d := range destinations {
		planned = planned.Add(d.ValorDestinado)
		apiDestinations = append(apiDestinations, newDestination(c, d))
	}

	return Action{
		DefaultModel:     model.DefaultModel,
		AmendmentID:      model.AmendmentID,
		NomeAcao:         model.NomeAcao,
		Area:             model.Area,
		DescricaoOficial: model.DescricaoOficial,
		Complexidade:     model.Complexidade,
		Planned:          planned,
		Destinations:     apiDestinations,
		Links: ActionLinks{
			Self:         fmt.Sprintf("%s/v1/actions/%s", url, model.ID),
			Amendment:    fmt.Sprintf("%s/v1/amendments/%s", url, model.AmendmentID),
			Destinations: fmt.Sprintf("%s/v1/destinations?action=%s", url, model.ID),
		},
	}
}

type ActionListResponse struct {
	Data       []Action    `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ActionCreateResponse struct {
	Error *string          `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []ActionResponse `json:"data"`                                                          // List of created resources
}

func (a *ActionCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	a.Data = append(a.Data, ActionResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := httperror.Status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ActionResponse struct {
	Error *string `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Action `json:"data"`                                                          // The resource
}

type ActionQueryFilter struct {
	AmendmentID      emendas_uuid.UUID `form:"amendment"`                            // ID of the amendment
	Complexidade     models.Complexity `form:"complexidade"`                         // Complexity of the action
	NomeAcao         string            `form:"nomeAcao" filterField:"false"`         // By name
	Area             string            `form:"area" filterField:"false"`             // By area
	DescricaoOficial string            `form:"descricaoOficial" filterField:"false"` // By official description
	Offset           uint              `form:"offset" filterField:"false"`           // The offset of the first action returned. Defaults to 0.
	Limit            int               `form:"limit" filterField:"false"`            // Maximum number of actions to return. Defaults to 50.
}

func (f ActionQueryFilter) model() models.Action {
	// The string fields are handled in the controller function
	return models.Action{
		AmendmentID:  f.AmendmentID.UUID,
		Complexidade: f.Complexidade,
	}
}
