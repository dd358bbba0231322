package v1

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/httperror"
	"github.com/saude-emendas/backend/internal/models"
	emendas_uuid "github.com/saude-emendas/backend/internal/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseEditable struct {
	AmendmentID    uuid.UUID              `json:"amendmentId" example:"0b3b1a4c-5d6e-4f70-8a9b-0c1d2e3f4a5b"`   // ID of the amendment
	DestinationID  *uuid.UUID             `json:"destinationId" example:"1f2e3d4c-5b6a-4978-8695-a4b3c2d1e0f9"` // ID of the destination the expense is charged to
	Valor          decimal.Decimal        `json:"valor" example:"1500.50" minimum:"0.01"`                       // Value of the expense
	StatusExecucao models.ExecutionStatus `json:"statusExecucao" example:"EMPENHADA" default:"PLANEJADA"`       // One of PLANEJADA, EMPENHADA, LIQUIDADA, PAGA
	Categoria      string                 `json:"categoria" example:"Material de consumo"`                      // Category of the expense
	Descricao      string                 `json:"descricao" example:"Reagentes para o laboratório central"`     // Description
	Autorizada     bool                   `json:"autorizada" example:"true" default:"false"`                    // The expense has been authorized
	Data           time.Time              `json:"data" example:"2024-05-10T00:00:00Z"`                          // Date of the expense
}

// model returns the database resource for the API representation of the editable fields
func (editable ExpenseEditable) model() models.Expense {
	return models.Expense{
		AmendmentID:    editable.AmendmentID,
		DestinationID:  editable.DestinationID,
		Valor:          editable.Valor,
		StatusExecucao: editable.StatusExecucao,
		Categoria:      editable.Categoria,
		Descricao:      editable.Descricao,
		Autorizada:     editable.Autorizada,
		Data:           editable.Data,
	}
}

type ExpenseLinks struct {
	Self        string `json:"self" example:"https://example.com/api/v1/expenses/5d4c3b2a-1f0e-4d9c-8b7a-6f5e4d3c2b1a"`            // The expense itself
	Amendment   string `json:"amendment" example:"https://example.com/api/v1/amendments/0b3b1a4c-5d6e-4f70-8a9b-0c1d2e3f4a5b"`     // The amendment of the expense
	Destination string `json:"destination" example:"https://example.com/api/v1/destinations/1f2e3d4c-5b6a-4978-8695-a4b3c2d1e0f9"` // The destination of the expense. Empty if it is not linked to one
}

type Expense struct {
	models.DefaultModel
	ExpenseEditable
	Executed bool         `json:"executed" example:"false"` // The expense has been settled or paid
	Links    ExpenseLinks `json:"links"`
}

// newExpense returns the API v1 representation of the resource
func newExpense(c *gin.Context, model models.Expense) Expense {
	url := c.GetString(string(models.DBContextURL))

	e := Expense{
		DefaultModel: model.DefaultModel,
		ExpenseEditable: ExpenseEditable{
			AmendmentID:    model.AmendmentID,
			DestinationID:  model.DestinationID,
			Valor:          model.Valor,
			StatusExecucao: model.StatusExecucao,
			Categoria:      model.Categoria,
			Descricao:      model.Descricao,
			Autorizada:     model.Autorizada,
			Data:           model.Data,
		},
		Executed: model.StatusExecucao.Executed(),
		Links: ExpenseLinks{
			Self:      fmt.Sprintf("%s/v1/expenses/%s", url, model.ID),
			Amendment: fmt.Sprintf("%s/v1/amendments/%s", url, model.AmendmentID),
		},
	}

	if model.DestinationID != nil {
		e.Links.Destination = fmt.Sprintf("%s/v1/destinations/%s", url, *model.DestinationID)
	}

	return e
}

type ExpenseListResponse struct {
	Data       []Expense   `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type ExpenseCreateResponse struct {
	Error *string           `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []ExpenseResponse `json:"data"`                                                          // List of created resources
}

func (e *ExpenseCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	e.Data = append(e.Data, ExpenseResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := httperror.Status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ExpenseResponse struct {
	Error *string  `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Expense `json:"data"`                                                          // The resource
}

type ExpenseQueryFilter struct {
	AmendmentID      emendas_uuid.UUID      `form:"amendment"`                                                            // ID of the amendment
	DestinationID    emendas_uuid.UUID      `form:"destination" filterField:"false"`                                      // ID of the destination
	StatusExecucao   models.ExecutionStatus `form:"statusExecucao"`                                                       // Execution status
	Autorizada       bool                   `form:"autorizada"`                                                           // Is the expense authorized?
	Categoria        string                 `form:"categoria" filterField:"false"`                                        // By category
	Descricao        string                 `form:"descricao" filterField:"false"`                                        // By description
	ValorLessOrEqual decimal.Decimal        `form:"valorLessOrEqual" filterField:"false"`                                 // Value less than or equal to this
	ValorMoreOrEqual decimal.Decimal        `form:"valorMoreOrEqual" filterField:"false"`                                 // Value more than or equal to this
	DataInicio       time.Time              `form:"dataInicio" time_format:"2006-01-02" time_utc:"1" filterField:"false"` // On or after this date
	DataFim          time.Time              `form:"dataFim" time_format:"2006-01-02" time_utc:"1" filterField:"false"`    // On or before this date
	Offset           uint                   `form:"offset" filterField:"false"`                                           // The offset of the first expense returned. Defaults to 0.
	Limit            int                    `form:"limit" filterField:"false"`                                            // Maximum number of expenses to return. Defaults to 50.
}

func (f ExpenseQueryFilter) model() models.Expense {
	// The other fields are handled in the controller function
	return models.Expense{
		AmendmentID:    f.AmendmentID.UUID,
		StatusExecucao: f.StatusExecucao,
		Autorizada:     f.Autorizada,
	}
}
