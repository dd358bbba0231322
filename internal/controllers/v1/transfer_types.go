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

type TransferEditable struct {
	AmendmentID uuid.UUID             `json:"amendmentId" example:"0b3b1a4c-5d6e-4f70-8a9b-0c1d2e3f4a5b"` // ID of the amendment
	Valor       decimal.Decimal       `json:"valor" example:"50000" minimum:"0.01"`                       // Value of the transfer
	Status      models.TransferStatus `json:"status" example:"REPASSADO" default:"PENDENTE"`              // One of REPASSADO, PENDENTE, CANCELADO
	Data        time.Time             `json:"data" example:"2024-04-15T00:00:00Z"`                        // Date of the transfer
	Observacao  string                `json:"observacao" example:"Primeira parcela"`                      // Notes
}

// model returns the database resource for the API representation of the editable fields
func (editable TransferEditable) model() models.Transfer {
	return models.Transfer{
		AmendmentID: editable.AmendmentID,
		Valor:       editable.Valor,
		Status:      editable.Status,
		Data:        editable.Data,
		Observacao:  editable.Observacao,
	}
}

type TransferLinks struct {
	Self      string `json:"self" example:"https://example.com/api/v1/transfers/7a6b5c4d-3e2f-4a1b-9c8d-7e6f5a4b3c2d"`       // The transfer itself
	Amendment string `json:"amendment" example:"https://example.com/api/v1/amendments/0b3b1a4c-5d6e-4f70-8a9b-0c1d2e3f4a5b"` // The amendment of the transfer
}

type Transfer struct {
	models.DefaultModel
	TransferEditable
	Links TransferLinks `json:"links"`
}

// newTransfer returns the API v1 representation of the resource
func newTransfer(c *gin.Context, model models.Transfer) Transfer {
	url := c.GetString(string(models.DBContextURL))

	return Transfer{
		DefaultModel: model.DefaultModel,
		TransferEditable: TransferEditable{
			AmendmentID: model.AmendmentID,
			Valor:       model.Valor,
			Status:      model.Status,
			Data:        model.Data,
			Observacao:  model.Observacao,
		},
		Links: TransferLinks{
			Self:      fmt.Sprintf("%s/v1/transfers/%s", url, model.ID),
			Amendment: fmt.Sprintf("%s/v1/amendments/%s", url, model.AmendmentID),
		},
	}
}

type TransferListResponse struct {
	Data       []Transfer  `json:"data"`                                                          // List of resources
	Error      *string     `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Pagination *Pagination `json:"pagination"`                                                    // Pagination information
}

type TransferCreateResponse struct {
	Error *string            `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  []TransferResponse `json:"data"`                                                          // List of created resources
}

func (t *TransferCreateResponse) appendError(err error, currentStatus int) int {
	s := err.Error()
	t.Data = append(t.Data, TransferResponse{Error: &s})

	// The final status code is the highest HTTP status code number
	newStatus := httperror.Status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type TransferResponse struct {
	Error *string   `json:"error" example:"the specified resource ID is not a valid UUID"` // The error, if any occurred
	Data  *Transfer `json:"data"`                                                          // The resource
}

type TransferQueryFilter struct {
	AmendmentID emendas_uuid.UUID     `form:"amendment"`                                                            // ID of the amendment
	Status      models.TransferStatus `form:"status"`                                                               // Status of the transfer
	Observacao  string                `form:"observacao" filterField:"false"`                                       // By notes
	DataInicio  time.Time             `form:"dataInicio" time_format:"2006-01-02" time_utc:"1" filterField:"false"` // On or after this date
	DataFim     time.Time             `form:"dataFim" time_format:"2006-01-02" time_utc:"1" filterField:"false"`    // On or before this date
	Offset      uint                  `form:"offset" filterField:"false"`                                           // The offset of the first transfer returned. Defaults to 0.
	Limit       int                   `form:"limit" filterField:"false"`                                            // Maximum number of transfers to return. Defaults to 50.
}

func (f TransferQueryFilter) model() models.Transfer {
	// The other fields are handled in the controller function
	return models.Transfer{
		AmendmentID: f.AmendmentID.UUID,
		Status:      f.Status,
	}
}
