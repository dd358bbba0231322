package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	v1 "github.com/saude-emendas/backend/internal/controllers/v1"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/saude-emendas/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestTransfer(t *testing.T, tr v1.TransferEditable, expectedStatus ...int) v1.TransferResponse {
	if tr.AmendmentID == uuid.Nil {
		tr.AmendmentID = createTestAmendment(t, v1.AmendmentEditable{}).Data.ID
	}

	if tr.Valor.IsZero() {
		tr.Valor = decimal.NewFromInt(1000)
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.TransferEditable{tr}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/transfers", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var transfer v1.TransferCreateResponse
	test.DecodeResponse(t, &r, &transfer)

	if r.Code == http.StatusCreated {
		return transfer.Data[0]
	}

	return v1.TransferResponse{}
}

// TestTransfersDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestTransfersDBClosed() {
	a := createTestAmendment(suite.T(), v1.AmendmentEditable{})

	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestTransfer(t, v1.TransferEditable{AmendmentID: a.Data.ID}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/transfers", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.TransferListResponse
				test.DecodeResponse(t, &recorder, &response)
				assert.Contains(t, *response.Error, models.ErrGeneral.Error())
			},
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			suite.CloseDB()

			tt.test(t)
		})
	}
}

// TestTransfersOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestTransfersOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No Transfer with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Transfer exists", createTestTransfer(suite.T(), v1.TransferEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/transfers", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestTransfersGetSingle() {
	tr := createTestTransfer(suite.T(), v1.TransferEditable{})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Transfer", tr.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET ID nil", uuid.Nil.String(), http.StatusNotFound, http.MethodGet},
		{"GET No Transfer with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/transfers/%s", tt.id), "")

			var transfer v1.TransferResponse
			test.DecodeResponse(t, &r, &transfer)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestTransfersCreate() {
	tr := createTestTransfer(suite.T(), v1.TransferEditable{Observacao: " Primeira parcela "})

	assert.Equal(suite.T(), models.Pendente, tr.Data.Status, "Status defaults to PENDENTE")
	assert.Equal(suite.T(), "Primeira parcela", tr.Data.Observacao)
	assert.Equal(suite.T(), fmt.Sprintf("http://example.com/v1/amendments/%s", tr.Data.AmendmentID), tr.Data.Links.Amendment)
}

func (suite *TestSuiteStandard) TestTransfersCreateFails() {
	amendment := createTestAmendment(suite.T(), v1.AmendmentEditable{})

	tests := []struct {
		name   string
		body   any
		status int
		err    error
	}{
		{
			"No amendment",
			`[{ "valor": "10" }]`,
			http.StatusNotFound,
			models.ErrResourceNotFound,
		},
		{
			"Negative value",
			fmt.Sprintf(`[{ "amendmentId": "%s", "valor": "-10" }]`, amendment.Data.ID),
			http.StatusBadRequest,
			models.ErrValueNotPositive,
		},
		{
			"Invalid status",
			fmt.Sprintf(`[{ "amendmentId": "%s", "valor": "10", "status": "DEVOLVIDO" }]`, amendment.Data.ID),
			http.StatusBadRequest,
			models.ErrTransferStatusInvalid,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/transfers", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.TransferCreateResponse
			test.DecodeResponse(t, &r, &response)

			require.Len(t, response.Data, 1)
			assert.Contains(t, *response.Data[0].Error, tt.err.Error())
		})
	}
}

func (suite *TestSuiteStandard) TestTransfersGetFilter() {
	a1 := createTestAmendment(suite.T(), v1.AmendmentEditable{})
	a2 := createTestAmendment(suite.T(), v1.AmendmentEditable{})

	_ = createTestTransfer(suite.T(), v1.TransferEditable{
		AmendmentID: a1.Data.ID,
		Status:      models.Repassado,
		Observacao:  "Primeira parcela",
		Data:        time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
	})

	_ = createTestTransfer(suite.T(), v1.TransferEditable{
		AmendmentID: a1.Data.ID,
		Status:      models.Pendente,
		Observacao:  "Segunda parcela",
		Data:        time.Date(2024, 8, 15, 0, 0, 0, 0, time.UTC),
	})

	_ = createTestTransfer(suite.T(), v1.TransferEditable{
		AmendmentID: a2.Data.ID,
		Status:      models.Cancelado,
		Data:        time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Amendment 1", fmt.Sprintf("amendment=%s", a1.Data.ID), 2},
		{"Amendment 2", fmt.Sprintf("amendment=%s", a2.Data.ID), 1},
		{"Status", "status=REPASSADO", 1},
		{"Fuzzy notes", "observacao=parcela", 2},
		{"Empty notes", "observacao=", 1},
		{"Start date", "dataInicio=2024-01-01", 2},
		{"End date is inclusive", "dataFim=2024-04-15", 2},
		{"Offset 2", "offset=2", 1},
		{"Limit 0", "limit=0", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.TransferListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/transfers?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestTransfersUpdate() {
	transfer := createTestTransfer(suite.T(), v1.TransferEditable{Valor: decimal.NewFromInt(5000)})

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Completed", map[string]any{"status": "REPASSADO"}, http.StatusOK},
		{"Invalid status", map[string]any{"status": "DEVOLVIDO"}, http.StatusBadRequest},
		{"Broken JSON", `{ "valor": 2" }`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, transfer.Data.Links.Self, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}

	amendment := getTestAmendment(suite.T(), transfer.Data.AmendmentID)
	assert.True(suite.T(), amendment.Received.Equal(decimal.NewFromInt(5000)), "Received is %s", amendment.Received)
}

func (suite *TestSuiteStandard) TestTransfersDelete() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"Success", "", http.StatusNoContent},
		{"Non-existing Transfer", uuid.New().String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			if tt.id == "" {
				tr := createTestTransfer(t, v1.TransferEditable{})
				tt.id = tr.Data.ID.String()
			}

			recorder := test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/transfers/%s", tt.id), "")
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}
}
