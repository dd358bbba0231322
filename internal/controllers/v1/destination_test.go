package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/allocation"
	v1 "github.com/saude-emendas/backend/internal/controllers/v1"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/saude-emendas/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestDestination(t *testing.T, d v1.DestinationEditable, expectedStatus ...int) v1.DestinationResponse {
	if d.ActionID == uuid.Nil {
		d.ActionID = createTestAction(t, v1.ActionEditable{}).Data.ID
	}

	if d.TipoDestinacao == "" {
		d.TipoDestinacao = allocation.MaterialConsumo
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	body := []v1.DestinationEditable{d}

	r := test.Request(t, http.MethodPost, "http://example.com/v1/destinations", body)
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var destination v1.DestinationCreateResponse
	test.DecodeResponse(t, &r, &destination)

	if r.Code == http.StatusCreated {
		return destination.Data[0]
	}

	return v1.DestinationResponse{}
}

// TestDestinationsDBClosed verifies that errors are processed correctly when
// the database is closed.
func (suite *TestSuiteStandard) TestDestinationsDBClosed() {
	a := createTestAction(suite.T(), v1.ActionEditable{})

	tests := []struct {
		name string             // Name of the test
		test func(t *testing.T) // Code to run
	}{
		{
			"Creation fails",
			func(t *testing.T) {
				createTestDestination(t, v1.DestinationEditable{ActionID: a.Data.ID}, http.StatusInternalServerError)
			},
		},
		{
			"GET fails",
			func(t *testing.T) {
				recorder := test.Request(t, http.MethodGet, "http://example.com/v1/destinations", "")
				test.AssertHTTPStatus(t, &recorder, http.StatusInternalServerError)

				var response v1.DestinationListResponse
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

// TestDestinationsOptions verifies that OPTIONS requests are handled correctly.
func (suite *TestSuiteStandard) TestDestinationsOptions() {
	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"No Destination with this ID", uuid.New().String(), http.StatusNotFound},
		{"Not a valid UUID", "NotParseableAsUUID", http.StatusBadRequest},
		{"Destination exists", createTestDestination(suite.T(), v1.DestinationEditable{}).Data.ID.String(), http.StatusNoContent},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			path := fmt.Sprintf("%s/%s", "http://example.com/v1/destinations", tt.id)
			r := test.Request(t, http.MethodOptions, path, "")
			test.AssertHTTPStatus(t, &r, tt.status)

			if tt.status == http.StatusNoContent {
				assert.Equal(t, "OPTIONS, GET, PATCH, DELETE", r.Header().Get("allow"))
			}
		})
	}
}

func (suite *TestSuiteStandard) TestDestinationsGetSingle() {
	d := createTestDestination(suite.T(), v1.DestinationEditable{ValorDestinado: decimal.NewFromInt(1000)})

	tests := []struct {
		name   string
		id     string
		status int
		method string
	}{
		{"GET Existing Destination", d.Data.ID.String(), http.StatusOK, http.MethodGet},
		{"GET ID nil", uuid.Nil.String(), http.StatusNotFound, http.MethodGet},
		{"GET No Destination with this ID", uuid.New().String(), http.StatusNotFound, http.MethodGet},
		{"GET Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodGet},
		{"PATCH Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodPatch},
		{"DELETE Invalid ID (string)", "notaUUID", http.StatusBadRequest, http.MethodDelete},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, tt.method, fmt.Sprintf("http://example.com/v1/destinations/%s", tt.id), "")

			var destination v1.DestinationResponse
			test.DecodeResponse(t, &r, &destination)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestDestinationsCreateFails() {
	amendment := createTestAmendment(suite.T(), v1.AmendmentEditable{ValorTotal: decimal.NewFromInt(100000)})
	action := createTestAction(suite.T(), v1.ActionEditable{
		AmendmentID: amendment.Data.ID,
		Destinations: []v1.DestinationPlan{
			{TipoDestinacao: allocation.ServicosTerceiros, ValorDestinado: decimal.NewFromInt(30000)},
		},
	})

	tests := []struct {
		name        string
		destination v1.DestinationEditable
		status      int
		err         error
	}{
		{
			"Over budget",
			v1.DestinationEditable{ActionID: action.Data.ID, TipoDestinacao: allocation.Obras, ValorDestinado: decimal.NewFromFloat(70000.01)},
			http.StatusBadRequest,
			allocation.ErrOverBudget,
		},
		{
			"Category already planned for the action",
			v1.DestinationEditable{ActionID: action.Data.ID, TipoDestinacao: allocation.ServicosTerceiros, ValorDestinado: decimal.NewFromInt(1)},
			http.StatusBadRequest,
			models.ErrDestinationNotUnique,
		},
		{
			"Unknown category",
			v1.DestinationEditable{ActionID: action.Data.ID, TipoDestinacao: "PIZZA", ValorDestinado: decimal.NewFromInt(1)},
			http.StatusBadRequest,
			allocation.ErrUnknownCategory,
		},
		{
			"Negative value",
			v1.DestinationEditable{ActionID: action.Data.ID, TipoDestinacao: allocation.Obras, ValorDestinado: decimal.NewFromInt(-5)},
			http.StatusBadRequest,
			allocation.ErrNegativeValue,
		},
		{
			"Non-existing action",
			v1.DestinationEditable{ActionID: uuid.New(), TipoDestinacao: allocation.Obras, ValorDestinado: decimal.NewFromInt(1)},
			http.StatusNotFound,
			models.ErrResourceNotFound,
		},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPost, "http://example.com/v1/destinations", []v1.DestinationEditable{tt.destination})
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.DestinationCreateResponse
			test.DecodeResponse(t, &r, &response)

			require.Len(t, response.Data, 1)
			assert.Contains(t, *response.Data[0].Error, tt.err.Error())
		})
	}

	// Exactly at the total is allowed
	_ = createTestDestination(suite.T(), v1.DestinationEditable{ActionID: action.Data.ID, TipoDestinacao: allocation.Obras, ValorDestinado: decimal.NewFromInt(70000)})

	updated := getTestAmendment(suite.T(), amendment.Data.ID)
	assert.True(suite.T(), updated.Unallocated.IsZero(), "Unallocated is %s", updated.Unallocated)
}

func (suite *TestSuiteStandard) TestDestinationsGetFilter() {
	a1 := createTestAction(suite.T(), v1.ActionEditable{})
	a2 := createTestAction(suite.T(), v1.ActionEditable{})

	_ = createTestDestination(suite.T(), v1.DestinationEditable{
		ActionID:       a1.Data.ID,
		TipoDestinacao: allocation.MaterialConsumo,
		ValorDestinado: decimal.NewFromInt(1000),
		GrupoDespesa:   "3.3.90",
		Subtipo:        "Medicamentos",
	})

	_ = createTestDestination(suite.T(), v1.DestinationEditable{
		ActionID:       a2.Data.ID,
		TipoDestinacao: allocation.MaterialConsumo,
		ValorDestinado: decimal.NewFromInt(2000),
		GrupoDespesa:   "3.3.90",
	})

	_ = createTestDestination(suite.T(), v1.DestinationEditable{
		ActionID:       a2.Data.ID,
		TipoDestinacao: allocation.Obras,
		ValorDestinado: decimal.NewFromInt(3000),
		GrupoDespesa:   "4.4.90",
		Subtipo:        "Reforma",
	})

	tests := []struct {
		name  string
		query string
		len   int
	}{
		{"Action 1", fmt.Sprintf("action=%s", a1.Data.ID), 1},
		{"Action 2", fmt.Sprintf("action=%s", a2.Data.ID), 2},
		{"Amendment of action 2", fmt.Sprintf("amendment=%s", a2.Data.AmendmentID), 2},
		{"Amendment Not Existing", "amendment=c9e4ee7a-e702-4f92-b168-11a95b22c7aa", 0},
		{"Category", "tipoDestinacao=MATERIAL_CONSUMO", 2},
		{"Expense group", "grupoDespesa=3.3", 2},
		{"Empty subtype", "subtipo=", 1},
		{"Subtype", "subtipo=Reforma", 1},
		{"Offset 1, limit 1", "offset=1&limit=1", 1},
		{"Limit 0", "limit=0", 0},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			var re v1.DestinationListResponse
			r := test.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/destinations?%s", tt.query), "")
			test.AssertHTTPStatus(t, &r, http.StatusOK)
			test.DecodeResponse(t, &r, &re)

			assert.Equal(t, tt.len, len(re.Data), "Request ID: %s", r.Result().Header.Get("x-request-id"))
		})
	}
}

func (suite *TestSuiteStandard) TestDestinationsUpdate() {
	amendment := createTestAmendment(suite.T(), v1.AmendmentEditable{ValorTotal: decimal.NewFromInt(100000)})
	action := createTestAction(suite.T(), v1.ActionEditable{
		AmendmentID: amendment.Data.ID,
		Destinations: []v1.DestinationPlan{
			{TipoDestinacao: allocation.ServicosTerceiros, ValorDestinado: decimal.NewFromInt(10000)},
			{TipoDestinacao: allocation.MaterialConsumo, ValorDestinado: decimal.NewFromInt(20000)},
		},
	})

	var edited v1.Destination
	for _, d := range action.Data.Destinations {
		if d.TipoDestinacao == allocation.ServicosTerceiros {
			edited = d
		}
	}

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"Notes only", map[string]any{"observacaoTecnica": "Revisado"}, http.StatusOK},
		{"Raise up to the total", map[string]any{"valorDestinado": "80000"}, http.StatusOK},
		{"Over budget", map[string]any{"valorDestinado": "80000.01"}, http.StatusBadRequest},
		{"Move to a category the action already has", map[string]any{"tipoDestinacao": "MATERIAL_CONSUMO"}, http.StatusBadRequest},
		{"Broken JSON", `{ "valorDestinado": 2" }`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := test.Request(t, http.MethodPatch, edited.Links.Self, tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}

	r := test.Request(suite.T(), http.MethodGet, edited.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var d v1.DestinationResponse
	test.DecodeResponse(suite.T(), &r, &d)
	assert.Equal(suite.T(), "Revisado", d.Data.ObservacaoTecnica)
	assert.Equal(suite.T(), allocation.ServicosTerceiros, d.Data.TipoDestinacao)
	assert.True(suite.T(), d.Data.ValorDestinado.Equal(decimal.NewFromInt(80000)), "Value is %s", d.Data.ValorDestinado)
	assert.Equal(suite.T(), edited.CreatedAt.Unix(), d.Data.CreatedAt.Unix())
}

// TestDestinationsDelete verifies that expenses of a deleted destination
// are kept and unlinked.
func (suite *TestSuiteStandard) TestDestinationsDelete() {
	d := createTestDestination(suite.T(), v1.DestinationEditable{ValorDestinado: decimal.NewFromInt(1000)})
	action := getTestAction(suite.T(), d.Data.ActionID)
	e := createTestExpense(suite.T(), v1.ExpenseEditable{AmendmentID: action.AmendmentID, DestinationID: &d.Data.ID})

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"Success", d.Data.ID.String(), http.StatusNoContent},
		{"Already deleted", d.Data.ID.String(), http.StatusNotFound},
		{"Non-existing Destination", uuid.New().String(), http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1/destinations/%s", tt.id), "")
			test.AssertHTTPStatus(t, &recorder, tt.status)
		})
	}

	r := test.Request(suite.T(), http.MethodGet, e.Data.Links.Self, "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var expense v1.ExpenseResponse
	test.DecodeResponse(suite.T(), &r, &expense)
	assert.Nil(suite.T(), expense.Data.DestinationID)
}
