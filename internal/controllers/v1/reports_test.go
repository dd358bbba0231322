package v1_test

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	v1 "github.com/saude-emendas/backend/internal/controllers/v1"
	"github.com/saude-emendas/backend/internal/filter"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/saude-emendas/backend/internal/types"
	"github.com/saude-emendas/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestReportsGet() {
	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ReportsResponse
	test.DecodeResponse(suite.T(), &r, &response)
	assert.Equal(suite.T(), "http://example.com/v1/reports/summary", response.Links.Summary)
	assert.Equal(suite.T(), "http://example.com/v1/reports/pending", response.Links.Pending)
}

func (suite *TestSuiteStandard) TestReportsSummary() {
	mac := createTestAmendment(suite.T(), v1.AmendmentEditable{
		Ano:         2024,
		ValorTotal:  decimal.NewFromInt(100000),
		TipoRecurso: models.IncrementoMAC,
	})
	equipment := createTestAmendment(suite.T(), v1.AmendmentEditable{
		Ano:         2024,
		ValorTotal:  decimal.NewFromInt(50000),
		TipoRecurso: models.Equipamento,
	})
	_ = createTestAmendment(suite.T(), v1.AmendmentEditable{
		Ano:         2023,
		ValorTotal:  decimal.NewFromInt(20000),
		TipoRecurso: models.Custeio,
	})

	_ = createTestTransfer(suite.T(), v1.TransferEditable{AmendmentID: mac.Data.ID, Valor: decimal.NewFromInt(40000), Status: models.Repassado, Data: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)})
	_ = createTestTransfer(suite.T(), v1.TransferEditable{AmendmentID: mac.Data.ID, Valor: decimal.NewFromInt(10000), Status: models.Pendente, Data: time.Date(2024, 4, 10, 0, 0, 0, 0, time.UTC)})
	_ = createTestExpense(suite.T(), v1.ExpenseEditable{AmendmentID: equipment.Data.ID, Valor: decimal.NewFromInt(15000), StatusExecucao: models.Paga, Data: time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)})
	_ = createTestExpense(suite.T(), v1.ExpenseEditable{AmendmentID: mac.Data.ID, Valor: decimal.NewFromInt(5000), StatusExecucao: models.Liquidada, Data: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/summary", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.SummaryResponse
	test.DecodeResponse(suite.T(), &r, &response)
	s := response.Data

	require.Len(suite.T(), s.Groups, 4)

	assert.Equal(suite.T(), "MAC Incremental", s.Groups[0].Group)
	assert.Equal(suite.T(), 1, s.Groups[0].Count)
	assert.True(suite.T(), s.Groups[0].Paid.Equal(decimal.NewFromInt(40000)), "Paid is %s", s.Groups[0].Paid)
	assert.True(suite.T(), s.Groups[0].Pending.Equal(decimal.NewFromInt(60000)), "Pending is %s", s.Groups[0].Pending)
	assert.Equal(suite.T(), "R$ 100.000,00", s.Groups[0].Formatted.Total)

	// Executed expenses count as paid for equipment
	assert.Equal(suite.T(), "Equipamentos", s.Groups[2].Group)
	assert.True(suite.T(), s.Groups[2].Paid.Equal(decimal.NewFromInt(15000)), "Paid is %s", s.Groups[2].Paid)

	assert.Equal(suite.T(), "Outros", s.Groups[3].Group)
	assert.Equal(suite.T(), 1, s.Groups[3].Count)

	assert.Equal(suite.T(), 3, s.Overall.Count)
	assert.True(suite.T(), s.Overall.Total.Equal(decimal.NewFromInt(170000)), "Total is %s", s.Overall.Total)
	assert.True(suite.T(), s.Overall.Paid.Equal(decimal.NewFromInt(55000)), "Paid is %s", s.Overall.Paid)
	assert.Equal(suite.T(), "R$ 55.000,00", s.Overall.Formatted.Paid)

	require.Len(suite.T(), s.Months, 2)
	assert.Equal(suite.T(), types.NewMonth(2024, time.March), s.Months[0].Month)
	assert.True(suite.T(), s.Months[0].Transferred.Equal(decimal.NewFromInt(40000)), "Transferred is %s", s.Months[0].Transferred)
	assert.True(suite.T(), s.Months[0].Executed.Equal(decimal.NewFromInt(5000)), "Executed is %s", s.Months[0].Executed)
	assert.Equal(suite.T(), types.NewMonth(2024, time.May), s.Months[1].Month)

	assert.Equal(suite.T(), 3, s.Dashboard.Count)
	assert.True(suite.T(), s.Dashboard.Received.Equal(decimal.NewFromInt(40000)), "Received is %s", s.Dashboard.Received)
	assert.True(suite.T(), s.Dashboard.Executed.Equal(decimal.NewFromInt(20000)), "Executed is %s", s.Dashboard.Executed)

	// Only one year
	r = test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/summary?ano=2023", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)
	test.DecodeResponse(suite.T(), &r, &response)

	assert.Equal(suite.T(), 1, response.Data.Overall.Count)
	assert.True(suite.T(), response.Data.Overall.Total.Equal(decimal.NewFromInt(20000)), "Total is %s", response.Data.Overall.Total)
	assert.Len(suite.T(), response.Data.Months, 0)
}

func (suite *TestSuiteStandard) TestReportsPending() {
	complete := createTestAmendment(suite.T(), v1.AmendmentEditable{
		Portaria:         ptr("Portaria GM/MS 1/2024"),
		DeliberacaoCIE:   ptr("Deliberação CIE 1/2024"),
		AnexosEssenciais: true,
	})
	_ = createTestTransfer(suite.T(), v1.TransferEditable{AmendmentID: complete.Data.ID, Valor: decimal.NewFromInt(1000), Status: models.Repassado})

	missing := createTestAmendment(suite.T(), v1.AmendmentEditable{})
	_ = createTestExpense(suite.T(), v1.ExpenseEditable{AmendmentID: missing.Data.ID, Valor: decimal.NewFromInt(10)})

	r := test.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/pending", "")
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.PendingResponse
	test.DecodeResponse(suite.T(), &r, &response)

	require.Len(suite.T(), response.Data, len(filter.PendingKinds))

	buckets := make(map[filter.PendingKind][]uuid.UUID)
	for _, b := range response.Data {
		buckets[b.Kind] = b.AmendmentIDs
	}

	assert.Equal(suite.T(), []uuid.UUID{missing.Data.ID}, buckets[filter.SemPortaria])
	assert.Equal(suite.T(), []uuid.UUID{missing.Data.ID}, buckets[filter.SemRepasses])
	assert.Equal(suite.T(), []uuid.UUID{missing.Data.ID}, buckets[filter.DespesasExcedemRepasses])
	assert.Equal(suite.T(), []uuid.UUID{missing.Data.ID}, buckets[filter.DespesasNaoAutorizadas])
}

func (suite *TestSuiteStandard) TestReportsFail() {
	tests := []string{
		"http://example.com/v1/reports/summary?ano=dois-mil",
		"http://example.com/v1/reports/pending?ano=dois-mil",
	}

	for _, path := range tests {
		r := test.Request(suite.T(), http.MethodGet, path, "")
		test.AssertHTTPStatus(suite.T(), &r, http.StatusBadRequest)
	}

	suite.CloseDB()

	for _, path := range []string{"http://example.com/v1/reports/summary", "http://example.com/v1/reports/pending"} {
		r := test.Request(suite.T(), http.MethodGet, path, "")
		test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
	}
}
