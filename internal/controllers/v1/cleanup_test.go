package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/saude-emendas/backend/internal/controllers/v1"
	"github.com/saude-emendas/backend/test"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestCleanup() {
	amendment := createTestAmendment(suite.T(), v1.AmendmentEditable{})
	_ = createTestAction(suite.T(), v1.ActionEditable{
		AmendmentID: amendment.Data.ID,
		Destinations: []v1.DestinationPlan{
			{TipoDestinacao: "OBRAS", ValorDestinado: decimal.NewFromInt(1000)},
		},
	})
	_ = createTestExpense(suite.T(), v1.ExpenseEditable{AmendmentID: amendment.Data.ID})
	_ = createTestTransfer(suite.T(), v1.TransferEditable{AmendmentID: amendment.Data.ID})

	tests := []string{
		"http://example.com/v1/amendments",
		"http://example.com/v1/actions",
		"http://example.com/v1/destinations",
		"http://example.com/v1/expenses",
		"http://example.com/v1/transfers",
		"http://example.com/v1/audit-entries",
	}

	// Delete
	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)

	// Verify
	for _, tt := range tests {
		suite.T().Run(tt, func(t *testing.T) {
			recorder := test.Request(suite.T(), http.MethodGet, tt, "")
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusOK)

			var response struct {
				Data []any `json:"data"`
			}

			test.DecodeResponse(t, &recorder, &response)
			assert.Len(t, response.Data, 0, "There are resources left for type %s", tt)
		})
	}
}

func (suite *TestSuiteStandard) TestCleanupFails() {
	tests := []struct {
		name string
		path string
	}{
		{"No confirmation", ""},
		{"Confirmation wrong", "confirm=invalid-confirmation"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			recorder := test.Request(t, http.MethodDelete, fmt.Sprintf("http://example.com/v1?%s", tt.path), "")
			test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)
		})
	}
}

// TestCleanupConfirmationInBody verifies that only the query parameter confirms the cleanup.
func (suite *TestSuiteStandard) TestCleanupConfirmationInBody() {
	_ = createTestAmendment(suite.T(), v1.AmendmentEditable{})

	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1", `{"confirm": "yes-please-delete-everything"}`)
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusBadRequest)

	recorder = test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", `{}`, map[string]string{"Content-Type": "application/json"})
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusNoContent)
}

func (suite *TestSuiteStandard) TestCleanupDBError() {
	suite.CloseDB()

	recorder := test.Request(suite.T(), http.MethodDelete, "http://example.com/v1?confirm=yes-please-delete-everything", "")
	test.AssertHTTPStatus(suite.T(), &recorder, http.StatusInternalServerError)
}
