package models_test

import (
	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/allocation"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestExpenseDefaults() {
	amendment := suite.createTestAmendment(models.Amendment{})
	expense := suite.createTestExpense(models.Expense{AmendmentID: amendment.ID, Descricao: "  Compra de insumos "})

	assert.Equal(suite.T(), models.Planejada, expense.StatusExecucao)
	assert.Equal(suite.T(), "Compra de insumos", expense.Descricao)
	assert.False(suite.T(), expense.Autorizada)
}

func (suite *TestSuiteStandard) TestExpenseValidation() {
	amendment := suite.createTestAmendment(models.Amendment{ValorTotal: decimal.NewFromFloat(100)})
	other := suite.createTestAmendment(models.Amendment{ValorTotal: decimal.NewFromFloat(100)})
	action := suite.createTestAction(models.Action{AmendmentID: other.ID})
	destination := suite.createTestDestination(models.Destination{ActionID: action.ID, TipoDestinacao: allocation.Obras})

	tests := []struct {
		name    string
		expense models.Expense
		err     error
	}{
		{"Zero value", models.Expense{AmendmentID: amendment.ID}, models.ErrValueNotPositive},
		{"Negative value", models.Expense{AmendmentID: amendment.ID, Valor: decimal.NewFromFloat(-5)}, models.ErrValueNotPositive},
		{"Invalid status", models.Expense{AmendmentID: amendment.ID, Valor: decimal.NewFromFloat(5), StatusExecucao: "ROUBADA"}, models.ErrExecutionStatusInvalid},
		{"Destination of other amendment", models.Expense{AmendmentID: amendment.ID, Valor: decimal.NewFromFloat(5), DestinationID: &destination.ID}, models.ErrDestinationOtherAmendment},
		{"Unknown amendment", models.Expense{AmendmentID: uuid.New(), Valor: decimal.NewFromFloat(5)}, models.ErrResourceNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := models.DB.Create(&tt.expense).Error
			assert.ErrorIs(suite.T(), err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestExpenseDestinationDeleteSetsNull() {
	amendment := suite.createTestAmendment(models.Amendment{ValorTotal: decimal.NewFromFloat(100)})
	action := suite.createTestAction(models.Action{AmendmentID: amendment.ID})
	destination := suite.createTestDestination(models.Destination{ActionID: action.ID, TipoDestinacao: allocation.Obras})
	expense := suite.createTestExpense(models.Expense{AmendmentID: amendment.ID, DestinationID: &destination.ID})

	require.Nil(suite.T(), models.DB.Delete(&destination).Error)

	var reloaded models.Expense
	require.Nil(suite.T(), models.DB.First(&reloaded, expense.ID).Error)
	assert.Nil(suite.T(), reloaded.DestinationID)
}

func (suite *TestSuiteStandard) TestExecutionStatusExecuted() {
	assert.False(suite.T(), models.Planejada.Executed())
	assert.False(suite.T(), models.Empenhada.Executed())
	assert.True(suite.T(), models.Liquidada.Executed())
	assert.True(suite.T(), models.Paga.Executed())
}
