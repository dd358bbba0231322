package models_test

import (
	"strings"

	"github.com/saude-emendas/backend/internal/allocation"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestAmendmentTrimWhitespace() {
	numero := "  2024.001 \t"
	parlamentar := " Dep. Fulano  "

	amendment := suite.createTestAmendment(models.Amendment{
		Numero:      numero,
		Parlamentar: parlamentar,
	})

	assert.Equal(suite.T(), strings.TrimSpace(numero), amendment.Numero)
	assert.Equal(suite.T(), strings.TrimSpace(parlamentar), amendment.Parlamentar)
}

func (suite *TestSuiteStandard) TestAmendmentValidation() {
	tests := []struct {
		name      string
		amendment models.Amendment
		err       error
	}{
		{"No number", models.Amendment{Parlamentar: "P"}, models.ErrAmendmentNumberRequired},
		{"Blank number", models.Amendment{Numero: "   ", Parlamentar: "P"}, models.ErrAmendmentNumberRequired},
		{"No parlamentar", models.Amendment{Numero: "1"}, models.ErrParlamentarRequired},
		{"Invalid resource type", models.Amendment{Numero: "1", Parlamentar: "P", TipoRecurso: "PIZZA"}, models.ErrResourceTypeInvalid},
		{
			"Co-author value without co-author",
			models.Amendment{Numero: "1", Parlamentar: "P", ValorTotal: decimal.NewFromFloat(100), ValorSegundoResponsavel: decimal.NewFromFloat(10)},
			models.ErrCoAuthorValueWithoutAuthor,
		},
		{
			"Co-author value exceeds total",
			models.Amendment{Numero: "1", Parlamentar: "P", SegundoParlamentar: "S", ValorTotal: decimal.NewFromFloat(100), ValorSegundoResponsavel: decimal.NewFromFloat(100.01)},
			allocation.ErrCoAuthorExceedsTotal,
		},
		{
			"Negative total",
			models.Amendment{Numero: "1", Parlamentar: "P", ValorTotal: decimal.NewFromFloat(-1)},
			allocation.ErrNegativeValue,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := models.DB.Create(&tt.amendment).Error
			assert.ErrorIs(suite.T(), err, tt.err)

			var count int64
			models.DB.Model(&models.Amendment{}).Count(&count)
			assert.Equal(suite.T(), int64(0), count, "Invalid amendment has been persisted")
		})
	}
}

func (suite *TestSuiteStandard) TestAmendmentNumberUnique() {
	_ = suite.createTestAmendment(models.Amendment{Numero: "2024.007"})

	err := models.DB.Create(&models.Amendment{Numero: "2024.007", Parlamentar: "P"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrAmendmentNumberNotUnique)
}

func (suite *TestSuiteStandard) TestAmendmentPrimeiroParlamentarShare() {
	amendment := suite.createTestAmendment(models.Amendment{
		SegundoParlamentar:      "Dep. Beltrano",
		ValorTotal:              decimal.NewFromFloat(100000),
		ValorSegundoResponsavel: decimal.NewFromFloat(25000),
	})

	share, err := amendment.PrimeiroParlamentarShare()
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), share.Equal(decimal.NewFromFloat(75000)), "Share is %s", share)

	err = models.DB.Model(&amendment).Updates(models.Amendment{ValorSegundoResponsavel: decimal.NewFromFloat(100000)}).Error
	assert.Nil(suite.T(), err)

	share, err = amendment.PrimeiroParlamentarShare()
	assert.Nil(suite.T(), err)
	assert.True(suite.T(), share.IsZero(), "Share is %s", share)
}

func (suite *TestSuiteStandard) TestAmendmentTotalBelowAllocated() {
	amendment := suite.createTestAmendment(models.Amendment{ValorTotal: decimal.NewFromFloat(1000)})
	action := suite.createTestAction(models.Action{AmendmentID: amendment.ID})
	_ = suite.createTestDestination(models.Destination{ActionID: action.ID, ValorDestinado: decimal.NewFromFloat(800)})

	err := models.DB.Model(&amendment).Updates(models.Amendment{ValorTotal: decimal.NewFromFloat(799.99)}).Error
	assert.ErrorIs(suite.T(), err, models.ErrTotalBelowAllocated)

	var reloaded models.Amendment
	models.DB.First(&reloaded, amendment.ID)
	assert.True(suite.T(), reloaded.ValorTotal.Equal(decimal.NewFromFloat(1000)), "Total has been changed to %s", reloaded.ValorTotal)

	err = models.DB.Model(&amendment).Updates(models.Amendment{ValorTotal: decimal.NewFromFloat(800)}).Error
	assert.Nil(suite.T(), err)
}

func (suite *TestSuiteStandard) TestAmendmentDeleteCascades() {
	amendment := suite.createTestAmendment(models.Amendment{ValorTotal: decimal.NewFromFloat(1000)})
	action := suite.createTestAction(models.Action{AmendmentID: amendment.ID})
	_ = suite.createTestDestination(models.Destination{ActionID: action.ID, ValorDestinado: decimal.NewFromFloat(100)})
	_ = suite.createTestExpense(models.Expense{AmendmentID: amendment.ID})
	_ = suite.createTestTransfer(models.Transfer{AmendmentID: amendment.ID})

	err := models.DB.Delete(&amendment).Error
	assert.Nil(suite.T(), err)

	for _, model := range []any{&models.Action{}, &models.Destination{}, &models.Expense{}, &models.Transfer{}} {
		var count int64
		models.DB.Model(model).Count(&count)
		assert.Equal(suite.T(), int64(0), count, "%T has not been deleted", model)
	}
}
