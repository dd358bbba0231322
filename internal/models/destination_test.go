package models_test

import (
	"context"

	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/allocation"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func (suite *TestSuiteStandard) TestDestinationConservation() {
	amendment := suite.createTestAmendment(models.Amendment{ValorTotal: decimal.NewFromFloat(100000)})
	first := suite.createTestAction(models.Action{AmendmentID: amendment.ID})
	second := suite.createTestAction(models.Action{AmendmentID: amendment.ID})

	_ = suite.createTestDestination(models.Destination{ActionID: first.ID, TipoDestinacao: allocation.ServicosTerceiros, ValorDestinado: decimal.NewFromFloat(30000)})
	materials := suite.createTestDestination(models.Destination{ActionID: second.ID, TipoDestinacao: allocation.MaterialConsumo, ValorDestinado: decimal.NewFromFloat(70000)})

	// One cent more than the total
	err := models.DB.Create(&models.Destination{ActionID: second.ID, TipoDestinacao: allocation.Obras, ValorDestinado: decimal.NewFromFloat(0.01)}).Error
	assert.ErrorIs(suite.T(), err, allocation.ErrOverAllocated)

	err = models.DB.Model(&materials).Updates(models.Destination{ValorDestinado: decimal.NewFromFloat(70000.01)}).Error
	assert.ErrorIs(suite.T(), err, allocation.ErrOverAllocated)

	lines, err := models.AllocationLines(models.DB, amendment.ID)
	require.Nil(suite.T(), err)
	assert.Len(suite.T(), lines, 2)
	assert.True(suite.T(), allocation.Sum(lines).Equal(decimal.NewFromFloat(100000)), "Sum is %s", allocation.Sum(lines))
}

func (suite *TestSuiteStandard) TestDestinationZeroValueIsKept() {
	amendment := suite.createTestAmendment(models.Amendment{ValorTotal: decimal.NewFromFloat(100)})
	action := suite.createTestAction(models.Action{AmendmentID: amendment.ID})

	destination := suite.createTestDestination(models.Destination{ActionID: action.ID, TipoDestinacao: allocation.Obras})

	var reloaded models.Destination
	require.Nil(suite.T(), models.DB.First(&reloaded, destination.ID).Error)
	assert.True(suite.T(), reloaded.ValorDestinado.IsZero())
}

func (suite *TestSuiteStandard) TestDestinationDeferredCheck() {
	amendment := suite.createTestAmendment(models.Amendment{ValorTotal: decimal.NewFromFloat(100)})
	action := suite.createTestAction(models.Action{AmendmentID: amendment.ID})

	ctx := models.DeferAllocationCheck(context.Background())
	err := models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Over budget in between
		destination := models.Destination{ActionID: action.ID, TipoDestinacao: allocation.Obras, ValorDestinado: decimal.NewFromFloat(150)}
		err := tx.Create(&destination).Error
		if err != nil {
			return err
		}

		err = tx.Model(&destination).Updates(models.Destination{ValorDestinado: decimal.NewFromFloat(80)}).Error
		if err != nil {
			return err
		}

		lines, err := models.AllocationLines(tx, amendment.ID)
		if err != nil {
			return err
		}

		return allocation.Validate(amendment.ValorTotal, lines)
	})
	assert.Nil(suite.T(), err)

	lines, err := models.AllocationLines(models.DB, amendment.ID)
	require.Nil(suite.T(), err)
	require.Len(suite.T(), lines, 1)
	assert.True(suite.T(), lines[0].Value.Equal(decimal.NewFromFloat(80)), "Value is %s", lines[0].Value)
}

func (suite *TestSuiteStandard) TestDestinationDeferredCheckRollback() {
	amendment := suite.createTestAmendment(models.Amendment{ValorTotal: decimal.NewFromFloat(100)})
	action := suite.createTestAction(models.Action{AmendmentID: amendment.ID})

	ctx := models.DeferAllocationCheck(context.Background())
	err := models.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Create(&models.Destination{ActionID: action.ID, TipoDestinacao: allocation.Obras, ValorDestinado: decimal.NewFromFloat(150)}).Error
		if err != nil {
			return err
		}

		lines, err := models.AllocationLines(tx, amendment.ID)
		if err != nil {
			return err
		}

		return allocation.Validate(amendment.ValorTotal, lines)
	})
	assert.ErrorIs(suite.T(), err, allocation.ErrOverAllocated)

	var count int64
	models.DB.Model(&models.Destination{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count, "Destinations of the failed transaction have been persisted")
}

func (suite *TestSuiteStandard) TestDestinationValidation() {
	amendment := suite.createTestAmendment(models.Amendment{ValorTotal: decimal.NewFromFloat(100)})
	action := suite.createTestAction(models.Action{AmendmentID: amendment.ID})

	tests := []struct {
		name        string
		destination models.Destination
		err         error
	}{
		{"Unknown category", models.Destination{ActionID: action.ID, TipoDestinacao: "PIZZA"}, allocation.ErrUnknownCategory},
		{"Negative value", models.Destination{ActionID: action.ID, TipoDestinacao: allocation.Obras, ValorDestinado: decimal.NewFromFloat(-1)}, allocation.ErrNegativeValue},
		{"Unknown action", models.Destination{ActionID: uuid.New(), TipoDestinacao: allocation.Obras}, models.ErrResourceNotFound},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := models.DB.Create(&tt.destination).Error
			assert.ErrorIs(suite.T(), err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestDestinationUniquePerCategory() {
	amendment := suite.createTestAmendment(models.Amendment{ValorTotal: decimal.NewFromFloat(100)})
	action := suite.createTestAction(models.Action{AmendmentID: amendment.ID})
	_ = suite.createTestDestination(models.Destination{ActionID: action.ID, TipoDestinacao: allocation.Obras})

	err := models.DB.Create(&models.Destination{ActionID: action.ID, TipoDestinacao: allocation.Obras}).Error
	assert.ErrorIs(suite.T(), err, models.ErrDestinationNotUnique)
}

func (suite *TestSuiteStandard) TestDestinationMoveToMissingAction() {
	amendment := suite.createTestAmendment(models.Amendment{ValorTotal: decimal.NewFromFloat(100)})
	action := suite.createTestAction(models.Action{AmendmentID: amendment.ID})
	destination := suite.createTestDestination(models.Destination{ActionID: action.ID})

	err := models.DB.Model(&destination).Select("ActionID").Updates(models.Destination{ActionID: uuid.New()}).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
}
