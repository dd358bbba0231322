package models_test

import (
	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func (suite *TestSuiteStandard) TestActionAfterSave() {
	tests := []struct {
		name   string
		action models.Action
		err    error
	}{
		{"Valid", models.Action{NomeAcao: "Custeio da atenção básica", Complexidade: models.ComplexidadeMedia}, nil},
		{"Empty complexity", models.Action{NomeAcao: "Reforma"}, nil},
		{"No name", models.Action{}, models.ErrActionNameRequired},
		{"Invalid complexity", models.Action{NomeAcao: "Reforma", Complexidade: "ENORME"}, models.ErrComplexityInvalid},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			err := tt.action.AfterSave(&gorm.DB{})
			if tt.err == nil {
				assert.Nil(suite.T(), err)
				return
			}
			assert.ErrorIs(suite.T(), err, tt.err)
		})
	}
}

func (suite *TestSuiteStandard) TestActionAmendmentMustExist() {
	err := models.DB.Create(&models.Action{AmendmentID: uuid.New(), NomeAcao: "Orphan"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrResourceNotFound)
	assert.Contains(suite.T(), err.Error(), "amendment")
}

func (suite *TestSuiteStandard) TestActionDeleteCascadesToDestinations() {
	amendment := suite.createTestAmendment(models.Amendment{})
	action := suite.createTestAction(models.Action{AmendmentID: amendment.ID})
	_ = suite.createTestDestination(models.Destination{ActionID: action.ID})

	assert.Nil(suite.T(), models.DB.Delete(&action).Error)

	var count int64
	models.DB.Model(&models.Destination{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}
