package models_test

import (
	"context"

	"github.com/saude-emendas/backend/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (suite *TestSuiteStandard) TestAuditEntries() {
	ctx := context.WithValue(context.Background(), models.ContextRequestID, "test-request")
	db := models.DB.WithContext(ctx)

	amendment := models.Amendment{Numero: "2024.900", Parlamentar: "P", ValorTotal: decimal.NewFromFloat(10)}
	require.Nil(suite.T(), db.Create(&amendment).Error)
	require.Nil(suite.T(), db.Model(&amendment).Updates(models.Amendment{StatusInterno: "Em execução"}).Error)
	require.Nil(suite.T(), db.Delete(&amendment).Error)

	var entries []models.AuditEntry
	require.Nil(suite.T(), models.DB.Where(&models.AuditEntry{RecordID: amendment.ID}).Find(&entries).Error)
	require.Len(suite.T(), entries, 3)

	operations := make([]models.AuditOperation, 0, len(entries))
	for _, e := range entries {
		operations = append(operations, e.Operation)
		assert.Equal(suite.T(), "amendments", e.Resource)
		assert.Equal(suite.T(), "test-request", e.RequestID)
	}
	assert.ElementsMatch(suite.T(), []models.AuditOperation{models.AuditCreate, models.AuditUpdate, models.AuditDelete}, operations)
}

func (suite *TestSuiteStandard) TestAuditEntriesRolledBack() {
	err := models.DB.Create(&models.Amendment{Numero: "2024.901"}).Error
	assert.ErrorIs(suite.T(), err, models.ErrParlamentarRequired)

	var count int64
	models.DB.Model(&models.AuditEntry{}).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}
