package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/models"
	"gorm.io/gorm"
)

// Gorm is a Store backed by a gorm database.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (g *Gorm) Amendments() AmendmentRepository     { return gormAmendments{g.db} }
func (g *Gorm) Actions() ActionRepository           { return gormActions{g.db} }
func (g *Gorm) Destinations() DestinationRepository { return gormDestinations{g.db} }
func (g *Gorm) Expenses() ExpenseRepository         { return gormExpenses{g.db} }
func (g *Gorm) Transfers() TransferRepository       { return gormTransfers{g.db} }

func (g *Gorm) Transaction(ctx context.Context, fn func(Store) error) error {
	err := g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Gorm{db: tx})
	})

	// Errors of begin and commit do not pass the callbacks
	return models.GeneralError(ctx, err)
}

type gormAmendments struct{ db *gorm.DB }

func (r gormAmendments) Get(ctx context.Context, id uuid.UUID) (models.Amendment, error) {
	var amendment models.Amendment
	err := r.db.WithContext(ctx).First(&amendment, id).Error
	return amendment, err
}

func (r gormAmendments) List(ctx context.Context) ([]models.Amendment, error) {
	var amendments []models.Amendment
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&amendments).Error
	return amendments, err
}

func (r gormAmendments) Create(ctx context.Context, amendment *models.Amendment) error {
	return r.db.WithContext(ctx).Create(amendment).Error
}

type gormActions struct{ db *gorm.DB }

func (r gormActions) Get(ctx context.Context, id uuid.UUID) (models.Action, error) {
	var action models.Action
	err := r.db.WithContext(ctx).First(&action, id).Error
	return action, err
}

func (r gormActions) ListByAmendment(ctx context.Context, amendmentID uuid.UUID) ([]models.Action, error) {
	var actions []models.Action
	err := r.db.WithContext(ctx).Where(&models.Action{AmendmentID: amendmentID}).Order("created_at ASC").Find(&actions).Error
	return actions, err
}

func (r gormActions) Create(ctx context.Context, action *models.Action) error {
	return r.db.WithContext(ctx).Create(action).Error
}

func (r gormActions) Update(ctx context.Context, action *models.Action) error {
	return r.db.WithContext(ctx).
		Model(action).
		Select("NomeAcao", "Area", "DescricaoOficial", "Complexidade").
		Updates(*action).Error
}

func (r gormActions) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Action{DefaultModel: models.DefaultModel{ID: id}}).Error
}

type gormDestinations struct{ db *gorm.DB }

func (r gormDestinations) Get(ctx context.Context, id uuid.UUID) (models.Destination, error) {
	var destination models.Destination
	err := r.db.WithContext(ctx).First(&destination, id).Error
	return destination, err
}

func (r gormDestinations) ListByAction(ctx context.Context, actionID uuid.UUID) ([]models.Destination, error) {
	var destinations []models.Destination
	err := r.db.WithContext(ctx).Where(&models.Destination{ActionID: actionID}).Order("created_at ASC").Find(&destinations).Error
	return destinations, err
}

func (r gormDestinations) ListByAmendment(ctx context.Context, amendmentID uuid.UUID) ([]models.Destination, error) {
	var destinations []models.Destination
	err := r.db.WithContext(ctx).
		Joins("JOIN actions ON actions.id = destinations.action_id").
		Where("actions.amendment_id = ?", amendmentID).
		Order("destinations.created_at ASC").
		Find(&destinations).Error
	return destinations, err
}

func (r gormDestinations) Create(ctx context.Context, destination *models.Destination) error {
	return r.db.WithContext(ctx).Create(destination).Error
}

func (r gormDestinations) Update(ctx context.Context, destination *models.Destination) error {
	return r.db.WithContext(ctx).
		Model(destination).
		Select("ActionID", "TipoDestinacao", "ValorDestinado", "GrupoDespesa", "Subtipo", "PortariaVinculada", "ObservacaoTecnica").
		Updates(*destination).Error
}

func (r gormDestinations) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.Destination{DefaultModel: models.DefaultModel{ID: id}}).Error
}

type gormExpenses struct{ db *gorm.DB }

func (r gormExpenses) List(ctx context.Context) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).Order("data ASC, created_at ASC").Find(&expenses).Error
	return expenses, err
}

func (r gormExpenses) ListByAmendment(ctx context.Context, amendmentID uuid.UUID) ([]models.Expense, error) {
	var expenses []models.Expense
	err := r.db.WithContext(ctx).Where(&models.Expense{AmendmentID: amendmentID}).Order("data ASC, created_at ASC").Find(&expenses).Error
	return expenses, err
}

func (r gormExpenses) Create(ctx context.Context, expense *models.Expense) error {
	return r.db.WithContext(ctx).Create(expense).Error
}

type gormTransfers struct{ db *gorm.DB }

func (r gormTransfers) List(ctx context.Context) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := r.db.WithContext(ctx).Order("data ASC, created_at ASC").Find(&transfers).Error
	return transfers, err
}

func (r gormTransfers) ListByAmendment(ctx context.Context, amendmentID uuid.UUID) ([]models.Transfer, error) {
	var transfers []models.Transfer
	err := r.db.WithContext(ctx).Where(&models.Transfer{AmendmentID: amendmentID}).Order("data ASC, created_at ASC").Find(&transfers).Error
	return transfers, err
}

func (r gormTransfers) Create(ctx context.Context, transfer *models.Transfer) error {
	return r.db.WithContext(ctx).Create(transfer).Error
}
