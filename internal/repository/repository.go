// Package repository gives access to the stored resources through one
// interface per entity.
//
// The gorm implementation is used by the server. The memory implementation
// keeps everything in maps and is used to test code that depends on a Store
// without a database.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/filter"
	"github.com/saude-emendas/backend/internal/models"
)

type AmendmentRepository interface {
	Get(ctx context.Context, id uuid.UUID) (models.Amendment, error)
	List(ctx context.Context) ([]models.Amendment, error)
	Create(ctx context.Context, amendment *models.Amendment) error
}

type ActionRepository interface {
	Get(ctx context.Context, id uuid.UUID) (models.Action, error)
	ListByAmendment(ctx context.Context, amendmentID uuid.UUID) ([]models.Action, error)
	Create(ctx context.Context, action *models.Action) error
	Update(ctx context.Context, action *models.Action) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DestinationRepository interface {
	Get(ctx context.Context, id uuid.UUID) (models.Destination, error)
	ListByAction(ctx context.Context, actionID uuid.UUID) ([]models.Destination, error)

	// ListByAmendment returns the destinations of all actions of the
	// amendment, oldest first.
	ListByAmendment(ctx context.Context, amendmentID uuid.UUID) ([]models.Destination, error)
	Create(ctx context.Context, destination *models.Destination) error
	Update(ctx context.Context, destination *models.Destination) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type ExpenseRepository interface {
	List(ctx context.Context) ([]models.Expense, error)
	ListByAmendment(ctx context.Context, amendmentID uuid.UUID) ([]models.Expense, error)
	Create(ctx context.Context, expense *models.Expense) error
}

type TransferRepository interface {
	List(ctx context.Context) ([]models.Transfer, error)
	ListByAmendment(ctx context.Context, amendmentID uuid.UUID) ([]models.Transfer, error)
	Create(ctx context.Context, transfer *models.Transfer) error
}

// Store bundles the repositories of all entities.
type Store interface {
	Amendments() AmendmentRepository
	Actions() ActionRepository
	Destinations() DestinationRepository
	Expenses() ExpenseRepository
	Transfers() TransferRepository

	// Transaction runs fn with a Store whose changes are committed when fn
	// returns nil and discarded otherwise.
	Transaction(ctx context.Context, fn func(Store) error) error
}

// Records loads all amendments with their expenses and transfers.
func Records(ctx context.Context, s Store) ([]filter.Record, error) {
	amendments, err := s.Amendments().List(ctx)
	if err != nil {
		return nil, err
	}

	expenses, err := s.Expenses().List(ctx)
	if err != nil {
		return nil, err
	}

	transfers, err := s.Transfers().List(ctx)
	if err != nil {
		return nil, err
	}

	expensesByAmendment := make(map[uuid.UUID][]models.Expense)
	for _, e := range expenses {
		expensesByAmendment[e.AmendmentID] = append(expensesByAmendment[e.AmendmentID], e)
	}

	transfersByAmendment := make(map[uuid.UUID][]models.Transfer)
	for _, t := range transfers {
		transfersByAmendment[t.AmendmentID] = append(transfersByAmendment[t.AmendmentID], t)
	}

	records := make([]filter.Record, 0, len(amendments))
	for _, a := range amendments {
		records = append(records, filter.Record{
			Amendment: a,
			Expenses:  expensesByAmendment[a.ID],
			Transfers: transfersByAmendment[a.ID],
		})
	}

	return records, nil
}
