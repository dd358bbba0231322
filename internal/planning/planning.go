// Package planning is the validated write path for actions and their
// destinations.
//
// Every write runs in one transaction of the Store. The allocation of the
// amendment is checked against the state inside the transaction before it
// is committed, so an amendment can never be allocated beyond its total.
package planning

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/allocation"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/saude-emendas/backend/internal/repository"
	"github.com/shopspring/decimal"
)

var (
	ErrActionOtherAmendment = errors.New("the action belongs to a different amendment")
	ErrDuplicateCategory    = errors.New("a category can only be planned once per action")
	ErrRemovePlanned        = errors.New("a category cannot be planned and removed at the same time")
)

// DestinationPlan is the planned value and description of one category.
type DestinationPlan struct {
	Category          allocation.Category
	Value             decimal.Decimal
	GrupoDespesa      string
	Subtipo           string
	PortariaVinculada string
	ObservacaoTecnica string
}

// ActionPlan is the content of the action form.
//
// Destinations are created or updated per category. Categories listed in
// Remove are deleted. Destinations of the action in other categories are
// not changed.
type ActionPlan struct {
	ID               *uuid.UUID // nil for a new action
	AmendmentID      uuid.UUID
	NomeAcao         string
	Area             string
	DescricaoOficial string
	Complexidade     models.Complexity
	Destinations     []DestinationPlan
	Remove           []allocation.Category
}

func (p ActionPlan) proposed() map[allocation.Category]decimal.Decimal {
	values := make(map[allocation.Category]decimal.Decimal, len(p.Destinations))
	for _, d := range p.Destinations {
		values[d.Category] = d.Value
	}
	return values
}

func (p ActionPlan) validate() error {
	seen := make(map[allocation.Category]bool, len(p.Destinations))
	for _, d := range p.Destinations {
		if !d.Category.Valid() {
			return fmt.Errorf("%w: %q", allocation.ErrUnknownCategory, d.Category)
		}

		if d.Value.IsNegative() {
			return fmt.Errorf("%w: %s has value %s", allocation.ErrNegativeValue, d.Category, d.Value.StringFixed(2))
		}

		if seen[d.Category] {
			return fmt.Errorf("%w: %s", ErrDuplicateCategory, d.Category)
		}
		seen[d.Category] = true
	}

	for _, c := range p.Remove {
		if !c.Valid() {
			return fmt.Errorf("%w: %q", allocation.ErrUnknownCategory, c)
		}

		if seen[c] {
			return fmt.Errorf("%w: %s", ErrRemovePlanned, c)
		}
	}

	return nil
}

type Service struct {
	store repository.Store
}

func NewService(store repository.Store) *Service {
	return &Service{store: store}
}

// lines returns the allocation of the amendment.
func lines(ctx context.Context, s repository.Store, amendmentID uuid.UUID) ([]allocation.Line, error) {
	destinations, err := s.Destinations().ListByAmendment(ctx, amendmentID)
	if err != nil {
		return nil, err
	}

	result := make([]allocation.Line, 0, len(destinations))
	for _, d := range destinations {
		result = append(result, d.Line())
	}

	return result, nil
}

// Preview computes the balance of the action form without saving anything.
func (s *Service) Preview(ctx context.Context, amendmentID uuid.UUID, actionID *uuid.UUID, proposed map[allocation.Category]decimal.Decimal, editable ...allocation.Category) (allocation.Balance, error) {
	amendment, err := s.store.Amendments().Get(ctx, amendmentID)
	if err != nil {
		return allocation.Balance{}, err
	}

	if actionID != nil {
		action, err := s.store.Actions().Get(ctx, *actionID)
		if err != nil {
			return allocation.Balance{}, err
		}

		if action.AmendmentID != amendmentID {
			return allocation.Balance{}, ErrActionOtherAmendment
		}
	}

	for category := range proposed {
		if !category.Valid() {
			return allocation.Balance{}, fmt.Errorf("%w: %q", allocation.ErrUnknownCategory, category)
		}
	}

	l, err := lines(ctx, s.store, amendmentID)
	if err != nil {
		return allocation.Balance{}, err
	}

	return allocation.ForAction(amendment.ValorTotal, l, actionID, proposed, editable...), nil
}

// SaveAction creates or updates an action together with its destinations.
func (s *Service) SaveAction(ctx context.Context, plan ActionPlan) (models.Action, []models.Destination, error) {
	err := plan.validate()
	if err != nil {
		return models.Action{}, nil, err
	}

	var action models.Action
	var destinations []models.Destination

	ctx = models.DeferAllocationCheck(ctx)
	err = s.store.Transaction(ctx, func(tx repository.Store) error {
		amendment, err := tx.Amendments().Get(ctx, plan.AmendmentID)
		if err != nil {
			return err
		}

		l, err := lines(ctx, tx, amendment.ID)
		if err != nil {
			return err
		}

		balance := allocation.ForAction(amendment.ValorTotal, l, plan.ID, plan.proposed(), plan.Remove...)
		if balance.OverBudget {
			return balance.Err()
		}

		action, err = saveAction(ctx, tx, plan)
		if err != nil {
			return err
		}

		destinations, err = saveDestinations(ctx, tx, action.ID, plan)
		if err != nil {
			return err
		}

		// The allocation must hold for what is about to be committed
		l, err = lines(ctx, tx, amendment.ID)
		if err != nil {
			return err
		}

		return overBudget(allocation.Validate(amendment.ValorTotal, l))
	})
	if err != nil {
		return models.Action{}, nil, err
	}

	return action, destinations, nil
}

func saveAction(ctx context.Context, tx repository.Store, plan ActionPlan) (models.Action, error) {
	if plan.ID == nil {
		action := models.Action{
			AmendmentID:      plan.AmendmentID,
			NomeAcao:         plan.NomeAcao,
			Area:             plan.Area,
			DescricaoOficial: plan.DescricaoOficial,
			Complexidade:     plan.Complexidade,
		}

		err := tx.Actions().Create(ctx, &action)
		return action, err
	}

	action, err := tx.Actions().Get(ctx, *plan.ID)
	if err != nil {
		return models.Action{}, err
	}

	if action.AmendmentID != plan.AmendmentID {
		return models.Action{}, ErrActionOtherAmendment
	}

	action.NomeAcao = plan.NomeAcao
	action.Area = plan.Area
	action.DescricaoOficial = plan.DescricaoOficial
	action.Complexidade = plan.Complexidade

	err = tx.Actions().Update(ctx, &action)
	return action, err
}

// saveDestinations applies the plan to the destinations of the action and
// returns all destinations of the action afterwards.
func saveDestinations(ctx context.Context, tx repository.Store, actionID uuid.UUID, plan ActionPlan) ([]models.Destination, error) {
	current, err := tx.Destinations().ListByAction(ctx, actionID)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[allocation.Category]models.Destination, len(current))
	for _, d := range current {
		byCategory[d.TipoDestinacao] = d
	}

	for _, p := range plan.Destinations {
		d, exists := byCategory[p.Category]
		d.ActionID = actionID
		d.TipoDestinacao = p.Category
		d.ValorDestinado = p.Value
		d.GrupoDespesa = p.GrupoDespesa
		d.Subtipo = p.Subtipo
		d.PortariaVinculada = p.PortariaVinculada
		d.ObservacaoTecnica = p.ObservacaoTecnica

		if exists {
			err = tx.Destinations().Update(ctx, &d)
		} else {
			err = tx.Destinations().Create(ctx, &d)
		}
		if err != nil {
			return nil, err
		}
	}

	for _, c := range plan.Remove {
		d, exists := byCategory[c]
		if !exists {
			continue
		}

		err = tx.Destinations().Delete(ctx, d.ID)
		if err != nil {
			return nil, err
		}
	}

	return tx.Destinations().ListByAction(ctx, actionID)
}

// SaveDestination creates a destination when its ID is not set, and
// updates it otherwise.
func (s *Service) SaveDestination(ctx context.Context, destination models.Destination) (models.Destination, error) {
	if !destination.TipoDestinacao.Valid() {
		return models.Destination{}, fmt.Errorf("%w: %q", allocation.ErrUnknownCategory, destination.TipoDestinacao)
	}

	if destination.ValorDestinado.IsNegative() {
		return models.Destination{}, allocation.ErrNegativeValue
	}

	ctx = models.DeferAllocationCheck(ctx)
	err := s.store.Transaction(ctx, func(tx repository.Store) error {
		if destination.ID != uuid.Nil {
			current, err := tx.Destinations().Get(ctx, destination.ID)
			if err != nil {
				return err
			}
			destination.CreatedAt = current.CreatedAt
		}

		action, err := tx.Actions().Get(ctx, destination.ActionID)
		if err != nil {
			return err
		}

		amendment, err := tx.Amendments().Get(ctx, action.AmendmentID)
		if err != nil {
			return err
		}

		l, err := lines(ctx, tx, amendment.ID)
		if err != nil {
			return err
		}

		balance := allocation.ForDestination(amendment.ValorTotal, l, destination.ID, destination.ValorDestinado)
		if balance.OverBudget {
			return balance.Err()
		}

		if destination.ID == uuid.Nil {
			err = tx.Destinations().Create(ctx, &destination)
		} else {
			err = tx.Destinations().Update(ctx, &destination)
		}
		if err != nil {
			return err
		}

		l, err = lines(ctx, tx, amendment.ID)
		if err != nil {
			return err
		}

		return overBudget(allocation.Validate(amendment.ValorTotal, l))
	})
	if err != nil {
		return models.Destination{}, err
	}

	return destination, nil
}

// DeleteDestination deletes a destination. Its expenses are kept and
// unlinked from it.
func (s *Service) DeleteDestination(ctx context.Context, id uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		_, err := tx.Destinations().Get(ctx, id)
		if err != nil {
			return err
		}

		return tx.Destinations().Delete(ctx, id)
	})
}

// DeleteAction deletes an action and all of its destinations.
func (s *Service) DeleteAction(ctx context.Context, id uuid.UUID) error {
	return s.store.Transaction(ctx, func(tx repository.Store) error {
		_, err := tx.Actions().Get(ctx, id)
		if err != nil {
			return err
		}

		destinations, err := tx.Destinations().ListByAction(ctx, id)
		if err != nil {
			return err
		}

		for _, d := range destinations {
			err = tx.Destinations().Delete(ctx, d.ID)
			if err != nil {
				return err
			}
		}

		return tx.Actions().Delete(ctx, id)
	})
}

// overBudget marks a violated allocation as over budget.
func overBudget(err error) error {
	if errors.Is(err, allocation.ErrOverAllocated) {
		return fmt.Errorf("%w: %w", allocation.ErrOverBudget, err)
	}

	return err
}
