package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/models"
)

// Memory is a Store that keeps all resources in memory.
//
// It enforces references between resources and the uniqueness of
// destination categories per action. Model hooks, including the allocation
// check, are not run.
type Memory struct {
	mu sync.Mutex
	tx sync.Mutex

	amendments   map[uuid.UUID]models.Amendment
	actions      map[uuid.UUID]models.Action
	destinations map[uuid.UUID]models.Destination
	expenses     map[uuid.UUID]models.Expense
	transfers    map[uuid.UUID]models.Transfer
}

func NewMemory() *Memory {
	return &Memory{
		amendments:   make(map[uuid.UUID]models.Amendment),
		actions:      make(map[uuid.UUID]models.Action),
		destinations: make(map[uuid.UUID]models.Destination),
		expenses:     make(map[uuid.UUID]models.Expense),
		transfers:    make(map[uuid.UUID]models.Transfer),
	}
}

func (m *Memory) Amendments() AmendmentRepository     { return memoryAmendments{m} }
func (m *Memory) Actions() ActionRepository           { return memoryActions{m} }
func (m *Memory) Destinations() DestinationRepository { return memoryDestinations{m} }
func (m *Memory) Expenses() ExpenseRepository         { return memoryExpenses{m} }
func (m *Memory) Transfers() TransferRepository       { return memoryTransfers{m} }

// Transaction runs fn on m and restores the previous state if fn fails.
// Transactions are serialized.
func (m *Memory) Transaction(_ context.Context, fn func(Store) error) error {
	m.tx.Lock()
	defer m.tx.Unlock()

	m.mu.Lock()
	snapshot := m.clone()
	m.mu.Unlock()

	err := fn(m)
	if err != nil {
		m.mu.Lock()
		m.amendments = snapshot.amendments
		m.actions = snapshot.actions
		m.destinations = snapshot.destinations
		m.expenses = snapshot.expenses
		m.transfers = snapshot.transfers
		m.mu.Unlock()
	}

	return err
}

func (m *Memory) clone() *Memory {
	c := NewMemory()
	for k, v := range m.amendments {
		c.amendments[k] = v
	}
	for k, v := range m.actions {
		c.actions[k] = v
	}
	for k, v := range m.destinations {
		c.destinations[k] = v
	}
	for k, v := range m.expenses {
		c.expenses[k] = v
	}
	for k, v := range m.transfers {
		c.transfers[k] = v
	}
	return c
}

func notFound(resource string) error {
	return fmt.Errorf("%w %s matching your query", models.ErrResourceNotFound, resource)
}

// prepare sets the ID and timestamps of a resource before it is stored.
func prepare(m *models.DefaultModel) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}

	now := time.Now().UTC()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now
	}
	m.UpdatedAt = now
}

// sorted returns the values of the map matching keep, oldest first.
func sorted[T any](values map[uuid.UUID]T, created func(T) time.Time, keep func(T) bool) []T {
	result := make([]T, 0, len(values))
	for _, v := range values {
		if keep == nil || keep(v) {
			result = append(result, v)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return created(result[i]).Before(created(result[j]))
	})

	return result
}

type memoryAmendments struct{ m *Memory }

func (r memoryAmendments) Get(_ context.Context, id uuid.UUID) (models.Amendment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	a, ok := r.m.amendments[id]
	if !ok {
		return models.Amendment{}, notFound("amendment")
	}
	return a, nil
}

func (r memoryAmendments) List(_ context.Context) ([]models.Amendment, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return sorted(r.m.amendments, func(a models.Amendment) time.Time { return a.CreatedAt }, nil), nil
}

func (r memoryAmendments) Create(_ context.Context, amendment *models.Amendment) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, a := range r.m.amendments {
		if a.Numero == amendment.Numero {
			return models.ErrAmendmentNumberNotUnique
		}
	}

	prepare(&amendment.DefaultModel)
	r.m.amendments[amendment.ID] = *amendment
	return nil
}

type memoryActions struct{ m *Memory }

func (r memoryActions) Get(_ context.Context, id uuid.UUID) (models.Action, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	a, ok := r.m.actions[id]
	if !ok {
		return models.Action{}, notFound("action")
	}
	return a, nil
}

func (r memoryActions) ListByAmendment(_ context.Context, amendmentID uuid.UUID) ([]models.Action, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return sorted(r.m.actions,
		func(a models.Action) time.Time { return a.CreatedAt },
		func(a models.Action) bool { return a.AmendmentID == amendmentID },
	), nil
}

func (r memoryActions) Create(_ context.Context, action *models.Action) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.amendments[action.AmendmentID]; !ok {
		return notFound("amendment")
	}

	prepare(&action.DefaultModel)
	r.m.actions[action.ID] = *action
	return nil
}

func (r memoryActions) Update(_ context.Context, action *models.Action) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	current, ok := r.m.actions[action.ID]
	if !ok {
		return notFound("action")
	}

	current.NomeAcao = action.NomeAcao
	current.Area = action.Area
	current.DescricaoOficial = action.DescricaoOficial
	current.Complexidade = action.Complexidade
	current.UpdatedAt = time.Now().UTC()

	r.m.actions[action.ID] = current
	*action = current
	return nil
}

func (r memoryActions) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	for _, d := range r.m.destinations {
		if d.ActionID == id {
			r.m.deleteDestination(d.ID)
		}
	}

	delete(r.m.actions, id)
	return nil
}

type memoryDestinations struct{ m *Memory }

func (r memoryDestinations) Get(_ context.Context, id uuid.UUID) (models.Destination, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	d, ok := r.m.destinations[id]
	if !ok {
		return models.Destination{}, notFound("destination")
	}
	return d, nil
}

func (r memoryDestinations) ListByAction(_ context.Context, actionID uuid.UUID) ([]models.Destination, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return sorted(r.m.destinations,
		func(d models.Destination) time.Time { return d.CreatedAt },
		func(d models.Destination) bool { return d.ActionID == actionID },
	), nil
}

func (r memoryDestinations) ListByAmendment(_ context.Context, amendmentID uuid.UUID) ([]models.Destination, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return sorted(r.m.destinations,
		func(d models.Destination) time.Time { return d.CreatedAt },
		func(d models.Destination) bool { return r.m.actions[d.ActionID].AmendmentID == amendmentID },
	), nil
}

func (r memoryDestinations) Create(_ context.Context, destination *models.Destination) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	err := r.m.checkDestination(*destination)
	if err != nil {
		return err
	}

	prepare(&destination.DefaultModel)
	r.m.destinations[destination.ID] = *destination
	return nil
}

func (r memoryDestinations) Update(_ context.Context, destination *models.Destination) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	current, ok := r.m.destinations[destination.ID]
	if !ok {
		return notFound("destination")
	}

	err := r.m.checkDestination(*destination)
	if err != nil {
		return err
	}

	destination.CreatedAt = current.CreatedAt
	prepare(&destination.DefaultModel)
	r.m.destinations[destination.ID] = *destination
	return nil
}

func (r memoryDestinations) Delete(_ context.Context, id uuid.UUID) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	r.m.deleteDestination(id)
	return nil
}

// checkDestination verifies the references of a destination. The caller must hold mu.
func (m *Memory) checkDestination(destination models.Destination) error {
	if _, ok := m.actions[destination.ActionID]; !ok {
		return notFound("action")
	}

	for _, d := range m.destinations {
		if d.ID != destination.ID && d.ActionID == destination.ActionID && d.TipoDestinacao == destination.TipoDestinacao {
			return models.ErrDestinationNotUnique
		}
	}

	return nil
}

// deleteDestination removes a destination and unlinks its expenses. The caller must hold mu.
func (m *Memory) deleteDestination(id uuid.UUID) {
	for k, e := range m.expenses {
		if e.DestinationID != nil && *e.DestinationID == id {
			e.DestinationID = nil
			m.expenses[k] = e
		}
	}

	delete(m.destinations, id)
}

type memoryExpenses struct{ m *Memory }

func (r memoryExpenses) List(_ context.Context) ([]models.Expense, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return sorted(r.m.expenses, func(e models.Expense) time.Time { return e.CreatedAt }, nil), nil
}

func (r memoryExpenses) ListByAmendment(_ context.Context, amendmentID uuid.UUID) ([]models.Expense, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return sorted(r.m.expenses,
		func(e models.Expense) time.Time { return e.CreatedAt },
		func(e models.Expense) bool { return e.AmendmentID == amendmentID },
	), nil
}

func (r memoryExpenses) Create(_ context.Context, expense *models.Expense) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.amendments[expense.AmendmentID]; !ok {
		return notFound("amendment")
	}

	if expense.DestinationID != nil {
		d, ok := r.m.destinations[*expense.DestinationID]
		if !ok {
			return notFound("destination")
		}

		if r.m.actions[d.ActionID].AmendmentID != expense.AmendmentID {
			return models.ErrDestinationOtherAmendment
		}
	}

	prepare(&expense.DefaultModel)
	r.m.expenses[expense.ID] = *expense
	return nil
}

type memoryTransfers struct{ m *Memory }

func (r memoryTransfers) List(_ context.Context) ([]models.Transfer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return sorted(r.m.transfers, func(t models.Transfer) time.Time { return t.CreatedAt }, nil), nil
}

func (r memoryTransfers) ListByAmendment(_ context.Context, amendmentID uuid.UUID) ([]models.Transfer, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	return sorted(r.m.transfers,
		func(t models.Transfer) time.Time { return t.CreatedAt },
		func(t models.Transfer) bool { return t.AmendmentID == amendmentID },
	), nil
}

func (r memoryTransfers) Create(_ context.Context, transfer *models.Transfer) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()

	if _, ok := r.m.amendments[transfer.AmendmentID]; !ok {
		return notFound("amendment")
	}

	prepare(&transfer.DefaultModel)
	r.m.transfers[transfer.ID] = *transfer
	return nil
}
