// Package allocation implements the budget arithmetic for amendments.
//
// An amendment's total value is apportioned across the destinations of its
// actions. The sum of all destination values must never exceed the total.
// All functions in this package are pure: they only compute derived values
// from the data passed in and never modify it.
package allocation

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

var (
	ErrOverBudget           = errors.New("the allocated values exceed the amount available for the amendment")
	ErrOverAllocated        = errors.New("the sum of all destination values exceeds the total value of the amendment")
	ErrNegativeValue        = errors.New("monetary values must not be negative")
	ErrCoAuthorExceedsTotal = errors.New("the value of the second responsible parliamentarian must not exceed the total value")
	ErrUnknownCategory      = errors.New("unknown destination category")
)

// Category is the kind of spending a destination allocates money to.
type Category string

const (
	ServicosTerceiros    Category = "SERVICOS_TERCEIROS"
	MaterialConsumo      Category = "MATERIAL_CONSUMO"
	DistribuicaoGratuita Category = "DISTRIBUICAO_GRATUITA"
	MaterialPermanente   Category = "MATERIAL_PERMANENTE"
	Obras                Category = "OBRAS"
	Outros               Category = "OUTROS"
)

// Categories lists all known categories in the order they are shown to users.
var Categories = []Category{
	ServicosTerceiros,
	MaterialConsumo,
	DistribuicaoGratuita,
	MaterialPermanente,
	Obras,
	Outros,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return slices.Contains(Categories, c)
}

// ParseCategory returns the category for s or ErrUnknownCategory.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}

	return c, nil
}

// Line is one destination value of an amendment, identified by the
// action it belongs to and its own ID.
type Line struct {
	ActionID      uuid.UUID
	DestinationID uuid.UUID
	Category      Category
	Value         decimal.Decimal
}

// Balance is the result of a budget computation for an amendment.
type Balance struct {
	Total      decimal.Decimal `json:"total" example:"100000"`        // Total value of the amendment
	Used       decimal.Decimal `json:"used" example:"30000"`          // Value consumed by destinations outside of the edited scope
	Available  decimal.Decimal `json:"available" example:"70000"`     // Value that can still be allocated to the edited scope
	Planned    decimal.Decimal `json:"totalPlanned" example:"60000"`  // Sum of the proposed values
	Remaining  decimal.Decimal `json:"remaining" example:"10000"`     // Available minus planned
	OverBudget bool            `json:"isOverBudget" example:"false"` // Remaining is negative
}

// Err returns an error wrapping ErrOverBudget if the balance is over budget.
func (b Balance) Err() error {
	if !b.OverBudget {
		return nil
	}

	return fmt.Errorf("%w: available %s, planned %s", ErrOverBudget, b.Available.StringFixed(2), b.Planned.StringFixed(2))
}

// Compute is the single implementation of the budget invariant.
//
// All lines for which exclude returns false consume budget. The proposed
// values are the ones that are about to replace the excluded lines.
// A nil exclude function excludes nothing.
func Compute(total decimal.Decimal, lines []Line, exclude func(Line) bool, proposed ...decimal.Decimal) Balance {
	used := decimal.Zero
	for _, l := range lines {
		if exclude != nil && exclude(l) {
			continue
		}
		used = used.Add(l.Value)
	}

	planned := decimal.Sum(decimal.Zero, proposed...)
	available := total.Sub(used)
	remaining := available.Sub(planned)

	return Balance{
		Total:      total,
		Used:       used,
		Available:  available,
		Planned:    planned,
		Remaining:  remaining,
		OverBudget: remaining.IsNegative(),
	}
}

// ForAction computes the balance for an action form.
//
// actionID is the action being edited, nil when a new action is created.
// The editable categories are the keys of proposed plus any category
// passed in editable. Destinations of the edited action in other categories
// keep consuming budget, as do all destinations of other actions.
func ForAction(total decimal.Decimal, lines []Line, actionID *uuid.UUID, proposed map[Category]decimal.Decimal, editable ...Category) Balance {
	values := make([]decimal.Decimal, 0, len(proposed))
	for category, value := range proposed {
		values = append(values, value)
		if !slices.Contains(editable, category) {
			editable = append(editable, category)
		}
	}

	exclude := func(l Line) bool {
		return actionID != nil && l.ActionID == *actionID && slices.Contains(editable, l.Category)
	}

	return Compute(total, lines, exclude, values...)
}

// ForDestination computes the balance for a single destination being set
// to value. destinationID is uuid.Nil for a new destination.
func ForDestination(total decimal.Decimal, lines []Line, destinationID uuid.UUID, value decimal.Decimal) Balance {
	exclude := func(l Line) bool {
		return destinationID != uuid.Nil && l.DestinationID == destinationID
	}

	return Compute(total, lines, exclude, value)
}

// Validate verifies that the lines do not exceed the total.
func Validate(total decimal.Decimal, lines []Line) error {
	for _, l := range lines {
		if l.Value.IsNegative() {
			return fmt.Errorf("%w: destination %s has value %s", ErrNegativeValue, l.DestinationID, l.Value.StringFixed(2))
		}
	}

	b := Compute(total, lines, nil)
	if b.OverBudget {
		return fmt.Errorf("%w: allocated %s of %s", ErrOverAllocated, b.Used.StringFixed(2), total.StringFixed(2))
	}

	return nil
}

// Sum returns the sum of all line values.
func Sum(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.Value)
	}

	return sum
}

// CoAuthorShare returns the share of the first parliamentarian when the
// second one is responsible for second of the total.
func CoAuthorShare(total, second decimal.Decimal) (decimal.Decimal, error) {
	if total.IsNegative() || second.IsNegative() {
		return decimal.Zero, ErrNegativeValue
	}

	if second.GreaterThan(total) {
		return decimal.Zero, fmt.Errorf("%w: %s > %s", ErrCoAuthorExceedsTotal, second.StringFixed(2), total.StringFixed(2))
	}

	return total.Sub(second), nil
}
