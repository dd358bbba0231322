package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/allocation"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Destination allocates part of an amendment's value to a spending category
// within an action.
type Destination struct {
	DefaultModel
	Action            Action              `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	ActionID          uuid.UUID           `gorm:"uniqueIndex:destination_action_category"`
	TipoDestinacao    allocation.Category `gorm:"uniqueIndex:destination_action_category"`
	ValorDestinado    decimal.Decimal     `gorm:"type:DECIMAL(20,2)"`
	GrupoDespesa      string
	Subtipo           string
	PortariaVinculada string
	ObservacaoTecnica string
}

type allocationCheckKey struct{}

// DeferAllocationCheck returns a context that disables the per-destination
// allocation check.
//
// Callers writing several destinations in one transaction use it to avoid
// failing on intermediate states and must call allocation.Validate
// themselves before committing.
func DeferAllocationCheck(ctx context.Context) context.Context {
	return context.WithValue(ctx, allocationCheckKey{}, true)
}

func allocationCheckDeferred(ctx context.Context) bool {
	if ctx == nil {
		return false
	}

	deferred, _ := ctx.Value(allocationCheckKey{}).(bool)
	return deferred
}

// Line returns the allocation line for the destination.
func (d Destination) Line() allocation.Line {
	return allocation.Line{
		ActionID:      d.ActionID,
		DestinationID: d.ID,
		Category:      d.TipoDestinacao,
		Value:         d.ValorDestinado,
	}
}

func (d *Destination) BeforeCreate(tx *gorm.DB) error {
	_ = d.DefaultModel.BeforeCreate(tx)

	return tx.First(&Action{}, d.ActionID).Error
}

// BeforeUpdate verifies that the action exists when a destination is moved.
func (d *Destination) BeforeUpdate(tx *gorm.DB) error {
	if !tx.Statement.Changed("ActionID") {
		return nil
	}

	toSave, ok := tx.Statement.Dest.(Destination)
	if !ok {
		return nil
	}

	return tx.First(&Action{}, toSave.ActionID).Error
}

func (d *Destination) BeforeSave(_ *gorm.DB) error {
	d.GrupoDespesa = strings.TrimSpace(d.GrupoDespesa)
	d.Subtipo = strings.TrimSpace(d.Subtipo)
	d.PortariaVinculada = strings.TrimSpace(d.PortariaVinculada)
	d.ObservacaoTecnica = strings.TrimSpace(d.ObservacaoTecnica)

	return nil
}

// AfterSave enforces that the destinations of an amendment never exceed
// its total value.
func (d *Destination) AfterSave(tx *gorm.DB) error {
	if !d.TipoDestinacao.Valid() {
		return fmt.Errorf("%w: %q", allocation.ErrUnknownCategory, d.TipoDestinacao)
	}

	if d.ValorDestinado.IsNegative() {
		return allocation.ErrNegativeValue
	}

	if allocationCheckDeferred(tx.Statement.Context) {
		return nil
	}

	var action Action
	err := tx.First(&action, d.ActionID).Error
	if err != nil {
		return err
	}

	var amendment Amendment
	err = tx.First(&amendment, action.AmendmentID).Error
	if err != nil {
		return err
	}

	lines, err := AllocationLines(tx, amendment.ID)
	if err != nil {
		return err
	}

	return allocation.Validate(amendment.ValorTotal, lines)
}
