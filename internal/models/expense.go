package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ExecutionStatus is the budget execution stage of an expense.
type ExecutionStatus string

const (
	Planejada ExecutionStatus = "PLANEJADA"
	Empenhada ExecutionStatus = "EMPENHADA"
	Liquidada ExecutionStatus = "LIQUIDADA"
	Paga      ExecutionStatus = "PAGA"
)

// Valid reports whether s is a known execution status.
func (s ExecutionStatus) Valid() bool {
	switch s {
	case Planejada, Empenhada, Liquidada, Paga:
		return true
	}

	return false
}

// Executed reports whether the expense has been settled or paid.
func (s ExecutionStatus) Executed() bool {
	return s == Liquidada || s == Paga
}

// Expense is spending against an amendment, optionally linked to one of its destinations.
type Expense struct {
	DefaultModel
	Amendment      Amendment    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AmendmentID    uuid.UUID    `gorm:"index"`
	Destination    *Destination `json:"-" gorm:"constraint:OnDelete:SET NULL"`
	DestinationID  *uuid.UUID
	Valor          decimal.Decimal `gorm:"type:DECIMAL(20,2)"`
	StatusExecucao ExecutionStatus
	Categoria      string
	Descricao      string
	Autorizada     bool
	Data           time.Time
}

func (e *Expense) BeforeCreate(tx *gorm.DB) error {
	_ = e.DefaultModel.BeforeCreate(tx)

	return tx.First(&Amendment{}, e.AmendmentID).Error
}

func (e *Expense) BeforeSave(_ *gorm.DB) error {
	e.Categoria = strings.TrimSpace(e.Categoria)
	e.Descricao = strings.TrimSpace(e.Descricao)

	if e.StatusExecucao == "" {
		e.StatusExecucao = Planejada
	}

	return nil
}

func (e *Expense) AfterSave(tx *gorm.DB) error {
	if !e.Valor.IsPositive() {
		return ErrValueNotPositive
	}

	if !e.StatusExecucao.Valid() {
		return fmt.Errorf("%w, got %q", ErrExecutionStatusInvalid, e.StatusExecucao)
	}

	if e.DestinationID == nil {
		return nil
	}

	var count int64
	err := tx.Model(&Destination{}).
		Joins("JOIN actions ON actions.id = destinations.action_id").
		Where("destinations.id = ? AND actions.amendment_id = ?", *e.DestinationID, e.AmendmentID).
		Count(&count).Error
	if err != nil {
		return err
	}

	if count == 0 {
		return ErrDestinationOtherAmendment
	}

	return nil
}
