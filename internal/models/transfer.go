package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransferStatus is the state of a fund transfer.
type TransferStatus string

const (
	Repassado TransferStatus = "REPASSADO"
	Pendente  TransferStatus = "PENDENTE"
	Cancelado TransferStatus = "CANCELADO"
)

func (s TransferStatus) Valid() bool {
	return s == Repassado || s == Pendente || s == Cancelado
}

// Transfer is a movement of funds for an amendment.
type Transfer struct {
	DefaultModel
	Amendment   Amendment       `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AmendmentID uuid.UUID       `gorm:"index"`
	Valor       decimal.Decimal `gorm:"type:DECIMAL(20,2)"`
	Status      TransferStatus
	Data        time.Time
	Observacao  string
}

func (t *Transfer) BeforeCreate(tx *gorm.DB) error {
	_ = t.DefaultModel.BeforeCreate(tx)

	return tx.First(&Amendment{}, t.AmendmentID).Error
}

func (t *Transfer) BeforeSave(_ *gorm.DB) error {
	t.Observacao = strings.TrimSpace(t.Observacao)

	if t.Status == "" {
		t.Status = Pendente
	}

	return nil
}

func (t *Transfer) AfterSave(_ *gorm.DB) error {
	if !t.Valor.IsPositive() {
		return ErrValueNotPositive
	}

	if !t.Status.Valid() {
		return fmt.Errorf("%w, got %q", ErrTransferStatusInvalid, t.Status)
	}

	return nil
}
