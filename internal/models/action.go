package models

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Complexity string

const (
	ComplexidadeBaixa Complexity = "BAIXA"
	ComplexidadeMedia Complexity = "MEDIA"
	ComplexidadeAlta  Complexity = "ALTA"
)

// Action is a named sub-program of an amendment that groups planned spending.
type Action struct {
	DefaultModel
	Amendment        Amendment `json:"-" gorm:"constraint:OnDelete:CASCADE"`
	AmendmentID      uuid.UUID `gorm:"index"`
	NomeAcao         string
	Area             string
	DescricaoOficial string
	Complexidade     Complexity
}

func (a *Action) BeforeCreate(tx *gorm.DB) error {
	_ = a.DefaultModel.BeforeCreate(tx)

	return tx.First(&Amendment{}, a.AmendmentID).Error
}

func (a *Action) BeforeSave(_ *gorm.DB) error {
	a.NomeAcao = strings.TrimSpace(a.NomeAcao)
	a.Area = strings.TrimSpace(a.Area)
	a.DescricaoOficial = strings.TrimSpace(a.DescricaoOficial)

	return nil
}

func (a *Action) AfterSave(_ *gorm.DB) error {
	if a.NomeAcao == "" {
		return ErrActionNameRequired
	}

	switch a.Complexidade {
	case "", ComplexidadeBaixa, ComplexidadeMedia, ComplexidadeAlta:
		return nil
	default:
		return fmt.Errorf("%w, got %q", ErrComplexityInvalid, a.Complexidade)
	}
}
