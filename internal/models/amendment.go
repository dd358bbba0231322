package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/allocation"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

// ResourceType classifies the funding instrument of an amendment.
type ResourceType string

const (
	IncrementoMAC  ResourceType = "INCREMENTO_MAC"
	IncrementoPAP  ResourceType = "INCREMENTO_PAP"
	Equipamento    ResourceType = "EQUIPAMENTO"
	Custeio        ResourceType = "CUSTEIO"
	Investimento   ResourceType = "INVESTIMENTO"
	OutrosRecursos ResourceType = "OUTROS"
)

var ResourceTypes = []ResourceType{IncrementoMAC, IncrementoPAP, Equipamento, Custeio, Investimento, OutrosRecursos}

// Amendment is a parliamentary budget amendment destined to the health secretariat.
type Amendment struct {
	DefaultModel
	Numero                  string `gorm:"uniqueIndex"`
	Ano                     int
	Parlamentar             string
	SegundoParlamentar      string
	ValorTotal              decimal.Decimal `gorm:"type:DECIMAL(20,2)"`
	ValorSegundoResponsavel decimal.Decimal `gorm:"type:DECIMAL(20,2)"` // Part of the total the second parliamentarian is responsible for
	TipoRecurso             ResourceType
	StatusOficial           string
	StatusInterno           string
	Objeto                  string
	Portaria                *string
	DeliberacaoCIE          *string
	AnexosEssenciais        bool // All essential attachments are present
	PossuiAnexos            bool
	Data                    time.Time
}

func (a *Amendment) BeforeSave(_ *gorm.DB) error {
	a.Numero = strings.TrimSpace(a.Numero)
	a.Parlamentar = strings.TrimSpace(a.Parlamentar)
	a.SegundoParlamentar = strings.TrimSpace(a.SegundoParlamentar)
	a.StatusOficial = strings.TrimSpace(a.StatusOficial)
	a.StatusInterno = strings.TrimSpace(a.StatusInterno)
	a.Objeto = strings.TrimSpace(a.Objeto)

	return nil
}

// AfterSave verifies the saved state of the amendment.
//
// It runs after updates have been applied to the receiver, so partial
// updates are validated together with the values that were not changed.
func (a *Amendment) AfterSave(tx *gorm.DB) error {
	if a.Numero == "" {
		return ErrAmendmentNumberRequired
	}

	if a.Parlamentar == "" {
		return ErrParlamentarRequired
	}

	if a.TipoRecurso != "" && !slices.Contains(ResourceTypes, a.TipoRecurso) {
		return fmt.Errorf("%w: %s", ErrResourceTypeInvalid, a.TipoRecurso)
	}

	if a.SegundoParlamentar == "" && !a.ValorSegundoResponsavel.IsZero() {
		return ErrCoAuthorValueWithoutAuthor
	}

	_, err := a.PrimeiroParlamentarShare()
	if err != nil {
		return err
	}

	lines, err := AllocationLines(tx, a.ID)
	if err != nil {
		return err
	}

	allocated := allocation.Sum(lines)
	if allocated.GreaterThan(a.ValorTotal) {
		return fmt.Errorf("%w: %s allocated", ErrTotalBelowAllocated, allocated.StringFixed(2))
	}

	return nil
}

// PrimeiroParlamentarShare is the part of the total the first parliamentarian
// is responsible for.
func (a Amendment) PrimeiroParlamentarShare() (decimal.Decimal, error) {
	return allocation.CoAuthorShare(a.ValorTotal, a.ValorSegundoResponsavel)
}

// AllocationLines returns the destination values of all actions of the amendment.
func AllocationLines(tx *gorm.DB, amendmentID uuid.UUID) ([]allocation.Line, error) {
	var destinations []Destination
	err := tx.
		Joins("JOIN actions ON actions.id = destinations.action_id").
		Where("actions.amendment_id = ?", amendmentID).
		Order("destinations.created_at ASC").
		Find(&destinations).Error
	if err != nil {
		return nil, err
	}

	lines := make([]allocation.Line, 0, len(destinations))
	for _, d := range destinations {
		lines = append(lines, d.Line())
	}

	return lines, nil
}

// DeleteAmendment deletes the amendment with its expenses, transfers,
// destinations and actions. The dependent records are deleted explicitly
// instead of through the foreign key cascade, so that every deleted record
// gets an audit entry.
func DeleteAmendment(tx *gorm.DB, amendment Amendment) error {
	var expenses []Expense
	err := tx.Where(&Expense{AmendmentID: amendment.ID}).Find(&expenses).Error
	if err != nil {
		return err
	}

	var transfers []Transfer
	err = tx.Where(&Transfer{AmendmentID: amendment.ID}).Find(&transfers).Error
	if err != nil {
		return err
	}

	var destinations []Destination
	err = tx.
		Joins("JOIN actions ON actions.id = destinations.action_id").
		Where("actions.amendment_id = ?", amendment.ID).
		Find(&destinations).Error
	if err != nil {
		return err
	}

	var actions []Action
	err = tx.Where(&Action{AmendmentID: amendment.ID}).Find(&actions).Error
	if err != nil {
		return err
	}

	// Expenses reference destinations, they go first
	err = deleteAll(tx, expenses)
	if err != nil {
		return err
	}

	err = deleteAll(tx, transfers)
	if err != nil {
		return err
	}

	err = deleteAll(tx, destinations)
	if err != nil {
		return err
	}

	err = deleteAll(tx, actions)
	if err != nil {
		return err
	}

	return tx.Delete(&amendment).Error
}

// deleteAll deletes the records by their primary keys.
func deleteAll[T any](tx *gorm.DB, records []T) error {
	if len(records) == 0 {
		return nil
	}

	return tx.Delete(&records).Error
}
