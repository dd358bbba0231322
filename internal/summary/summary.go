// Package summary aggregates amendments, transfers and expenses into the
// financial figures shown on the reports page.
package summary

import (
	"sort"

	"github.com/google/uuid"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/saude-emendas/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// Group is a reporting category made up of one or more resource types.
type Group struct {
	Name  string
	Types []models.ResourceType

	// CountsExecutedExpenses adds settled and paid expenses to the paid
	// amount of the group. Equipment is bought directly by the secretariat,
	// so the money does not always arrive as a transfer.
	CountsExecutedExpenses bool
}

// DefaultGroups are the groups shown in the financial summary.
var DefaultGroups = []Group{
	{Name: "MAC Incremental", Types: []models.ResourceType{models.IncrementoMAC}},
	{Name: "PAP Incremental", Types: []models.ResourceType{models.IncrementoPAP}},
	{Name: "Equipamentos", Types: []models.ResourceType{models.Equipamento}, CountsExecutedExpenses: true},
	{Name: "Outros", Types: []models.ResourceType{models.Custeio, models.Investimento, models.OutrosRecursos}},
}

// Totals are the aggregated values of a group.
type Totals struct {
	Group   string          `json:"group" example:"MAC Incremental"` // Name of the group
	Count   int             `json:"count" example:"4"`               // Number of amendments in the group
	Total   decimal.Decimal `json:"total" example:"20000"`           // Sum of the total values of the amendments
	Paid    decimal.Decimal `json:"paid" example:"8000"`             // Amount already received
	Pending decimal.Decimal `json:"pending" example:"12000"`         // Total minus paid
}

// Summarize computes the totals for each group, in the order of groups.
//
// Amendments with a resource type that is not part of any group are
// ignored, as are transfers and expenses of those amendments.
func Summarize(groups []Group, amendments []models.Amendment, transfers []models.Transfer, expenses []models.Expense) []Totals {
	result := make([]Totals, 0, len(groups))

	for _, group := range groups {
		members := make(map[uuid.UUID]bool)
		totals := Totals{
			Group: group.Name,
			Total: decimal.Zero,
			Paid:  decimal.Zero,
		}

		for _, a := range amendments {
			if !slices.Contains(group.Types, a.TipoRecurso) {
				continue
			}

			members[a.ID] = true
			totals.Count++
			totals.Total = totals.Total.Add(a.ValorTotal)
		}

		for _, t := range transfers {
			if members[t.AmendmentID] && t.Status == models.Repassado {
				totals.Paid = totals.Paid.Add(t.Valor)
			}
		}

		if group.CountsExecutedExpenses {
			for _, e := range expenses {
				if members[e.AmendmentID] && e.StatusExecucao.Executed() {
					totals.Paid = totals.Paid.Add(e.Valor)
				}
			}
		}

		totals.Pending = totals.Total.Sub(totals.Paid)
		result = append(result, totals)
	}

	return result
}

// Overall folds the totals of all groups into one.
func Overall(totals []Totals) Totals {
	overall := Totals{
		Group:   "Total",
		Total:   decimal.Zero,
		Paid:    decimal.Zero,
		Pending: decimal.Zero,
	}

	for _, t := range totals {
		overall.Count += t.Count
		overall.Total = overall.Total.Add(t.Total)
		overall.Paid = overall.Paid.Add(t.Paid)
		overall.Pending = overall.Pending.Add(t.Pending)
	}

	return overall
}

// MonthTotals is the money that moved in a month.
type MonthTotals struct {
	Month       types.Month     `json:"month" example:"2024-03"`     // The month
	Transferred decimal.Decimal `json:"transferred" example:"5000"` // Sum of transfers with status REPASSADO
	Executed    decimal.Decimal `json:"executed" example:"3000"`    // Sum of settled and paid expenses
}

// ByMonth buckets completed transfers and executed expenses by the month
// of their date. Months without any movement are omitted. The result is
// sorted by month, oldest first.
func ByMonth(transfers []models.Transfer, expenses []models.Expense) []MonthTotals {
	buckets := make(map[types.Month]*MonthTotals)

	bucket := func(m types.Month) *MonthTotals {
		b, ok := buckets[m]
		if !ok {
			b = &MonthTotals{Month: m, Transferred: decimal.Zero, Executed: decimal.Zero}
			buckets[m] = b
		}
		return b
	}

	for _, t := range transfers {
		if t.Status != models.Repassado || t.Data.IsZero() {
			continue
		}

		b := bucket(types.MonthOf(t.Data))
		b.Transferred = b.Transferred.Add(t.Valor)
	}

	for _, e := range expenses {
		if !e.StatusExecucao.Executed() || e.Data.IsZero() {
			continue
		}

		b := bucket(types.MonthOf(e.Data))
		b.Executed = b.Executed.Add(e.Valor)
	}

	result := make([]MonthTotals, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Month.Before(result[j].Month)
	})

	return result
}
