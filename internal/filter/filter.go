// Package filter filters, sorts and paginates amendments for the dashboard
// and derives their pending items.
//
// All functions work on in-memory data only. They never modify their input
// and return the same output for the same input.
package filter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ryanuber/go-glob"
	"github.com/saude-emendas/backend/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

var ErrUnknownSortKey = errors.New("unknown sort key")

// DefaultPageSize is the page size used when none is set.
const DefaultPageSize = 10

// Record is an amendment together with its transfers and expenses.
type Record struct {
	Amendment models.Amendment
	Expenses  []models.Expense
	Transfers []models.Transfer
}

// Received is the sum of all completed transfers.
func (r Record) Received() decimal.Decimal {
	sum := decimal.Zero
	for _, t := range r.Transfers {
		if t.Status == models.Repassado {
			sum = sum.Add(t.Valor)
		}
	}

	return sum
}

// Spent is the sum of all expenses, regardless of their execution status.
func (r Record) Spent() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range r.Expenses {
		sum = sum.Add(e.Valor)
	}

	return sum
}

// Executed is the sum of settled and paid expenses.
func (r Record) Executed() decimal.Decimal {
	sum := decimal.Zero
	for _, e := range r.Expenses {
		if e.StatusExecucao.Executed() {
			sum = sum.Add(e.Valor)
		}
	}

	return sum
}

type SortKey string

const (
	SortParlamentar   SortKey = "parlamentar"
	SortValorTotal    SortKey = "valorTotal"
	SortData          SortKey = "data"
	SortNumero        SortKey = "numero"
	SortStatusOficial SortKey = "statusOficial"
)

var SortKeys = []SortKey{SortParlamentar, SortValorTotal, SortData, SortNumero, SortStatusOficial}

// ParseSortKey returns the sort key for s. The empty string is a valid
// key and keeps the input order.
func ParseSortKey(s string) (SortKey, error) {
	if s == "" {
		return "", nil
	}

	k := SortKey(s)
	if !slices.Contains(SortKeys, k) {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, s)
	}

	return k, nil
}

// Criteria are the filters, sort order and page selected on the dashboard.
//
// Zero values do not filter. Pointer flags are tri-state: nil does not
// filter, true and false select records with and without the property.
type Criteria struct {
	Parlamentar   string // Case-insensitive substring or glob pattern, matches both parliamentarians
	TipoRecurso   models.ResourceType
	StatusOficial string
	StatusInterno string
	ValorMin      decimal.NullDecimal
	ValorMax      decimal.NullDecimal
	DataInicio    time.Time
	DataFim       time.Time // Inclusive, the time of day is ignored

	PossuiAnexos      *bool
	PossuiPortaria    *bool
	PossuiDeliberacao *bool
	PossuiRepasses    *bool
	PossuiPendencias  *bool

	SortBy   SortKey
	SortDesc bool

	Page     int // 1-based, defaults to 1
	PageSize int // Defaults to DefaultPageSize
}

// Page is one page of filtered records.
type Page struct {
	Records  []Record
	Total    int // Number of records matching the criteria
	Page     int
	PageSize int
	Pages    int
}

// Apply filters, sorts and paginates the records.
func Apply(records []Record, c Criteria) Page {
	return Paginate(Sort(Filter(records, c), c.SortBy, c.SortDesc), c.Page, c.PageSize)
}

// Filter returns the records that match all criteria, in input order.
func Filter(records []Record, c Criteria) []Record {
	result := make([]Record, 0, len(records))
	for _, r := range records {
		if c.Match(r) {
			result = append(result, r)
		}
	}

	return result
}

// Match reports whether the record matches all criteria.
func (c Criteria) Match(r Record) bool {
	a := r.Amendment

	if c.Parlamentar != "" && !matchParlamentar(c.Parlamentar, a) {
		return false
	}

	if c.TipoRecurso != "" && a.TipoRecurso != c.TipoRecurso {
		return false
	}

	if c.StatusOficial != "" && !strings.EqualFold(a.StatusOficial, c.StatusOficial) {
		return false
	}

	if c.StatusInterno != "" && !strings.EqualFold(a.StatusInterno, c.StatusInterno) {
		return false
	}

	if c.ValorMin.Valid && a.ValorTotal.LessThan(c.ValorMin.Decimal) {
		return false
	}

	if c.ValorMax.Valid && a.ValorTotal.GreaterThan(c.ValorMax.Decimal) {
		return false
	}

	if !c.DataInicio.IsZero() && a.Data.Before(c.DataInicio) {
		return false
	}

	// DataFim includes the whole day
	if !c.DataFim.IsZero() && !a.Data.Before(c.DataFim.AddDate(0, 0, 1)) {
		return false
	}

	flags := []struct {
		want *bool
		has  func() bool
	}{
		{c.PossuiAnexos, func() bool { return a.PossuiAnexos }},
		{c.PossuiPortaria, func() bool { return present(a.Portaria) }},
		{c.PossuiDeliberacao, func() bool { return present(a.DeliberacaoCIE) }},
		{c.PossuiRepasses, func() bool { return r.Received().IsPositive() }},
		{c.PossuiPendencias, func() bool { return len(Pending(r)) > 0 }},
	}

	for _, f := range flags {
		if f.want != nil && *f.want != f.has() {
			return false
		}
	}

	return true
}

func matchParlamentar(pattern string, a models.Amendment) bool {
	pattern = strings.ToLower(strings.TrimSpace(pattern))

	for _, name := range []string{a.Parlamentar, a.SegundoParlamentar} {
		name = strings.ToLower(name)
		if name == "" {
			continue
		}

		if strings.Contains(pattern, "*") {
			if glob.Glob(pattern, name) {
				return true
			}
			continue
		}

		if strings.Contains(name, pattern) {
			return true
		}
	}

	return false
}

func present(s *string) bool {
	return s != nil && strings.TrimSpace(*s) != ""
}

// Sort returns a copy of records sorted by key. Records with equal keys
// keep their relative order. An empty key returns the records unchanged.
func Sort(records []Record, key SortKey, desc bool) []Record {
	sorted := slices.Clone(records)
	if key == "" {
		return sorted
	}

	cmp := compareFunc(key)
	slices.SortStableFunc(sorted, func(a, b Record) int {
		if desc {
			return cmp(b.Amendment, a.Amendment)
		}
		return cmp(a.Amendment, b.Amendment)
	})

	return sorted
}

func compareFunc(key SortKey) func(a, b models.Amendment) int {
	switch key {
	case SortParlamentar:
		return func(a, b models.Amendment) int {
			return strings.Compare(strings.ToLower(a.Parlamentar), strings.ToLower(b.Parlamentar))
		}
	case SortValorTotal:
		return func(a, b models.Amendment) int {
			return a.ValorTotal.Cmp(b.ValorTotal)
		}
	case SortData:
		return func(a, b models.Amendment) int {
			return a.Data.Compare(b.Data)
		}
	case SortNumero:
		return func(a, b models.Amendment) int {
			return strings.Compare(a.Numero, b.Numero)
		}
	case SortStatusOficial:
		return func(a, b models.Amendment) int {
			return strings.Compare(strings.ToLower(a.StatusOficial), strings.ToLower(b.StatusOficial))
		}
	}

	return func(models.Amendment, models.Amendment) int { return 0 }
}

// Paginate returns the records of the requested page. Pages beyond the
// last one are empty.
func Paginate(records []Record, page, pageSize int) Page {
	if page < 1 {
		page = 1
	}

	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(records)
	p := Page{
		Records:  []Record{},
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    (total + pageSize - 1) / pageSize,
	}

	start := (page - 1) * pageSize
	if start >= total {
		return p
	}

	end := start + pageSize
	if end > total {
		end = total
	}

	p.Records = slices.Clone(records[start:end])
	return p
}
