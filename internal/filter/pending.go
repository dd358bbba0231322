package filter

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PendingKind identifies a missing document or an inconsistency of an amendment.
type PendingKind string

const (
	SemPortaria             PendingKind = "SEM_PORTARIA"
	SemDeliberacao          PendingKind = "SEM_DELIBERACAO"
	SemAnexosEssenciais     PendingKind = "SEM_ANEXOS_ESSENCIAIS"
	SemRepasses             PendingKind = "SEM_REPASSES"
	DespesasExcedemRepasses PendingKind = "DESPESAS_EXCEDEM_REPASSES"
	DespesasNaoAutorizadas  PendingKind = "DESPESAS_NAO_AUTORIZADAS"
)

// PendingKinds lists all kinds in the order they are reported.
var PendingKinds = []PendingKind{
	SemPortaria,
	SemDeliberacao,
	SemAnexosEssenciais,
	SemRepasses,
	DespesasExcedemRepasses,
	DespesasNaoAutorizadas,
}

type PendingItem struct {
	Kind        PendingKind `json:"kind" example:"SEM_PORTARIA"`
	Description string      `json:"description" example:"Portaria não informada"`
}

var pendingChecks = []struct {
	kind        PendingKind
	description string
	applies     func(Record) bool
}{
	{SemPortaria, "Portaria não informada", func(r Record) bool {
		return !present(r.Amendment.Portaria)
	}},
	{SemDeliberacao, "Deliberação CIE não informada", func(r Record) bool {
		return !present(r.Amendment.DeliberacaoCIE)
	}},
	{SemAnexosEssenciais, "Anexos essenciais pendentes", func(r Record) bool {
		return !r.Amendment.AnexosEssenciais
	}},
	{SemRepasses, "Nenhum repasse recebido", func(r Record) bool {
		return !r.Received().IsPositive()
	}},
	{DespesasExcedemRepasses, "Despesas excedem os repasses recebidos", func(r Record) bool {
		return r.Spent().GreaterThan(r.Received())
	}},
	{DespesasNaoAutorizadas, "Existem despesas não autorizadas", func(r Record) bool {
		for _, e := range r.Expenses {
			if !e.Autorizada {
				return true
			}
		}
		return false
	}},
}

// Pending derives the pending items of a record. Each check is independent
// of the others.
func Pending(r Record) []PendingItem {
	items := []PendingItem{}
	for _, check := range pendingChecks {
		if check.applies(r) {
			items = append(items, PendingItem{Kind: check.kind, Description: check.description})
		}
	}

	return items
}

// Bucket lists the amendments that have a pending item of one kind.
type Bucket struct {
	Kind         PendingKind `json:"kind" example:"SEM_REPASSES"`
	AmendmentIDs []uuid.UUID `json:"amendmentIds"`
}

// PendingBuckets groups the amendment IDs of the records by pending kind.
// All kinds are returned, in the order of PendingKinds.
func PendingBuckets(records []Record) []Bucket {
	ids := make(map[PendingKind][]uuid.UUID)
	for _, r := range records {
		for _, item := range Pending(r) {
			ids[item.Kind] = append(ids[item.Kind], r.Amendment.ID)
		}
	}

	buckets := make([]Bucket, 0, len(PendingKinds))
	for _, kind := range PendingKinds {
		b := Bucket{Kind: kind, AmendmentIDs: ids[kind]}
		if b.AmendmentIDs == nil {
			b.AmendmentIDs = []uuid.UUID{}
		}
		buckets = append(buckets, b)
	}

	return buckets
}

// DashboardTotals are the figures shown in the dashboard header.
type DashboardTotals struct {
	Count    int             `json:"count" example:"12"`
	Total    decimal.Decimal `json:"total" example:"1200000"`
	Received decimal.Decimal `json:"received" example:"450000"`
	Executed decimal.Decimal `json:"executed" example:"300000"`
}

// Totals sums up the records.
func Totals(records []Record) DashboardTotals {
	t := DashboardTotals{
		Total:    decimal.Zero,
		Received: decimal.Zero,
		Executed: decimal.Zero,
	}

	for _, r := range records {
		t.Count++
		t.Total = t.Total.Add(r.Amendment.ValorTotal)
		t.Received = t.Received.Add(r.Received())
		t.Executed = t.Executed.Add(r.Executed())
	}

	return t
}
