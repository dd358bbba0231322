package models

import (
	"reflect"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
	"gorm.io/gorm"
)

type AuditOperation string

const (
	AuditCreate AuditOperation = "create"
	AuditUpdate AuditOperation = "update"
	AuditDelete AuditOperation = "delete"
)

// AuditEntry records one change to a domain resource.
type AuditEntry struct {
	DefaultModel
	Resource  string    `gorm:"index:audit_record"` // Table name of the changed resource
	RecordID  uuid.UUID `gorm:"index:audit_record"`
	Operation AuditOperation
	RequestID string
}

// auditedTables are the tables for which changes are recorded.
var auditedTables = []string{"amendments", "actions", "destinations", "expenses", "transfers"}

// auditCallback returns a gorm callback that records an AuditEntry for
// every record affected by a successful statement on an audited table.
//
// It runs inside the statement's transaction so that entries are rolled
// back together with the change they describe.
func auditCallback(operation AuditOperation) func(*gorm.DB) {
	return func(db *gorm.DB) {
		if db.Error != nil || db.Statement.Schema == nil || db.RowsAffected == 0 {
			return
		}

		if !slices.Contains(auditedTables, db.Statement.Table) {
			return
		}

		field := db.Statement.Schema.PrioritizedPrimaryField
		if field == nil {
			return
		}

		var ids []uuid.UUID
		collect := func(v reflect.Value) {
			value, zero := field.ValueOf(db.Statement.Context, v)
			if zero {
				return
			}

			if id, ok := value.(uuid.UUID); ok {
				ids = append(ids, id)
			}
		}

		rv := reflect.Indirect(db.Statement.ReflectValue)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			for i := 0; i < rv.Len(); i++ {
				collect(reflect.Indirect(rv.Index(i)))
			}
		case reflect.Struct:
			collect(rv)
		}

		if len(ids) == 0 {
			return
		}

		entries := make([]AuditEntry, 0, len(ids))
		for _, id := range ids {
			entries = append(entries, AuditEntry{
				// Hooks are skipped for the insert, the ID is set here
				DefaultModel: DefaultModel{ID: uuid.New()},
				Resource:     db.Statement.Table,
				RecordID:     id,
				Operation:    operation,
				RequestID:    requestID(db.Statement.Context),
			})
		}

		err := db.Session(&gorm.Session{NewDB: true, SkipHooks: true}).Create(&entries).Error
		if err != nil {
			log.Error().Str("request-id", requestID(db.Statement.Context)).Err(err).Msg("audit entry could not be written")
			_ = db.AddError(err)
		}
	}
}
