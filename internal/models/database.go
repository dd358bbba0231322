package models

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DB is the database connection opened by Connect.
var DB *gorm.DB

type EmendasContext string

const (
	DBContextURL     EmendasContext = "emendas-backend-url"
	ContextRequestID EmendasContext = "emendas-request-id"
)

// Connect opens the SQLite database at dsn, migrates the schema and
// configures the connection pool.
func Connect(dsn string) error {
	config := &gorm.Config{
		Logger: &logger{
			Logger: log.Logger,
		},
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
	}

	dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)
	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// A single connection prevents SQLITE_BUSY errors and serializes all
	// transactions. The allocation checks rely on this, two transactions
	// can never validate against the same snapshot.
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	err = registerCallbacks(db)
	if err != nil {
		return err
	}

	// Set the exported variable
	DB = db

	return nil
}

func registerCallbacks(db *gorm.DB) error {
	// Query callbacks
	err := db.Callback().Query().After("*").Register("emendas:after_query", queryCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Query().After("*").Register("emendas:after_query_general", generalCallback)
	if err != nil {
		return err
	}

	// Create callbacks
	err = db.Callback().Create().Before("gorm:commit_or_rollback_transaction").After("gorm:after_create").Register("emendas:audit_create", auditCallback(AuditCreate))
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("emendas:after_create", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("emendas:after_create_general", generalCallback)
	if err != nil {
		return err
	}

	// Update callbacks
	err = db.Callback().Update().Before("gorm:commit_or_rollback_transaction").After("gorm:after_update").Register("emendas:audit_update", auditCallback(AuditUpdate))
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("emendas:after_update", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("emendas:after_update_general", generalCallback)
	if err != nil {
		return err
	}

	// Delete callbacks
	err = db.Callback().Delete().Before("gorm:commit_or_rollback_transaction").After("gorm:after_delete").Register("emendas:audit_delete", auditCallback(AuditDelete))
	if err != nil {
		return err
	}

	return db.Callback().Delete().After("*").Register("emendas:after_delete_general", generalCallback)
}

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		// and replace "_" with "[space]"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")

		// Replace pluralized "ies" with "y"
		match := regexp.MustCompile("ies$")
		name = match.ReplaceAllString(name, "y")

		// Remove plural "s"
		name = strings.TrimSuffix(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: amendments.numero") {
		db.Error = ErrAmendmentNumberNotUnique
	}

	if strings.Contains(db.Error.Error(), "UNIQUE constraint failed: destinations.action_id, destinations.tipo_destinacao") {
		db.Error = ErrDestinationNotUnique
	}
}

// generalCallback handles unspecified errors.
func generalCallback(db *gorm.DB) {
	db.Error = GeneralError(db.Statement.Context, db.Error)
}

// GeneralError replaces errors where we cannot provide the user with a
// helpful message.
//
// The error is logged and a general message is returned to users instead.
// All other errors are returned unchanged.
func GeneralError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}

	// "sql: database is closed" is hard-coded in the sql module, see
	// https://cs.opensource.google/go/go/+/master:src/database/sql/sql.go;l=1298;drc=0d018b49e33b1383dc0ae5cc968e800dffeeaf7d
	if err.Error() == "sql: database is closed" || reflect.TypeOf(err) == reflect.TypeOf(&go_sqlite.Error{}) {
		// We log the error and provide a general error message so that server admins can debug
		log.Error().Str("request-id", requestID(ctx)).Msgf("%T: %v", err, err.Error())
		return ErrGeneral
	}

	return err
}

// requestID returns the request ID stored in the context, if any.
func requestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}

	id, _ := ctx.Value(ContextRequestID).(string)
	return id
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) (err error) {
	err = db.AutoMigrate(Amendment{}, Action{}, Destination{}, Expense{}, Transfer{}, AuditEntry{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
