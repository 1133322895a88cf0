package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes for objects that migrations may not have created yet.
const (
	pgUndefinedTable  = "42P01"
	pgUndefinedColumn = "42703"
)

// IsSchemaDrift reports whether err is a missing-table or missing-column
// error. Callers treat these as success-with-warning so the feed keeps
// working against older schemas.
func IsSchemaDrift(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUndefinedTable || pgErr.Code == pgUndefinedColumn
	}
	// Fallback for stores that do not surface *pgconn.PgError.
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "does not exist") &&
		(strings.Contains(msg, "relation") || strings.Contains(msg, "column") || strings.Contains(msg, "table"))
}
