package database

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE kodları.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// IsUniqueViolation, hatanın UNIQUE constraint ihlali olup olmadığını döner.
// SQLite hata mesajı ve pgx PgError kodu birlikte kontrol edilir.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// IsForeignKeyViolation, hatanın FOREIGN KEY constraint ihlali olup olmadığını döner.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// ConstraintName, ihlal edilen constraint/index adını döner (biliniyorsa).
// SQLite constraint adını vermez, kolon listesini verir: "UNIQUE constraint failed: assets.plate_number".
func ConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	msg := err.Error()
	if i := strings.Index(msg, "constraint failed: "); i >= 0 {
		return strings.TrimSpace(msg[i+len("constraint failed: "):])
	}
	return ""
}
