// Package dbtest, testler için migration'ları uygulanmış in-memory SQLite DB açar.
package dbtest

import (
	"io/fs"
	"testing"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"go.uber.org/zap"
)

// New, her test için izole bir in-memory veritabanı döner.
// Test bitince bağlantı otomatik kapanır.
func New(t testing.TB) *database.DB {
	t.Helper()

	migrations, err := fs.Sub(database.EmbeddedMigrations, "migrations")
	if err != nil {
		t.Fatalf("migrations fs: %v", err)
	}

	db, err := database.New(database.Options{Driver: database.DriverSQLite, DSN: ":memory:"}, migrations, zap.NewNop())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}
