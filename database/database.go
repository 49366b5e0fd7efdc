// Package database, veritabanı bağlantısını ve migration sistemini yönetir.
//
// Bağlantı sqlx üzerinden açılır. İki driver desteklenir:
//   - "sqlite": modernc.org/sqlite (pure-Go, CGO gerekmez), varsayılan
//   - "pgx":    jackc/pgx/v5 stdlib adaptörü, PostgreSQL
//
// Sorgular "?" placeholder ile yazılır; sqlx.Rebind driver'a göre
// ($1, $2 ...) formatına çevirir. Driver'lar blank import ile kayıt olur.
package database

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib" // "pgx" driver adıyla kayıt olur
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // "sqlite" driver adıyla kayıt olur
)

// Desteklenen driver adları.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// recoverableErrors, migration sırasında tolere edilebilen hata pattern'larıdır.
// Yarım kalan bir migration tekrar çalıştırıldığında ALTER TABLE ADD COLUMN
// "duplicate column name" (sqlite) veya "already exists" (postgres) verir.
var recoverableErrors = []string{
	"duplicate column name",
	"already exists",
}

// DB, veritabanı bağlantısını saran struct.
// *sqlx.DB, *sql.DB'nin connection pool'unu kullanır; thread-safe'dir.
type DB struct {
	Conn   *sqlx.DB
	Driver string
	logger *zap.Logger
}

// Options, New için bağlantı parametreleri.
type Options struct {
	Driver       string // DriverSQLite veya DriverPostgres
	DSN          string // sqlite: dosya yolu veya ":memory:", pgx: postgres:// URL
	MaxOpenConns int
}

// New, yeni bir bağlantı açar ve migration'ları çalıştırır.
func New(opts Options, migrationsFS fs.FS, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("database")

	dsn := opts.DSN
	maxOpen := opts.MaxOpenConns

	switch opts.Driver {
	case DriverSQLite:
		if isMemoryDSN(dsn) {
			// Her bağlantı ayrı bir in-memory DB açar; tek bağlantıya sabitle.
			maxOpen = 1
		} else {
			if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		// foreign_keys: SQLite'ta varsayılan kapalı!
		// journal_mode(WAL): eşzamanlı okuma/yazma performansı
		// busy_timeout: WAL altında kısa kilit beklemelerinde SQLITE_BUSY yerine bekle
		dsn += "?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", opts.Driver)
	}

	conn, err := sqlx.Open(opts.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if maxOpen > 0 {
		conn.SetMaxOpenConns(maxOpen)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{Conn: conn, Driver: opts.Driver, logger: logger}

	if migrationsFS != nil {
		if err := db.runMigrations(migrationsFS); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	logger.Info("connected and migrations applied", zap.String("driver", opts.Driver))
	return db, nil
}

// Close, veritabanı bağlantısını kapatır.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// Ping, readiness kontrolü için bağlantıyı test eder.
func (db *DB) Ping(ctx context.Context) error {
	return db.Conn.PingContext(ctx)
}

// runMigrations, migrations/ dizinindeki SQL dosyalarını sırayla çalıştırır.
// Dosya isimleri sıralıdır: 001_init.sql, 002_seed.sql, ...
//
// schema_migrations tablosu hangi migration'ların zaten uygulandığını
// takip eder; sonraki başlatmalarda sadece yeni dosyalar çalışır.
func (db *DB) runMigrations(migrationsFS fs.FS) error {
	if _, err := db.Conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			filename TEXT PRIMARY KEY,
			applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)
	`); err != nil {
		return fmt.Errorf("failed to create schema_migrations table: %w", err)
	}

	entries, err := fs.ReadDir(migrationsFS, ".")
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var sqlFiles []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			sqlFiles = append(sqlFiles, entry.Name())
		}
	}
	sort.Strings(sqlFiles)

	var appliedList []string
	if err := db.Conn.Select(&appliedList, "SELECT filename FROM schema_migrations"); err != nil {
		return fmt.Errorf("failed to query schema_migrations: %w", err)
	}
	applied := make(map[string]bool, len(appliedList))
	for _, name := range appliedList {
		applied[name] = true
	}

	for _, file := range sqlFiles {
		if applied[file] {
			continue
		}

		content, err := fs.ReadFile(migrationsFS, file)
		if err != nil {
			return fmt.Errorf("failed to read migration %s: %w", file, err)
		}

		if err := db.execStatements(file, string(content)); err != nil {
			return err
		}

		if _, err := db.Conn.Exec(
			db.Conn.Rebind("INSERT INTO schema_migrations (filename) VALUES (?)"), file,
		); err != nil {
			return fmt.Errorf("failed to record migration %s: %w", file, err)
		}

		db.logger.Info("migration applied", zap.String("file", file))
	}

	return nil
}

// execStatements, bir migration dosyasındaki SQL'i statement-by-statement çalıştırır.
// recoverableErrors ile eşleşen hatalar loglanıp atlanır.
func (db *DB) execStatements(filename, content string) error {
	statements := splitStatements(content)

	for i, stmt := range statements {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}

		if _, err := db.Conn.Exec(stmt); err != nil {
			errMsg := err.Error()
			recoverable := false
			for _, pattern := range recoverableErrors {
				if strings.Contains(errMsg, pattern) {
					recoverable = true
					break
				}
			}

			if recoverable {
				db.logger.Warn("migration statement skipped",
					zap.String("file", filename), zap.Int("statement", i+1), zap.String("reason", errMsg))
				continue
			}

			return fmt.Errorf("failed to execute migration %s (statement %d): %w", filename, i+1, err)
		}
	}

	return nil
}

// splitStatements, SQL metnini statement'lara böler.
// String literal içindeki noktalı virgülleri ve "--" satır yorumlarını yoksayar.
func splitStatements(sql string) []string {
	var statements []string
	var current strings.Builder
	inString := false

	for i := 0; i < len(sql); i++ {
		ch := sql[i]

		// Satır yorumu: satır sonuna kadar atla
		if !inString && ch == '-' && i+1 < len(sql) && sql[i+1] == '-' {
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			current.WriteByte('\n')
			continue
		}

		if ch == '\'' {
			// '' escape'i: iki tırnağı yaz, string modunu değiştirme
			if inString && i+1 < len(sql) && sql[i+1] == '\'' {
				current.WriteByte(ch)
				current.WriteByte(sql[i+1])
				i++
				continue
			}
			inString = !inString
		}

		if ch == ';' && !inString {
			if s := strings.TrimSpace(current.String()); s != "" {
				statements = append(statements, s)
			}
			current.Reset()
			continue
		}

		current.WriteByte(ch)
	}

	if s := strings.TrimSpace(current.String()); s != "" {
		statements = append(statements, s)
	}

	return statements
}

func isMemoryDSN(dsn string) bool {
	return dsn == ":memory:" || strings.Contains(dsn, "mode=memory")
}
