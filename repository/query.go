// Package repository, veritabanı erişim katmanını tanımlar.
//
// Service katmanı doğrudan SQL yazmaz; repository interface'leri üzerinden çalışır.
// Her interface'in sqlite_*.go dosyasında bir implementasyonu vardır. Sorgular
// "?" placeholder ile yazılır ve sqlx Rebind ile driver formatına çevrilir,
// böylece aynı SQL hem SQLite hem PostgreSQL (pgx) üzerinde çalışır.
//
// Her repository WithTx(q) ile transaction'a bağlanmış bir kopyasını döner;
// service'ler mutasyon ve audit satırını aynı transaction'da yazar.
package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/jmoiron/sqlx"
)

// listQuery, liste sorgularının WHERE kısmını parça parça kurar.
//
//	q := newListQuery("assets", p)
//	q.eq("model_id", p.Filters["model_id"])
//	q.search(p.Search, "plate_number", "chassis_no")
//	items, total, err := selectPage[models.Asset](ctx, db, assetColumns, q, p)
type listQuery struct {
	table string
	where []string
	args  []any
}

// newListQuery, IncludeInactive false ise sadece aktif satırları seçer.
func newListQuery(table string, p models.ListParams) *listQuery {
	q := &listQuery{table: table}
	if !p.IncludeInactive {
		q.where = append(q.where, "is_active = ?")
		q.args = append(q.args, true)
	}
	return q
}

// cond, serbest bir koşul ekler. Koşuldaki "?" sayısı args ile eşleşmeli.
func (q *listQuery) cond(expr string, args ...any) {
	q.where = append(q.where, expr)
	q.args = append(q.args, args...)
}

// eq, değer boş değilse "col = ?" ekler.
func (q *listQuery) eq(col, value string) {
	if value != "" {
		q.cond(col+" = ?", value)
	}
}

// search, term'i verilen kolonlarda büyük/küçük harf duyarsız arar (OR).
func (q *listQuery) search(term string, cols ...string) {
	if term == "" || len(cols) == 0 {
		return
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = "LOWER(" + c + ") LIKE ? ESCAPE '\\'"
		q.args = append(q.args, pattern)
	}
	q.where = append(q.where, "("+strings.Join(parts, " OR ")+")")
}

// timeRange, from/to verilmişse [from, to] aralığını ekler.
func (q *listQuery) timeRange(col string, from, to *time.Time) {
	if from != nil {
		q.cond(col+" >= ?", *from)
	}
	if to != nil {
		q.cond(col+" <= ?", *to)
	}
}

func (q *listQuery) whereClause() string {
	if len(q.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(q.where, " AND ")
}

// orderClause, sıralama kolonu ListParams'ta whitelist ile doğrulanmıştır.
// Eşit değerlerde sayfa sınırlarının kaymaması için id ikincil sıralamadır.
func orderClause(p models.ListParams) string {
	if p.SortBy == "" || !isIdentifier(p.SortBy) {
		return " ORDER BY created_at DESC, id"
	}
	dir := "ASC"
	if p.Desc() {
		dir = "DESC"
	}
	return fmt.Sprintf(" ORDER BY %s %s, id", p.SortBy, dir)
}

// selectPage, toplam sayıyı ve istenen sayfayı getirir.
func selectPage[T any](ctx context.Context, db database.TxQuerier, columns string, q *listQuery, p models.ListParams) ([]T, int, error) {
	where := q.whereClause()

	var total int
	countQuery := db.Rebind("SELECT COUNT(*) FROM " + q.table + where)
	if err := sqlx.GetContext(ctx, db, &total, countQuery, q.args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", q.table, err)
	}

	items := []T{}
	if total == 0 {
		return items, 0, nil
	}

	query := db.Rebind("SELECT " + columns + " FROM " + q.table + where + orderClause(p) + " LIMIT ? OFFSET ?")
	args := append(append([]any{}, q.args...), p.Limit, p.Offset())
	if err := sqlx.SelectContext(ctx, db, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", q.table, err)
	}

	return items, total, nil
}

// escapeLike, LIKE joker karakterlerini literal yapar.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func isIdentifier(s string) bool {
	for _, c := range s {
		if !(c == '_' || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			return false
		}
	}
	return s != ""
}
