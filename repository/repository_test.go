package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/database"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/database/dbtest"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Seed'deki sabit kayıtlar
const (
	seedCountryID = "c0000000-0000-0000-0000-000000000001"
	seedCarTypeID = "c1000000-0000-0000-0000-000000000001"
)

func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func strPtr(s string) *string { return &s }

func listParams() models.ListParams {
	return models.ListParams{Page: 1, Limit: 20, SortBy: "created_at", Filters: map[string]string{}}
}

func createLookup(t *testing.T, db *database.DB, slug, name string) *models.Lookup {
	t.Helper()
	kind, ok := models.LookupKindBySlug(slug)
	require.True(t, ok)

	ts := now()
	l := &models.Lookup{ID: uuid.NewString(), Name: name, IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, NewSQLiteLookupRepo(db.Conn).Create(context.Background(), kind, l))
	return l
}

func createCarModel(t *testing.T, db *database.DB) *models.CarModel {
	t.Helper()
	brand := createLookup(t, db, "car-brands", "Brand "+uuid.NewString()[:8])

	ts := now()
	m := &models.CarModel{
		ID: uuid.NewString(), BrandID: brand.ID, TypeID: seedCarTypeID,
		Name: "Model", IsActive: true, CreatedAt: ts, UpdatedAt: ts,
	}
	require.NoError(t, NewSQLiteCarModelRepo(db.Conn).Create(context.Background(), m))
	return m
}

func createAsset(t *testing.T, db *database.DB, plate string) *models.Asset {
	t.Helper()
	model := createCarModel(t, db)

	ts := now()
	a := &models.Asset{
		ID: uuid.NewString(), ModelID: model.ID, ModelYear: 2022, PlateNumber: plate,
		IsActive: true, CreatedBy: strPtr("user:test"), CreatedAt: ts, UpdatedAt: ts,
	}
	require.NoError(t, NewSQLiteAssetRepo(db.Conn).Create(context.Background(), a))
	return a
}

func createPersonnel(t *testing.T, db *database.DB, hash string) *models.Personnel {
	t.Helper()
	ts := now()
	p := &models.Personnel{
		ID: uuid.NewString(), NationalIDEnc: "enc", NationalIDHash: hash, NationalIDLast4: "1234",
		FirstName: "Ayşe", LastName: "Yılmaz", Status: models.PersonnelStatusActive,
		IsActive: true, CreatedAt: ts, UpdatedAt: ts,
	}
	require.NoError(t, NewSQLitePersonnelRepo(db.Conn).Create(context.Background(), p))
	return p
}

func createClient(t *testing.T, db *database.DB, name string) *models.APIClient {
	t.Helper()
	ts := now()
	c := &models.APIClient{
		ID: uuid.NewString(), Name: name, RateLimitPerMinute: 100,
		IsActive: true, CreatedAt: ts, UpdatedAt: ts,
	}
	require.NoError(t, NewSQLiteAPIClientRepo(db.Conn).Create(context.Background(), c))
	return c
}

// ─── Users & sessions ───

func TestUserRepo_CRUD(t *testing.T) {
	db := dbtest.New(t)
	repo := NewSQLiteUserRepo(db.Conn)
	ctx := context.Background()

	ts := now()
	u := &models.User{
		ID: uuid.NewString(), Email: "admin@example.com", FullName: "Admin",
		PasswordHash: "hash", IsAdmin: true, IsActive: true, CreatedAt: ts, UpdatedAt: ts,
	}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.GetByEmail(ctx, "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.True(t, got.IsAdmin)
	assert.True(t, got.CreatedAt.Equal(ts))

	dup := *u
	dup.ID = uuid.NewString()
	err = repo.Create(ctx, &dup)
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	got.FullName = "Renamed"
	got.PasswordHash = "should-not-change"
	require.NoError(t, repo.Update(ctx, got))
	require.NoError(t, repo.UpdatePassword(ctx, u.ID, "new-hash", now()))
	require.NoError(t, repo.UpdateLastLogin(ctx, u.ID, now()))

	got, err = repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.FullName)
	assert.Equal(t, "new-hash", got.PasswordHash)
	assert.NotNil(t, got.LastLoginAt)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestSessionRepo_DeleteExpired(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	ts := now()
	u := &models.User{ID: uuid.NewString(), Email: "a@b.co", FullName: "A", PasswordHash: "h", IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, NewSQLiteUserRepo(db.Conn).Create(ctx, u))

	repo := NewSQLiteSessionRepo(db.Conn)
	expired := &models.Session{ID: uuid.NewString(), UserID: u.ID, RefreshToken: "old", ExpiresAt: ts.Add(-time.Hour), CreatedAt: ts}
	live := &models.Session{ID: uuid.NewString(), UserID: u.ID, RefreshToken: "new", ExpiresAt: ts.Add(time.Hour), CreatedAt: ts}
	require.NoError(t, repo.Create(ctx, expired))
	require.NoError(t, repo.Create(ctx, live))

	n, err := repo.DeleteExpired(ctx, ts)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByRefreshToken(ctx, "old")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	got, err := repo.GetByRefreshToken(ctx, "new")
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)

	require.NoError(t, repo.DeleteByUserID(ctx, u.ID))
	_, err = repo.GetByRefreshToken(ctx, "new")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

// ─── API clients & keys ───

func TestAPIClientRepo_Permissions(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	repo := NewSQLiteAPIClientRepo(db.Conn)

	c := createClient(t, db, "partner")

	err := database.WithTx(ctx, db.Conn, func(tx *sqlx.Tx) error {
		return repo.WithTx(tx).SetPermissions(ctx, c.ID, []string{"asset:read", "asset:write"}, now())
	})
	require.NoError(t, err)

	perms, err := repo.GetPermissions(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"asset:read", "asset:write"}, perms)

	// Tamamen değiştirilir
	require.NoError(t, repo.SetPermissions(ctx, c.ID, []string{"data:read"}, now()))
	perms, err = repo.GetPermissions(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"data:read"}, perms)

	// Aynı isim ikinci kez
	ts := now()
	err = repo.Create(ctx, &models.APIClient{ID: uuid.NewString(), Name: "partner", RateLimitPerMinute: 1, IsActive: true, CreatedAt: ts, UpdatedAt: ts})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)
}

func TestAPIKeyRepo_RevokeOnce(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	c := createClient(t, db, "partner")
	repo := NewSQLiteAPIKeyRepo(db.Conn)

	k := &models.APIKey{ID: uuid.NewString(), ClientID: c.ID, KeyPrefix: "1a2b3c4d", KeyHash: "h", IsActive: true, CreatedAt: now()}
	require.NoError(t, repo.Create(ctx, k))

	got, err := repo.GetByPrefix(ctx, "1a2b3c4d")
	require.NoError(t, err)
	assert.True(t, got.Usable(time.Now()))

	require.NoError(t, repo.Revoke(ctx, k.ID, now()))
	assert.ErrorIs(t, repo.Revoke(ctx, k.ID, now()), pkg.ErrNotFound)

	got, err = repo.GetByID(ctx, k.ID)
	require.NoError(t, err)
	assert.False(t, got.Usable(time.Now()))
	assert.NotNil(t, got.RevokedAt)

	keys, err := repo.ListByClient(ctx, c.ID)
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

// ─── Lookups ───

func TestLookupRepo_SoftDeleteFreesName(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	repo := NewSQLiteLookupRepo(db.Conn)
	kind, _ := models.LookupKindBySlug("car-brands")

	l := createLookup(t, db, "car-brands", "Ford")

	ts := now()
	dup := &models.Lookup{ID: uuid.NewString(), Name: "Ford", IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	assert.ErrorIs(t, repo.Create(ctx, kind, dup), pkg.ErrAlreadyExists)

	require.NoError(t, repo.SetActive(ctx, kind, l.ID, false, now()))
	require.NoError(t, repo.Create(ctx, kind, dup))

	items, total, err := repo.List(ctx, kind, listParams())
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, dup.ID, items[0].ID)

	p := listParams()
	p.IncludeInactive = true
	_, total, err = repo.List(ctx, kind, p)
	require.NoError(t, err)
	assert.Equal(t, 2, total)

	// Pasif kayıt tekrar aktif edilemez: aktif bir "Ford" var
	assert.ErrorIs(t, repo.SetActive(ctx, kind, l.ID, true, now()), pkg.ErrAlreadyExists)
}

func TestLookupRepo_UnknownKind(t *testing.T) {
	db := dbtest.New(t)
	_, _, err := NewSQLiteLookupRepo(db.Conn).List(context.Background(), models.LookupKind{Slug: "countries", Table: "users"}, listParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown lookup kind")
}

// ─── Reference entities ───

func TestCityRepo_ForeignKeyAndSearch(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	repo := NewSQLiteCityRepo(db.Conn)

	ts := now()
	bad := &models.City{ID: uuid.NewString(), Name: "X", CountryID: "missing", IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	assert.ErrorIs(t, repo.Create(ctx, bad), pkg.ErrBadRequest)

	for _, name := range []string{"İstanbul", "Ankara", "Antalya"} {
		c := &models.City{ID: uuid.NewString(), Name: name, CountryID: seedCountryID, IsActive: true, CreatedAt: ts, UpdatedAt: ts}
		require.NoError(t, repo.Create(ctx, c))
	}

	p := listParams()
	p.Search = "an"
	p.SortBy = "name"
	items, total, err := repo.List(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "Ankara", items[0].Name)
	assert.Equal(t, "Antalya", items[1].Name)

	p = listParams()
	p.Limit = 2
	p.Page = 2
	items, total, err = repo.List(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Len(t, items, 1)
}

func TestCompanyRepo_UniqueTaxNo(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	repo := NewSQLiteCompanyRepo(db.Conn)

	ts := now()
	a := &models.Company{ID: uuid.NewString(), Name: "A", TaxNo: strPtr("1234567890"), IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	b := &models.Company{ID: uuid.NewString(), Name: "B", TaxNo: strPtr("1234567890"), IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, repo.Create(ctx, a))

	err := repo.Create(ctx, b)
	require.ErrorIs(t, err, pkg.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "tax number already in use")

	a.Name = "A2"
	require.NoError(t, repo.Update(ctx, a))
	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "A2", got.Name)

	assert.ErrorIs(t, repo.Update(ctx, &models.Company{ID: "missing", Name: "x", UpdatedAt: ts}), pkg.ErrNotFound)
}

func TestWorkAreaRepo_Dates(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()

	ts := now()
	city := &models.City{ID: uuid.NewString(), Name: "İzmir", CountryID: seedCountryID, IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	require.NoError(t, NewSQLiteCityRepo(db.Conn).Create(ctx, city))

	start := models.NewDate(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC))
	w := &models.WorkArea{ID: uuid.NewString(), Name: "Depo", CityID: city.ID, StartDate: &start, IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	repo := NewSQLiteWorkAreaRepo(db.Conn)
	require.NoError(t, repo.Create(ctx, w))

	got, err := repo.GetByID(ctx, w.ID)
	require.NoError(t, err)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2024-03-01", got.StartDate.String())
	assert.Nil(t, got.EndDate)
}

// ─── Fleet ───

func TestAssetRepo_PlateUniqueAndSearch(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	repo := NewSQLiteAssetRepo(db.Conn)

	a := createAsset(t, db, "34ABC123")

	ts := now()
	dup := &models.Asset{ID: uuid.NewString(), ModelID: a.ModelID, ModelYear: 2020, PlateNumber: "34ABC123", IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	err := repo.Create(ctx, dup)
	require.ErrorIs(t, err, pkg.ErrAlreadyExists)

	p := listParams()
	p.Search = "34 abc"
	items, total, err := repo.List(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, a.ID, items[0].ID)

	// created_by güncellenmez
	a.CreatedBy = strPtr("user:other")
	a.UpdatedBy = strPtr("user:editor")
	require.NoError(t, repo.Update(ctx, a))
	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "user:test", *got.CreatedBy)
	assert.Equal(t, "user:editor", *got.UpdatedBy)

	bad := &models.Asset{ID: uuid.NewString(), ModelID: "missing", ModelYear: 2020, PlateNumber: "06XY99", IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	assert.ErrorIs(t, repo.Create(ctx, bad), pkg.ErrBadRequest)
}

func TestPersonnelRepo_FilterByHash(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	repo := NewSQLitePersonnelRepo(db.Conn)

	p1 := createPersonnel(t, db, "hash-1")
	createPersonnel(t, db, "hash-2")

	ts := now()
	dup := &models.Personnel{ID: uuid.NewString(), NationalIDEnc: "e", NationalIDHash: "hash-1", NationalIDLast4: "0000", FirstName: "A", LastName: "B", Status: "active", IsActive: true, CreatedAt: ts, UpdatedAt: ts}
	assert.ErrorIs(t, repo.Create(ctx, dup), pkg.ErrAlreadyExists)

	p := listParams()
	p.Filters["national_id_hash"] = "hash-1"
	items, total, err := repo.List(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, p1.ID, items[0].ID)
}

func TestAssignmentRepo_SingleOpenPerAsset(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	repo := NewSQLiteAssignmentRepo(db.Conn)

	asset := createAsset(t, db, "06TEST01")
	p := createPersonnel(t, db, "h")

	ts := now()
	first := &models.AssetAssignment{
		ID: uuid.NewString(), AssetID: asset.ID, PersonnelID: p.ID,
		StartDate: models.NewDate(ts), IsActive: true, CreatedAt: ts, UpdatedAt: ts,
	}
	require.NoError(t, repo.Create(ctx, first))

	second := *first
	second.ID = uuid.NewString()
	err := repo.Create(ctx, &second)
	require.ErrorIs(t, err, pkg.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "open assignment")

	open, err := repo.GetOpenByAsset(ctx, asset.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, open.ID)

	// Kapatınca yeni atama açılabilir
	end := models.NewDate(ts)
	first.EndDate = &end
	require.NoError(t, repo.Update(ctx, first))
	require.NoError(t, repo.Create(ctx, &second))

	params := listParams()
	params.Filters["open"] = "true"
	params.Filters["asset_id"] = asset.ID
	items, total, err := repo.List(ctx, params)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, second.ID, items[0].ID)

	_, err = repo.GetOpenByAsset(ctx, "missing")
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

// ─── Audit & usage ───

func TestAuditRepo_ListFilters(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	repo := NewSQLiteAuditRepo(db.Conn)

	base := now().Add(-2 * time.Hour)
	for i, op := range []string{models.AuditInsert, models.AuditUpdate, models.AuditDelete} {
		entry := &models.AuditLog{
			ID: uuid.NewString(), TableName: "assets", RecordID: "rec-1", Operation: op,
			NewValues: models.RawJSON(`{"plate_number":"34ABC123"}`), ChangedFields: types.JSONText(`["plate_number"]`),
			UserID: strPtr("u1"), CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, entry))
	}

	p := listParams()
	p.SortOrder = "desc"
	items, total, err := repo.List(ctx, models.AuditFilter{TableName: "assets"}, p)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, models.AuditDelete, items[0].Operation)
	assert.JSONEq(t, `{"plate_number":"34ABC123"}`, string(items[0].NewValues))
	assert.Nil(t, items[0].OldValues)

	_, total, err = repo.List(ctx, models.AuditFilter{Operation: models.AuditUpdate}, p)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	from := base.Add(90 * time.Second)
	_, total, err = repo.List(ctx, models.AuditFilter{From: &from}, p)
	require.NoError(t, err)
	assert.Equal(t, 1, total)

	n, err := repo.DeleteBefore(ctx, base.Add(30*time.Second))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestUsageRepo_Stats(t *testing.T) {
	db := dbtest.New(t)
	ctx := context.Background()
	repo := NewSQLiteUsageRepo(db.Conn)

	ts := now()
	entries := []struct {
		path   string
		status int
		ms     int64
	}{
		{"/api/secure/assets", 200, 10},
		{"/api/secure/assets", 200, 30},
		{"/api/secure/cities", 404, 20},
	}
	for _, e := range entries {
		require.NoError(t, repo.Create(ctx, &models.RequestLog{
			ID: uuid.NewString(), APIClientID: "c1", Method: "GET", Path: e.path,
			StatusCode: e.status, DurationMs: e.ms, CreatedAt: ts,
		}))
	}

	stats, err := repo.Stats(ctx, "c1", ts.Add(-time.Minute), ts.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalRequests)
	assert.InDelta(t, 20.0, stats.AvgDurationMs, 0.001)
	assert.Equal(t, map[string]int{"2xx": 2, "4xx": 1}, stats.ByStatusClass)
	require.Len(t, stats.TopPaths, 2)
	assert.Equal(t, models.PathCount{Path: "/api/secure/assets", Count: 2}, stats.TopPaths[0])

	empty, err := repo.Stats(ctx, "other", ts.Add(-time.Minute), ts.Add(time.Minute))
	require.NoError(t, err)
	assert.Zero(t, empty.TotalRequests)
	assert.Empty(t, empty.TopPaths)
}

// ─── Driver hataları (sqlmock) ───

func TestSelectPage_CountError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db := sqlx.NewDb(mockDB, "sqlmock")
	mock.ExpectQuery("SELECT COUNT").WillReturnError(errors.New("connection reset"))

	_, _, err = NewSQLiteCityRepo(db).List(context.Background(), listParams())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to count cities")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWriteError_Passthrough(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	db := sqlx.NewDb(mockDB, "sqlmock")
	mock.ExpectExec("UPDATE assets SET is_active").WillReturnError(errors.New("disk full"))

	err = NewSQLiteAssetRepo(db).SetActive(context.Background(), "a1", false, now())
	require.Error(t, err)
	assert.NotErrorIs(t, err, pkg.ErrNotFound)
	assert.Contains(t, err.Error(), "failed to write asset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOrderClause(t *testing.T) {
	assert.Equal(t, " ORDER BY created_at DESC, id", orderClause(models.ListParams{}))
	assert.Equal(t, " ORDER BY name ASC, id", orderClause(models.ListParams{SortBy: "name"}))
	assert.Equal(t, " ORDER BY name DESC, id", orderClause(models.ListParams{SortBy: "name", SortOrder: "desc"}))
	assert.Equal(t, " ORDER BY created_at DESC, id", orderClause(models.ListParams{SortBy: "name; DROP"}))
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `100\%\_a\\b`, escapeLike(`100%_a\b`))
}
