package services

import (
	"context"
	"testing"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCityService_SoftDeleteLifecycle(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCityService(repository.NewSQLiteCityRepo(env.db.Conn), env.audit)
	ctx := asUser("u-1")

	city, err := svc.Create(ctx, &models.CreateCityRequest{Name: " Ankara ", CountryID: seedCountryID, PlateCode: strPtr("06")})
	require.NoError(t, err)
	assert.Equal(t, "Ankara", city.Name)
	assert.True(t, city.IsActive)

	_, err = svc.Create(ctx, &models.CreateCityRequest{Name: "Ankara", CountryID: seedCountryID})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	deleted, err := svc.Delete(ctx, city.ID)
	require.NoError(t, err)
	assert.False(t, deleted.IsActive)

	_, err = svc.Delete(ctx, city.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound, "deleting twice")

	_, err = svc.GetByID(ctx, city.ID, false)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	hidden, err := svc.GetByID(ctx, city.ID, true)
	require.NoError(t, err)
	assert.False(t, hidden.IsActive)

	_, err = svc.Update(ctx, city.ID, &models.UpdateCityRequest{Name: strPtr("Angora")})
	assert.ErrorIs(t, err, pkg.ErrNotFound, "inactive records are not updated")

	restored, err := svc.Restore(ctx, city.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)

	_, err = svc.Restore(ctx, city.ID)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	updated, err := svc.Update(ctx, city.ID, &models.UpdateCityRequest{PlateCode: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.PlateCode)

	assert.Equal(t,
		[]string{models.AuditInsert, models.AuditDelete, models.AuditRestore, models.AuditUpdate},
		env.operations(t, "cities", city.ID))

	trail := env.auditTrail(t, "cities", city.ID)
	assert.JSONEq(t, `["is_active"]`, string(trail[1].ChangedFields))
	assert.JSONEq(t, `["plate_code"]`, string(trail[3].ChangedFields))
}

func TestCityService_UnknownCountry(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCityService(repository.NewSQLiteCityRepo(env.db.Conn), env.audit)

	_, err := svc.Create(context.Background(), &models.CreateCityRequest{Name: "Atlantis", CountryID: "missing"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
	assert.Zero(t, env.hub.count())
}

func TestCityService_ListHidesInactive(t *testing.T) {
	env := newTestEnv(t)
	svc := NewCityService(repository.NewSQLiteCityRepo(env.db.Conn), env.audit)
	ctx := context.Background()

	for _, name := range []string{"İzmir", "Bursa", "Konya"} {
		_, err := svc.Create(ctx, &models.CreateCityRequest{Name: name, CountryID: seedCountryID})
		require.NoError(t, err)
	}
	page, err := svc.List(ctx, listParams())
	require.NoError(t, err)
	require.Equal(t, 3, page.Total)

	_, err = svc.Delete(ctx, page.Items[0].ID)
	require.NoError(t, err)

	page, err = svc.List(ctx, listParams())
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	p := listParams()
	p.IncludeInactive = true
	page, err = svc.List(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Total)
}

func TestLookupService_PerKind(t *testing.T) {
	env := newTestEnv(t)
	svc := NewLookupService(repository.NewSQLiteLookupRepo(env.db.Conn), env.audit)
	ctx := asClient("c-1")
	brands, _ := models.LookupKindBySlug("car-brands")
	penalties, _ := models.LookupKindBySlug("penalty-types")

	brand, err := svc.Create(ctx, brands, &models.CreateLookupRequest{Name: "Renault", Code: strPtr("rn")})
	require.NoError(t, err)
	require.NotNil(t, brand.Code)
	assert.Equal(t, "RN", *brand.Code)

	// Aynı isim başka katalogda serbest
	_, err = svc.Create(ctx, penalties, &models.CreateLookupRequest{Name: "Renault"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, brands, &models.CreateLookupRequest{Name: "Renault"})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	_, err = svc.GetByID(ctx, penalties, brand.ID, true)
	assert.ErrorIs(t, err, pkg.ErrNotFound, "ids do not leak across kinds")

	updated, err := svc.Update(ctx, brands, brand.ID, &models.UpdateLookupRequest{Description: strPtr("French")})
	require.NoError(t, err)
	require.NotNil(t, updated.Description)

	_, err = svc.Delete(ctx, brands, brand.ID)
	require.NoError(t, err)
	_, err = svc.Restore(ctx, brands, brand.ID)
	require.NoError(t, err)

	trail := env.auditTrail(t, "car_brands", brand.ID)
	require.Len(t, trail, 4)
	require.NotNil(t, trail[0].APIClientID)
	assert.Equal(t, "c-1", *trail[0].APIClientID)
}

func TestWorkAreaService_DateOrder(t *testing.T) {
	env := newTestEnv(t)
	cities := NewCityService(repository.NewSQLiteCityRepo(env.db.Conn), env.audit)
	svc := NewWorkAreaService(repository.NewSQLiteWorkAreaRepo(env.db.Conn), env.audit)
	ctx := context.Background()

	city, err := cities.Create(ctx, &models.CreateCityRequest{Name: "Sivas", CountryID: seedCountryID})
	require.NoError(t, err)

	start, _ := models.ParseDate("2024-03-01")
	area, err := svc.Create(ctx, &models.CreateWorkAreaRequest{Name: "Şantiye", CityID: city.ID, StartDate: &start})
	require.NoError(t, err)

	// Bitiş, kayıttaki başlangıçla birlikte kontrol edilir
	end, _ := models.ParseDate("2024-02-01")
	_, err = svc.Update(ctx, area.ID, &models.UpdateWorkAreaRequest{EndDate: &end})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	end, _ = models.ParseDate("2024-12-31")
	updated, err := svc.Update(ctx, area.ID, &models.UpdateWorkAreaRequest{EndDate: &end})
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", updated.EndDate.String())
}

func TestCarModelAndCompany_Create(t *testing.T) {
	env := newTestEnv(t)
	lookups := NewLookupService(repository.NewSQLiteLookupRepo(env.db.Conn), env.audit)
	carModels := NewCarModelService(repository.NewSQLiteCarModelRepo(env.db.Conn), env.audit)
	companies := NewCompanyService(repository.NewSQLiteCompanyRepo(env.db.Conn), env.audit)
	ctx := context.Background()

	brands, _ := models.LookupKindBySlug("car-brands")
	brand, err := lookups.Create(ctx, brands, &models.CreateLookupRequest{Name: "Fiat"})
	require.NoError(t, err)

	m, err := carModels.Create(ctx, &models.CreateCarModelRequest{BrandID: brand.ID, TypeID: seedCarTypeID, Name: "Doblo"})
	require.NoError(t, err)
	_, err = carModels.Create(ctx, &models.CreateCarModelRequest{BrandID: brand.ID, TypeID: seedCarTypeID, Name: "Doblo"})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	_, err = carModels.Delete(ctx, m.ID)
	require.NoError(t, err)

	c, err := companies.Create(ctx, &models.CreateCompanyRequest{Name: "Filo A.Ş.", TaxNo: strPtr("1234567890")})
	require.NoError(t, err)
	_, err = companies.Create(ctx, &models.CreateCompanyRequest{Name: "Kopya", TaxNo: strPtr("1234567890")})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	got, err := companies.GetByID(ctx, c.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "Filo A.Ş.", got.Name)
}
