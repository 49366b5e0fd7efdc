package services

import (
	"bytes"
	"context"
	"testing"

	"github.com/AlperAcarAI/FiloAPIapp-sub000/models"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/pkg"
	"github.com/AlperAcarAI/FiloAPIapp-sub000/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testEncryptionKey = bytes.Repeat([]byte{7}, 32)

type fleetFixture struct {
	*testEnv
	personnel   PersonnelService
	assets      AssetService
	assignments AssignmentService
	carModels   CarModelService
	lookups     LookupService
	personRepo  repository.PersonnelRepository
}

func newFleetFixture(t *testing.T) *fleetFixture {
	t.Helper()
	env := newTestEnv(t)
	personRepo := repository.NewSQLitePersonnelRepo(env.db.Conn)
	assetRepo := repository.NewSQLiteAssetRepo(env.db.Conn)
	assignmentRepo := repository.NewSQLiteAssignmentRepo(env.db.Conn)
	return &fleetFixture{
		testEnv:     env,
		personnel:   NewPersonnelService(personRepo, env.audit, testEncryptionKey, zap.NewNop()),
		assets:      NewAssetService(assetRepo, assignmentRepo, env.audit),
		assignments: NewAssignmentService(assignmentRepo, assetRepo, personRepo, env.audit),
		carModels:   NewCarModelService(repository.NewSQLiteCarModelRepo(env.db.Conn), env.audit),
		lookups:     NewLookupService(repository.NewSQLiteLookupRepo(env.db.Conn), env.audit),
		personRepo:  personRepo,
	}
}

func (f *fleetFixture) createPersonnel(t *testing.T, nationalID string) *models.Personnel {
	t.Helper()
	p, err := f.personnel.Create(context.Background(), &models.CreatePersonnelRequest{
		NationalID: nationalID, FirstName: "Ayşe", LastName: "Yılmaz",
	})
	require.NoError(t, err)
	return p
}

func (f *fleetFixture) createAsset(t *testing.T, plate string) *models.Asset {
	t.Helper()
	ctx := context.Background()
	brands, _ := models.LookupKindBySlug("car-brands")
	brand, err := f.lookups.Create(ctx, brands, &models.CreateLookupRequest{Name: "Brand " + uuid.NewString()[:8]})
	require.NoError(t, err)
	m, err := f.carModels.Create(ctx, &models.CreateCarModelRequest{BrandID: brand.ID, TypeID: seedCarTypeID, Name: "Model"})
	require.NoError(t, err)

	a, err := f.assets.Create(asUser("u-1"), &models.CreateAssetRequest{ModelID: m.ID, ModelYear: 2022, PlateNumber: plate})
	require.NoError(t, err)
	return a
}

func date(t *testing.T, s string) *models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func TestPersonnel_NationalIDIsEncryptedAndMasked(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()

	p := f.createPersonnel(t, "12345678950")
	assert.Equal(t, "*******8950", p.NationalID)

	stored, err := f.personRepo.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.NotContains(t, stored.NationalIDEnc, "12345678950")
	assert.NotEqual(t, "12345678950", stored.NationalIDHash)
	assert.Equal(t, "8950", stored.NationalIDLast4)

	got, err := f.personnel.GetByID(ctx, p.ID, false)
	require.NoError(t, err)
	assert.Equal(t, "*******8950", got.NationalID)

	nid, err := f.personnel.RevealNationalID(asUser("u-1"), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "12345678950", nid)

	trail := f.auditTrail(t, "personnel", p.ID)
	require.Len(t, trail, 1)
	assert.NotContains(t, string(trail[0].NewValues), "national_id_enc")
	assert.NotContains(t, string(trail[0].NewValues), "12345678950")
}

func TestPersonnel_DuplicateAndFilterByNationalID(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()

	p := f.createPersonnel(t, "12345678950")
	f.createPersonnel(t, "10000000146")

	_, err := f.personnel.Create(ctx, &models.CreatePersonnelRequest{NationalID: "12345678950", FirstName: "Ali", LastName: "Kaya"})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	_, err = f.personnel.Create(ctx, &models.CreatePersonnelRequest{NationalID: "12345678951", FirstName: "Ali", LastName: "Kaya"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest, "checksum")

	params := listParams()
	params.Filters["national_id"] = "12345678950"
	page, err := f.personnel.List(ctx, params)
	require.NoError(t, err)
	require.Equal(t, 1, page.Total)
	assert.Equal(t, p.ID, page.Items[0].ID)
	assert.Equal(t, "*******8950", page.Items[0].NationalID)
}

func TestPersonnel_UpdateNationalID(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()
	p := f.createPersonnel(t, "12345678950")

	updated, err := f.personnel.Update(ctx, p.ID, &models.UpdatePersonnelRequest{NationalID: strPtr("10000000146"), Status: strPtr("on_leave")})
	require.NoError(t, err)
	assert.Equal(t, "*******0146", updated.NationalID)
	assert.Equal(t, models.PersonnelStatusOnLeave, updated.Status)

	nid, err := f.personnel.RevealNationalID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "10000000146", nid)

	trail := f.auditTrail(t, "personnel", p.ID)
	require.Len(t, trail, 2)
	assert.JSONEq(t, `["national_id","status"]`, string(trail[1].ChangedFields))
}

func TestAsset_CreatedByActor(t *testing.T) {
	f := newFleetFixture(t)
	a := f.createAsset(t, "34 abc 123")

	assert.Equal(t, "34ABC123", a.PlateNumber)
	require.NotNil(t, a.CreatedBy)
	assert.Equal(t, "user:u-1", *a.CreatedBy)

	updated, err := f.assets.Update(asClient("c-9"), a.ID, &models.UpdateAssetRequest{ModelYear: intPtr(2023)})
	require.NoError(t, err)
	assert.Equal(t, 2023, updated.ModelYear)
	require.NotNil(t, updated.UpdatedBy)
	assert.Equal(t, "client:c-9", *updated.UpdatedBy)
	assert.Equal(t, "user:u-1", *updated.CreatedBy)
}

func TestAsset_DeleteBlockedByOpenAssignment(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()
	a := f.createAsset(t, "06AB1234")
	p := f.createPersonnel(t, "12345678950")

	asg, err := f.assignments.Create(ctx, &models.CreateAssignmentRequest{AssetID: a.ID, PersonnelID: p.ID, StartDate: date(t, "2024-01-10")})
	require.NoError(t, err)

	_, err = f.assets.Delete(ctx, a.ID)
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = f.assignments.End(ctx, asg.ID, &models.EndAssignmentRequest{EndDate: date(t, "2024-02-10")})
	require.NoError(t, err)

	deleted, err := f.assets.Delete(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, deleted.IsActive)
}

func TestAssignment_OneOpenPerAsset(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()
	a := f.createAsset(t, "06AB1234")
	p1 := f.createPersonnel(t, "12345678950")
	p2 := f.createPersonnel(t, "10000000146")

	first, err := f.assignments.Create(ctx, &models.CreateAssignmentRequest{AssetID: a.ID, PersonnelID: p1.ID, StartDate: date(t, "2024-01-10")})
	require.NoError(t, err)
	assert.True(t, first.Open())

	_, err = f.assignments.Create(ctx, &models.CreateAssignmentRequest{AssetID: a.ID, PersonnelID: p2.ID, StartDate: date(t, "2024-01-11")})
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	// Kapalı geçmiş kaydı her zaman eklenebilir
	_, err = f.assignments.Create(ctx, &models.CreateAssignmentRequest{
		AssetID: a.ID, PersonnelID: p2.ID, StartDate: date(t, "2023-01-01"), EndDate: date(t, "2023-06-01"),
	})
	require.NoError(t, err)

	page, err := f.assignments.ListByAsset(ctx, a.ID, listParams())
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = f.assignments.ListByPersonnel(ctx, p1.ID, listParams())
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)

	_, err = f.assignments.ListByAsset(ctx, "missing", listParams())
	assert.ErrorIs(t, err, pkg.ErrNotFound)
}

func TestAssignment_CreateChecksParties(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()
	a := f.createAsset(t, "06AB1234")
	p := f.createPersonnel(t, "12345678950")

	_, err := f.assignments.Create(ctx, &models.CreateAssignmentRequest{AssetID: "missing", PersonnelID: p.ID, StartDate: date(t, "2024-01-10")})
	var verr *pkg.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "asset_id", verr.Fields[0].Field)

	_, err = f.personnel.Update(ctx, p.ID, &models.UpdatePersonnelRequest{Status: strPtr(models.PersonnelStatusTerminated)})
	require.NoError(t, err)
	_, err = f.assignments.Create(ctx, &models.CreateAssignmentRequest{AssetID: a.ID, PersonnelID: p.ID, StartDate: date(t, "2024-01-10")})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)

	_, err = f.assignments.Create(ctx, &models.CreateAssignmentRequest{
		AssetID: a.ID, PersonnelID: p.ID, StartDate: date(t, "2024-01-10"), EndDate: date(t, "2024-01-01"),
	})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestAssignment_EndAndRestore(t *testing.T) {
	f := newFleetFixture(t)
	ctx := context.Background()
	a := f.createAsset(t, "06AB1234")
	p1 := f.createPersonnel(t, "12345678950")
	p2 := f.createPersonnel(t, "10000000146")

	first, err := f.assignments.Create(ctx, &models.CreateAssignmentRequest{AssetID: a.ID, PersonnelID: p1.ID, StartDate: date(t, "2024-01-10")})
	require.NoError(t, err)

	_, err = f.assignments.End(ctx, first.ID, &models.EndAssignmentRequest{EndDate: date(t, "2024-01-01")})
	assert.ErrorIs(t, err, pkg.ErrBadRequest, "end before start")

	ended, err := f.assignments.End(ctx, first.ID, &models.EndAssignmentRequest{})
	require.NoError(t, err)
	require.NotNil(t, ended.EndDate)
	assert.Equal(t, models.NewDate(now()).String(), ended.EndDate.String())

	_, err = f.assignments.End(ctx, first.ID, &models.EndAssignmentRequest{})
	assert.ErrorIs(t, err, pkg.ErrBadRequest, "already ended")

	// Silinmiş açık atama, araçta yeni açık atama varken geri alınamaz
	second, err := f.assignments.Create(ctx, &models.CreateAssignmentRequest{AssetID: a.ID, PersonnelID: p2.ID, StartDate: date(t, "2024-03-01")})
	require.NoError(t, err)
	_, err = f.assignments.Delete(ctx, second.ID)
	require.NoError(t, err)
	third, err := f.assignments.Create(ctx, &models.CreateAssignmentRequest{AssetID: a.ID, PersonnelID: p1.ID, StartDate: date(t, "2024-04-01")})
	require.NoError(t, err)

	_, err = f.assignments.Restore(ctx, second.ID)
	assert.ErrorIs(t, err, pkg.ErrAlreadyExists)

	_, err = f.assignments.End(ctx, third.ID, &models.EndAssignmentRequest{EndDate: date(t, "2024-05-01")})
	require.NoError(t, err)
	restored, err := f.assignments.Restore(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)

	assert.Equal(t,
		[]string{models.AuditInsert, models.AuditDelete, models.AuditRestore},
		f.operations(t, "asset_assignments", second.ID))
}

func intPtr(n int) *int { return &n }
