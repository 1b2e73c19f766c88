package sqlstore

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"horse-treatment-records/internal/domain/grid"
	"horse-treatment-records/internal/domain/horses"
	"horse-treatment-records/internal/domain/owners"
	"horse-treatment-records/internal/domain/sessions"
	"horse-treatment-records/internal/domain/stables"
	"horse-treatment-records/internal/domain/treatments"
	"horse-treatment-records/internal/domain/treatmenttypes"
	"horse-treatment-records/internal/domain/vets"
	"horse-treatment-records/internal/platform/apperr"
	"horse-treatment-records/internal/platform/patch"
	"horse-treatment-records/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cogginsID = "5b0e8a52-3c1d-4f0a-9a61-0c2f6f1d0001"
const rabiesID = "5b0e8a52-3c1d-4f0a-9a61-0c2f6f1d0002"

var admin = auth.Identity{Role: auth.RoleAdmin, ID: "admin", Name: "Admin"}

func newTestDB(t *testing.T) *DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.db")
	require.NoError(t, Migrate(SQLite, path, nil))

	db, err := Open(context.Background(), SQLite, path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

type fixture struct {
	db         *DB
	stables    *stables.Service
	vets       *vets.Service
	owners     *owners.Service
	horses     *horses.Service
	types      *treatmenttypes.Service
	treatments *treatments.Service
	grid       *grid.Service
}

func newFixture(t *testing.T) fixture {
	db := newTestDB(t)
	now := func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return fixture{
		db:         db,
		stables:    stables.NewService(NewStablesRepo(db)),
		vets:       vets.NewService(NewVetsRepo(db)),
		owners:     owners.NewService(NewOwnersRepo(db)),
		horses:     horses.NewService(NewHorsesRepo(db), now),
		types:      treatmenttypes.NewService(NewTreatmentTypesRepo(db)),
		treatments: treatments.NewService(NewTreatmentsRepo(db), now),
		grid:       grid.NewService(NewHorsesRepo(db), NewTreatmentTypesRepo(db), NewGridRepo(db), nil, now),
	}
}

func (f fixture) horse(t *testing.T, ownerID, name string) horses.Horse {
	t.Helper()
	h, err := f.horses.Create(context.Background(), horses.CreateInput{Name: name, OwnerID: ownerID})
	require.NoError(t, err)
	return h
}

func str(s string) *string { return &s }

func countRows(t *testing.T, db *DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM "+table).Scan(&n))
	return n
}

func TestSeededTreatmentTypes(t *testing.T) {
	f := newFixture(t)

	all, err := f.types.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 11)
	assert.Equal(t, "Coggins", all[0].Name)
	assert.Equal(t, treatmenttypes.CategoryTest, all[0].Category)

	vaccines, err := f.types.List(context.Background(), "vaccine")
	require.NoError(t, err)
	assert.Len(t, vaccines, 5)

	tt, err := f.types.Create(context.Background(), treatmenttypes.CreateInput{Name: "Tetanus", Category: "vaccine"})
	require.NoError(t, err)
	assert.Equal(t, 12, tt.SortOrder)

	_, err = f.types.Create(context.Background(), treatmenttypes.CreateInput{Name: "Coggins", Category: "test"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestTreatmentUpsert_SameRow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	carr, err := f.owners.Create(ctx, owners.CreateInput{Name: "Carr"})
	require.NoError(t, err)
	h := f.horse(t, carr.ID, "Test Horse")

	first, err := f.treatments.Upsert(ctx, treatments.UpsertInput{HorseID: h.ID, TreatmentTypeID: cogginsID, Date: str("2023-01-01"), Notes: str("negative")})
	require.NoError(t, err)

	second, err := f.treatments.Upsert(ctx, treatments.UpsertInput{HorseID: h.ID, TreatmentTypeID: cogginsID, Date: str("2024-01-01"), Notes: str("negative, retest")})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "2024-01-01", *second.Date)
	require.NotNil(t, second.Notes)
	assert.Equal(t, "negative, retest", *second.Notes)

	// una nota null también pisa
	third, err := f.treatments.Upsert(ctx, treatments.UpsertInput{HorseID: h.ID, TreatmentTypeID: cogginsID, Date: str("2024-01-01")})
	require.NoError(t, err)
	assert.Equal(t, first.ID, third.ID)
	assert.Nil(t, third.Notes)
	assert.Equal(t, 1, countRows(t, f.db, "treatments"))

	g, err := f.grid.Build(ctx, admin, grid.Filter{})
	require.NoError(t, err)
	cell, ok := g.Cell(h.ID, cogginsID)
	require.True(t, ok)
	assert.Equal(t, "2024-01-01", *cell.Date)

	d, err := f.horses.Get(ctx, admin, h.ID)
	require.NoError(t, err)
	require.Len(t, d.Treatments, 1)
	assert.Equal(t, "Coggins", d.Treatments[0].TypeName)
}

func TestTreatmentUpsert_ConcurrentSamePair(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	carr, err := f.owners.Create(ctx, owners.CreateInput{Name: "Carr"})
	require.NoError(t, err)
	h := f.horse(t, carr.ID, "Test Horse")

	const writers = 8
	var (
		wg   sync.WaitGroup
		ids  = make([]string, writers)
		errs = make([]error, writers)
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			date := fmt.Sprintf("2024-01-%02d", i+1)
			got, err := f.treatments.Upsert(ctx, treatments.UpsertInput{HorseID: h.ID, TreatmentTypeID: cogginsID, Date: &date})
			ids[i], errs[i] = got.ID, err
		}(i)
	}
	wg.Wait()

	for i := 0; i < writers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, ids[0], ids[i])
	}
	assert.Equal(t, 1, countRows(t, f.db, "treatments"))
}

func TestTreatmentUpsert_UnknownHorse(t *testing.T) {
	f := newFixture(t)

	_, err := f.treatments.Upsert(context.Background(), treatments.UpsertInput{HorseID: "nope", TreatmentTypeID: cogginsID, Date: str("2024-01-01")})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestTreatmentBatch_RollsBack(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.owners.Create(ctx, owners.CreateInput{Name: "Carr"})
	require.NoError(t, err)
	h := f.horse(t, o.ID, "Test Horse")

	_, err = f.treatments.Batch(ctx, []treatments.UpsertInput{
		{HorseID: h.ID, TreatmentTypeID: cogginsID, Date: str("2024-01-01")},
		{HorseID: h.ID, TreatmentTypeID: "missing-type", Date: str("2024-01-01")},
	})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Zero(t, countRows(t, f.db, "treatments"))

	out, err := f.treatments.Batch(ctx, []treatments.UpsertInput{
		{HorseID: h.ID, TreatmentTypeID: cogginsID, Date: str("2024-01-01")},
		{HorseID: h.ID, TreatmentTypeID: rabiesID},
	})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, 2, countRows(t, f.db, "treatments"))
}

func TestOwnerDelete_BlockedByActiveHorses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.owners.Create(ctx, owners.CreateInput{Name: "Carr"})
	require.NoError(t, err)
	f.horse(t, o.ID, "One")
	f.horse(t, o.ID, "Two")
	retired := f.horse(t, o.ID, "Retired")
	_, err = f.horses.Update(ctx, retired.ID, horses.Patch{Active: patch.Of(false)})
	require.NoError(t, err)

	err = f.owners.Delete(ctx, o.ID)
	require.ErrorIs(t, err, apperr.ErrBlocked)
	assert.Contains(t, err.Error(), "2 active horse(s)")

	got, err := f.owners.Get(ctx, admin, o.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.HorseCount)

	_, err = f.treatments.Upsert(ctx, treatments.UpsertInput{HorseID: retired.ID, TreatmentTypeID: cogginsID, Date: str("2023-01-10")})
	require.NoError(t, err)

	var ids []string
	for _, h := range []string{"One", "Two"} {
		list, err := f.horses.List(ctx, admin, horses.ListFilter{Search: h})
		require.NoError(t, err)
		require.Len(t, list, 1)
		_, err = f.horses.Update(ctx, list[0].ID, horses.Patch{Active: patch.Of(false)})
		require.NoError(t, err)
		ids = append(ids, list[0].ID)
	}

	// los caballos inactivos conservan su historial, así que el dueño queda
	err = f.owners.Delete(ctx, o.ID)
	require.ErrorIs(t, err, apperr.ErrBlocked)
	assert.Contains(t, err.Error(), "3 inactive horse(s)")
	assert.Equal(t, 3, countRows(t, f.db, "horses"))
	assert.Equal(t, 1, countRows(t, f.db, "treatments"))

	for _, id := range append(ids, retired.ID) {
		require.NoError(t, f.horses.Delete(ctx, id))
	}
	require.NoError(t, f.owners.Delete(ctx, o.ID))
	assert.Zero(t, countRows(t, f.db, "owners"))
}

func TestOwnerCreate_Conflict(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.owners.Create(ctx, owners.CreateInput{Name: "Carr"})
	require.NoError(t, err)
	_, err = f.owners.Create(ctx, owners.CreateInput{Name: "Carr"})
	assert.ErrorIs(t, err, apperr.ErrConflict)

	_, err = f.owners.Create(ctx, owners.CreateInput{Name: "Ames", StableID: str("no-such-stable")})
	assert.ErrorIs(t, err, apperr.ErrReference)
}

func TestDeactivatedHorse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.owners.Create(ctx, owners.CreateInput{Name: "Carr"})
	require.NoError(t, err)
	h := f.horse(t, o.ID, "Old Timer")
	f.horse(t, o.ID, "Youngster")

	_, err = f.treatments.Upsert(ctx, treatments.UpsertInput{HorseID: h.ID, TreatmentTypeID: rabiesID, Date: str("2022-05-05")})
	require.NoError(t, err)

	_, err = f.horses.Update(ctx, h.ID, horses.Patch{Active: patch.Of(false)})
	require.NoError(t, err)

	list, err := f.horses.List(ctx, admin, horses.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Youngster", list[0].Name)

	inactive, err := f.horses.List(ctx, admin, horses.ListFilter{Active: horses.InactiveOnly})
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, 1, inactive[0].TreatmentCount)

	g, err := f.grid.Build(ctx, admin, grid.Filter{})
	require.NoError(t, err)
	assert.Len(t, g.Horses, 1)
	assert.NotContains(t, g.Cells, h.ID)

	d, err := f.horses.Get(ctx, admin, h.ID)
	require.NoError(t, err)
	assert.False(t, d.Active)
	require.Len(t, d.Treatments, 1)
	assert.Equal(t, "2022-05-05", *d.Treatments[0].Date)
}

func TestHorseDelete_Cascades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.owners.Create(ctx, owners.CreateInput{Name: "Carr"})
	require.NoError(t, err)
	h := f.horse(t, o.ID, "Test Horse")
	_, err = f.treatments.Upsert(ctx, treatments.UpsertInput{HorseID: h.ID, TreatmentTypeID: rabiesID, Date: str("2024-01-01")})
	require.NoError(t, err)

	require.NoError(t, f.horses.Delete(ctx, h.ID))
	assert.Zero(t, countRows(t, f.db, "treatments"))
	assert.ErrorIs(t, f.horses.Delete(ctx, h.ID), apperr.ErrNotFound)
}

func TestTreatmentDelete_ClearsCell(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.owners.Create(ctx, owners.CreateInput{Name: "Carr"})
	require.NoError(t, err)
	h := f.horse(t, o.ID, "Test Horse")

	dated, err := f.treatments.Upsert(ctx, treatments.UpsertInput{HorseID: h.ID, TreatmentTypeID: cogginsID, Date: str("2024-01-01")})
	require.NoError(t, err)
	_, err = f.treatments.Upsert(ctx, treatments.UpsertInput{HorseID: h.ID, TreatmentTypeID: rabiesID})
	require.NoError(t, err)

	require.NoError(t, f.treatments.Delete(ctx, dated.ID))

	g, err := f.grid.Build(ctx, admin, grid.Filter{})
	require.NoError(t, err)
	_, ok := g.Cell(h.ID, cogginsID)
	assert.False(t, ok, "deleted row reads as never done")

	nullCell, ok := g.Cell(h.ID, rabiesID)
	require.True(t, ok, "a null-date row is still present")
	assert.Nil(t, nullCell.Date)

	assert.ErrorIs(t, f.treatments.Delete(ctx, dated.ID), apperr.ErrNotFound)
}

func TestGrid_FiltersAndStableScope(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	hill, err := f.stables.Create(ctx, stables.CreateInput{Name: "Hillside", PIN: "1234"})
	require.NoError(t, err)
	inStable, err := f.owners.Create(ctx, owners.CreateInput{Name: "Ames", StableID: &hill.ID})
	require.NoError(t, err)
	loose, err := f.owners.Create(ctx, owners.CreateInput{Name: "Carr"})
	require.NoError(t, err)

	a := f.horse(t, inStable.ID, "Blaze")
	b := f.horse(t, loose.ID, "Comet")
	for _, id := range []string{a.ID, b.ID} {
		_, err := f.treatments.Upsert(ctx, treatments.UpsertInput{HorseID: id, TreatmentTypeID: cogginsID, Date: str("2024-01-01")})
		require.NoError(t, err)
		_, err = f.treatments.Upsert(ctx, treatments.UpsertInput{HorseID: id, TreatmentTypeID: rabiesID, Date: str("2024-02-01")})
		require.NoError(t, err)
	}

	g, err := f.grid.Build(ctx, auth.Identity{Role: auth.RoleStable, ID: hill.ID}, grid.Filter{})
	require.NoError(t, err)
	require.Len(t, g.Horses, 1)
	assert.Equal(t, "Blaze", g.Horses[0].Name)
	assert.Equal(t, "Hillside", *g.Horses[0].StableName)
	assert.NotContains(t, g.Cells, b.ID)

	g, err = f.grid.Build(ctx, admin, grid.Filter{Category: "vaccine", OwnerName: "car"})
	require.NoError(t, err)
	require.Len(t, g.Horses, 1)
	assert.Equal(t, "Comet", g.Horses[0].Name)
	assert.Len(t, g.Types, 5)
	_, ok := g.Cell(b.ID, cogginsID)
	assert.False(t, ok, "tests are outside the vaccine category")
	_, ok = g.Cell(b.ID, rabiesID)
	assert.True(t, ok)

	err = f.stables.Delete(ctx, hill.ID)
	require.ErrorIs(t, err, apperr.ErrBlocked)
	assert.Contains(t, err.Error(), "1 owner(s)")
}

func TestHorseList_Sort(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	o, err := f.owners.Create(ctx, owners.CreateInput{Name: "Carr"})
	require.NoError(t, err)
	zed := f.horse(t, o.ID, "Zed")
	f.horse(t, o.ID, "Abe")

	list, err := f.horses.List(ctx, admin, horses.ListFilter{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Abe", list[0].Name)

	clock := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	later := horses.NewService(NewHorsesRepo(f.db), func() time.Time { return clock })
	_, err = later.Update(ctx, zed.ID, horses.Patch{Notes: patch.Of("moved paddock")})
	require.NoError(t, err)

	list, err = f.horses.List(ctx, admin, horses.ListFilter{Sort: horses.SortUpdated})
	require.NoError(t, err)
	assert.Equal(t, "Zed", list[0].Name)
	assert.True(t, clock.Equal(list[0].UpdatedAt))
}

func TestVetDelete_UnassignsHorses(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.vets.Create(ctx, vets.CreateInput{Name: "Dr. Hale"})
	require.NoError(t, err)
	o, err := f.owners.Create(ctx, owners.CreateInput{Name: "Carr"})
	require.NoError(t, err)
	h, err := f.horses.Create(ctx, horses.CreateInput{Name: "Blaze", OwnerID: o.ID, VetID: &v.ID})
	require.NoError(t, err)
	require.NotNil(t, h.VetName)
	assert.Equal(t, "Dr. Hale", *h.VetName)

	got, err := f.vets.Get(ctx, v.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.HorseCount)

	require.NoError(t, f.vets.Delete(ctx, v.ID))
	d, err := f.horses.Get(ctx, admin, h.ID)
	require.NoError(t, err)
	assert.Nil(t, d.VetID)
}

func TestSessions_ExpiredRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	v, err := f.vets.Create(ctx, vets.CreateInput{Name: "Dr. Hale", PIN: "4321"})
	require.NoError(t, err)

	clock := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	svc := sessions.NewService(NewSessionsRepo(f.db), sessions.Options{
		AdminPIN: "0000",
		Now:      func() time.Time { return clock },
	})

	_, err = svc.Login(ctx, sessions.LoginInput{Role: auth.RoleVet, ID: v.ID, PIN: "1111"})
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)

	res, err := svc.Login(ctx, sessions.LoginInput{Role: auth.RoleVet, ID: v.ID, PIN: "4321"})
	require.NoError(t, err)

	who, err := svc.Verify(ctx, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "Dr. Hale", who.Name)

	clock = clock.Add(sessions.DefaultTTL + time.Minute)
	_, err = svc.Verify(ctx, res.Token)
	assert.ErrorIs(t, err, apperr.ErrUnauthorized)
	assert.Equal(t, 1, countRows(t, f.db, "sessions"), "expired row is still stored")

	_, err = svc.Login(ctx, sessions.LoginInput{Role: auth.RoleAdmin, PIN: "0000"})
	require.NoError(t, err)
	assert.Equal(t, 1, countRows(t, f.db, "sessions"), "login purges expired rows")

	accounts, err := svc.Accounts(ctx, auth.RoleVet)
	require.NoError(t, err)
	assert.Equal(t, []sessions.Account{{ID: v.ID, Name: "Dr. Hale"}}, accounts)
}
