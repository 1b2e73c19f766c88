package treatments

import (
	"context"
	"testing"
	"time"

	"horse-treatment-records/internal/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pair struct{ horse, typ string }

// testRepo indexa las filas por par, igual que la constraint unique.
type testRepo struct {
	rows    map[pair]Treatment
	horses  map[string]bool
	batches int
}

func newTestRepo(horses ...string) *testRepo {
	r := &testRepo{rows: map[pair]Treatment{}, horses: map[string]bool{}}
	for _, h := range horses {
		r.horses[h] = true
	}
	return r
}

func (r *testRepo) Upsert(_ context.Context, in UpsertInput, at time.Time) (string, error) {
	if !r.horses[in.HorseID] {
		return "", apperr.NotFound("horse or treatment type not found")
	}
	k := pair{in.HorseID, in.TreatmentTypeID}
	t, ok := r.rows[k]
	if !ok {
		t = Treatment{ID: uuid.NewString(), HorseID: in.HorseID, TreatmentTypeID: in.TreatmentTypeID}
	}
	t.Date = in.Date
	t.Notes = in.Notes
	t.UpdatedAt = at
	r.rows[k] = t
	return t.ID, nil
}

func (r *testRepo) UpsertBatch(ctx context.Context, items []UpsertInput, at time.Time) ([]string, error) {
	r.batches++
	snapshot := make(map[pair]Treatment, len(r.rows))
	for k, v := range r.rows {
		snapshot[k] = v
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		id, err := r.Upsert(ctx, it, at)
		if err != nil {
			r.rows = snapshot
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Treatment, error) {
	for _, t := range r.rows {
		if t.ID == id {
			return t, nil
		}
	}
	return Treatment{}, apperr.NotFound("treatment not found")
}

func (r *testRepo) Delete(_ context.Context, id string, _ time.Time) error {
	for k, t := range r.rows {
		if t.ID == id {
			delete(r.rows, k)
			return nil
		}
	}
	return apperr.NotFound("treatment not found")
}

func str(s string) *string { return &s }

func newTestService(repo *testRepo) *Service {
	return NewService(repo, func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) })
}

func TestService_Upsert_SameRowTwice(t *testing.T) {
	repo := newTestRepo("h1")
	svc := newTestService(repo)
	ctx := context.Background()

	first, err := svc.Upsert(ctx, UpsertInput{HorseID: "h1", TreatmentTypeID: "coggins", Date: str("2023-01-01"), Notes: str("neg")})
	require.NoError(t, err)

	second, err := svc.Upsert(ctx, UpsertInput{HorseID: "h1", TreatmentTypeID: "coggins", Date: str("2024-01-01")})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "2024-01-01", *second.Date)
	assert.Nil(t, second.Notes, "upsert overwrites notes along with the date")
	assert.Len(t, repo.rows, 1)
}

func TestService_Upsert_Validation(t *testing.T) {
	svc := newTestService(newTestRepo("h1"))
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertInput{TreatmentTypeID: "x"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = svc.Upsert(ctx, UpsertInput{HorseID: "h1"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
	_, err = svc.Upsert(ctx, UpsertInput{HorseID: "h1", TreatmentTypeID: "x", Date: str("01/02/2024")})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	got, err := svc.Upsert(ctx, UpsertInput{HorseID: "h1", TreatmentTypeID: "x", Date: str(" ")})
	require.NoError(t, err)
	assert.Nil(t, got.Date, "blank date is stored as null")

	_, err = svc.Upsert(ctx, UpsertInput{HorseID: "nope", TreatmentTypeID: "x"})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestService_Batch(t *testing.T) {
	repo := newTestRepo("h1", "h2")
	svc := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Batch(ctx, nil)
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Batch(ctx, []UpsertInput{
		{HorseID: "h1", TreatmentTypeID: "a", Date: str("2024-01-01")},
		{HorseID: "h2", TreatmentTypeID: "", Date: str("2024-01-01")},
	})
	require.ErrorIs(t, err, apperr.ErrInvalidInput)
	assert.Contains(t, err.Error(), "item 1")
	assert.Zero(t, repo.batches, "invalid items never reach storage")

	_, err = svc.Batch(ctx, []UpsertInput{
		{HorseID: "h1", TreatmentTypeID: "a", Date: str("2024-01-01")},
		{HorseID: "ghost", TreatmentTypeID: "a", Date: str("2024-01-01")},
	})
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	assert.Empty(t, repo.rows)

	out, err := svc.Batch(ctx, []UpsertInput{
		{HorseID: "h1", TreatmentTypeID: "a", Date: str("2024-01-01")},
		{HorseID: "h2", TreatmentTypeID: "a", Date: str("2024-02-01")},
	})
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Len(t, repo.rows, 2)
}

func TestService_Delete(t *testing.T) {
	repo := newTestRepo("h1")
	svc := newTestService(repo)
	ctx := context.Background()

	tr, err := svc.Upsert(ctx, UpsertInput{HorseID: "h1", TreatmentTypeID: "a", Date: str("2024-01-01")})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, tr.ID))
	assert.Empty(t, repo.rows)
	assert.ErrorIs(t, svc.Delete(ctx, tr.ID), apperr.ErrNotFound)
}
