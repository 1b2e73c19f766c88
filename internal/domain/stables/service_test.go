package stables

import (
	"context"
	"testing"

	"horse-treatment-records/internal/platform/apperr"
	"horse-treatment-records/internal/platform/patch"
	"horse-treatment-records/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	byID       map[string]Stable
	ownerCount map[string]int
	lastFilter ListFilter
}

func newTestRepo() *testRepo {
	return &testRepo{byID: map[string]Stable{}, ownerCount: map[string]int{}}
}

func (r *testRepo) List(_ context.Context, f ListFilter) ([]Stable, error) {
	r.lastFilter = f
	out := make([]Stable, 0)
	for _, s := range r.byID {
		if f.ID != "" && s.ID != f.ID {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *testRepo) GetByID(_ context.Context, id string) (Stable, error) {
	s, ok := r.byID[id]
	if !ok {
		return Stable{}, apperr.NotFound("stable not found")
	}
	return s, nil
}

func (r *testRepo) Create(_ context.Context, s Stable) error {
	r.byID[s.ID] = s
	return nil
}

func (r *testRepo) Update(_ context.Context, id string, p Patch) error {
	s, ok := r.byID[id]
	if !ok {
		return apperr.NotFound("stable not found")
	}
	if p.Name.Set {
		s.Name = p.Name.Or("")
	}
	if p.Notes.Set {
		s.Notes = p.Notes.Or("")
	}
	r.byID[id] = s
	return nil
}

func (r *testRepo) CountOwners(_ context.Context, id string) (int, error) {
	return r.ownerCount[id], nil
}

func (r *testRepo) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

func TestService_Create_RequiresName(t *testing.T) {
	svc := NewService(newTestRepo())

	_, err := svc.Create(context.Background(), CreateInput{Name: "   "})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	s, err := svc.Create(context.Background(), CreateInput{Name: " Hillside ", PIN: "1234"})
	require.NoError(t, err)
	assert.Equal(t, "Hillside", s.Name)
	assert.True(t, s.Active)
	assert.NotEmpty(t, s.ID)
}

func TestService_Update_Validation(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	s, err := svc.Create(context.Background(), CreateInput{Name: "Hillside"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), s.ID, Patch{})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput, "no-op patch must be rejected")

	_, err = svc.Update(context.Background(), s.ID, Patch{Name: patch.Null[string]()})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Update(context.Background(), s.ID, Patch{Active: patch.Null[bool]()})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	updated, err := svc.Update(context.Background(), s.ID, Patch{Notes: patch.Of("gate code 42")})
	require.NoError(t, err)
	assert.Equal(t, "gate code 42", updated.Notes)
	assert.Equal(t, "Hillside", updated.Name)
}

func TestService_Delete_BlockedByOwners(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	s, err := svc.Create(context.Background(), CreateInput{Name: "Hillside"})
	require.NoError(t, err)
	repo.ownerCount[s.ID] = 2

	err = svc.Delete(context.Background(), s.ID)
	assert.ErrorIs(t, err, apperr.ErrBlocked)
	assert.Contains(t, err.Error(), "2 owner(s)")

	repo.ownerCount[s.ID] = 0
	require.NoError(t, svc.Delete(context.Background(), s.ID))
	assert.Empty(t, repo.byID)
}

func TestService_StableRoleSeesOnlyItself(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)
	a, _ := svc.Create(context.Background(), CreateInput{Name: "A"})
	b, _ := svc.Create(context.Background(), CreateInput{Name: "B"})

	who := auth.Identity{Role: auth.RoleStable, ID: a.ID}

	items, err := svc.List(context.Background(), who, ListFilter{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, a.ID, items[0].ID)

	_, err = svc.Get(context.Background(), who, b.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
