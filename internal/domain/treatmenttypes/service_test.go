package treatmenttypes

import (
	"context"
	"testing"

	"horse-treatment-records/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRepo struct {
	items []TreatmentType
	names map[string]bool
}

func (r *testRepo) List(_ context.Context, category Category) ([]TreatmentType, error) {
	var out []TreatmentType
	for _, t := range r.items {
		if category == "" || t.Category == category {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *testRepo) NextSortOrder(_ context.Context) (int, error) {
	max := 0
	for _, t := range r.items {
		if t.SortOrder > max {
			max = t.SortOrder
		}
	}
	return max + 1, nil
}

func (r *testRepo) Create(_ context.Context, t TreatmentType) error {
	if r.names[t.Name] {
		return apperr.Conflict("treatment type %q already exists", t.Name)
	}
	r.names[t.Name] = true
	r.items = append(r.items, t)
	return nil
}

func TestService_Create(t *testing.T) {
	repo := &testRepo{names: map[string]bool{}, items: []TreatmentType{{ID: "a", Name: "Coggins", Category: CategoryTest, SortOrder: 7}}}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateInput{Name: "Tetanus", Category: "potion"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	_, err = svc.Create(ctx, CreateInput{Category: "vaccine"})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	bad := "red"
	_, err = svc.Create(ctx, CreateInput{Name: "Tetanus", Category: "vaccine", Color: &bad})
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)

	tt, err := svc.Create(ctx, CreateInput{Name: "Tetanus", Category: "Vaccine"})
	require.NoError(t, err)
	assert.Equal(t, CategoryVaccine, tt.Category)
	assert.Equal(t, 8, tt.SortOrder)

	order := 2
	tt, err = svc.Create(ctx, CreateInput{Name: "Chiro", Category: "maintenance", SortOrder: &order})
	require.NoError(t, err)
	assert.Equal(t, 2, tt.SortOrder)

	_, err = svc.Create(ctx, CreateInput{Name: "Tetanus", Category: "vaccine"})
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestService_List_Category(t *testing.T) {
	repo := &testRepo{names: map[string]bool{}, items: []TreatmentType{
		{ID: "a", Name: "Coggins", Category: CategoryTest},
		{ID: "b", Name: "Rabies", Category: CategoryVaccine},
	}}
	svc := NewService(repo)

	got, err := svc.List(context.Background(), "vaccine")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Rabies", got[0].Name)

	_, err = svc.List(context.Background(), "bogus")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
