package treatmenttypes

import (
	"context"
	"regexp"
	"strings"

	"horse-treatment-records/internal/platform/apperr"

	"github.com/google/uuid"
)

var colorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name      string
	Category  string
	SortOrder *int
	Color     *string
}

func (s *Service) List(ctx context.Context, category string) ([]TreatmentType, error) {
	c := Category(strings.ToLower(strings.TrimSpace(category)))
	if c != "" && !c.Valid() {
		return nil, apperr.Invalid("unknown category %q", category)
	}
	return s.repo.List(ctx, c)
}

// Create agrega una columna. Sin sort_order explícito el tipo va al final.
func (s *Service) Create(ctx context.Context, in CreateInput) (TreatmentType, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return TreatmentType{}, apperr.Invalid("name is required")
	}
	c := Category(strings.ToLower(strings.TrimSpace(in.Category)))
	if !c.Valid() {
		return TreatmentType{}, apperr.Invalid("category must be one of vaccine, test, maintenance, injection")
	}

	var color *string
	if in.Color != nil {
		v := strings.TrimSpace(*in.Color)
		if v != "" {
			if !colorRe.MatchString(v) {
				return TreatmentType{}, apperr.Invalid("color must look like #rrggbb")
			}
			color = &v
		}
	}

	order := 0
	if in.SortOrder != nil {
		order = *in.SortOrder
	} else {
		next, err := s.repo.NextSortOrder(ctx)
		if err != nil {
			return TreatmentType{}, err
		}
		order = next
	}

	t := TreatmentType{
		ID:        uuid.NewString(),
		Name:      name,
		Category:  c,
		SortOrder: order,
		Color:     color,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return TreatmentType{}, err
	}
	return t, nil
}
