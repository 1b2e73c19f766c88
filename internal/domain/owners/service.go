package owners

import (
	"context"
	"strings"

	"horse-treatment-records/internal/platform/apperr"
	"horse-treatment-records/internal/ports/auth"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name     string
	Contact  string
	Notes    string
	StableID *string
}

func (s *Service) List(ctx context.Context, who auth.Identity, f ListFilter) ([]Owner, error) {
	if scope := who.StableScope(); scope != "" {
		f.StableID = scope
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, who auth.Identity, id string) (Owner, error) {
	o, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Owner{}, err
	}
	if !visible(who, o) {
		return Owner{}, apperr.NotFound("owner not found")
	}
	return o, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Owner, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Owner{}, apperr.Invalid("name is required")
	}

	o := Owner{
		ID:       uuid.NewString(),
		Name:     name,
		Contact:  strings.TrimSpace(in.Contact),
		Notes:    strings.TrimSpace(in.Notes),
		StableID: blankToNil(in.StableID),
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return Owner{}, err
	}
	return s.repo.GetByID(ctx, o.ID)
}

func (s *Service) Update(ctx context.Context, id string, p Patch) (Owner, error) {
	if p.Empty() {
		return Owner{}, apperr.Invalid("no updatable fields provided")
	}
	if p.Name.Set && strings.TrimSpace(p.Name.Or("")) == "" {
		return Owner{}, apperr.Invalid("name cannot be empty")
	}
	if p.StableID.Set {
		p.StableID.Value = blankToNil(p.StableID.Value)
	}
	if err := s.repo.Update(ctx, id, p); err != nil {
		return Owner{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete se rechaza mientras el dueño tenga caballos; el mensaje lleva la cantidad.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.repo.CountHorses(ctx, id)
	if err != nil {
		return err
	}
	if n.Active > 0 {
		return apperr.Blocked("cannot delete owner: %d active horse(s) still assigned", n.Active)
	}
	if n.Inactive > 0 {
		return apperr.Blocked("cannot delete owner: %d inactive horse(s) still hold treatment history; delete them first", n.Inactive)
	}
	return s.repo.Delete(ctx, id)
}

func visible(who auth.Identity, o Owner) bool {
	scope := who.StableScope()
	if scope == "" {
		return true
	}
	return o.StableID != nil && *o.StableID == scope
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
