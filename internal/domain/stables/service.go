package stables

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
	Name    string
	Contact string
	Address string
	Notes   string
	PIN     string
}

// List aplica el scope del llamador: una cuenta de establo solo se ve a sí misma.
func (s *Service) List(ctx context.Context, who auth.Identity, f ListFilter) ([]Stable, error) {
	if scope := who.StableScope(); scope != "" {
		f.ID = scope
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, who auth.Identity, id string) (Stable, error) {
	if scope := who.StableScope(); scope != "" && scope != id {
		return Stable{}, apperr.NotFound("stable not found")
	}
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Stable, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Stable{}, apperr.Invalid("name is required")
	}

	st := Stable{
		ID:      uuid.NewString(),
		Name:    name,
		Contact: strings.TrimSpace(in.Contact),
		Address: strings.TrimSpace(in.Address),
		Notes:   strings.TrimSpace(in.Notes),
		PIN:     strings.TrimSpace(in.PIN),
		Active:  true,
	}
	if err := s.repo.Create(ctx, st); err != nil {
		return Stable{}, err
	}
	return st, nil
}

func (s *Service) Update(ctx context.Context, id string, p Patch) (Stable, error) {
	if p.Empty() {
		return Stable{}, apperr.Invalid("no updatable fields provided")
	}
	if p.Name.Set && strings.TrimSpace(p.Name.Or("")) == "" {
		return Stable{}, apperr.Invalid("name cannot be empty")
	}
	if p.Active.Set && p.Active.Value == nil {
		return Stable{}, apperr.Invalid("active cannot be null")
	}
	if err := s.repo.Update(ctx, id, p); err != nil {
		return Stable{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete se rechaza mientras haya dueños que referencien el establo.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	n, err := s.repo.CountOwners(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return apperr.Blocked("cannot delete stable: %d owner(s) still assigned", n)
	}
	return s.repo.Delete(ctx, id)
}
