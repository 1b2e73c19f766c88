package vets

import (
	"context"
	"strings"

	"horse-treatment-records/internal/platform/apperr"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name  string
	Email string
	Phone string
	PIN   string
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Vet, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id string) (Vet, error) {
	return s.repo.GetByID(ctx, strings.TrimSpace(id))
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Vet, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Vet{}, apperr.Invalid("name is required")
	}

	v := Vet{
		ID:     uuid.NewString(),
		Name:   name,
		Email:  strings.TrimSpace(in.Email),
		Phone:  strings.TrimSpace(in.Phone),
		PIN:    strings.TrimSpace(in.PIN),
		Active: true,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return Vet{}, err
	}
	return v, nil
}

func (s *Service) Update(ctx context.Context, id string, p Patch) (Vet, error) {
	if p.Empty() {
		return Vet{}, apperr.Invalid("no updatable fields provided")
	}
	if p.Name.Set && strings.TrimSpace(p.Name.Or("")) == "" {
		return Vet{}, apperr.Invalid("name cannot be empty")
	}
	if p.Active.Set && p.Active.Value == nil {
		return Vet{}, apperr.Invalid("active cannot be null")
	}
	if err := s.repo.Update(ctx, id, p); err != nil {
		return Vet{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Delete borra el vet; sus caballos quedan sin vet.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
