package vets

import "context"

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Vet, error)
	GetByID(ctx context.Context, id string) (Vet, error)
	Create(ctx context.Context, v Vet) error
	Update(ctx context.Context, id string, p Patch) error
	Delete(ctx context.Context, id string) error
}
