package stables

import "context"

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Stable, error)
	GetByID(ctx context.Context, id string) (Stable, error)
	Create(ctx context.Context, s Stable) error
	Update(ctx context.Context, id string, p Patch) error
	CountOwners(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}
