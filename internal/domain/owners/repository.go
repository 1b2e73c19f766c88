package owners

import "context"

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Owner, error)
	GetByID(ctx context.Context, id string) (Owner, error)
	Create(ctx context.Context, o Owner) error
	Update(ctx context.Context, id string, p Patch) error
	CountHorses(ctx context.Context, id string) (HorseCounts, error)
	Delete(ctx context.Context, id string) error
}
