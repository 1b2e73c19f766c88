package treatmenttypes

import "context"

type Repository interface {
	// List ordena por sort_order y luego name; category vacía lista todos los tipos.
	List(ctx context.Context, category Category) ([]TreatmentType, error)
	NextSortOrder(ctx context.Context) (int, error)
	Create(ctx context.Context, t TreatmentType) error
}
