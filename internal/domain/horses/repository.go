package horses

import (
	"context"
	"time"
)

type Repository interface {
	List(ctx context.Context, f ListFilter) ([]Horse, error)
	GetByID(ctx context.Context, id string) (Horse, error)
	Treatments(ctx context.Context, horseID string) ([]TreatmentEntry, error)
	Create(ctx context.Context, h Horse) error
	Update(ctx context.Context, id string, p Patch, at time.Time) error
	// Delete borra el caballo y, en cascada, sus tratamientos.
	Delete(ctx context.Context, id string) error
}
