package grid

import (
	"context"

	"horse-treatment-records/internal/domain/horses"
	"horse-treatment-records/internal/domain/treatmenttypes"
)

// Repository devuelve los tratamientos de los caballos que cumplen f, limitado a
// los tipos de category cuando viene una.
type Repository interface {
	Cells(ctx context.Context, f horses.ListFilter, category treatmenttypes.Category) ([]Cell, error)
}

type HorseLister interface {
	List(ctx context.Context, f horses.ListFilter) ([]horses.Horse, error)
}

type TypeLister interface {
	List(ctx context.Context, category treatmenttypes.Category) ([]treatmenttypes.TreatmentType, error)
}
