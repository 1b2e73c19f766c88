package treatments

import (
	"context"
	"time"
)

type Repository interface {
	// Upsert escribe el par en una sola sentencia con ON CONFLICT y actualiza el
	// updated_at del caballo en la misma transacción. Devuelve el id de la fila.
	Upsert(ctx context.Context, in UpsertInput, at time.Time) (string, error)
	// UpsertBatch aplica todo en una transacción; cualquier fallo revierte todo.
	UpsertBatch(ctx context.Context, items []UpsertInput, at time.Time) ([]string, error)
	GetByID(ctx context.Context, id string) (Treatment, error)
	// Delete borra la fila y actualiza el updated_at del caballo.
	Delete(ctx context.Context, id string, at time.Time) error
}
