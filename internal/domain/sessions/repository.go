package sessions

import (
	"context"
	"time"

	"horse-treatment-records/internal/ports/auth"
)

type Repository interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, token string) (Session, error)
	Delete(ctx context.Context, token string) error
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)

	// Credential carga una fila de vet o establo por id.
	Credential(ctx context.Context, role auth.Role, id string) (Credential, error)
	// Accounts lista los vets o establos activos por nombre.
	Accounts(ctx context.Context, role auth.Role) ([]Account, error)
}
