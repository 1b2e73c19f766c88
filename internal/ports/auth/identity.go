package auth

import "context"

type Role string

const (
	RoleVet    Role = "vet"
	RoleStable Role = "stable"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleVet, RoleStable, RoleAdmin:
		return true
	}
	return false
}

// Identity es el llamador resuelto a partir de un token de sesión.
type Identity struct {
	Role Role
	ID   string // id de fila en vets o stables; "admin" para el administrador
	Name string
}

// CanWrite indica si el llamador puede modificar caballos, dueños y tratamientos.
func (i Identity) CanWrite() bool {
	return i.Role == RoleAdmin || i.Role == RoleVet
}

// StableScope devuelve el id del establo al que está restringido, o "" si no hay restricción.
func (i Identity) StableScope() string {
	if i.Role == RoleStable {
		return i.ID
	}
	return ""
}

// Verifier resuelve un bearer token en una Identity.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}
