package sessions

import (
	"time"

	"horse-treatment-records/internal/ports/auth"
)

// AdminID es el ref_id que se guarda en las sesiones de administrador.
const AdminID = "admin"

type Session struct {
	Token     string
	Role      auth.Role
	RefID     string
	ExpiresAt time.Time
}

// Credential es la vista de una fila de vet o establo que importa para el login.
type Credential struct {
	ID     string
	Name   string
	PIN    string
	Active bool
}

// Account es lo que muestra el selector de login.
type Account struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type LoginInput struct {
	Role auth.Role `json:"role"`
	ID   string    `json:"id"`
	PIN  string    `json:"pin"`
}

type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Identity  auth.Identity
}
