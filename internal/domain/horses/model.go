package horses

import (
	"strings"
	"time"

	"horse-treatment-records/internal/platform/patch"
)

type Horse struct {
	ID       string
	Name     string
	BarnName *string
	OwnerID  string
	VetID    *string
	Notes    string
	Active   bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// Join para mostrar.
	OwnerName      string
	VetName        *string
	StableID       *string
	StableName     *string
	TreatmentCount int
}

// TreatmentEntry es un tratamiento registrado, anidado en la consulta de un caballo.
type TreatmentEntry struct {
	ID              string
	TreatmentTypeID string
	TypeName        string
	Category        string
	Date            *string
	Notes           *string
	UpdatedAt       time.Time
}

type Detail struct {
	Horse
	Treatments []TreatmentEntry
}

// ActiveFilter filtra caballos por su flag active. El valor cero lista solo activos.
type ActiveFilter int

const (
	ActiveOnly ActiveFilter = iota
	InactiveOnly
	AnyActive
)

type ListFilter struct {
	Search    string // nombre, nombre de box o nombre del dueño
	OwnerName string
	OwnerID   string
	StableID  string
	VetID     string
	Active    ActiveFilter
	Sort      string
}

const (
	SortName     = "name"
	SortBarnName = "barn_name"
	SortOwner    = "owner"
	SortStable   = "stable"
	SortUpdated  = "updated"
	SortCreated  = "created"
)

// NormalizeSort lleva cualquier clave de orden a la allow-list; por defecto name.
func NormalizeSort(key string) string {
	switch key {
	case SortName, SortBarnName, SortOwner, SortStable, SortUpdated, SortCreated:
		return key
	}
	return SortName
}

type Patch struct {
	Name     patch.Field[string] `json:"name"`
	BarnName patch.Field[string] `json:"barn_name"`
	OwnerID  patch.Field[string] `json:"owner_id"`
	VetID    patch.Field[string] `json:"vet_id"`
	Notes    patch.Field[string] `json:"notes"`
	Active   patch.Field[bool]   `json:"active"`
}

func (p Patch) Empty() bool {
	return !p.Name.Set && !p.BarnName.Set && !p.OwnerID.Set && !p.VetID.Set && !p.Notes.Set && !p.Active.Set
}

// ParseActive lee ?active=: "" o "true" (default), "false" o "all".
func ParseActive(raw string) (ActiveFilter, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "true", "1":
		return ActiveOnly, true
	case "false", "0":
		return InactiveOnly, true
	case "all":
		return AnyActive, true
	}
	return ActiveOnly, false
}
