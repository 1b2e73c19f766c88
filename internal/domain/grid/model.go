package grid

import (
	"horse-treatment-records/internal/domain/horses"
	"horse-treatment-records/internal/domain/treatmenttypes"
)

// Cell es una fila de tratamiento existente en un cruce caballo/tipo.
type Cell struct {
	ID              string
	HorseID         string
	TreatmentTypeID string
	Date            *string
	Notes           *string
}

type Filter struct {
	Search    string
	OwnerName string
	Category  string
	StableID  string
	Sort      string
}

// Grid tiene columnas, filas y celdas dispersas indexadas por id de caballo
// y luego por id de tipo. Una celda ausente nunca se hizo.
type Grid struct {
	Types  []treatmenttypes.TreatmentType
	Horses []horses.Horse
	Cells  map[string]map[string]Cell
}

// Cell busca un cruce.
func (g Grid) Cell(horseID, typeID string) (Cell, bool) {
	c, ok := g.Cells[horseID][typeID]
	return c, ok
}
