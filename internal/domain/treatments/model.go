package treatments

import "time"

// DateLayout es el formato de fecha de tratamiento en la API y en storage.
const DateLayout = "2006-01-02"

// Treatment es el único registro de un par (caballo, tipo de tratamiento).
type Treatment struct {
	ID              string
	HorseID         string
	TreatmentTypeID string
	Date            *string
	Notes           *string
	UpdatedAt       time.Time
}

// UpsertInput pisa fecha y notas del par. Date nil registra "hecho, fecha desconocida";
// Notes nil borra la nota.
type UpsertInput struct {
	HorseID         string  `json:"horse_id"`
	TreatmentTypeID string  `json:"treatment_type_id"`
	Date            *string `json:"treatment_date"`
	Notes           *string `json:"notes"`
}
