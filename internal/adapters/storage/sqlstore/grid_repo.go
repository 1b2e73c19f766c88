package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"horse-treatment-records/internal/domain/grid"
	"horse-treatment-records/internal/domain/horses"
	"horse-treatment-records/internal/domain/treatmenttypes"
)

type GridRepo struct {
	db *DB
}

func NewGridRepo(db *DB) *GridRepo {
	return &GridRepo{db: db}
}

// Cells devuelve los tratamientos de los caballos que listaría el mismo filtro.
func (r *GridRepo) Cells(ctx context.Context, f horses.ListFilter, category treatmenttypes.Category) ([]grid.Cell, error) {
	where, args := horseWhere(f)
	if category != "" {
		if where == "" {
			where = " WHERE tt.category = ?"
		} else {
			where += " AND tt.category = ?"
		}
		args = append(args, string(category))
	}

	rows, err := r.db.conn().query(ctx, `
		SELECT t.id, t.horse_id, t.treatment_type_id, t.treatment_date, t.notes
		FROM treatments t
		JOIN horses h ON h.id = t.horse_id
		JOIN owners o ON o.id = h.owner_id
		JOIN treatment_types tt ON tt.id = t.treatment_type_id
	`+where, args...)
	if err != nil {
		return nil, fmt.Errorf("grid cells: %w", err)
	}
	defer rows.Close()

	out := make([]grid.Cell, 0)
	for rows.Next() {
		var (
			c           grid.Cell
			date, notes sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.HorseID, &c.TreatmentTypeID, &date, &notes); err != nil {
			return nil, err
		}
		c.Date = nullString(date)
		c.Notes = nullString(notes)
		out = append(out, c)
	}
	return out, rows.Err()
}
