package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"horse-treatment-records/internal/domain/treatmenttypes"
	"horse-treatment-records/internal/platform/apperr"
)

type TreatmentTypesRepo struct {
	db *DB
}

func NewTreatmentTypesRepo(db *DB) *TreatmentTypesRepo {
	return &TreatmentTypesRepo{db: db}
}

func (r *TreatmentTypesRepo) List(ctx context.Context, category treatmenttypes.Category) ([]treatmenttypes.TreatmentType, error) {
	q := `
		SELECT tt.id, tt.name, tt.category, tt.sort_order, tt.color, COUNT(t.id)
		FROM treatment_types tt
		LEFT JOIN treatments t ON t.treatment_type_id = tt.id
	`
	var args []any
	if category != "" {
		q += " WHERE tt.category = ?"
		args = append(args, string(category))
	}
	q += " GROUP BY tt.id ORDER BY tt.sort_order, LOWER(tt.name)"

	rows, err := r.db.conn().query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list treatment types: %w", err)
	}
	defer rows.Close()

	out := make([]treatmenttypes.TreatmentType, 0)
	for rows.Next() {
		var (
			t     treatmenttypes.TreatmentType
			cat   string
			color sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Name, &cat, &t.SortOrder, &color, &t.TreatmentCount); err != nil {
			return nil, err
		}
		t.Category = treatmenttypes.Category(cat)
		t.Color = nullString(color)
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TreatmentTypesRepo) NextSortOrder(ctx context.Context) (int, error) {
	var n int
	err := r.db.conn().queryRow(ctx, "SELECT COALESCE(MAX(sort_order), 0) + 1 FROM treatment_types").Scan(&n)
	return n, err
}

func (r *TreatmentTypesRepo) Create(ctx context.Context, t treatmenttypes.TreatmentType) error {
	_, err := r.db.conn().exec(ctx, `
		INSERT INTO treatment_types (id, name, category, sort_order, color)
		VALUES (?, ?, ?, ?, ?)
	`, t.ID, t.Name, string(t.Category), t.SortOrder, nullable(t.Color))
	if isUnique(err) {
		return apperr.Conflict("treatment type %q already exists", t.Name)
	}
	return err
}
