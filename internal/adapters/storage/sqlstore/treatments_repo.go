package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"horse-treatment-records/internal/domain/treatments"
	"horse-treatment-records/internal/platform/apperr"

	"github.com/google/uuid"
)

type TreatmentsRepo struct {
	db *DB
}

func NewTreatmentsRepo(db *DB) *TreatmentsRepo {
	return &TreatmentsRepo{db: db}
}

// Una sentencia por par; UNIQUE (horse_id, treatment_type_id) es el target del conflicto.
const upsertTreatment = `
	INSERT INTO treatments (id, horse_id, treatment_type_id, treatment_date, notes, updated_at)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT (horse_id, treatment_type_id) DO UPDATE SET
		treatment_date = excluded.treatment_date,
		notes = excluded.notes,
		updated_at = excluded.updated_at
	RETURNING id
`

func upsertOne(ctx context.Context, c conn, in treatments.UpsertInput, at time.Time) (string, error) {
	var id string
	err := c.queryRow(ctx, upsertTreatment,
		uuid.NewString(), in.HorseID, in.TreatmentTypeID, nullable(in.Date), nullable(in.Notes), at,
	).Scan(&id)
	if err != nil {
		if isForeignKey(err) {
			return "", apperr.NotFound("horse or treatment type not found")
		}
		return "", fmt.Errorf("upsert treatment: %w", err)
	}

	if _, err := c.exec(ctx, "UPDATE horses SET updated_at = ? WHERE id = ?", at, in.HorseID); err != nil {
		return "", fmt.Errorf("touch horse: %w", err)
	}
	return id, nil
}

func (r *TreatmentsRepo) Upsert(ctx context.Context, in treatments.UpsertInput, at time.Time) (string, error) {
	var id string
	err := r.db.inTx(ctx, func(c conn) error {
		var err error
		id, err = upsertOne(ctx, c, in, utc(at))
		return err
	})
	return id, err
}

func (r *TreatmentsRepo) UpsertBatch(ctx context.Context, items []treatments.UpsertInput, at time.Time) ([]string, error) {
	ids := make([]string, 0, len(items))
	err := r.db.inTx(ctx, func(c conn) error {
		for i, in := range items {
			id, err := upsertOne(ctx, c, in, utc(at))
			if err != nil {
				if errors.Is(err, apperr.ErrNotFound) {
					return apperr.NotFound("item %d: %s", i, apperr.Message(err))
				}
				return fmt.Errorf("item %d: %w", i, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *TreatmentsRepo) GetByID(ctx context.Context, id string) (treatments.Treatment, error) {
	var (
		t           treatments.Treatment
		date, notes sql.NullString
	)
	err := r.db.conn().queryRow(ctx, `
		SELECT id, horse_id, treatment_type_id, treatment_date, notes, updated_at
		FROM treatments WHERE id = ?
	`, id).Scan(&t.ID, &t.HorseID, &t.TreatmentTypeID, &date, &notes, &t.UpdatedAt)
	if err != nil {
		if isNoRows(err) {
			return treatments.Treatment{}, apperr.NotFound("treatment not found")
		}
		return treatments.Treatment{}, err
	}
	t.Date = nullString(date)
	t.Notes = nullString(notes)
	t.UpdatedAt = t.UpdatedAt.UTC()
	return t, nil
}

// Delete borra la fila y la celda vuelve a "nunca hecho".
func (r *TreatmentsRepo) Delete(ctx context.Context, id string, at time.Time) error {
	return r.db.inTx(ctx, func(c conn) error {
		var horseID string
		err := c.queryRow(ctx, "DELETE FROM treatments WHERE id = ? RETURNING horse_id", id).Scan(&horseID)
		if err != nil {
			if isNoRows(err) {
				return apperr.NotFound("treatment not found")
			}
			return err
		}
		_, err = c.exec(ctx, "UPDATE horses SET updated_at = ? WHERE id = ?", utc(at), horseID)
		return err
	})
}
