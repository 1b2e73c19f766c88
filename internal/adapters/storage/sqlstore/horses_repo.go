package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"horse-treatment-records/internal/domain/horses"
	"horse-treatment-records/internal/platform/apperr"
)

type HorsesRepo struct {
	db *DB
}

func NewHorsesRepo(db *DB) *HorsesRepo {
	return &HorsesRepo{db: db}
}

const horseSelect = `
	SELECT h.id, h.name, h.barn_name, h.owner_id, h.vet_id, h.notes, h.active,
		h.created_at, h.updated_at,
		o.name, v.name, s.id, s.name, COUNT(t.id)
	FROM horses h
	JOIN owners o ON o.id = h.owner_id
	LEFT JOIN vets v ON v.id = h.vet_id
	LEFT JOIN stables s ON s.id = o.stable_id
	LEFT JOIN treatments t ON t.horse_id = h.id
`

const horseGroupBy = " GROUP BY h.id, o.id, v.id, s.id"

var horseOrder = map[string]string{
	horses.SortName:     "LOWER(h.name), h.id",
	horses.SortBarnName: "LOWER(COALESCE(h.barn_name, h.name)), h.id",
	horses.SortOwner:    "LOWER(o.name), LOWER(h.name), h.id",
	horses.SortStable:   "LOWER(COALESCE(s.name, '')), LOWER(h.name), h.id",
	horses.SortUpdated:  "h.updated_at DESC, h.id",
	horses.SortCreated:  "h.created_at DESC, h.id",
}

// horseWhere arma el filtro sobre horses h join owners o. La grilla lo reutiliza.
func horseWhere(f horses.ListFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	switch f.Active {
	case horses.ActiveOnly:
		where = append(where, "h.active = ?")
		args = append(args, true)
	case horses.InactiveOnly:
		where = append(where, "h.active = ?")
		args = append(args, false)
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		where = append(where, "(LOWER(h.name) LIKE ? OR LOWER(COALESCE(h.barn_name, '')) LIKE ? OR LOWER(o.name) LIKE ?)")
		args = append(args, p, p, p)
	}
	if f.OwnerName != "" {
		where = append(where, "LOWER(o.name) LIKE ?")
		args = append(args, likePattern(f.OwnerName))
	}
	if f.OwnerID != "" {
		where = append(where, "h.owner_id = ?")
		args = append(args, f.OwnerID)
	}
	if f.StableID != "" {
		where = append(where, "o.stable_id = ?")
		args = append(args, f.StableID)
	}
	if f.VetID != "" {
		where = append(where, "h.vet_id = ?")
		args = append(args, f.VetID)
	}
	if len(where) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(where, " AND "), args
}

func scanHorse(sc interface{ Scan(...any) error }) (horses.Horse, error) {
	var (
		h                                  horses.Horse
		barn, vetID, vetName, stID, stName sql.NullString
	)
	err := sc.Scan(&h.ID, &h.Name, &barn, &h.OwnerID, &vetID, &h.Notes, &h.Active,
		&h.CreatedAt, &h.UpdatedAt,
		&h.OwnerName, &vetName, &stID, &stName, &h.TreatmentCount)
	if err != nil {
		return horses.Horse{}, err
	}
	h.BarnName = nullString(barn)
	h.VetID = nullString(vetID)
	h.VetName = nullString(vetName)
	h.StableID = nullString(stID)
	h.StableName = nullString(stName)
	h.CreatedAt = h.CreatedAt.UTC()
	h.UpdatedAt = h.UpdatedAt.UTC()
	return h, nil
}

func (r *HorsesRepo) List(ctx context.Context, f horses.ListFilter) ([]horses.Horse, error) {
	where, args := horseWhere(f)
	order, ok := horseOrder[f.Sort]
	if !ok {
		order = horseOrder[horses.SortName]
	}

	rows, err := r.db.conn().query(ctx, horseSelect+where+horseGroupBy+" ORDER BY "+order, args...)
	if err != nil {
		return nil, fmt.Errorf("list horses: %w", err)
	}
	defer rows.Close()

	out := make([]horses.Horse, 0)
	for rows.Next() {
		h, err := scanHorse(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, rows.Err()
}

func (r *HorsesRepo) GetByID(ctx context.Context, id string) (horses.Horse, error) {
	h, err := scanHorse(r.db.conn().queryRow(ctx, horseSelect+" WHERE h.id = ?"+horseGroupBy, id))
	if err != nil {
		if isNoRows(err) {
			return horses.Horse{}, apperr.NotFound("horse not found")
		}
		return horses.Horse{}, err
	}
	return h, nil
}

func (r *HorsesRepo) Treatments(ctx context.Context, horseID string) ([]horses.TreatmentEntry, error) {
	rows, err := r.db.conn().query(ctx, `
		SELECT t.id, t.treatment_type_id, tt.name, tt.category, t.treatment_date, t.notes, t.updated_at
		FROM treatments t
		JOIN treatment_types tt ON tt.id = t.treatment_type_id
		WHERE t.horse_id = ?
		ORDER BY tt.sort_order, LOWER(tt.name)
	`, horseID)
	if err != nil {
		return nil, fmt.Errorf("horse treatments: %w", err)
	}
	defer rows.Close()

	out := make([]horses.TreatmentEntry, 0)
	for rows.Next() {
		var (
			e           horses.TreatmentEntry
			date, notes sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.TreatmentTypeID, &e.TypeName, &e.Category, &date, &notes, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Date = nullString(date)
		e.Notes = nullString(notes)
		e.UpdatedAt = e.UpdatedAt.UTC()
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *HorsesRepo) Create(ctx context.Context, h horses.Horse) error {
	_, err := r.db.conn().exec(ctx, `
		INSERT INTO horses (id, name, barn_name, owner_id, vet_id, notes, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, h.ID, h.Name, nullable(h.BarnName), h.OwnerID, nullable(h.VetID), h.Notes, h.Active,
		utc(h.CreatedAt), utc(h.UpdatedAt))
	return horseWriteErr(err)
}

func (r *HorsesRepo) Update(ctx context.Context, id string, p horses.Patch, at time.Time) error {
	var a assignments
	if p.Name.Set {
		a.set("name", text(p.Name))
	}
	if p.BarnName.Set {
		a.set("barn_name", nullableText(p.BarnName))
	}
	if p.OwnerID.Set {
		a.set("owner_id", text(p.OwnerID))
	}
	if p.VetID.Set {
		a.set("vet_id", nullableText(p.VetID))
	}
	if p.Notes.Set {
		a.set("notes", text(p.Notes))
	}
	if p.Active.Set {
		a.set("active", p.Active.Or(true))
	}
	a.set("updated_at", utc(at))

	res, err := r.db.conn().exec(ctx, "UPDATE horses SET "+a.clause()+" WHERE id = ?", append(a.args, id)...)
	if err != nil {
		return horseWriteErr(err)
	}
	if affected(res) == 0 {
		return apperr.NotFound("horse not found")
	}
	return nil
}

func horseWriteErr(err error) error {
	if err != nil && isForeignKey(err) {
		return apperr.Reference("owner or vet does not exist")
	}
	return err
}

func (r *HorsesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.conn().exec(ctx, "DELETE FROM horses WHERE id = ?", id)
	if err != nil {
		return err
	}
	if affected(res) == 0 {
		return apperr.NotFound("horse not found")
	}
	return nil
}
