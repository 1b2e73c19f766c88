package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"horse-treatment-records/internal/domain/stables"
	"horse-treatment-records/internal/platform/apperr"
)

type StablesRepo struct {
	db *DB
}

func NewStablesRepo(db *DB) *StablesRepo {
	return &StablesRepo{db: db}
}

const stableSelect = `
	SELECT s.id, s.name, s.contact, s.address, s.notes, s.pin, s.active,
		COUNT(DISTINCT o.id), COUNT(DISTINCT h.id)
	FROM stables s
	LEFT JOIN owners o ON o.stable_id = s.id
	LEFT JOIN horses h ON h.owner_id = o.id AND h.active = ?
`

func (r *StablesRepo) List(ctx context.Context, f stables.ListFilter) ([]stables.Stable, error) {
	var (
		where []string
		args  = []any{true}
	)
	if f.Search != "" {
		where = append(where, "LOWER(s.name) LIKE ?")
		args = append(args, likePattern(f.Search))
	}
	if f.ID != "" {
		where = append(where, "s.id = ?")
		args = append(args, f.ID)
	}
	if f.Active != nil {
		where = append(where, "s.active = ?")
		args = append(args, *f.Active)
	}

	q := stableSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " GROUP BY s.id"
	switch f.Sort {
	case "horse_count":
		q += " ORDER BY COUNT(DISTINCT h.id) DESC, LOWER(s.name)"
	default:
		q += " ORDER BY LOWER(s.name)"
	}

	rows, err := r.db.conn().query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list stables: %w", err)
	}
	defer rows.Close()

	out := make([]stables.Stable, 0)
	for rows.Next() {
		var s stables.Stable
		if err := rows.Scan(&s.ID, &s.Name, &s.Contact, &s.Address, &s.Notes, &s.PIN, &s.Active, &s.OwnerCount, &s.HorseCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *StablesRepo) GetByID(ctx context.Context, id string) (stables.Stable, error) {
	var s stables.Stable
	err := r.db.conn().queryRow(ctx, stableSelect+" WHERE s.id = ? GROUP BY s.id", true, id).
		Scan(&s.ID, &s.Name, &s.Contact, &s.Address, &s.Notes, &s.PIN, &s.Active, &s.OwnerCount, &s.HorseCount)
	if err != nil {
		if isNoRows(err) {
			return stables.Stable{}, apperr.NotFound("stable not found")
		}
		return stables.Stable{}, err
	}
	return s, nil
}

func (r *StablesRepo) Create(ctx context.Context, s stables.Stable) error {
	_, err := r.db.conn().exec(ctx, `
		INSERT INTO stables (id, name, contact, address, notes, pin, active)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, s.ID, s.Name, s.Contact, s.Address, s.Notes, s.PIN, s.Active)
	if isUnique(err) {
		return apperr.Conflict("stable %q already exists", s.Name)
	}
	return err
}

func (r *StablesRepo) Update(ctx context.Context, id string, p stables.Patch) error {
	var a assignments
	if p.Name.Set {
		a.set("name", text(p.Name))
	}
	if p.Contact.Set {
		a.set("contact", text(p.Contact))
	}
	if p.Address.Set {
		a.set("address", text(p.Address))
	}
	if p.Notes.Set {
		a.set("notes", text(p.Notes))
	}
	if p.PIN.Set {
		a.set("pin", text(p.PIN))
	}
	if p.Active.Set {
		a.set("active", p.Active.Or(true))
	}

	res, err := r.db.conn().exec(ctx, "UPDATE stables SET "+a.clause()+" WHERE id = ?", append(a.args, id)...)
	if err != nil {
		if isUnique(err) {
			return apperr.Conflict("stable %q already exists", p.Name.Or(""))
		}
		return err
	}
	if affected(res) == 0 {
		return apperr.NotFound("stable not found")
	}
	return nil
}

func (r *StablesRepo) CountOwners(ctx context.Context, id string) (int, error) {
	var n int
	err := r.db.conn().queryRow(ctx, "SELECT COUNT(*) FROM owners WHERE stable_id = ?", id).Scan(&n)
	return n, err
}

func (r *StablesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.conn().exec(ctx, "DELETE FROM stables WHERE id = ?", id)
	if err != nil {
		if isForeignKey(err) {
			return apperr.Blocked("cannot delete stable: owners still assigned")
		}
		return err
	}
	if affected(res) == 0 {
		return apperr.NotFound("stable not found")
	}
	return nil
}
