package sqlstore

import (
	"context"
	"fmt"
	"strings"

	"horse-treatment-records/internal/domain/vets"
	"horse-treatment-records/internal/platform/apperr"
)

type VetsRepo struct {
	db *DB
}

func NewVetsRepo(db *DB) *VetsRepo {
	return &VetsRepo{db: db}
}

const vetSelect = `
	SELECT v.id, v.name, v.email, v.phone, v.pin, v.active, COUNT(h.id)
	FROM vets v
	LEFT JOIN horses h ON h.vet_id = v.id AND h.active = ?
`

func scanVet(sc interface{ Scan(...any) error }) (vets.Vet, error) {
	var v vets.Vet
	err := sc.Scan(&v.ID, &v.Name, &v.Email, &v.Phone, &v.PIN, &v.Active, &v.HorseCount)
	return v, err
}

func (r *VetsRepo) List(ctx context.Context, f vets.ListFilter) ([]vets.Vet, error) {
	var (
		where []string
		args  = []any{true}
	)
	if f.Search != "" {
		where = append(where, "(LOWER(v.name) LIKE ? OR LOWER(v.email) LIKE ?)")
		args = append(args, likePattern(f.Search), likePattern(f.Search))
	}
	if f.Active != nil {
		where = append(where, "v.active = ?")
		args = append(args, *f.Active)
	}

	q := vetSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " GROUP BY v.id"
	if f.Sort == "horse_count" {
		q += " ORDER BY COUNT(h.id) DESC, LOWER(v.name)"
	} else {
		q += " ORDER BY LOWER(v.name)"
	}

	rows, err := r.db.conn().query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list vets: %w", err)
	}
	defer rows.Close()

	out := make([]vets.Vet, 0)
	for rows.Next() {
		v, err := scanVet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *VetsRepo) GetByID(ctx context.Context, id string) (vets.Vet, error) {
	v, err := scanVet(r.db.conn().queryRow(ctx, vetSelect+" WHERE v.id = ? GROUP BY v.id", true, id))
	if err != nil {
		if isNoRows(err) {
			return vets.Vet{}, apperr.NotFound("vet not found")
		}
		return vets.Vet{}, err
	}
	return v, nil
}

func (r *VetsRepo) Create(ctx context.Context, v vets.Vet) error {
	_, err := r.db.conn().exec(ctx, `
		INSERT INTO vets (id, name, email, phone, pin, active)
		VALUES (?, ?, ?, ?, ?, ?)
	`, v.ID, v.Name, v.Email, v.Phone, v.PIN, v.Active)
	return err
}

func (r *VetsRepo) Update(ctx context.Context, id string, p vets.Patch) error {
	var a assignments
	if p.Name.Set {
		a.set("name", text(p.Name))
	}
	if p.Email.Set {
		a.set("email", text(p.Email))
	}
	if p.Phone.Set {
		a.set("phone", text(p.Phone))
	}
	if p.PIN.Set {
		a.set("pin", text(p.PIN))
	}
	if p.Active.Set {
		a.set("active", p.Active.Or(true))
	}

	res, err := r.db.conn().exec(ctx, "UPDATE vets SET "+a.clause()+" WHERE id = ?", append(a.args, id)...)
	if err != nil {
		return err
	}
	if affected(res) == 0 {
		return apperr.NotFound("vet not found")
	}
	return nil
}

func (r *VetsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.conn().exec(ctx, "DELETE FROM vets WHERE id = ?", id)
	if err != nil {
		return err
	}
	if affected(res) == 0 {
		return apperr.NotFound("vet not found")
	}
	return nil
}
