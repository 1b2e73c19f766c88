package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"horse-treatment-records/internal/domain/owners"
	"horse-treatment-records/internal/platform/apperr"
)

type OwnersRepo struct {
	db *DB
}

func NewOwnersRepo(db *DB) *OwnersRepo {
	return &OwnersRepo{db: db}
}

const ownerSelect = `
	SELECT o.id, o.name, o.contact, o.notes, o.stable_id, s.name, COUNT(h.id)
	FROM owners o
	LEFT JOIN stables s ON s.id = o.stable_id
	LEFT JOIN horses h ON h.owner_id = o.id AND h.active = ?
`

func scanOwner(sc interface{ Scan(...any) error }) (owners.Owner, error) {
	var (
		o          owners.Owner
		stableID   sql.NullString
		stableName sql.NullString
	)
	if err := sc.Scan(&o.ID, &o.Name, &o.Contact, &o.Notes, &stableID, &stableName, &o.HorseCount); err != nil {
		return owners.Owner{}, err
	}
	o.StableID = nullString(stableID)
	o.StableName = nullString(stableName)
	return o, nil
}

func (r *OwnersRepo) List(ctx context.Context, f owners.ListFilter) ([]owners.Owner, error) {
	var (
		where []string
		args  = []any{true}
	)
	if f.Search != "" {
		where = append(where, "(LOWER(o.name) LIKE ? OR LOWER(o.contact) LIKE ?)")
		args = append(args, likePattern(f.Search), likePattern(f.Search))
	}
	if f.StableID != "" {
		where = append(where, "o.stable_id = ?")
		args = append(args, f.StableID)
	}

	q := ownerSelect
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " GROUP BY o.id, s.id"
	if f.Sort == "horse_count" {
		q += " ORDER BY COUNT(h.id) DESC, LOWER(o.name)"
	} else {
		q += " ORDER BY LOWER(o.name)"
	}

	rows, err := r.db.conn().query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	out := make([]owners.Owner, 0)
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func (r *OwnersRepo) GetByID(ctx context.Context, id string) (owners.Owner, error) {
	o, err := scanOwner(r.db.conn().queryRow(ctx, ownerSelect+" WHERE o.id = ? GROUP BY o.id, s.id", true, id))
	if err != nil {
		if isNoRows(err) {
			return owners.Owner{}, apperr.NotFound("owner not found")
		}
		return owners.Owner{}, err
	}
	return o, nil
}

func (r *OwnersRepo) Create(ctx context.Context, o owners.Owner) error {
	_, err := r.db.conn().exec(ctx, `
		INSERT INTO owners (id, name, contact, notes, stable_id)
		VALUES (?, ?, ?, ?, ?)
	`, o.ID, o.Name, o.Contact, o.Notes, nullable(o.StableID))
	return ownerWriteErr(err, o.Name)
}

func (r *OwnersRepo) Update(ctx context.Context, id string, p owners.Patch) error {
	var a assignments
	if p.Name.Set {
		a.set("name", text(p.Name))
	}
	if p.Contact.Set {
		a.set("contact", text(p.Contact))
	}
	if p.Notes.Set {
		a.set("notes", text(p.Notes))
	}
	if p.StableID.Set {
		a.set("stable_id", nullableText(p.StableID))
	}

	res, err := r.db.conn().exec(ctx, "UPDATE owners SET "+a.clause()+" WHERE id = ?", append(a.args, id)...)
	if err != nil {
		return ownerWriteErr(err, p.Name.Or(""))
	}
	if affected(res) == 0 {
		return apperr.NotFound("owner not found")
	}
	return nil
}

func ownerWriteErr(err error, name string) error {
	switch {
	case err == nil:
		return nil
	case isUnique(err):
		return apperr.Conflict("owner %q already exists", name)
	case isForeignKey(err):
		return apperr.Reference("stable does not exist")
	}
	return err
}

const countOwnerHorses = `
SELECT
  COALESCE(SUM(CASE WHEN active = ? THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN active = ? THEN 0 ELSE 1 END), 0)
FROM horses
WHERE owner_id = ?`

func (r *OwnersRepo) CountHorses(ctx context.Context, id string) (owners.HorseCounts, error) {
	var n owners.HorseCounts
	err := r.db.conn().queryRow(ctx, countOwnerHorses, true, true, id).Scan(&n.Active, &n.Inactive)
	return n, err
}

func (r *OwnersRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.conn().exec(ctx, "DELETE FROM owners WHERE id = ?", id)
	if err != nil {
		if isForeignKey(err) {
			return apperr.Blocked("cannot delete owner: horses still assigned")
		}
		return err
	}
	if affected(res) == 0 {
		return apperr.NotFound("owner not found")
	}
	return nil
}
