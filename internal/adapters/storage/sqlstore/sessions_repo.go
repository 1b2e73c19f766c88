package sqlstore

import (
	"context"
	"fmt"
	"time"

	"horse-treatment-records/internal/domain/sessions"
	"horse-treatment-records/internal/platform/apperr"
	"horse-treatment-records/internal/ports/auth"
)

type SessionsRepo struct {
	db *DB
}

func NewSessionsRepo(db *DB) *SessionsRepo {
	return &SessionsRepo{db: db}
}

func (r *SessionsRepo) Create(ctx context.Context, s sessions.Session) error {
	_, err := r.db.conn().exec(ctx, `
		INSERT INTO sessions (token, role, ref_id, expires_at) VALUES (?, ?, ?, ?)
	`, s.Token, string(s.Role), s.RefID, utc(s.ExpiresAt))
	return err
}

func (r *SessionsRepo) Get(ctx context.Context, token string) (sessions.Session, error) {
	var (
		s    sessions.Session
		role string
	)
	err := r.db.conn().queryRow(ctx, `
		SELECT token, role, ref_id, expires_at FROM sessions WHERE token = ?
	`, token).Scan(&s.Token, &role, &s.RefID, &s.ExpiresAt)
	if err != nil {
		if isNoRows(err) {
			return sessions.Session{}, apperr.NotFound("session not found")
		}
		return sessions.Session{}, err
	}
	s.Role = auth.Role(role)
	s.ExpiresAt = s.ExpiresAt.UTC()
	return s, nil
}

func (r *SessionsRepo) Delete(ctx context.Context, token string) error {
	_, err := r.db.conn().exec(ctx, "DELETE FROM sessions WHERE token = ?", token)
	return err
}

func (r *SessionsRepo) PurgeExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.conn().exec(ctx, "DELETE FROM sessions WHERE expires_at <= ?", utc(now))
	if err != nil {
		return 0, err
	}
	return affected(res), nil
}

func accountTable(role auth.Role) (string, error) {
	switch role {
	case auth.RoleVet:
		return "vets", nil
	case auth.RoleStable:
		return "stables", nil
	}
	return "", fmt.Errorf("no account table for role %q", role)
}

func (r *SessionsRepo) Credential(ctx context.Context, role auth.Role, id string) (sessions.Credential, error) {
	table, err := accountTable(role)
	if err != nil {
		return sessions.Credential{}, err
	}

	var c sessions.Credential
	err = r.db.conn().queryRow(ctx, "SELECT id, name, pin, active FROM "+table+" WHERE id = ?", id).
		Scan(&c.ID, &c.Name, &c.PIN, &c.Active)
	if err != nil {
		if isNoRows(err) {
			return sessions.Credential{}, apperr.NotFound("%s not found", role)
		}
		return sessions.Credential{}, err
	}
	return c, nil
}

func (r *SessionsRepo) Accounts(ctx context.Context, role auth.Role) ([]sessions.Account, error) {
	table, err := accountTable(role)
	if err != nil {
		return nil, err
	}

	rows, err := r.db.conn().query(ctx, "SELECT id, name FROM "+table+" WHERE active = ? ORDER BY LOWER(name)", true)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}
	defer rows.Close()

	out := make([]sessions.Account, 0)
	for rows.Next() {
		var a sessions.Account
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
