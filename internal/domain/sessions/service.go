package sessions

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"strings"
	"time"

	"horse-treatment-records/internal/platform/apperr"
	"horse-treatment-records/internal/ports/auth"
)

// DefaultTTL es cuánto dura un login.
const DefaultTTL = 30 * 24 * time.Hour

type Options struct {
	AdminPIN  string
	AdminName string
	TTL       time.Duration
	Now       func() time.Time
	Logger    *slog.Logger
}

type Service struct {
	repo      Repository
	adminPIN  string
	adminName string
	ttl       time.Duration
	now       func() time.Time
	log       *slog.Logger
}

var _ auth.Verifier = (*Service)(nil)

func NewService(repo Repository, opts Options) *Service {
	s := &Service{
		repo:      repo,
		adminPIN:  opts.AdminPIN,
		adminName: opts.AdminName,
		ttl:       opts.TTL,
		now:       opts.Now,
		log:       opts.Logger,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.adminName == "" {
		s.adminName = "Administrator"
	}
	return s
}

// Login valida el PIN de la cuenta elegida y abre una sesión.
// Cuentas desconocidas o inactivas dan 404; PIN incorrecto da 401.
func (s *Service) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	if !in.Role.Valid() {
		return LoginResult{}, apperr.Invalid("role must be vet, stable or admin")
	}

	var who auth.Identity
	switch in.Role {
	case auth.RoleAdmin:
		if s.adminPIN == "" {
			return LoginResult{}, apperr.Unauthorized("admin login is disabled")
		}
		if !pinEqual(in.PIN, s.adminPIN) {
			return LoginResult{}, apperr.Unauthorized("invalid pin")
		}
		who = auth.Identity{Role: auth.RoleAdmin, ID: AdminID, Name: s.adminName}
	default:
		id := strings.TrimSpace(in.ID)
		if id == "" {
			return LoginResult{}, apperr.Invalid("id is required")
		}
		c, err := s.repo.Credential(ctx, in.Role, id)
		if err != nil {
			return LoginResult{}, err
		}
		if !c.Active {
			return LoginResult{}, apperr.NotFound("%s not found", in.Role)
		}
		if c.PIN == "" || !pinEqual(in.PIN, c.PIN) {
			return LoginResult{}, apperr.Unauthorized("invalid pin")
		}
		who = auth.Identity{Role: in.Role, ID: c.ID, Name: c.Name}
	}

	token, err := newToken()
	if err != nil {
		return LoginResult{}, err
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	sess := Session{Token: token, Role: who.Role, RefID: who.ID, ExpiresAt: now.Add(s.ttl)}
	if err := s.repo.Create(ctx, sess); err != nil {
		return LoginResult{}, err
	}

	if n, err := s.repo.PurgeExpired(ctx, now); err != nil {
		s.log.WarnContext(ctx, "purge expired sessions", slog.String("err", err.Error()))
	} else if n > 0 {
		s.log.DebugContext(ctx, "purged expired sessions", slog.Int64("count", n))
	}

	return LoginResult{Token: token, ExpiresAt: sess.ExpiresAt, Identity: who}, nil
}

// Verify resuelve un token en el llamador. Las sesiones vencidas se rechazan
// aunque su fila siga existiendo.
func (s *Service) Verify(ctx context.Context, token string) (auth.Identity, error) {
	if token == "" {
		return auth.Identity{}, apperr.Unauthorized("missing token")
	}

	sess, err := s.repo.Get(ctx, token)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return auth.Identity{}, apperr.Unauthorized("invalid token")
		}
		return auth.Identity{}, err
	}
	if !s.now().Before(sess.ExpiresAt) {
		return auth.Identity{}, apperr.Unauthorized("session expired")
	}

	if sess.Role == auth.RoleAdmin {
		return auth.Identity{Role: auth.RoleAdmin, ID: AdminID, Name: s.adminName}, nil
	}

	c, err := s.repo.Credential(ctx, sess.Role, sess.RefID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return auth.Identity{}, apperr.Unauthorized("account no longer exists")
		}
		return auth.Identity{}, err
	}
	if !c.Active {
		return auth.Identity{}, apperr.Unauthorized("account is inactive")
	}
	return auth.Identity{Role: sess.Role, ID: c.ID, Name: c.Name}, nil
}

// Logout borra la sesión. Un token desconocido no es error.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.repo.Delete(ctx, token)
}

func (s *Service) Accounts(ctx context.Context, role auth.Role) ([]Account, error) {
	if role != auth.RoleVet && role != auth.RoleStable {
		return nil, apperr.Invalid("role must be vet or stable")
	}
	return s.repo.Accounts(ctx, role)
}

func pinEqual(got, want string) bool {
	return subtle.ConstantTimeCompare([]byte(strings.TrimSpace(got)), []byte(want)) == 1
}
