package horses

import (
	"context"
	"strings"
	"time"

	"horse-treatment-records/internal/platform/apperr"
	"horse-treatment-records/internal/ports/auth"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{repo: repo, now: now}
}

type CreateInput struct {
	Name     string
	BarnName *string
	OwnerID  string
	VetID    *string
	Notes    string
}

func (s *Service) List(ctx context.Context, who auth.Identity, f ListFilter) ([]Horse, error) {
	if scope := who.StableScope(); scope != "" {
		f.StableID = scope
	}
	f.Sort = NormalizeSort(f.Sort)
	return s.repo.List(ctx, f)
}

// Get devuelve un caballo con su historial, esté activo o no.
func (s *Service) Get(ctx context.Context, who auth.Identity, id string) (Detail, error) {
	h, err := s.repo.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return Detail{}, err
	}
	if scope := who.StableScope(); scope != "" && (h.StableID == nil || *h.StableID != scope) {
		return Detail{}, apperr.NotFound("horse not found")
	}

	tr, err := s.repo.Treatments(ctx, h.ID)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Horse: h, Treatments: tr}, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Horse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Horse{}, apperr.Invalid("name is required")
	}
	ownerID := strings.TrimSpace(in.OwnerID)
	if ownerID == "" {
		return Horse{}, apperr.Invalid("owner_id is required")
	}

	now := s.stamp()
	h := Horse{
		ID:        uuid.NewString(),
		Name:      name,
		BarnName:  blankToNil(in.BarnName),
		OwnerID:   ownerID,
		VetID:     blankToNil(in.VetID),
		Notes:     strings.TrimSpace(in.Notes),
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		return Horse{}, err
	}
	return s.repo.GetByID(ctx, h.ID)
}

// Update aplica un patch parcial. active=false desactiva el caballo.
func (s *Service) Update(ctx context.Context, id string, p Patch) (Horse, error) {
	if p.Empty() {
		return Horse{}, apperr.Invalid("no updatable fields provided")
	}
	if p.Name.Set && strings.TrimSpace(p.Name.Or("")) == "" {
		return Horse{}, apperr.Invalid("name cannot be empty")
	}
	if p.OwnerID.Set && strings.TrimSpace(p.OwnerID.Or("")) == "" {
		return Horse{}, apperr.Invalid("owner_id cannot be empty")
	}
	if p.Active.Set && p.Active.Value == nil {
		return Horse{}, apperr.Invalid("active cannot be null")
	}
	if p.BarnName.Set {
		p.BarnName.Value = blankToNil(p.BarnName.Value)
	}
	if p.VetID.Set {
		p.VetID.Value = blankToNil(p.VetID.Value)
	}

	if err := s.repo.Update(ctx, id, p, s.stamp()); err != nil {
		return Horse{}, err
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) stamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
