package treatments

import (
	"context"
	"strings"
	"time"

	"horse-treatment-records/internal/platform/apperr"
)

// MaxBatch limita el tamaño de un batch.
const MaxBatch = 500

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

func (s *Service) Upsert(ctx context.Context, in UpsertInput) (Treatment, error) {
	in, err := normalize(in)
	if err != nil {
		return Treatment{}, err
	}
	id, err := s.repo.Upsert(ctx, in, s.stamp())
	if err != nil {
		return Treatment{}, err
	}
	return s.repo.GetByID(ctx, id)
}

// Batch valida todos los ítems antes de escribir alguno.
func (s *Service) Batch(ctx context.Context, items []UpsertInput) ([]Treatment, error) {
	if len(items) == 0 {
		return nil, apperr.Invalid("at least one treatment is required")
	}
	if len(items) > MaxBatch {
		return nil, apperr.Invalid("batch limited to %d treatments", MaxBatch)
	}

	clean := make([]UpsertInput, 0, len(items))
	for i, it := range items {
		n, err := normalize(it)
		if err != nil {
			return nil, apperr.Invalid("item %d: %s", i, apperr.Message(err))
		}
		clean = append(clean, n)
	}

	ids, err := s.repo.UpsertBatch(ctx, clean, s.stamp())
	if err != nil {
		return nil, err
	}

	out := make([]Treatment, 0, len(ids))
	for _, id := range ids {
		t, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

// Delete limpia una celda de la grilla borrando su fila.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperr.Invalid("id is required")
	}
	return s.repo.Delete(ctx, id, s.stamp())
}

func (s *Service) stamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

func normalize(in UpsertInput) (UpsertInput, error) {
	in.HorseID = strings.TrimSpace(in.HorseID)
	in.TreatmentTypeID = strings.TrimSpace(in.TreatmentTypeID)
	if in.HorseID == "" {
		return in, apperr.Invalid("horse_id is required")
	}
	if in.TreatmentTypeID == "" {
		return in, apperr.Invalid("treatment_type_id is required")
	}

	if in.Date != nil {
		d := strings.TrimSpace(*in.Date)
		if d == "" {
			in.Date = nil
		} else {
			if _, err := time.Parse(DateLayout, d); err != nil {
				return in, apperr.Invalid("treatment_date must be YYYY-MM-DD")
			}
			in.Date = &d
		}
	}
	if in.Notes != nil {
		n := strings.TrimSpace(*in.Notes)
		in.Notes = &n
	}
	return in, nil
}
