package grid

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"horse-treatment-records/internal/domain/horses"
	"horse-treatment-records/internal/domain/treatmenttypes"
	"horse-treatment-records/internal/platform/apperr"
	"horse-treatment-records/internal/ports/auth"
	"horse-treatment-records/internal/ports/blob"
)

// ArchivePrefix es el prefijo de key de los CSV archivados.
const ArchivePrefix = "grid/"

type Service struct {
	horses HorseLister
	types  TypeLister
	cells  Repository
	store  blob.Store
	now    func() time.Time
}

// NewService arma la grilla. store puede ser nil y entonces no se archiva.
func NewService(h HorseLister, t TypeLister, cells Repository, store blob.Store, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{horses: h, types: t, cells: cells, store: store, now: now}
}

// Build arma la grilla de caballos activos visibles para who.
func (s *Service) Build(ctx context.Context, who auth.Identity, f Filter) (Grid, error) {
	category := treatmenttypes.Category(strings.ToLower(strings.TrimSpace(f.Category)))
	if category != "" && !category.Valid() {
		return Grid{}, apperr.Invalid("unknown category %q", f.Category)
	}

	hf := horses.ListFilter{
		Search:    strings.TrimSpace(f.Search),
		OwnerName: strings.TrimSpace(f.OwnerName),
		StableID:  strings.TrimSpace(f.StableID),
		Active:    horses.ActiveOnly,
		Sort:      horses.NormalizeSort(f.Sort),
	}
	if scope := who.StableScope(); scope != "" {
		hf.StableID = scope
	}

	types, err := s.types.List(ctx, category)
	if err != nil {
		return Grid{}, fmt.Errorf("list treatment types: %w", err)
	}
	hs, err := s.horses.List(ctx, hf)
	if err != nil {
		return Grid{}, fmt.Errorf("list horses: %w", err)
	}
	rows, err := s.cells.Cells(ctx, hf, category)
	if err != nil {
		return Grid{}, fmt.Errorf("list cells: %w", err)
	}

	visible := make(map[string]bool, len(hs))
	for _, h := range hs {
		visible[h.ID] = true
	}

	cells := make(map[string]map[string]Cell, len(hs))
	for _, c := range rows {
		if !visible[c.HorseID] {
			continue
		}
		m, ok := cells[c.HorseID]
		if !ok {
			m = make(map[string]Cell)
			cells[c.HorseID] = m
		}
		m[c.TreatmentTypeID] = c
	}

	if types == nil {
		types = []treatmenttypes.TreatmentType{}
	}
	if hs == nil {
		hs = []horses.Horse{}
	}
	return Grid{Types: types, Horses: hs, Cells: cells}, nil
}

// Export renderiza la grilla como CSV.
func (s *Service) Export(ctx context.Context, who auth.Identity, f Filter) ([]byte, error) {
	g, err := s.Build(ctx, who, f)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, g, s.now()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Archive guarda un snapshot CSV sin filtros en el blob store.
func (s *Service) Archive(ctx context.Context, who auth.Identity) (blob.Info, error) {
	if s.store == nil {
		return blob.Info{}, apperr.Invalid("no archive store configured")
	}
	data, err := s.Export(ctx, who, Filter{})
	if err != nil {
		return blob.Info{}, err
	}
	key := ArchivePrefix + s.now().UTC().Format("20060102T150405.000000000Z") + ".csv"
	info, err := s.store.Put(ctx, key, bytes.NewReader(data), "text/csv")
	if err != nil {
		return blob.Info{}, fmt.Errorf("archive grid: %w", err)
	}
	return info, nil
}

func (s *Service) Archives(ctx context.Context) ([]blob.Info, error) {
	if s.store == nil {
		return []blob.Info{}, nil
	}
	items, err := s.store.List(ctx, ArchivePrefix)
	if err != nil {
		return nil, fmt.Errorf("list archives: %w", err)
	}
	if items == nil {
		items = []blob.Info{}
	}
	return items, nil
}
