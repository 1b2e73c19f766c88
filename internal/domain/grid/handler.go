package grid

import (
	"net/http"

	"horse-treatment-records/internal/domain/horses"
	"horse-treatment-records/internal/domain/treatmenttypes"
	"horse-treatment-records/internal/middleware"
	"horse-treatment-records/internal/platform/httpjson"
	"horse-treatment-records/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/grid", func(gr chi.Router) {
		gr.Get("/", gridHandler(svc))
		gr.Get("/export.csv", exportHandler(svc))

		gr.Group(func(ar chi.Router) {
			ar.Use(middleware.RequireRole(auth.RoleAdmin))
			ar.Get("/exports", listArchivesHandler(svc))
			ar.Post("/exports", archiveHandler(svc))
		})
	})
}

type typeColumn struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	SortOrder int     `json:"sort_order"`
	Color     *string `json:"color"`
}

type horseRow struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	BarnName   *string `json:"barn_name"`
	OwnerID    string  `json:"owner_id"`
	OwnerName  string  `json:"owner_name"`
	VetID      *string `json:"vet_id"`
	VetName    *string `json:"vet_name"`
	StableID   *string `json:"stable_id"`
	StableName *string `json:"stable_name"`
	Notes      string  `json:"notes"`
}

type cellResponse struct {
	ID    string  `json:"id"`
	Date  *string `json:"date"`
	Notes *string `json:"notes"`
}

type gridResponse struct {
	Types      []typeColumn                       `json:"types"`
	Horses     []horseRow                         `json:"horses"`
	Treatments map[string]map[string]cellResponse `json:"treatments"`
}

func filterFrom(r *http.Request) Filter {
	q := r.URL.Query()
	return Filter{
		Search:    q.Get("search"),
		OwnerName: q.Get("owner"),
		Category:  q.Get("category"),
		StableID:  q.Get("stable_id"),
		Sort:      q.Get("sort"),
	}
}

// gridHandler godoc
// @Summary Horse by treatment-type grid
// @Description Returns columns, rows and the sparse map of recorded treatments.
// @Tags grid
// @Produce json
// @Param search query string false "Matches name, barn name or owner name"
// @Param owner query string false "Owner name substring"
// @Param category query string false "Restrict columns to one category"
// @Param stable_id query string false "Stable id"
// @Param sort query string false "name, barn_name, owner, stable, updated or created"
// @Success 200 {object} gridResponse
// @Failure 400 {object} httpjson.ErrorBody
// @Router /grid [get]
func gridHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, _ := middleware.GetIdentity(r.Context())
		g, err := svc.Build(r.Context(), who, filterFrom(r))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toGridResponse(g))
	}
}

func exportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, _ := middleware.GetIdentity(r.Context())
		data, err := svc.Export(r.Context(), who, filterFrom(r))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="treatment-grid.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func listArchivesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.Archives(r.Context())
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, items)
	}
}

func archiveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, _ := middleware.GetIdentity(r.Context())
		info, err := svc.Archive(r.Context(), who)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, info)
	}
}

func toGridResponse(g Grid) gridResponse {
	out := gridResponse{
		Types:      make([]typeColumn, 0, len(g.Types)),
		Horses:     make([]horseRow, 0, len(g.Horses)),
		Treatments: make(map[string]map[string]cellResponse, len(g.Cells)),
	}
	for _, t := range g.Types {
		out.Types = append(out.Types, toTypeColumn(t))
	}
	for _, h := range g.Horses {
		out.Horses = append(out.Horses, toHorseRow(h))
	}
	for horseID, byType := range g.Cells {
		m := make(map[string]cellResponse, len(byType))
		for typeID, c := range byType {
			m[typeID] = cellResponse{ID: c.ID, Date: c.Date, Notes: c.Notes}
		}
		out.Treatments[horseID] = m
	}
	return out
}

func toTypeColumn(t treatmenttypes.TreatmentType) typeColumn {
	return typeColumn{ID: t.ID, Name: t.Name, Category: string(t.Category), SortOrder: t.SortOrder, Color: t.Color}
}

func toHorseRow(h horses.Horse) horseRow {
	return horseRow{
		ID:         h.ID,
		Name:       h.Name,
		BarnName:   h.BarnName,
		OwnerID:    h.OwnerID,
		OwnerName:  h.OwnerName,
		VetID:      h.VetID,
		VetName:    h.VetName,
		StableID:   h.StableID,
		StableName: h.StableName,
		Notes:      h.Notes,
	}
}
