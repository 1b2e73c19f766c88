package horses

import (
	"net/http"
	"strings"
	"time"

	"horse-treatment-records/internal/middleware"
	"horse-treatment-records/internal/platform/apperr"
	"horse-treatment-records/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/horses", func(hr chi.Router) {
		hr.Get("/", listHorsesHandler(svc))
		hr.Get("/{horseID}", getHorseHandler(svc))

		hr.Group(func(wr chi.Router) {
			wr.Use(middleware.RequireWriter)
			wr.Post("/", createHorseHandler(svc))
			wr.Put("/{horseID}", updateHorseHandler(svc))
			wr.Delete("/{horseID}", deleteHorseHandler(svc))
		})
	})
}

type createHorseRequest struct {
	Name     string  `json:"name"`
	BarnName *string `json:"barn_name"`
	OwnerID  string  `json:"owner_id"`
	VetID    *string `json:"vet_id"`
	Notes    string  `json:"notes"`
}

type horseResponse struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	BarnName       *string   `json:"barn_name"`
	OwnerID        string    `json:"owner_id"`
	OwnerName      string    `json:"owner_name"`
	VetID          *string   `json:"vet_id"`
	VetName        *string   `json:"vet_name"`
	StableID       *string   `json:"stable_id"`
	StableName     *string   `json:"stable_name"`
	Notes          string    `json:"notes"`
	Active         bool      `json:"active"`
	TreatmentCount int       `json:"treatment_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type treatmentEntryResponse struct {
	ID              string    `json:"id"`
	TreatmentTypeID string    `json:"treatment_type_id"`
	TypeName        string    `json:"type_name"`
	Category        string    `json:"category"`
	TreatmentDate   *string   `json:"treatment_date"`
	Notes           *string   `json:"notes"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type horseDetailResponse struct {
	horseResponse
	Treatments []treatmentEntryResponse `json:"treatments"`
}

// listHorsesHandler godoc
// @Summary List horses
// @Tags horses
// @Produce json
// @Param search query string false "Matches name, barn name or owner name"
// @Param owner query string false "Owner name substring"
// @Param owner_id query string false "Owner id"
// @Param stable_id query string false "Stable id"
// @Param vet_id query string false "Vet id"
// @Param active query string false "true (default), false or all"
// @Param sort query string false "name, barn_name, owner, stable, updated or created"
// @Success 200 {array} horseResponse
// @Failure 400 {object} httpjson.ErrorBody
// @Router /horses [get]
func listHorsesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, _ := middleware.GetIdentity(r.Context())
		q := r.URL.Query()

		active, ok := ParseActive(q.Get("active"))
		if !ok {
			httpjson.Error(w, r, apperr.Invalid("active must be true, false or all"))
			return
		}

		items, err := svc.List(r.Context(), who, ListFilter{
			Search:    strings.TrimSpace(q.Get("search")),
			OwnerName: strings.TrimSpace(q.Get("owner")),
			OwnerID:   strings.TrimSpace(q.Get("owner_id")),
			StableID:  strings.TrimSpace(q.Get("stable_id")),
			VetID:     strings.TrimSpace(q.Get("vet_id")),
			Active:    active,
			Sort:      q.Get("sort"),
		})
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}

		out := make([]horseResponse, 0, len(items))
		for _, h := range items {
			out = append(out, toHorseResponse(h))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

// getHorseHandler godoc
// @Summary Get a horse with its treatments
// @Tags horses
// @Produce json
// @Param horseID path string true "Horse id"
// @Success 200 {object} horseDetailResponse
// @Failure 404 {object} httpjson.ErrorBody
// @Router /horses/{horseID} [get]
func getHorseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, _ := middleware.GetIdentity(r.Context())
		d, err := svc.Get(r.Context(), who, chi.URLParam(r, "horseID"))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}

		resp := horseDetailResponse{
			horseResponse: toHorseResponse(d.Horse),
			Treatments:    make([]treatmentEntryResponse, 0, len(d.Treatments)),
		}
		for _, t := range d.Treatments {
			resp.Treatments = append(resp.Treatments, treatmentEntryResponse{
				ID:              t.ID,
				TreatmentTypeID: t.TreatmentTypeID,
				TypeName:        t.TypeName,
				Category:        t.Category,
				TreatmentDate:   t.Date,
				Notes:           t.Notes,
				UpdatedAt:       t.UpdatedAt,
			})
		}
		httpjson.Write(w, http.StatusOK, resp)
	}
}

func createHorseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createHorseRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, r, err)
			return
		}

		h, err := svc.Create(r.Context(), CreateInput(req))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toHorseResponse(h))
	}
}

func updateHorseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p Patch
		if err := httpjson.Decode(r, &p); err != nil {
			httpjson.Error(w, r, err)
			return
		}

		h, err := svc.Update(r.Context(), chi.URLParam(r, "horseID"), p)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toHorseResponse(h))
	}
}

func deleteHorseHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "horseID")
		if err := svc.Delete(r.Context(), id); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

func toHorseResponse(h Horse) horseResponse {
	return horseResponse{
		ID:             h.ID,
		Name:           h.Name,
		BarnName:       h.BarnName,
		OwnerID:        h.OwnerID,
		OwnerName:      h.OwnerName,
		VetID:          h.VetID,
		VetName:        h.VetName,
		StableID:       h.StableID,
		StableName:     h.StableName,
		Notes:          h.Notes,
		Active:         h.Active,
		TreatmentCount: h.TreatmentCount,
		CreatedAt:      h.CreatedAt,
		UpdatedAt:      h.UpdatedAt,
	}
}
