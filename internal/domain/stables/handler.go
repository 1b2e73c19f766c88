package stables

import (
	"net/http"
	"strings"

	"horse-treatment-records/internal/middleware"
	"horse-treatment-records/internal/platform/httpjson"
	"horse-treatment-records/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /stables. Las lecturas son para todo rol autenticado (un establo
// solo se ve a sí mismo); las escrituras son solo de admin.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/stables", func(sr chi.Router) {
		sr.Get("/", listStablesHandler(svc))
		sr.Get("/{stableID}", getStableHandler(svc))

		sr.Group(func(wr chi.Router) {
			wr.Use(middleware.RequireRole(auth.RoleAdmin))
			wr.Post("/", createStableHandler(svc))
			wr.Put("/{stableID}", updateStableHandler(svc))
			wr.Delete("/{stableID}", deleteStableHandler(svc))
		})
	})
}

type createStableRequest struct {
	Name    string `json:"name"`
	Contact string `json:"contact"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
	PIN     string `json:"pin"`
}

type stableResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Contact    string `json:"contact"`
	Address    string `json:"address"`
	Notes      string `json:"notes"`
	Active     bool   `json:"active"`
	HasPIN     bool   `json:"has_pin"`
	OwnerCount int    `json:"owner_count"`
	HorseCount int    `json:"horse_count"`
}

// listStablesHandler godoc
// @Summary List stables
// @Tags stables
// @Produce json
// @Param search query string false "Substring match on name"
// @Param active query string false "true, false or all"
// @Param sort query string false "name (default) or horse_count"
// @Success 200 {array} stableResponse
// @Failure 401 {object} httpjson.ErrorBody
// @Router /stables [get]
func listStablesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, _ := middleware.GetIdentity(r.Context())

		q := r.URL.Query()
		active, err := httpjson.OptionalBool("active", q.Get("active"))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}

		items, err := svc.List(r.Context(), who, ListFilter{
			Search: strings.TrimSpace(q.Get("search")),
			Active: active,
			Sort:   q.Get("sort"),
		})
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}

		out := make([]stableResponse, 0, len(items))
		for _, s := range items {
			out = append(out, toStableResponse(s))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func getStableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, _ := middleware.GetIdentity(r.Context())

		s, err := svc.Get(r.Context(), who, chi.URLParam(r, "stableID"))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toStableResponse(s))
	}
}

func createStableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createStableRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, r, err)
			return
		}

		s, err := svc.Create(r.Context(), CreateInput(req))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toStableResponse(s))
	}
}

func updateStableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p Patch
		if err := httpjson.Decode(r, &p); err != nil {
			httpjson.Error(w, r, err)
			return
		}

		s, err := svc.Update(r.Context(), chi.URLParam(r, "stableID"), p)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toStableResponse(s))
	}
}

func deleteStableHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "stableID")
		if err := svc.Delete(r.Context(), id); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

func toStableResponse(s Stable) stableResponse {
	return stableResponse{
		ID:         s.ID,
		Name:       s.Name,
		Contact:    s.Contact,
		Address:    s.Address,
		Notes:      s.Notes,
		Active:     s.Active,
		HasPIN:     s.PIN != "",
		OwnerCount: s.OwnerCount,
		HorseCount: s.HorseCount,
	}
}
