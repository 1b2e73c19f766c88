package vets

import (
	"net/http"
	"strings"

	"horse-treatment-records/internal/middleware"
	"horse-treatment-records/internal/platform/httpjson"
	"horse-treatment-records/internal/ports/auth"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /vets: lectura para admins y vets, escritura para admins.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/vets", func(vr chi.Router) {
		vr.Use(middleware.RequireRole(auth.RoleAdmin, auth.RoleVet))
		vr.Get("/", listVetsHandler(svc))
		vr.Get("/{vetID}", getVetHandler(svc))

		vr.Group(func(wr chi.Router) {
			wr.Use(middleware.RequireRole(auth.RoleAdmin))
			wr.Post("/", createVetHandler(svc))
			wr.Put("/{vetID}", updateVetHandler(svc))
			wr.Delete("/{vetID}", deleteVetHandler(svc))
		})
	})
}

type createVetRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	PIN   string `json:"pin"`
}

type vetResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Active     bool   `json:"active"`
	HasPIN     bool   `json:"has_pin"`
	HorseCount int    `json:"horse_count"`
}

func listVetsHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		active, err := httpjson.OptionalBool("active", q.Get("active"))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}

		items, err := svc.List(r.Context(), ListFilter{
			Search: strings.TrimSpace(q.Get("search")),
			Active: active,
			Sort:   q.Get("sort"),
		})
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}

		out := make([]vetResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toVetResponse(v))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func getVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.Get(r.Context(), chi.URLParam(r, "vetID"))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toVetResponse(v))
	}
}

func createVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createVetRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, r, err)
			return
		}

		v, err := svc.Create(r.Context(), CreateInput(req))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toVetResponse(v))
	}
}

func updateVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p Patch
		if err := httpjson.Decode(r, &p); err != nil {
			httpjson.Error(w, r, err)
			return
		}

		v, err := svc.Update(r.Context(), chi.URLParam(r, "vetID"), p)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toVetResponse(v))
	}
}

func deleteVetHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "vetID")
		if err := svc.Delete(r.Context(), id); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

func toVetResponse(v Vet) vetResponse {
	return vetResponse{
		ID:         v.ID,
		Name:       v.Name,
		Email:      v.Email,
		Phone:      v.Phone,
		Active:     v.Active,
		HasPIN:     v.PIN != "",
		HorseCount: v.HorseCount,
	}
}
