package owners

import (
	"net/http"
	"strings"

	"horse-treatment-records/internal/middleware"
	"horse-treatment-records/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/owners", func(or chi.Router) {
		or.Get("/", listOwnersHandler(svc))
		or.Get("/{ownerID}", getOwnerHandler(svc))

		or.Group(func(wr chi.Router) {
			wr.Use(middleware.RequireWriter)
			wr.Post("/", createOwnerHandler(svc))
			wr.Put("/{ownerID}", updateOwnerHandler(svc))
			wr.Delete("/{ownerID}", deleteOwnerHandler(svc))
		})
	})
}

type createOwnerRequest struct {
	Name     string  `json:"name"`
	Contact  string  `json:"contact"`
	Notes    string  `json:"notes"`
	StableID *string `json:"stable_id"`
}

type ownerResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Contact    string  `json:"contact"`
	Notes      string  `json:"notes"`
	StableID   *string `json:"stable_id"`
	StableName *string `json:"stable_name"`
	HorseCount int     `json:"horse_count"`
}

// listOwnersHandler godoc
// @Summary List owners
// @Tags owners
// @Produce json
// @Param search query string false "Substring match on name or contact"
// @Param stable_id query string false "Only owners boarding at this stable"
// @Param sort query string false "name (default) or horse_count"
// @Success 200 {array} ownerResponse
// @Failure 401 {object} httpjson.ErrorBody
// @Router /owners [get]
func listOwnersHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, _ := middleware.GetIdentity(r.Context())
		q := r.URL.Query()

		items, err := svc.List(r.Context(), who, ListFilter{
			Search:   strings.TrimSpace(q.Get("search")),
			StableID: strings.TrimSpace(q.Get("stable_id")),
			Sort:     q.Get("sort"),
		})
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}

		out := make([]ownerResponse, 0, len(items))
		for _, o := range items {
			out = append(out, toOwnerResponse(o))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func getOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		who, _ := middleware.GetIdentity(r.Context())
		o, err := svc.Get(r.Context(), who, chi.URLParam(r, "ownerID"))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toOwnerResponse(o))
	}
}

// createOwnerHandler godoc
// @Summary Create an owner
// @Tags owners
// @Accept json
// @Produce json
// @Param body body createOwnerRequest true "Owner"
// @Success 201 {object} ownerResponse
// @Failure 400 {object} httpjson.ErrorBody
// @Failure 409 {object} httpjson.ErrorBody
// @Router /owners [post]
func createOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createOwnerRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, r, err)
			return
		}

		o, err := svc.Create(r.Context(), CreateInput(req))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toOwnerResponse(o))
	}
}

func updateOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var p Patch
		if err := httpjson.Decode(r, &p); err != nil {
			httpjson.Error(w, r, err)
			return
		}

		o, err := svc.Update(r.Context(), chi.URLParam(r, "ownerID"), p)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toOwnerResponse(o))
	}
}

// deleteOwnerHandler godoc
// @Summary Delete an owner
// @Description Refused with 400 while the owner still has active horses.
// @Tags owners
// @Produce json
// @Param ownerID path string true "Owner id"
// @Success 200 {object} map[string]string
// @Failure 400 {object} httpjson.ErrorBody
// @Failure 404 {object} httpjson.ErrorBody
// @Router /owners/{ownerID} [delete]
func deleteOwnerHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "ownerID")
		if err := svc.Delete(r.Context(), id); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

func toOwnerResponse(o Owner) ownerResponse {
	return ownerResponse{
		ID:         o.ID,
		Name:       o.Name,
		Contact:    o.Contact,
		Notes:      o.Notes,
		StableID:   o.StableID,
		StableName: o.StableName,
		HorseCount: o.HorseCount,
	}
}
