package treatmenttypes

import (
	"net/http"

	"horse-treatment-records/internal/middleware"
	"horse-treatment-records/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/treatment-types", func(tr chi.Router) {
		tr.Get("/", listTypesHandler(svc))
		tr.With(middleware.RequireWriter).Post("/", createTypeHandler(svc))
	})
}

type createTypeRequest struct {
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	SortOrder *int    `json:"sort_order"`
	Color     *string `json:"color"`
}

type typeResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	SortOrder      int     `json:"sort_order"`
	Color          *string `json:"color"`
	TreatmentCount int     `json:"treatment_count"`
}

// listTypesHandler godoc
// @Summary List treatment types in grid column order
// @Tags treatment-types
// @Produce json
// @Param category query string false "vaccine, test, maintenance or injection"
// @Success 200 {array} typeResponse
// @Router /treatment-types [get]
func listTypesHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.List(r.Context(), r.URL.Query().Get("category"))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		out := make([]typeResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toTypeResponse(t))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func createTypeHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createTypeRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		t, err := svc.Create(r.Context(), CreateInput(req))
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusCreated, toTypeResponse(t))
	}
}

func toTypeResponse(t TreatmentType) typeResponse {
	return typeResponse{
		ID:             t.ID,
		Name:           t.Name,
		Category:       string(t.Category),
		SortOrder:      t.SortOrder,
		Color:          t.Color,
		TreatmentCount: t.TreatmentCount,
	}
}
