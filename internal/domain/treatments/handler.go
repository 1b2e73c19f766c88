package treatments

import (
	"net/http"
	"time"

	"horse-treatment-records/internal/middleware"
	"horse-treatment-records/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta los endpoints de escritura de tratamientos; todos piden rol con escritura.
func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/treatments", func(tr chi.Router) {
		tr.Use(middleware.RequireWriter)
		tr.Put("/", upsertHandler(svc))
		tr.Post("/batch", batchHandler(svc))
		tr.Delete("/{treatmentID}", deleteHandler(svc))
	})
}

type batchRequest struct {
	Treatments []UpsertInput `json:"treatments"`
}

type treatmentResponse struct {
	ID              string    `json:"id"`
	HorseID         string    `json:"horse_id"`
	TreatmentTypeID string    `json:"treatment_type_id"`
	TreatmentDate   *string   `json:"treatment_date"`
	Notes           *string   `json:"notes"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// upsertHandler godoc
// @Summary Set the date of one horse/treatment-type cell
// @Description Inserts the record or overwrites date and notes of the existing one for the pair. Omitted or null notes clear the note.
// @Tags treatments
// @Accept json
// @Produce json
// @Param body body UpsertInput true "Cell"
// @Success 200 {object} treatmentResponse
// @Failure 400 {object} httpjson.ErrorBody
// @Failure 404 {object} httpjson.ErrorBody
// @Router /treatments [put]
func upsertHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in UpsertInput
		if err := httpjson.Decode(r, &in); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		t, err := svc.Upsert(r.Context(), in)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, toTreatmentResponse(t))
	}
}

// batchHandler godoc
// @Summary Upsert many cells atomically
// @Tags treatments
// @Accept json
// @Produce json
// @Param body body batchRequest true "Cells"
// @Success 200 {array} treatmentResponse
// @Failure 400 {object} httpjson.ErrorBody
// @Router /treatments/batch [post]
func batchHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req batchRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		items, err := svc.Batch(r.Context(), req.Treatments)
		if err != nil {
			httpjson.Error(w, r, err)
			return
		}
		out := make([]treatmentResponse, 0, len(items))
		for _, t := range items {
			out = append(out, toTreatmentResponse(t))
		}
		httpjson.Write(w, http.StatusOK, out)
	}
}

func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "treatmentID")
		if err := svc.Delete(r.Context(), id); err != nil {
			httpjson.Error(w, r, err)
			return
		}
		httpjson.Write(w, http.StatusOK, map[string]string{"deleted": id})
	}
}

func toTreatmentResponse(t Treatment) treatmentResponse {
	return treatmentResponse{
		ID:              t.ID,
		HorseID:         t.HorseID,
		TreatmentTypeID: t.TreatmentTypeID,
		TreatmentDate:   t.Date,
		Notes:           t.Notes,
		UpdatedAt:       t.UpdatedAt,
	}
}
