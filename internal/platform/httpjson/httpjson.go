// Package httpjson agrupa los helpers de respuesta JSON que usan los módulos HTTP.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"horse-treatment-records/internal/platform/apperr"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const maxBodyBytes = 1 << 20

// ErrorBody es la forma JSON de toda respuesta de error.
type ErrorBody struct {
	Error string `json:"error"`
}

func Write(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Decode lee un body JSON en v. Los campos desconocidos se ignoran.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Invalid("request body required")
		}
		return apperr.Invalid("invalid json")
	}
	return nil
}

// Status traduce un tipo de error a su código HTTP.
func Status(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalidInput), errors.Is(err, apperr.ErrBlocked), errors.Is(err, apperr.ErrReference):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// Error escribe err como {"error": "..."}. Los errores de servidor se loguean y se reemplazan por un mensaje genérico.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)
	msg := apperr.Message(err)
	if status == http.StatusInternalServerError {
		slog.Default().ErrorContext(r.Context(), "internal error",
			slog.String("request_id", chimw.GetReqID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		msg = "internal error"
	}
	Write(w, status, ErrorBody{Error: msg})
}
