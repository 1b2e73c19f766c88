package httpjson

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"horse-treatment-records/internal/platform/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperr.Invalid("name required"), http.StatusBadRequest},
		{apperr.Blocked("has children"), http.StatusBadRequest},
		{fmt.Errorf("insert: %w", apperr.ErrReference), http.StatusBadRequest},
		{apperr.NotFound("horse not found"), http.StatusNotFound},
		{apperr.Conflict("duplicate"), http.StatusConflict},
		{apperr.Unauthorized("expired"), http.StatusUnauthorized},
		{apperr.Forbidden("nope"), http.StatusForbidden},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Status(tt.err), tt.err.Error())
	}
}

func TestError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/horses", nil)

	Error(rec, req, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal error"}`, rec.Body.String())
}

func TestError_ExposesDomainMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/owners/1", nil)

	Error(rec, req, apperr.Blocked("owner has %d active horse(s)", 3))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"owner has 3 active horse(s)"}`, rec.Body.String())
}

func TestDecode(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Carr","extra":1}`))
	require.NoError(t, Decode(req, &v))
	assert.Equal(t, "Carr", v.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
	assert.ErrorIs(t, Decode(req, &v), apperr.ErrInvalidInput)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.ErrorIs(t, Decode(req, &v), apperr.ErrInvalidInput)
}

func TestOptionalBool(t *testing.T) {
	v, err := OptionalBool("active", "")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = OptionalBool("active", "all")
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = OptionalBool("active", "0")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.False(t, *v)

	_, err = OptionalBool("active", "maybe")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
