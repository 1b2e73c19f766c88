package httpjson

import (
	"strconv"
	"strings"

	"horse-treatment-records/internal/platform/apperr"
)

// OptionalBool parsea un flag de query. "" y "all" significan sin filtro.
func OptionalBool(name, raw string) (*bool, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" || raw == "all" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperr.Invalid("%s must be true, false or all", name)
	}
	return &b, nil
}
