package sqlstore

import (
	"strings"

	"horse-treatment-records/internal/platform/patch"
)

// assignments junta la lista SET de un update parcial.
type assignments struct {
	cols []string
	args []any
}

func (a *assignments) set(col string, v any) {
	a.cols = append(a.cols, col+" = ?")
	a.args = append(a.args, v)
}

func (a *assignments) clause() string {
	return strings.Join(a.cols, ", ")
}

// text lleva un valor del patch a una columna NOT NULL: null pasa a "".
func text(f patch.Field[string]) any {
	return strings.TrimSpace(f.Or(""))
}

// nullableText lleva un valor del patch a una columna nullable.
func nullableText(f patch.Field[string]) any {
	if f.Value == nil {
		return nil
	}
	return strings.TrimSpace(*f.Value)
}
