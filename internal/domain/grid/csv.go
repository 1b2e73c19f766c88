package grid

import (
	"encoding/csv"
	"io"
	"time"

	"horse-treatment-records/internal/domain/treatments"
)

// WriteCSV escribe una fila por caballo y una columna por tipo de tratamiento. Cada celda
// tiene "fecha (staleness)", "(no date)" si el registro no tiene fecha, o nada.
func WriteCSV(w io.Writer, g Grid, now time.Time) error {
	cw := csv.NewWriter(w)

	header := []string{"horse", "barn_name", "owner", "stable"}
	for _, t := range g.Types {
		header = append(header, t.Name)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, h := range g.Horses {
		row := []string{h.Name, deref(h.BarnName), h.OwnerName, deref(h.StableName)}
		for _, t := range g.Types {
			c, ok := g.Cell(h.ID, t.ID)
			switch {
			case !ok:
				row = append(row, "")
			case c.Date == nil:
				row = append(row, "(no date)")
			default:
				row = append(row, *c.Date+" ("+string(treatments.Classify(c.Date, now))+")")
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
