package treatments

import "time"

// Staleness clasifica, solo para mostrar, hace cuánto se hizo un tratamiento.
type Staleness string

const (
	StalenessBlank   Staleness = "blank"
	StalenessOverdue Staleness = "overdue"
	StalenessDueSoon Staleness = "due-soon"
	StalenessRecent  Staleness = "recent"
	StalenessNeutral Staleness = "neutral"
)

const (
	overdueAfterDays = 365
	dueSoonAfterDays = 270
	recentWithinDays = 90
)

// Classify agrupa una fecha YYYY-MM-DD por su antigüedad en días completos respecto de now.
// Sin fecha o con fecha inválida queda en blanco.
func Classify(date *string, now time.Time) Staleness {
	if date == nil || *date == "" {
		return StalenessBlank
	}
	d, err := time.Parse(DateLayout, *date)
	if err != nil {
		return StalenessBlank
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	age := int(today.Sub(d).Hours() / 24)

	switch {
	case age > overdueAfterDays:
		return StalenessOverdue
	case age > dueSoonAfterDays:
		return StalenessDueSoon
	case age <= recentWithinDays:
		return StalenessRecent
	default:
		return StalenessNeutral
	}
}
