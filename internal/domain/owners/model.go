package owners

import "horse-treatment-records/internal/platform/patch"

type Owner struct {
	ID       string
	Name     string
	Contact  string
	Notes    string
	StableID *string

	StableName *string
	HorseCount int
}

type ListFilter struct {
	Search   string
	StableID string
	Sort     string
}

// HorseCounts separa por flag active los caballos que aún tiene un dueño.
type HorseCounts struct {
	Active   int
	Inactive int
}

type Patch struct {
	Name     patch.Field[string] `json:"name"`
	Contact  patch.Field[string] `json:"contact"`
	Notes    patch.Field[string] `json:"notes"`
	StableID patch.Field[string] `json:"stable_id"`
}

func (p Patch) Empty() bool {
	return !p.Name.Set && !p.Contact.Set && !p.Notes.Set && !p.StableID.Set
}
