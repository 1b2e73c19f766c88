package stables

import "horse-treatment-records/internal/platform/patch"

// Stable es un establo de pensión; sus dueños (y por ellos, los caballos) quedan acotados a él.
type Stable struct {
	ID      string
	Name    string
	Contact string
	Address string
	Notes   string
	PIN     string
	Active  bool

	OwnerCount int
	HorseCount int
}

type ListFilter struct {
	Search string
	ID     string // limita la lista a un establo (llamadores con rol stable)
	Active *bool
	Sort   string
}

type Patch struct {
	Name    patch.Field[string] `json:"name"`
	Contact patch.Field[string] `json:"contact"`
	Address patch.Field[string] `json:"address"`
	Notes   patch.Field[string] `json:"notes"`
	PIN     patch.Field[string] `json:"pin"`
	Active  patch.Field[bool]   `json:"active"`
}

func (p Patch) Empty() bool {
	return !p.Name.Set && !p.Contact.Set && !p.Address.Set && !p.Notes.Set && !p.PIN.Set && !p.Active.Set
}
