package vets

import "horse-treatment-records/internal/platform/patch"

type Vet struct {
	ID     string
	Name   string
	Email  string
	Phone  string
	PIN    string
	Active bool

	HorseCount int
}

type ListFilter struct {
	Search string
	Active *bool
	Sort   string
}

type Patch struct {
	Name   patch.Field[string] `json:"name"`
	Email  patch.Field[string] `json:"email"`
	Phone  patch.Field[string] `json:"phone"`
	PIN    patch.Field[string] `json:"pin"`
	Active patch.Field[bool]   `json:"active"`
}

func (p Patch) Empty() bool {
	return !p.Name.Set && !p.Email.Set && !p.Phone.Set && !p.PIN.Set && !p.Active.Set
}
