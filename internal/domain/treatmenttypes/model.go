package treatmenttypes

// Category agrupa columnas de la grilla.
type Category string

const (
	CategoryVaccine     Category = "vaccine"
	CategoryTest        Category = "test"
	CategoryMaintenance Category = "maintenance"
	CategoryInjection   Category = "injection"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryVaccine, CategoryTest, CategoryMaintenance, CategoryInjection:
		return true
	}
	return false
}

type TreatmentType struct {
	ID        string
	Name      string
	Category  Category
	SortOrder int
	Color     *string

	TreatmentCount int
}
