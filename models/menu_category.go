package models

// Labels offered by the dish form. The backend does not enforce them; any
// label a dish carries is grouped as-is.
const (
	CategorySeafood    = "Hải sản"
	CategoryGrilled    = "Món nướng"
	CategoryVegetarian = "Món chay"
)

var MenuCategories = []string{CategorySeafood, CategoryGrilled, CategoryVegetarian}

type CategoryGroup struct {
	Category string `json:"category"`
	Dishes   []Dish `json:"dishes"`
}
