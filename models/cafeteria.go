package models

type Cafeteria struct {
	ID                 int    `db:"id" json:"id"`
	City               string `db:"city" json:"city"`
	LocationIdentifier string `db:"location_identifier" json:"locationIdentifier"`
	HotMealsAvailable  bool   `db:"hot_meals_available" json:"hotMealsAvailable"`
	OperatingHours     string `db:"operating_hours" json:"operatingHours"`
}

type CafeteriaStaff struct {
	ID             int    `db:"id" json:"id"`
	Name           string `db:"name" json:"name"`
	EmployeeNumber string `db:"employee_number" json:"employeeNumber"`
	CafeteriaID    int    `db:"cafeteria_id" json:"cafeteriaId"`
}

type Product struct {
	ID              int     `db:"id" json:"id"`
	Name            string  `db:"name" json:"name"`
	ContainsAlcohol bool    `db:"contains_alcohol" json:"containsAlcohol"`
	PhotoURL        *string `db:"photo_url" json:"photoUrl,omitempty"`
	ProductType     string  `db:"product_type" json:"productType"`
}

// CafeteriaView is the denormalized cafeteria embedded in package responses.
type CafeteriaView struct {
	ID                 int    `json:"id"`
	City               string `json:"city"`
	LocationIdentifier string `json:"locationIdentifier"`
	HotMealsAvailable  bool   `json:"hotMealsAvailable"`
	OperatingHours     string `json:"operatingHours"`
}

func (c Cafeteria) View() CafeteriaView {
	return CafeteriaView(c)
}
