package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// prices are JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

type MealType string

const (
	MealBread     MealType = "Bread"
	MealHotDinner MealType = "HotDinner"
	MealDrinks    MealType = "Drinks"
	MealOther     MealType = "Other"
)

var mealTypes = []MealType{MealBread, MealHotDinner, MealDrinks, MealOther}

func (m MealType) IsValid() bool {
	for _, t := range mealTypes {
		if m == t {
			return true
		}
	}
	return false
}

// ParseMealType matches a meal type name case-insensitively.
func ParseMealType(s string) (MealType, error) {
	for _, t := range mealTypes {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown meal type %q", s)
}

// UnmarshalText lets JSON input name a meal type in any case.
func (m *MealType) UnmarshalText(b []byte) error {
	t, err := ParseMealType(string(b))
	if err != nil {
		return err
	}
	*m = t
	return nil
}

type ReservationStatus string

const (
	StatusAvailable ReservationStatus = "Available"
	StatusReserved  ReservationStatus = "Reserved"
	StatusPickedUp  ReservationStatus = "PickedUp"
)

type NoShowStatus string

const (
	NoShowNone NoShowStatus = "None"
	NoShowSet  NoShowStatus = "NoShow"
)

type Package struct {
	ID                int               `db:"id" json:"id"`
	Name              string            `db:"name" json:"name"`
	ExampleProductIDs []int             `db:"example_product_ids" json:"exampleProductIds"`
	PickupDateTime    time.Time         `db:"pickup_date_time" json:"pickupDateTime"`
	LatestPickupTime  time.Time         `db:"latest_pickup_time" json:"latestPickupTime"`
	IsAdultPackage    bool              `db:"is_adult_package" json:"isAdultPackage"`
	Price             decimal.Decimal   `db:"price" json:"price"`
	MealType          MealType          `db:"meal_type" json:"mealType"`
	ReservationStatus ReservationStatus `db:"reservation_status" json:"reservationStatus"`
	NoShowStatus      NoShowStatus      `db:"no_show_status" json:"noShowStatus"`
	ReservedByID      *int              `db:"reserved_by_id" json:"reservedById"`
	CafeteriaID       int               `db:"cafeteria_id" json:"cafeteriaId"`
}

// PackageDraft is the staff input for creating or updating a package.
type PackageDraft struct {
	Name              string          `json:"name"`
	ExampleProductIDs []int           `json:"exampleProductIds"`
	PickupDateTime    time.Time       `json:"pickupDateTime"`
	LatestPickupTime  time.Time       `json:"latestPickupTime"`
	Price             decimal.Decimal `json:"price"`
	MealType          MealType        `json:"mealType"`
	CafeteriaID       int             `json:"cafeteriaId"`
}

type PackageView struct {
	Package
	Cafeteria CafeteriaView `json:"cafeteria"`
}

type PackageOrder string

const (
	OrderByName           PackageOrder = "name"
	OrderByNameDesc       PackageOrder = "name desc"
	OrderByPrice          PackageOrder = "price"
	OrderByPriceDesc      PackageOrder = "price desc"
	OrderByPickupDate     PackageOrder = "pickupdatetime"
	OrderByPickupDateDesc PackageOrder = "pickupdatetime desc"
)

// ParsePackageOrder normalizes an orderBy query value. Hyphenated and
// underscored descending forms are accepted; anything unrecognized falls back
// to pickup time ascending.
func ParsePackageOrder(s string) PackageOrder {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("-", " ", "_", " ").Replace(key)
	key = strings.Join(strings.Fields(key), " ")
	switch o := PackageOrder(key); o {
	case OrderByName, OrderByNameDesc, OrderByPrice, OrderByPriceDesc, OrderByPickupDate, OrderByPickupDateDesc:
		return o
	}
	return OrderByPickupDate
}

// PackageFilter selects packages in the store. Zero values mean "any"; an
// empty OrderBy keeps id order.
type PackageFilter struct {
	Status   ReservationStatus
	City     string
	MealType MealType
	OrderBy  PackageOrder
	IDs      []int
}

// PackageQuery is the caller-facing availability query.
type PackageQuery struct {
	City     string
	MealType MealType
	OrderBy  string
}
