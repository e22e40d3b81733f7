package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Reservation struct {
	ID              int       `db:"id" json:"id"`
	StudentID       int       `db:"student_id" json:"studentId"`
	PackageID       int       `db:"package_id" json:"packageId"`
	ReservationDate time.Time `db:"reservation_date" json:"reservationDate"`
}

type ReservationFilter struct {
	StudentID *int
	PackageID *int
}

// ReservationDetail is a reserved package expanded with its cafeteria.
// The reservation fields are zero when the detail is built from a package alone.
type ReservationDetail struct {
	ReservationID     int               `json:"reservationId,omitempty"`
	StudentID         int               `json:"studentId,omitempty"`
	ReservationDate   *time.Time        `json:"reservationDate,omitempty"`
	PackageID         int               `json:"packageId"`
	PackageName       string            `json:"packageName"`
	ExampleProductIDs []int             `json:"exampleProductIds"`
	PickupDateTime    time.Time         `json:"pickupDateTime"`
	LatestPickupTime  time.Time         `json:"latestPickupTime"`
	IsAdultPackage    bool              `json:"isAdultPackage"`
	Price             decimal.Decimal   `json:"price"`
	MealType          MealType          `json:"mealType"`
	ReservationStatus ReservationStatus `json:"reservationStatus"`
	NoShowStatus      NoShowStatus      `json:"noShowStatus"`
	Cafeteria         CafeteriaView     `json:"cafeteria"`
}

func NewReservationDetail(p Package, c Cafeteria) ReservationDetail {
	return ReservationDetail{
		PackageID:         p.ID,
		PackageName:       p.Name,
		ExampleProductIDs: p.ExampleProductIDs,
		PickupDateTime:    p.PickupDateTime,
		LatestPickupTime:  p.LatestPickupTime,
		IsAdultPackage:    p.IsAdultPackage,
		Price:             p.Price,
		MealType:          p.MealType,
		ReservationStatus: p.ReservationStatus,
		NoShowStatus:      p.NoShowStatus,
		Cafeteria:         c.View(),
	}
}

func (d ReservationDetail) WithReservation(r Reservation) ReservationDetail {
	date := r.ReservationDate
	d.ReservationID = r.ID
	d.StudentID = r.StudentID
	d.ReservationDate = &date
	return d
}

type StudentOverview struct {
	AvailablePackages []PackageView       `json:"availablePackages"`
	ReservedPackages  []ReservationDetail `json:"reservedPackages"`
}
