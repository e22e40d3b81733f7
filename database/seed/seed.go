// Package seed loads the sample campus data used by fresh installations.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/store"
	"github.com/ray-remotestate/foodwaste/utils"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Result holds the ids of the seeded rows.
type Result struct {
	Cafeterias []int
	Products   []int
	Students   []int
	Packages   []int
}

// Run seeds s unless it already holds cafeterias. Every seeded student and
// staff member gets a login with password.
func Run(ctx context.Context, s store.Store, password string, now time.Time) (*Result, error) {
	existing, err := s.ListCafeterias(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing data: %w", err)
	}
	if len(existing) > 0 {
		logrus.Info("seed skipped, data already present")
		return nil, nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash seed password: %w", err)
	}

	res := &Result{}
	err = s.WithTx(ctx, func(tx store.Tx) error {
		cafeterias := []models.Cafeteria{
			{City: "Breda", LocationIdentifier: "1a", HotMealsAvailable: true, OperatingHours: "8:00-17:00"},
			{City: "Tilburg", LocationIdentifier: "2b", HotMealsAvailable: false, OperatingHours: "9:00-16:00"},
			{City: "Den Bosch", LocationIdentifier: "3c", HotMealsAvailable: true, OperatingHours: "8:30-17:30"},
		}
		for i := range cafeterias {
			if err := tx.InsertCafeteria(ctx, &cafeterias[i]); err != nil {
				return err
			}
			res.Cafeterias = append(res.Cafeterias, cafeterias[i].ID)
		}

		staff := []models.CafeteriaStaff{
			{Name: "John Doe", EmployeeNumber: "12345", CafeteriaID: cafeterias[0].ID},
			{Name: "Jane Doe", EmployeeNumber: "67890", CafeteriaID: cafeterias[1].ID},
			{Name: "Peter Jones", EmployeeNumber: "13579", CafeteriaID: cafeterias[2].ID},
		}
		for i := range staff {
			if err := tx.InsertStaff(ctx, &staff[i]); err != nil {
				return err
			}
			user := models.User{
				Email:            fmt.Sprintf("staff%d@foodwaste.test", i+1),
				Password:         hash,
				Role:             models.RoleStaff,
				CafeteriaStaffID: &staff[i].ID,
			}
			if err := tx.InsertUser(ctx, &user); err != nil {
				return err
			}
		}

		products := []models.Product{
			{Name: "Baguette", ProductType: "Bread"},
			{Name: "Croissant", ProductType: "Bread"},
			{Name: "Salad", ProductType: "Other"},
			{Name: "Pasta", ProductType: "HotDinner"},
			{Name: "Beer", ContainsAlcohol: true, ProductType: "Drinks"},
		}
		for i := range products {
			if err := tx.InsertProduct(ctx, &products[i]); err != nil {
				return err
			}
			res.Products = append(res.Products, products[i].ID)
		}

		students := []models.Student{
			{Name: "Alice", DateOfBirth: date(2005, time.May, 10), StudentNumber: "1234567", Email: "alice@example.com", StudyCity: "Breda", PhoneNumber: "1234567890"},
			{Name: "Bob", DateOfBirth: date(2004, time.November, 20), StudentNumber: "7654321", Email: "bob@example.com", StudyCity: "Tilburg", PhoneNumber: "9876543210"},
			{Name: "Charlie", DateOfBirth: date(2007, time.February, 15), StudentNumber: "9876543", Email: "charlie@example.com", StudyCity: "Den Bosch", PhoneNumber: "5551234567"},
		}
		for i := range students {
			if err := tx.InsertStudent(ctx, &students[i]); err != nil {
				return err
			}
			res.Students = append(res.Students, students[i].ID)
			user := models.User{
				Email:     students[i].Email,
				Password:  hash,
				Role:      models.RoleStudent,
				StudentID: &students[i].ID,
			}
			if err := tx.InsertUser(ctx, &user); err != nil {
				return err
			}
		}

		packages := []models.Package{
			{
				Name:              "Leftover Bread",
				ExampleProductIDs: []int{products[0].ID, products[1].ID},
				PickupDateTime:    now.Add(24 * time.Hour),
				LatestPickupTime:  now.Add(25 * time.Hour),
				Price:             decimal.RequireFromString("2.50"),
				MealType:          models.MealBread,
				CafeteriaID:       cafeterias[0].ID,
			},
			{
				Name:              "Hot Meal Deal",
				ExampleProductIDs: []int{products[3].ID, products[2].ID},
				PickupDateTime:    now.Add(47 * time.Hour),
				LatestPickupTime:  now.Add(48 * time.Hour),
				Price:             decimal.RequireFromString("5.00"),
				MealType:          models.MealHotDinner,
				CafeteriaID:       cafeterias[2].ID,
			},
			{
				Name:              "Drinks Combo",
				ExampleProductIDs: []int{products[4].ID},
				PickupDateTime:    now.Add(24 * time.Hour),
				LatestPickupTime:  now.Add(25 * time.Hour),
				IsAdultPackage:    true,
				Price:             decimal.RequireFromString("3.00"),
				MealType:          models.MealDrinks,
				CafeteriaID:       cafeterias[0].ID,
			},
		}
		for i := range packages {
			packages[i].ReservationStatus = models.StatusAvailable
			packages[i].NoShowStatus = models.NoShowNone
			if err := tx.InsertPackage(ctx, &packages[i]); err != nil {
				return err
			}
			res.Packages = append(res.Packages, packages[i].ID)
		}

		// Alice holds the bread package.
		reservation := models.Reservation{
			StudentID:       students[0].ID,
			PackageID:       packages[0].ID,
			ReservationDate: now.Add(-24 * time.Hour).UTC(),
		}
		if err := tx.InsertReservation(ctx, &reservation); err != nil {
			return err
		}
		_, err := tx.SetPackageReservation(ctx, packages[0].ID, models.StatusAvailable, models.StatusReserved, &students[0].ID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed data: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"cafeterias": len(res.Cafeterias),
		"products":   len(res.Products),
		"students":   len(res.Students),
		"packages":   len(res.Packages),
	}).Info("seed data loaded")
	return res, nil
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
