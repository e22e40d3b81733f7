package services

import (
	"context"
	"testing"
	"time"

	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/store"
	"github.com/shopspring/decimal"
)

var errInvalidFields = &models.AppError{Kind: models.KindInvalidInput, Reason: models.ReasonFields}

func TestPackageService_Create(t *testing.T) {
	f := newFixture(t)
	tomorrow := f.now.Add(24 * time.Hour)

	tests := []struct {
		name      string
		draft     func() models.PackageDraft
		wantErr   *models.AppError
		wantAdult bool
	}{
		{
			name:  "bread only",
			draft: func() models.PackageDraft { return f.draft("Bread", tomorrow, f.bread.ID) },
		},
		{
			name:      "alcohol makes an adult package",
			draft:     func() models.PackageDraft { return f.draft("Drinks", tomorrow, f.bread.ID, f.beer.ID) },
			wantAdult: true,
		},
		{
			name: "unknown cafeteria",
			draft: func() models.PackageDraft {
				d := f.draft("Bread", tomorrow, f.bread.ID)
				d.CafeteriaID = 999
				return d
			},
			wantErr: models.ErrCafeteriaNotFound,
		},
		{
			name: "cafeteria without hot meals rejects every package",
			draft: func() models.PackageDraft {
				d := f.draft("Bread", tomorrow, f.bread.ID)
				d.CafeteriaID = f.cold.ID
				return d
			},
			wantErr: models.ErrHotMealsUnsupported,
		},
		{
			name:    "unknown products",
			draft:   func() models.PackageDraft { return f.draft("Bread", tomorrow, 98, f.bread.ID, 99) },
			wantErr: models.ErrInvalidProducts,
		},
		{
			name:    "products are checked before the pickup window",
			draft:   func() models.PackageDraft { return f.draft("Bread", f.now.Add(-time.Hour), 98) },
			wantErr: models.ErrInvalidProducts,
		},
		{
			name:    "pickup in the past",
			draft:   func() models.PackageDraft { return f.draft("Bread", f.now.Add(-time.Minute), f.bread.ID) },
			wantErr: models.ErrPastPickup,
		},
		{
			name: "latest pickup equal to pickup",
			draft: func() models.PackageDraft {
				d := f.draft("Bread", tomorrow, f.bread.ID)
				d.LatestPickupTime = d.PickupDateTime
				return d
			},
			wantErr: models.ErrPickupOrder,
		},
		{
			name: "ordering is checked before the planning horizon",
			draft: func() models.PackageDraft {
				d := f.draft("Bread", f.now.Add(72*time.Hour), f.bread.ID)
				d.LatestPickupTime = d.PickupDateTime.Add(-time.Hour)
				return d
			},
			wantErr: models.ErrPickupOrder,
		},
		{
			name:    "more than two days ahead",
			draft:   func() models.PackageDraft { return f.draft("Bread", f.now.Add(MaxPlanningAhead+time.Minute), f.bread.ID) },
			wantErr: models.ErrPickupTooFarAhead,
		},
		{
			name:  "exactly two days ahead",
			draft: func() models.PackageDraft { return f.draft("Bread", f.now.Add(MaxPlanningAhead), f.bread.ID) },
		},
		{
			name: "missing name and negative price",
			draft: func() models.PackageDraft {
				d := f.draft(" ", tomorrow, f.bread.ID)
				d.Price = decimal.NewFromInt(-1)
				return d
			},
			wantErr: errInvalidFields,
		},
		{
			name: "fields are checked before the cafeteria",
			draft: func() models.PackageDraft {
				d := f.draft("", tomorrow, f.bread.ID)
				d.CafeteriaID = 999
				return d
			},
			wantErr: errInvalidFields,
		},
		{
			name:    "fields are checked before the pickup window",
			draft:   func() models.PackageDraft { return f.draft("", f.now.Add(-time.Hour), f.bread.ID) },
			wantErr: errInvalidFields,
		},
		{
			name: "fields are checked before the products",
			draft: func() models.PackageDraft {
				d := f.draft("Bread", tomorrow, 98)
				d.MealType = "Pizza"
				return d
			},
			wantErr: errInvalidFields,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.packages.Create(context.Background(), tt.draft())
			assertAppError(t, err, tt.wantErr)
			if tt.wantErr != nil {
				return
			}

			if got.IsAdultPackage != tt.wantAdult {
				t.Errorf("IsAdultPackage = %v, want %v", got.IsAdultPackage, tt.wantAdult)
			}
			if got.ReservationStatus != models.StatusAvailable {
				t.Errorf("ReservationStatus = %s, want Available", got.ReservationStatus)
			}
			if got.NoShowStatus != models.NoShowNone {
				t.Errorf("NoShowStatus = %s, want None", got.NoShowStatus)
			}
			if got.Cafeteria.ID != f.hot.ID || got.Cafeteria.City != "Breda" {
				t.Errorf("Cafeteria = %+v", got.Cafeteria)
			}
		})
	}
}

func TestPackageService_CreateInvalidProductDetails(t *testing.T) {
	f := newFixture(t)

	_, err := f.packages.Create(context.Background(), f.draft("Bread", f.now.Add(time.Hour), 4, f.bread.ID, 9, 4))
	assertAppError(t, err, models.ErrInvalidProducts)

	appErr := err.(*models.AppError)
	if appErr.Details != "Invalid product IDs: 4, 9" {
		t.Errorf("Details = %q", appErr.Details)
	}
	if appErr.Kind != models.KindInvalidReference {
		t.Errorf("Kind = %s", appErr.Kind)
	}
}

func TestPackageService_Update(t *testing.T) {
	f := newFixture(t)
	tomorrow := f.now.Add(24 * time.Hour)
	base := f.addPackage(t, f.draft("Bread", tomorrow, f.bread.ID))

	t.Run("unknown package", func(t *testing.T) {
		_, err := f.packages.Update(context.Background(), 999, f.draft("Bread", tomorrow, f.bread.ID))
		assertAppError(t, err, models.ErrPackageNotFound)
	})

	t.Run("moving to a cafeteria without hot meals", func(t *testing.T) {
		d := f.draft("Bread", tomorrow, f.bread.ID)
		d.CafeteriaID = f.cold.ID
		_, err := f.packages.Update(context.Background(), base.ID, d)
		assertAppError(t, err, models.ErrHotMealsUnsupported)
	})

	t.Run("changed products are validated", func(t *testing.T) {
		_, err := f.packages.Update(context.Background(), base.ID, f.draft("Bread", tomorrow, f.bread.ID, 77))
		assertAppError(t, err, models.ErrInvalidProducts)
	})

	t.Run("pickup window is always checked", func(t *testing.T) {
		_, err := f.packages.Update(context.Background(), base.ID, f.draft("Bread", f.now.Add(-time.Hour), f.bread.ID))
		assertAppError(t, err, models.ErrPastPickup)

		appErr := err.(*models.AppError)
		if appErr.Message != "Invalid date or time provided. Please check your input." {
			t.Errorf("Message = %q", appErr.Message)
		}
		if appErr.Details != "Pickup date and time cannot be in the past." {
			t.Errorf("Details = %q", appErr.Details)
		}
	})

	t.Run("time order on update", func(t *testing.T) {
		d := f.draft("Bread", tomorrow, f.bread.ID)
		d.LatestPickupTime = d.PickupDateTime.Add(-time.Minute)
		_, err := f.packages.Update(context.Background(), base.ID, d)
		assertAppError(t, err, models.ErrPickupOrder)
		if appErr := err.(*models.AppError); appErr.Details != "Latest pickup time must be after the pickup date and time." {
			t.Errorf("Details = %q", appErr.Details)
		}
	})

	t.Run("fields are checked before the package lookup", func(t *testing.T) {
		_, err := f.packages.Update(context.Background(), 999, f.draft(" ", tomorrow, f.bread.ID))
		assertAppError(t, err, errInvalidFields)
	})

	t.Run("fields are checked before the cafeteria", func(t *testing.T) {
		d := f.draft("", tomorrow, f.bread.ID)
		d.CafeteriaID = 999
		_, err := f.packages.Update(context.Background(), base.ID, d)
		assertAppError(t, err, errInvalidFields)
	})

	t.Run("unchanged cafeteria is not re-checked for hot meals", func(t *testing.T) {
		legacy := models.Package{
			Name:              "Legacy",
			ExampleProductIDs: []int{f.bread.ID},
			PickupDateTime:    tomorrow,
			LatestPickupTime:  tomorrow.Add(time.Hour),
			Price:             decimal.RequireFromString("1.00"),
			MealType:          models.MealBread,
			ReservationStatus: models.StatusAvailable,
			NoShowStatus:      models.NoShowNone,
			CafeteriaID:       f.cold.ID,
		}
		err := f.store.WithTx(context.Background(), func(tx store.Tx) error {
			return tx.InsertPackage(context.Background(), &legacy)
		})
		if err != nil {
			t.Fatalf("insert package: %v", err)
		}

		d := f.draft("Legacy renamed", tomorrow, f.bread.ID)
		d.CafeteriaID = f.cold.ID
		got, err := f.packages.Update(context.Background(), legacy.ID, d)
		assertAppError(t, err, nil)
		if got.Name != "Legacy renamed" || got.CafeteriaID != f.cold.ID || got.Cafeteria.ID != f.cold.ID {
			t.Errorf("updated package = %+v", got)
		}
		if stored := f.pkg(t, legacy.ID); stored.Name != "Legacy renamed" {
			t.Errorf("stored name = %q", stored.Name)
		}
	})

	t.Run("adding alcohol re-derives the adult flag", func(t *testing.T) {
		d := f.draft("Party", tomorrow, f.bread.ID, f.beer.ID)
		d.MealType = models.MealDrinks
		got, err := f.packages.Update(context.Background(), base.ID, d)
		assertAppError(t, err, nil)
		if !got.IsAdultPackage || got.Name != "Party" || got.MealType != models.MealDrinks {
			t.Errorf("updated package = %+v", got.Package)
		}
		if stored := f.pkg(t, base.ID); !stored.IsAdultPackage {
			t.Error("stored package should be adult")
		}
	})

	t.Run("reservation state is kept", func(t *testing.T) {
		student := f.addStudent(t, "alice", "1000001", f.birthday(20))
		if _, err := f.reservations.Create(context.Background(), student.ID, base.ID); err != nil {
			t.Fatalf("reserve: %v", err)
		}
		got, err := f.packages.Update(context.Background(), base.ID, f.draft("Bread", tomorrow, f.bread.ID))
		assertAppError(t, err, nil)
		if got.ReservationStatus != models.StatusReserved || got.ReservedByID == nil || *got.ReservedByID != student.ID {
			t.Errorf("reservation state lost: %+v", got.Package)
		}
		if got.IsAdultPackage {
			t.Error("adult flag should be cleared once the beer is gone")
		}
	})
}

func TestPackageService_Delete(t *testing.T) {
	f := newFixture(t)
	tomorrow := f.now.Add(24 * time.Hour)
	student := f.addStudent(t, "alice", "1000001", f.birthday(20))

	available := f.addPackage(t, f.draft("Available", tomorrow, f.bread.ID))
	reserved := f.addPackage(t, f.draft("Reserved", tomorrow, f.bread.ID))
	pickedUp := f.addPackage(t, f.draft("PickedUp", tomorrow.Add(24*time.Hour), f.bread.ID))

	if _, err := f.reservations.Create(context.Background(), student.ID, reserved.ID); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	err := f.store.WithTx(context.Background(), func(tx store.Tx) error {
		_, err := tx.SetPackageReservation(context.Background(), pickedUp.ID, models.StatusAvailable, models.StatusPickedUp, &student.ID)
		return err
	})
	if err != nil {
		t.Fatalf("mark picked up: %v", err)
	}

	tests := []struct {
		name    string
		id      int
		wantErr *models.AppError
	}{
		{name: "reserved package", id: reserved.ID, wantErr: models.ErrAlreadyReserved},
		{name: "available package", id: available.ID},
		{name: "picked up package", id: pickedUp.ID},
		{name: "already deleted", id: available.ID, wantErr: models.ErrPackageNotFound},
		{name: "unknown package", id: 999, wantErr: models.ErrPackageNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertAppError(t, f.packages.Delete(context.Background(), tt.id), tt.wantErr)
		})
	}

	if _, err := f.store.PackageByID(context.Background(), reserved.ID); err != nil {
		t.Errorf("reserved package should survive: %v", err)
	}
}

func TestPackageService_ListAvailable(t *testing.T) {
	f := newFixture(t)

	var bosch models.Cafeteria
	err := f.store.WithTx(context.Background(), func(tx store.Tx) error {
		bosch = models.Cafeteria{City: "Den Bosch", LocationIdentifier: "3c", HotMealsAvailable: true}
		return tx.InsertCafeteria(context.Background(), &bosch)
	})
	if err != nil {
		t.Fatalf("insert cafeteria: %v", err)
	}

	mk := func(name string, pickup time.Duration, price string, meal models.MealType, cafeteria int) models.PackageView {
		d := f.draft(name, f.now.Add(pickup), f.bread.ID)
		d.Price = decimal.RequireFromString(price)
		d.MealType = meal
		d.CafeteriaID = cafeteria
		return f.addPackage(t, d)
	}
	carrot := mk("Carrot", 30*time.Hour, "4.00", models.MealOther, f.hot.ID)
	apple := mk("Apple", 10*time.Hour, "1.50", models.MealBread, f.hot.ID)
	bagel := mk("Bagel", 20*time.Hour, "3.00", models.MealBread, bosch.ID)
	taken := mk("Taken", 5*time.Hour, "0.50", models.MealBread, f.hot.ID)

	student := f.addStudent(t, "alice", "1000001", f.birthday(20))
	if _, err := f.reservations.Create(context.Background(), student.ID, taken.ID); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	tests := []struct {
		name  string
		query models.PackageQuery
		want  []int
	}{
		{name: "default is pickup ascending", query: models.PackageQuery{}, want: []int{apple.ID, bagel.ID, carrot.ID}},
		{name: "unknown key falls back to pickup", query: models.PackageQuery{OrderBy: "colour"}, want: []int{apple.ID, bagel.ID, carrot.ID}},
		{name: "name", query: models.PackageQuery{OrderBy: "Name"}, want: []int{apple.ID, bagel.ID, carrot.ID}},
		{name: "name desc", query: models.PackageQuery{OrderBy: "name desc"}, want: []int{carrot.ID, bagel.ID, apple.ID}},
		{name: "hyphenated price desc", query: models.PackageQuery{OrderBy: "price-desc"}, want: []int{carrot.ID, bagel.ID, apple.ID}},
		{name: "price", query: models.PackageQuery{OrderBy: "price"}, want: []int{apple.ID, bagel.ID, carrot.ID}},
		{name: "pickup desc", query: models.PackageQuery{OrderBy: "pickupDateTime desc"}, want: []int{carrot.ID, bagel.ID, apple.ID}},
		{name: "city is case-insensitive", query: models.PackageQuery{City: "breda"}, want: []int{apple.ID, carrot.ID}},
		{name: "meal type", query: models.PackageQuery{MealType: models.MealBread}, want: []int{apple.ID, bagel.ID}},
		{name: "city and meal type", query: models.PackageQuery{City: "DEN BOSCH", MealType: models.MealBread}, want: []int{bagel.ID}},
		{name: "no match", query: models.PackageQuery{City: "Utrecht"}, want: []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.packages.ListAvailable(context.Background(), tt.query)
			assertAppError(t, err, nil)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d packages, want %d", len(got), len(tt.want))
			}
			for i, p := range got {
				if p.ID != tt.want[i] {
					t.Errorf("position %d = package %d, want %d", i, p.ID, tt.want[i])
				}
				if p.Cafeteria.ID != p.CafeteriaID {
					t.Errorf("package %d carries cafeteria %d", p.ID, p.Cafeteria.ID)
				}
			}
		})
	}
}

func TestPackageService_Overview(t *testing.T) {
	f := newFixture(t)
	tomorrow := f.now.Add(24 * time.Hour)

	alice := f.addStudent(t, "alice", "1000001", f.birthday(20))
	first := f.addPackage(t, f.draft("First", tomorrow, f.bread.ID))
	second := f.addPackage(t, f.draft("Second", tomorrow.Add(-time.Hour), f.bread.ID))
	if _, err := f.reservations.Create(context.Background(), alice.ID, first.ID); err != nil {
		t.Fatalf("reserve: %v", err)
	}

	got, err := f.packages.Overview(context.Background(), alice.ID)
	assertAppError(t, err, nil)
	if len(got.AvailablePackages) != 1 || got.AvailablePackages[0].ID != second.ID {
		t.Errorf("AvailablePackages = %+v", got.AvailablePackages)
	}
	if len(got.ReservedPackages) != 1 {
		t.Fatalf("ReservedPackages = %+v", got.ReservedPackages)
	}
	reserved := got.ReservedPackages[0]
	if reserved.PackageID != first.ID || reserved.ReservationStatus != models.StatusReserved {
		t.Errorf("reserved = %+v", reserved)
	}
	if reserved.Cafeteria.City != "Breda" {
		t.Errorf("reserved cafeteria = %+v", reserved.Cafeteria)
	}

	t.Run("unknown student gets an empty reserved list", func(t *testing.T) {
		got, err := f.packages.Overview(context.Background(), 999)
		assertAppError(t, err, nil)
		if len(got.ReservedPackages) != 0 {
			t.Errorf("ReservedPackages = %+v", got.ReservedPackages)
		}
		if len(got.AvailablePackages) != 1 {
			t.Errorf("AvailablePackages = %+v", got.AvailablePackages)
		}
	})
}
