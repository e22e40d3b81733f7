package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/store"
	"github.com/ray-remotestate/foodwaste/store/memory"
	"github.com/shopspring/decimal"
)

var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store        *memory.Store
	now          time.Time
	hot          models.Cafeteria
	cold         models.Cafeteria
	bread        models.Product
	beer         models.Product
	packages     *PackageService
	reservations *ReservationService
	students     *StudentService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{store: memory.New(), now: testNow}
	clock := func() time.Time { return f.now }
	f.packages = NewPackageService(f.store, clock)
	f.reservations = NewReservationService(f.store, clock)
	f.students = NewStudentService(f.store, clock)

	err := f.store.WithTx(context.Background(), func(tx store.Tx) error {
		f.hot = models.Cafeteria{City: "Breda", LocationIdentifier: "1a", HotMealsAvailable: true, OperatingHours: "8:00-17:00"}
		f.cold = models.Cafeteria{City: "Tilburg", LocationIdentifier: "2b", OperatingHours: "9:00-16:00"}
		f.bread = models.Product{Name: "Baguette", ProductType: "Bread"}
		f.beer = models.Product{Name: "Beer", ContainsAlcohol: true, ProductType: "Drinks"}
		return errors.Join(
			tx.InsertCafeteria(context.Background(), &f.hot),
			tx.InsertCafeteria(context.Background(), &f.cold),
			tx.InsertProduct(context.Background(), &f.bread),
			tx.InsertProduct(context.Background(), &f.beer),
		)
	})
	if err != nil {
		t.Fatalf("failed to set up fixture: %v", err)
	}
	return f
}

// birthday returns the date of birth of someone turning age on the fixture's today.
func (f *fixture) birthday(age int) time.Time {
	y, m, d := f.now.Date()
	return time.Date(y-age, m, d, 0, 0, 0, 0, time.UTC)
}

func (f *fixture) addStudent(t *testing.T, name, number string, dob time.Time) models.Student {
	t.Helper()
	s, err := f.students.Create(context.Background(), models.StudentDraft{
		Name:          name,
		DateOfBirth:   dob,
		StudentNumber: number,
		Email:         name + "@example.com",
		StudyCity:     "Breda",
	})
	if err != nil {
		t.Fatalf("failed to add student %s: %v", name, err)
	}
	return *s
}

func (f *fixture) draft(name string, pickup time.Time, productIDs ...int) models.PackageDraft {
	return models.PackageDraft{
		Name:              name,
		ExampleProductIDs: productIDs,
		PickupDateTime:    pickup,
		LatestPickupTime:  pickup.Add(time.Hour),
		Price:             decimal.RequireFromString("2.50"),
		MealType:          models.MealBread,
		CafeteriaID:       f.hot.ID,
	}
}

func (f *fixture) addPackage(t *testing.T, draft models.PackageDraft) models.PackageView {
	t.Helper()
	p, err := f.packages.Create(context.Background(), draft)
	if err != nil {
		t.Fatalf("failed to add package %s: %v", draft.Name, err)
	}
	return *p
}

func (f *fixture) pkg(t *testing.T, id int) models.Package {
	t.Helper()
	p, err := f.store.PackageByID(context.Background(), id)
	if err != nil {
		t.Fatalf("failed to load package %d: %v", id, err)
	}
	return *p
}

func assertAppError(t *testing.T, err error, want *models.AppError) {
	t.Helper()
	if want == nil {
		if err != nil {
			t.Fatalf("unexpected error = %v", err)
		}
		return
	}
	if !errors.Is(err, want) {
		t.Fatalf("error = %v, want kind %s reason %s", err, want.Kind, want.Reason)
	}
}
