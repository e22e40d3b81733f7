package database_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ray-remotestate/foodwaste/database"
	"github.com/ray-remotestate/foodwaste/database/seed"
	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/services"
	"github.com/ray-remotestate/foodwaste/store"
)

// newStore connects to TEST_DATABASE_URL, migrates and empties it.
func newStore(t *testing.T) *database.Store {
	t.Helper()

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	db, err := database.ConnectAndMigrate(context.Background(), dbURL, "")
	if err != nil {
		t.Fatalf("ConnectAndMigrate() error = %v", err)
	}
	_, err = db.Exec(`TRUNCATE users, reservations, packages, students, products, cafeteria_staff, cafeterias RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}

	s := database.NewStore(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStoreSeedAndQuery(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Second)

	res, err := seed.Run(ctx, s, "changeme", now)
	if err != nil {
		t.Fatalf("seed.Run() error = %v", err)
	}

	available, err := s.ListPackages(ctx, models.PackageFilter{
		Status:  models.StatusAvailable,
		City:    "breda",
		OrderBy: models.OrderByPriceDesc,
	})
	if err != nil {
		t.Fatalf("ListPackages() error = %v", err)
	}
	if len(available) != 1 || available[0].Name != "Drinks Combo" {
		t.Errorf("available in Breda = %+v", available)
	}

	products, err := s.ProductsByIDs(ctx, []int{res.Products[0], 999, res.Products[0]})
	if err != nil {
		t.Fatalf("ProductsByIDs() error = %v", err)
	}
	if len(products) != 1 {
		t.Errorf("ProductsByIDs() = %+v, want one product", products)
	}

	taken, err := s.StudentHasReservationOn(ctx, res.Students[0], now.Add(24*time.Hour))
	if err != nil || !taken {
		t.Errorf("StudentHasReservationOn() = %v, %v; want true", taken, err)
	}

	u, err := s.UserByEmail(ctx, "ALICE@example.com")
	if err != nil || u.StudentID == nil || *u.StudentID != res.Students[0] {
		t.Errorf("UserByEmail() = %+v, %v", u, err)
	}
}

func TestStoreErrors(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	if _, err := s.StudentByID(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("StudentByID() error = %v, want ErrNotFound", err)
	}

	err := s.WithTx(ctx, func(tx store.Tx) error {
		first := models.Student{Name: "A", StudentNumber: "S1", Email: "a@example.com", DateOfBirth: time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)}
		if err := tx.InsertStudent(ctx, &first); err != nil {
			return err
		}
		second := first
		return tx.InsertStudent(ctx, &second)
	})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("duplicate InsertStudent() error = %v, want ErrDuplicate", err)
	}
	if students, _ := s.ListStudents(ctx); len(students) != 0 {
		t.Errorf("students after rollback = %d, want 0", len(students))
	}
}

func TestStoreConcurrentReservations(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	res, err := seed.Run(ctx, s, "changeme", now)
	if err != nil {
		t.Fatalf("seed.Run() error = %v", err)
	}
	reservations := services.NewReservationService(s, nil)
	target := res.Packages[1]

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for _, studentID := range res.Students {
		wg.Add(1)
		go func(studentID int) {
			defer wg.Done()
			if _, err := reservations.Create(ctx, studentID, target); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}(studentID)
	}
	wg.Wait()

	if success != 1 {
		t.Fatalf("successful reservations = %d, want 1", success)
	}
	list, err := s.ListReservations(ctx, models.ReservationFilter{PackageID: &target})
	if err != nil || len(list) != 1 {
		t.Fatalf("reservations for package = %+v, %v", list, err)
	}
	p, err := s.PackageByID(ctx, target)
	if err != nil || p.ReservationStatus != models.StatusReserved || p.ReservedByID == nil || *p.ReservedByID != list[0].StudentID {
		t.Errorf("package = %+v, %v", p, err)
	}
}
