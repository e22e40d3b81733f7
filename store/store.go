// Package store defines the entity store the services run against. Records
// are keyed by integer id and refer to each other by id only.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/ray-remotestate/foodwaste/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Reader interface {
	CafeteriaByID(ctx context.Context, id int) (*models.Cafeteria, error)
	ListCafeterias(ctx context.Context) ([]models.Cafeteria, error)

	// ProductsByIDs returns the products that exist among ids; missing ids are skipped.
	ProductsByIDs(ctx context.Context, ids []int) ([]models.Product, error)

	StudentByID(ctx context.Context, id int) (*models.Student, error)
	StudentByNumber(ctx context.Context, number string) (*models.Student, error)
	ListStudents(ctx context.Context) ([]models.Student, error)

	PackageByID(ctx context.Context, id int) (*models.Package, error)
	ListPackages(ctx context.Context, filter models.PackageFilter) ([]models.Package, error)

	ReservationByID(ctx context.Context, id int) (*models.Reservation, error)
	ListReservations(ctx context.Context, filter models.ReservationFilter) ([]models.Reservation, error)
	// StudentHasReservationOn reports whether the student holds a reservation
	// for a package whose pickup falls on the calendar date of day.
	StudentHasReservationOn(ctx context.Context, studentID int, day time.Time) (bool, error)

	UserByEmail(ctx context.Context, email string) (*models.User, error)
}

type Writer interface {
	InsertCafeteria(ctx context.Context, c *models.Cafeteria) error
	InsertStaff(ctx context.Context, s *models.CafeteriaStaff) error
	InsertProduct(ctx context.Context, p *models.Product) error

	InsertStudent(ctx context.Context, s *models.Student) error
	UpdateStudent(ctx context.Context, s *models.Student) error
	DeleteStudent(ctx context.Context, id int) error

	InsertPackage(ctx context.Context, p *models.Package) error
	UpdatePackage(ctx context.Context, p *models.Package) error
	DeletePackage(ctx context.Context, id int) error
	// SetPackageReservation moves a package from status from to status to and
	// sets reservedBy, only if the package is currently in from. It reports
	// whether the transition was applied.
	SetPackageReservation(ctx context.Context, id int, from, to models.ReservationStatus, reservedBy *int) (bool, error)

	InsertReservation(ctx context.Context, r *models.Reservation) error
	DeleteReservation(ctx context.Context, id int) error

	InsertUser(ctx context.Context, u *models.User) error
}

// Tx is a unit of work. Reads made through a Tx see its own writes.
type Tx interface {
	Reader
	Writer
	// LockStudent and LockPackage serialize concurrent transactions touching
	// the same row until the transaction ends.
	LockStudent(ctx context.Context, id int) error
	LockPackage(ctx context.Context, id int) error
}

type Store interface {
	Reader
	// WithTx runs fn in a transaction, committing iff fn returns nil.
	WithTx(ctx context.Context, fn func(tx Tx) error) error
	Close() error
}
