package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/store"
	"github.com/ray-remotestate/foodwaste/utils"
	"github.com/sirupsen/logrus"
)

// AdultAge is the minimum age for reserving a package that contains alcohol.
const AdultAge = 18

type ReservationService struct {
	store store.Store
	now   Clock
}

func NewReservationService(s store.Store, now Clock) *ReservationService {
	return &ReservationService{store: s, now: clockOrNow(now)}
}

// Create reserves packageID for studentID. The checks run in a fixed order and
// the first failure is returned; on success the reservation row and the
// package's Reserved state commit together.
func (s *ReservationService) Create(ctx context.Context, studentID, packageID int) (*models.Reservation, error) {
	var reservation models.Reservation
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.LockStudent(ctx, studentID); err != nil {
			return notFound(err, models.ReasonStudent, studentID)
		}
		student, err := tx.StudentByID(ctx, studentID)
		if err != nil {
			return notFound(err, models.ReasonStudent, studentID)
		}

		if err := tx.LockPackage(ctx, packageID); err != nil {
			return notFound(err, models.ReasonPackage, packageID)
		}
		pkg, err := tx.PackageByID(ctx, packageID)
		if err != nil {
			return notFound(err, models.ReasonPackage, packageID)
		}

		if pkg.ReservationStatus != models.StatusAvailable {
			return alreadyReserved(packageID)
		}

		taken, err := tx.StudentHasReservationOn(ctx, studentID, pkg.PickupDateTime)
		if err != nil {
			return err
		}
		if taken {
			return models.NewError(models.KindConflict, models.ReasonDuplicateDaily,
				"Student already has a reservation for this day.",
				fmt.Sprintf("Student with ID %d already has a reservation for %s.",
					studentID, pkg.PickupDateTime.UTC().Format("2006-01-02")))
		}

		now := s.now()
		if pkg.IsAdultPackage && utils.CalculateAge(student.DateOfBirth, now) < AdultAge {
			return models.NewError(models.KindForbidden, models.ReasonAgeRestriction,
				"Age restriction.", "Student is not old enough to reserve this package.")
		}

		applied, err := tx.SetPackageReservation(ctx, packageID, models.StatusAvailable, models.StatusReserved, &studentID)
		if err != nil {
			return notFound(err, models.ReasonPackage, packageID)
		}
		if !applied {
			return alreadyReserved(packageID)
		}

		reservation = models.Reservation{
			StudentID:       studentID,
			PackageID:       packageID,
			ReservationDate: now.UTC(),
		}
		if err := tx.InsertReservation(ctx, &reservation); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return alreadyReserved(packageID)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fail("An error occurred while creating the reservation.", err)
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"student_id":     studentID,
		"package_id":     packageID,
	}).Info("package reserved")
	return &reservation, nil
}

// Delete removes a reservation and releases its package when the package
// still exists.
func (s *ReservationService) Delete(ctx context.Context, id int) error {
	var packageID int
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		reservation, err := tx.ReservationByID(ctx, id)
		if err != nil {
			return notFound(err, models.ReasonReservation, id)
		}
		packageID = reservation.PackageID

		var pkg *models.Package
		if err := tx.LockPackage(ctx, packageID); err == nil {
			if pkg, err = tx.PackageByID(ctx, packageID); err != nil && !errors.Is(err, store.ErrNotFound) {
				return err
			}
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		if err := tx.DeleteReservation(ctx, id); err != nil {
			return notFound(err, models.ReasonReservation, id)
		}
		if pkg == nil {
			return nil
		}
		_, err = tx.SetPackageReservation(ctx, packageID, pkg.ReservationStatus, models.StatusAvailable, nil)
		return err
	})
	if err != nil {
		return fail("An error occurred deleting the reservation", err)
	}

	logrus.WithFields(logrus.Fields{
		"reservation_id": id,
		"package_id":     packageID,
	}).Info("reservation cancelled")
	return nil
}

func (s *ReservationService) GetByID(ctx context.Context, id int) (*models.Reservation, error) {
	reservation, err := s.store.ReservationByID(ctx, id)
	if err != nil {
		return nil, fail("An error occurred while retrieving the reservation.", notFound(err, models.ReasonReservation, id))
	}
	return reservation, nil
}

func (s *ReservationService) GetAll(ctx context.Context) ([]models.Reservation, error) {
	reservations, err := s.store.ListReservations(ctx, models.ReservationFilter{})
	if err != nil {
		return nil, fail("Failed to retrieve all reservations.", err)
	}
	return reservations, nil
}

// GetByStudentID lists a student's reservations. An unknown student is
// NotFound; a known one without reservations gets an empty list.
func (s *ReservationService) GetByStudentID(ctx context.Context, studentID int) ([]models.Reservation, error) {
	const msg = "Failed to retrieve reservations."
	if _, err := s.store.StudentByID(ctx, studentID); err != nil {
		return nil, fail(msg, notFound(err, models.ReasonStudent, studentID))
	}
	reservations, err := s.store.ListReservations(ctx, models.ReservationFilter{StudentID: &studentID})
	if err != nil {
		return nil, fail(msg, err)
	}
	return reservations, nil
}

// GetDetailsByStudentID is GetByStudentID with each package and its
// cafeteria expanded.
func (s *ReservationService) GetDetailsByStudentID(ctx context.Context, studentID int) ([]models.ReservationDetail, error) {
	const msg = "Failed to retrieve reservation details."
	reservations, err := s.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	cafeterias, err := cafeteriaIndex(ctx, s.store)
	if err != nil {
		return nil, fail(msg, err)
	}
	details := make([]models.ReservationDetail, 0, len(reservations))
	for _, r := range reservations {
		pkg, err := s.store.PackageByID(ctx, r.PackageID)
		if errors.Is(err, store.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fail(msg, err)
		}
		details = append(details, models.NewReservationDetail(*pkg, cafeterias[pkg.CafeteriaID]).WithReservation(r))
	}
	return details, nil
}

func alreadyReserved(packageID int) error {
	return models.NewError(models.KindConflict, models.ReasonAlreadyReserved,
		"Package already reserved.", fmt.Sprintf("Package with ID %d is already reserved.", packageID))
}
