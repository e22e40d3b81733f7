package services

import (
	"context"
	"errors"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/store"
	"github.com/ray-remotestate/foodwaste/utils"
	"github.com/sirupsen/logrus"
)

// MinStudentAge is the youngest age accepted at registration.
const MinStudentAge = 16

type StudentService struct {
	store store.Store
	now   Clock
}

func NewStudentService(s store.Store, now Clock) *StudentService {
	return &StudentService{store: s, now: clockOrNow(now)}
}

func (s *StudentService) GetAll(ctx context.Context) ([]models.Student, error) {
	students, err := s.store.ListStudents(ctx)
	if err != nil {
		return nil, fail("An error occurred while retrieving students.", err)
	}
	return students, nil
}

func (s *StudentService) GetByID(ctx context.Context, id int) (*models.Student, error) {
	student, err := s.store.StudentByID(ctx, id)
	if err != nil {
		return nil, fail("An error occurred while retrieving the student.", notFound(err, models.ReasonStudent, id))
	}
	return student, nil
}

func (s *StudentService) Create(ctx context.Context, draft models.StudentDraft) (*models.Student, error) {
	var student *models.Student
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		var err error
		student, err = s.insert(ctx, tx, draft)
		return err
	})
	if err != nil {
		return nil, fail("An error occurred while creating the student.", err)
	}

	logrus.WithField("student_id", student.ID).Info("student registered")
	return student, nil
}

// Update replaces the editable fields. The age and student number rules only
// run for the fields that changed; the no-show counter is kept.
func (s *StudentService) Update(ctx context.Context, id int, draft models.StudentDraft) (*models.Student, error) {
	var student *models.Student
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.LockStudent(ctx, id); err != nil {
			return notFound(err, models.ReasonStudent, id)
		}
		current, err := tx.StudentByID(ctx, id)
		if err != nil {
			return notFound(err, models.ReasonStudent, id)
		}
		if err := validateStudentDraft(draft); err != nil {
			return err
		}
		if !draft.DateOfBirth.Equal(current.DateOfBirth) {
			if err := s.checkAge(draft); err != nil {
				return err
			}
		}
		if number := strings.TrimSpace(draft.StudentNumber); number != current.StudentNumber {
			if err := checkStudentNumber(ctx, tx, number); err != nil {
				return err
			}
		}

		updated := applyStudentDraft(*current, draft)
		if err := tx.UpdateStudent(ctx, &updated); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return duplicateStudentNumber()
			}
			return notFound(err, models.ReasonStudent, id)
		}
		student = &updated
		return nil
	})
	if err != nil {
		return nil, fail("An error occurred while updating the student.", err)
	}

	logrus.WithField("student_id", id).Info("student updated")
	return student, nil
}

// Delete removes a student without reservations.
func (s *StudentService) Delete(ctx context.Context, id int) error {
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.LockStudent(ctx, id); err != nil {
			return notFound(err, models.ReasonStudent, id)
		}
		reservations, err := tx.ListReservations(ctx, models.ReservationFilter{StudentID: &id})
		if err != nil {
			return err
		}
		if len(reservations) > 0 {
			return models.NewError(models.KindConflict, models.ReasonStudentHasReservations,
				"Cannot delete student.", "Student still has reservations; cancel them first.")
		}
		return notFound(tx.DeleteStudent(ctx, id), models.ReasonStudent, id)
	})
	if err != nil {
		return fail("An error occurred while deleting the student.", err)
	}

	logrus.WithField("student_id", id).Info("student deleted")
	return nil
}

// insert validates draft and stores a new student inside tx.
func (s *StudentService) insert(ctx context.Context, tx store.Tx, draft models.StudentDraft) (*models.Student, error) {
	if err := validateStudentDraft(draft); err != nil {
		return nil, err
	}
	if err := s.checkAge(draft); err != nil {
		return nil, err
	}
	if err := checkStudentNumber(ctx, tx, strings.TrimSpace(draft.StudentNumber)); err != nil {
		return nil, err
	}

	student := applyStudentDraft(models.Student{}, draft)
	if err := tx.InsertStudent(ctx, &student); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, duplicateStudentNumber()
		}
		return nil, err
	}
	return &student, nil
}

func (s *StudentService) checkAge(draft models.StudentDraft) error {
	if utils.CalculateAge(draft.DateOfBirth, s.now()) < MinStudentAge {
		return models.NewError(models.KindInvalidInput, models.ReasonAgeRestriction,
			"Invalid date of birth.", "Student must be at least 16 years old.")
	}
	return nil
}

func checkStudentNumber(ctx context.Context, r store.Reader, number string) error {
	_, err := r.StudentByNumber(ctx, number)
	switch {
	case err == nil:
		return duplicateStudentNumber()
	case errors.Is(err, store.ErrNotFound):
		return nil
	default:
		return err
	}
}

func duplicateStudentNumber() error {
	return models.NewError(models.KindConflict, models.ReasonDuplicateStudentNumber,
		"Student number already exists.", "A student with this student number already exists.")
}

func validateStudentDraft(draft models.StudentDraft) error {
	var errs *multierror.Error
	if strings.TrimSpace(draft.Name) == "" {
		errs = multierror.Append(errs, errors.New("name is required"))
	}
	if strings.TrimSpace(draft.StudentNumber) == "" {
		errs = multierror.Append(errs, errors.New("studentNumber is required"))
	}
	if email := strings.TrimSpace(draft.Email); email == "" {
		errs = multierror.Append(errs, errors.New("email is required"))
	} else if !strings.Contains(email, "@") {
		errs = multierror.Append(errs, errors.New("email is not a valid address"))
	}
	if draft.DateOfBirth.IsZero() {
		errs = multierror.Append(errs, errors.New("dateOfBirth is required"))
	}
	return invalidFields("Invalid student data.", errs)
}

func applyStudentDraft(s models.Student, draft models.StudentDraft) models.Student {
	s.Name = strings.TrimSpace(draft.Name)
	s.DateOfBirth = draft.DateOfBirth
	s.StudentNumber = strings.TrimSpace(draft.StudentNumber)
	s.Email = strings.TrimSpace(draft.Email)
	s.StudyCity = strings.TrimSpace(draft.StudyCity)
	s.PhoneNumber = strings.TrimSpace(draft.PhoneNumber)
	return s
}
