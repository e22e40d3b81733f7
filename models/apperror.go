package models

import "fmt"

type ErrorKind string

const (
	KindNotFound         ErrorKind = "NotFound"
	KindInvalidInput     ErrorKind = "InvalidInput"
	KindInvalidReference ErrorKind = "InvalidReference"
	KindInvalidTime      ErrorKind = "InvalidTime"
	KindUnsupported      ErrorKind = "Unsupported"
	KindConflict         ErrorKind = "Conflict"
	KindForbidden        ErrorKind = "Forbidden"
	KindUnexpected       ErrorKind = "Unexpected"
)

type ErrorReason string

const (
	ReasonStudent                ErrorReason = "Student"
	ReasonPackage                ErrorReason = "Package"
	ReasonCafeteria              ErrorReason = "Cafeteria"
	ReasonReservation            ErrorReason = "Reservation"
	ReasonUser                   ErrorReason = "User"
	ReasonProducts               ErrorReason = "Products"
	ReasonPastPickup             ErrorReason = "PastPickup"
	ReasonOrderViolation         ErrorReason = "OrderViolation"
	ReasonTooFarAhead            ErrorReason = "TooFarAhead"
	ReasonHotMeals               ErrorReason = "HotMeals"
	ReasonAlreadyReserved        ErrorReason = "AlreadyReserved"
	ReasonDuplicateDaily         ErrorReason = "DuplicateDailyReservation"
	ReasonDuplicateStudentNumber ErrorReason = "DuplicateStudentNumber"
	ReasonDuplicateEmail         ErrorReason = "DuplicateEmail"
	ReasonStudentHasReservations ErrorReason = "StudentHasReservations"
	ReasonAgeRestriction         ErrorReason = "AgeRestriction"
	ReasonFields                 ErrorReason = "Fields"
	ReasonCredentials            ErrorReason = "Credentials"
	ReasonStore                  ErrorReason = "Store"
)

// AppError is the failure value returned across the service boundary.
type AppError struct {
	Kind    ErrorKind   `json:"kind"`
	Reason  ErrorReason `json:"reason,omitempty"`
	Message string      `json:"message"`
	Details string      `json:"details,omitempty"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s(%s): %s: %s", e.Kind, e.Reason, e.Message, e.Details)
	}
	return fmt.Sprintf("%s(%s): %s", e.Kind, e.Reason, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches another *AppError by kind and, when set on the target, reason.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

func NewError(kind ErrorKind, reason ErrorReason, message, details string) *AppError {
	return &AppError{Kind: kind, Reason: reason, Message: message, Details: details}
}

func NotFound(reason ErrorReason, id any) *AppError {
	return &AppError{
		Kind:    KindNotFound,
		Reason:  reason,
		Message: fmt.Sprintf("%s not found.", reason),
		Details: fmt.Sprintf("%s with ID %v not found.", reason, id),
	}
}

// Unexpected wraps a store failure, keeping its message as details.
func Unexpected(message string, err error) *AppError {
	e := &AppError{Kind: KindUnexpected, Reason: ReasonStore, Message: message, Err: err}
	if err != nil {
		e.Details = err.Error()
	}
	return e
}

// Sentinels for errors.Is checks.
var (
	ErrStudentNotFound     = &AppError{Kind: KindNotFound, Reason: ReasonStudent}
	ErrPackageNotFound     = &AppError{Kind: KindNotFound, Reason: ReasonPackage}
	ErrCafeteriaNotFound   = &AppError{Kind: KindNotFound, Reason: ReasonCafeteria}
	ErrReservationNotFound = &AppError{Kind: KindNotFound, Reason: ReasonReservation}
	ErrInvalidProducts     = &AppError{Kind: KindInvalidReference, Reason: ReasonProducts}
	ErrPastPickup          = &AppError{Kind: KindInvalidTime, Reason: ReasonPastPickup}
	ErrPickupOrder         = &AppError{Kind: KindInvalidTime, Reason: ReasonOrderViolation}
	ErrPickupTooFarAhead   = &AppError{Kind: KindInvalidTime, Reason: ReasonTooFarAhead}
	ErrHotMealsUnsupported = &AppError{Kind: KindUnsupported, Reason: ReasonHotMeals}
	ErrAlreadyReserved     = &AppError{Kind: KindConflict, Reason: ReasonAlreadyReserved}
	ErrDuplicateDaily      = &AppError{Kind: KindConflict, Reason: ReasonDuplicateDaily}
	ErrDuplicateStudentNo  = &AppError{Kind: KindConflict, Reason: ReasonDuplicateStudentNumber}
	ErrStudentHasBookings  = &AppError{Kind: KindConflict, Reason: ReasonStudentHasReservations}
	ErrDuplicateEmail      = &AppError{Kind: KindConflict, Reason: ReasonDuplicateEmail}
	ErrAgeRestriction      = &AppError{Kind: KindForbidden, Reason: ReasonAgeRestriction}
	ErrInvalidInput        = &AppError{Kind: KindInvalidInput}
	ErrInvalidCredentials  = &AppError{Kind: KindForbidden, Reason: ReasonCredentials}
)
