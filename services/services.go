// Package services holds the package, reservation, student and auth rules.
// Every operation returns either a value or a *models.AppError; raw store
// errors never cross this boundary.
package services

import (
	"errors"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/store"
	"github.com/sirupsen/logrus"
)

// Clock returns the current instant. Tests pin it.
type Clock func() time.Time

func clockOrNow(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// fail passes an *models.AppError through untouched and reports anything else
// as Unexpected, keeping the cause for the logs.
func fail(message string, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	logrus.WithError(err).Error(message)
	return models.Unexpected(message, err)
}

// notFound maps store.ErrNotFound to the NotFound error of reason.
func notFound(err error, reason models.ErrorReason, id any) error {
	if errors.Is(err, store.ErrNotFound) {
		return models.NotFound(reason, id)
	}
	return err
}

// invalidFields turns collected field violations into one InvalidInput error.
func invalidFields(message string, errs *multierror.Error) error {
	if errs.ErrorOrNil() == nil {
		return nil
	}
	errs.ErrorFormat = func(es []error) string {
		parts := make([]string, len(es))
		for i, e := range es {
			parts[i] = e.Error()
		}
		return strings.Join(parts, "; ")
	}
	return &models.AppError{
		Kind:    models.KindInvalidInput,
		Reason:  models.ReasonFields,
		Message: message,
		Details: errs.Error(),
		Err:     errs,
	}
}
