package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/ray-remotestate/foodwaste/middlewares"
	"github.com/ray-remotestate/foodwaste/models"
	"github.com/sirupsen/logrus"
)

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logrus.WithError(err).Error("failed to encode JSON response")
	}
}

// writeError reports err as JSON with the status its kind maps to.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.Unexpected("An unexpected error occurred.", err)
	}

	status := StatusFor(appErr)
	entry := logrus.WithFields(logrus.Fields{
		"request_id": middlewares.RequestID(r.Context()),
		"kind":       appErr.Kind,
		"reason":     appErr.Reason,
	})
	if status >= http.StatusInternalServerError {
		entry.WithError(appErr.Err).Error(appErr.Message)
	} else {
		entry.Debug(appErr.Message)
	}
	writeJSON(w, status, appErr)
}

// StatusFor maps an error kind onto an HTTP status.
func StatusFor(err *models.AppError) int {
	switch err.Kind {
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindInvalidInput, models.KindInvalidReference, models.KindInvalidTime, models.KindUnsupported:
		return http.StatusBadRequest
	case models.KindConflict:
		return http.StatusConflict
	case models.KindForbidden:
		if err.Reason == models.ReasonCredentials {
			return http.StatusUnauthorized
		}
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func badRequest(message string, err error) error {
	details := ""
	if err != nil {
		details = err.Error()
	}
	return models.NewError(models.KindInvalidInput, models.ReasonFields, message, details)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return badRequest("invalid request", err)
	}
	return nil
}

func pathID(r *http.Request, name string) (int, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id", fmt.Errorf("%s %q is not a positive integer", name, raw))
	}
	return id, nil
}
