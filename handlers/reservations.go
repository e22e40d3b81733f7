package handlers

import (
	"net/http"

	"github.com/ray-remotestate/foodwaste/middlewares"
	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/services"
)

type ReservationHandler struct {
	reservations *services.ReservationService
}

func NewReservationHandler(reservations *services.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

// CreateReservation handles POST /api/reservations. Students reserve for
// themselves; staff may reserve on behalf of any student.
func (h *ReservationHandler) CreateReservation(w http.ResponseWriter, r *http.Request) {
	type request struct {
		StudentID int `json:"studentId"`
		PackageID int `json:"packageId"`
	}

	var req request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	claims, err := middlewares.GetAuthenticatedUser(r)
	if err != nil {
		writeError(w, r, models.NewError(models.KindForbidden, models.ReasonCredentials, "unauthorized", ""))
		return
	}
	if !middlewares.HasRole(claims, models.RoleStaff) {
		if claims.StudentID == nil {
			writeError(w, r, models.NewError(models.KindForbidden, models.ReasonStudent,
				"Only students can reserve packages.", ""))
			return
		}
		if req.StudentID == 0 {
			req.StudentID = *claims.StudentID
		}
		if req.StudentID != *claims.StudentID {
			writeError(w, r, models.NewError(models.KindForbidden, models.ReasonStudent,
				"Students can only reserve packages for themselves.", ""))
			return
		}
	}
	if req.StudentID <= 0 || req.PackageID <= 0 {
		writeError(w, r, badRequest("studentId and packageId are required", nil))
		return
	}

	reservation, err := h.reservations.Create(r.Context(), req.StudentID, req.PackageID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reservation)
}

// ListReservations handles GET /api/reservations.
func (h *ReservationHandler) ListReservations(w http.ResponseWriter, r *http.Request) {
	reservations, err := h.reservations.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

// GetReservation handles GET /api/reservations/{id}.
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	reservation, err := h.reservations.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservation)
}

// ListByStudent handles GET /api/reservations/student/{studentId}.
func (h *ReservationHandler) ListByStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "studentId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	reservations, err := h.reservations.GetByStudentID(r.Context(), studentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, reservations)
}

// ListDetailsByStudent handles GET /api/reservations/student/{studentId}/details.
func (h *ReservationHandler) ListDetailsByStudent(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "studentId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	details, err := h.reservations.GetDetailsByStudentID(r.Context(), studentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

// DeleteReservation handles DELETE /api/reservations/{id}.
func (h *ReservationHandler) DeleteReservation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.reservations.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
