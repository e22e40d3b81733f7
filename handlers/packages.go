package handlers

import (
	"net/http"

	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/services"
)

type PackageHandler struct {
	packages *services.PackageService
}

func NewPackageHandler(packages *services.PackageService) *PackageHandler {
	return &PackageHandler{packages: packages}
}

// ListPackages handles GET /api/packages.
func (h *PackageHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	packages, err := h.packages.GetAll(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, packages)
}

// ListAvailable handles GET /api/packages/available?city=&mealType=&orderBy=.
func (h *PackageHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := models.PackageQuery{
		City:    q.Get("city"),
		OrderBy: q.Get("orderBy"),
	}
	if raw := q.Get("mealType"); raw != "" {
		mealType, err := models.ParseMealType(raw)
		if err != nil {
			writeError(w, r, badRequest("invalid meal type", err))
			return
		}
		query.MealType = mealType
	}

	packages, err := h.packages.ListAvailable(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, packages)
}

// Overview handles GET /api/packages/overview/{studentId}.
func (h *PackageHandler) Overview(w http.ResponseWriter, r *http.Request) {
	studentID, err := pathID(r, "studentId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	overview, err := h.packages.Overview(r.Context(), studentID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overview)
}

// GetPackage handles GET /api/packages/{id}.
func (h *PackageHandler) GetPackage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	pkg, err := h.packages.GetByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

// CreatePackage handles POST /api/packages.
func (h *PackageHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	var draft models.PackageDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}

	pkg, err := h.packages.Create(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, pkg)
}

// UpdatePackage handles PUT /api/packages/{id}.
func (h *PackageHandler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var draft models.PackageDraft
	if err := decodeJSON(r, &draft); err != nil {
		writeError(w, r, err)
		return
	}

	pkg, err := h.packages.Update(r.Context(), id, draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pkg)
}

// DeletePackage handles DELETE /api/packages/{id}.
func (h *PackageHandler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err := h.packages.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
