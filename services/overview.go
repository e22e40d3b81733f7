package services

import (
	"context"

	"github.com/ray-remotestate/foodwaste/models"
)

// Overview composes what a student sees on the landing page: every package
// still available, and the packages the student has reserved. The student id
// is not checked; an unknown id yields an empty reserved list.
func (s *PackageService) Overview(ctx context.Context, studentID int) (*models.StudentOverview, error) {
	const msg = "Error retrieving package overview."

	available, err := s.store.ListPackages(ctx, models.PackageFilter{
		Status:  models.StatusAvailable,
		OrderBy: models.OrderByPickupDate,
	})
	if err != nil {
		return nil, fail(msg, err)
	}
	availableViews, err := packageViews(ctx, s.store, available)
	if err != nil {
		return nil, fail(msg, err)
	}

	reservations, err := s.store.ListReservations(ctx, models.ReservationFilter{StudentID: &studentID})
	if err != nil {
		return nil, fail(msg, err)
	}
	cafeterias, err := cafeteriaIndex(ctx, s.store)
	if err != nil {
		return nil, fail(msg, err)
	}

	ids := make([]int, len(reservations))
	for i, r := range reservations {
		ids[i] = r.PackageID
	}
	var held []models.Package
	if len(ids) > 0 {
		held, err = s.store.ListPackages(ctx, models.PackageFilter{IDs: ids})
		if err != nil {
			return nil, fail(msg, err)
		}
	}
	byID := make(map[int]models.Package, len(held))
	for _, p := range held {
		byID[p.ID] = p
	}

	// reservation order; packages deleted since are skipped
	reserved := make([]models.ReservationDetail, 0, len(reservations))
	for _, r := range reservations {
		pkg, ok := byID[r.PackageID]
		if !ok {
			continue
		}
		reserved = append(reserved, models.NewReservationDetail(pkg, cafeterias[pkg.CafeteriaID]))
	}

	return &models.StudentOverview{
		AvailablePackages: availableViews,
		ReservedPackages:  reserved,
	}, nil
}
