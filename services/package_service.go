package services

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/ray-remotestate/foodwaste/models"
	"github.com/ray-remotestate/foodwaste/store"
	"github.com/sirupsen/logrus"
)

// MaxPlanningAhead is how far in the future a pickup may be scheduled.
const MaxPlanningAhead = 48 * time.Hour

type PackageService struct {
	store store.Store
	now   Clock
}

func NewPackageService(s store.Store, now Clock) *PackageService {
	return &PackageService{store: s, now: clockOrNow(now)}
}

func (s *PackageService) GetAll(ctx context.Context) ([]models.PackageView, error) {
	packages, err := s.store.ListPackages(ctx, models.PackageFilter{})
	if err != nil {
		return nil, fail("An error occurred while retrieving packages.", err)
	}
	views, err := packageViews(ctx, s.store, packages)
	if err != nil {
		return nil, fail("An error occurred while retrieving packages.", err)
	}
	return views, nil
}

func (s *PackageService) GetByID(ctx context.Context, id int) (*models.PackageView, error) {
	pkg, err := s.store.PackageByID(ctx, id)
	if err != nil {
		return nil, fail("An error occurred while retrieving the package.", notFound(err, models.ReasonPackage, id))
	}
	view, err := packageView(ctx, s.store, *pkg)
	if err != nil {
		return nil, fail("An error occurred while retrieving the package.", err)
	}
	return view, nil
}

// ListAvailable returns the packages still open for reservation, optionally
// narrowed to a city (case-insensitive) and a meal type.
func (s *PackageService) ListAvailable(ctx context.Context, q models.PackageQuery) ([]models.PackageView, error) {
	packages, err := s.store.ListPackages(ctx, models.PackageFilter{
		Status:   models.StatusAvailable,
		City:     strings.TrimSpace(q.City),
		MealType: q.MealType,
		OrderBy:  models.ParsePackageOrder(q.OrderBy),
	})
	if err != nil {
		return nil, fail("An error occurred while retrieving available packages.", err)
	}
	views, err := packageViews(ctx, s.store, packages)
	if err != nil {
		return nil, fail("An error occurred while retrieving available packages.", err)
	}
	return views, nil
}

// Create checks the draft's fields first, then the cafeteria, the products and
// the pickup window, and reports the first failure.
func (s *PackageService) Create(ctx context.Context, draft models.PackageDraft) (*models.PackageView, error) {
	if err := validatePackageDraft(draft); err != nil {
		return nil, err
	}

	var view *models.PackageView
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		cafeteria, err := hotMealCafeteria(ctx, tx, draft.CafeteriaID)
		if err != nil {
			return err
		}
		products, err := resolveProducts(ctx, tx, draft.ExampleProductIDs)
		if err != nil {
			return err
		}
		if err := checkPickupWindow(draft, s.now()); err != nil {
			return err
		}

		pkg := models.Package{
			Name:              strings.TrimSpace(draft.Name),
			ExampleProductIDs: slices.Clone(draft.ExampleProductIDs),
			PickupDateTime:    draft.PickupDateTime,
			LatestPickupTime:  draft.LatestPickupTime,
			IsAdultPackage:    containsAlcohol(products),
			Price:             draft.Price,
			MealType:          draft.MealType,
			ReservationStatus: models.StatusAvailable,
			NoShowStatus:      models.NoShowNone,
			CafeteriaID:       cafeteria.ID,
		}
		if err := tx.InsertPackage(ctx, &pkg); err != nil {
			return notFound(err, models.ReasonCafeteria, draft.CafeteriaID)
		}
		view = &models.PackageView{Package: pkg, Cafeteria: cafeteria.View()}
		return nil
	})
	if err != nil {
		return nil, fail("An error occurred while creating the package.", err)
	}

	logrus.WithFields(logrus.Fields{
		"package_id":   view.ID,
		"cafeteria_id": view.CafeteriaID,
		"adult":        view.IsAdultPackage,
	}).Info("package created")
	return view, nil
}

// Update re-validates the cafeteria and products only when they changed; the
// pickup window and the adult flag are always re-evaluated.
func (s *PackageService) Update(ctx context.Context, id int, draft models.PackageDraft) (*models.PackageView, error) {
	if err := validatePackageDraft(draft); err != nil {
		return nil, err
	}

	var view *models.PackageView
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.LockPackage(ctx, id); err != nil {
			return notFound(err, models.ReasonPackage, id)
		}
		pkg, err := tx.PackageByID(ctx, id)
		if err != nil {
			return notFound(err, models.ReasonPackage, id)
		}

		var cafeteria *models.Cafeteria
		if draft.CafeteriaID != pkg.CafeteriaID {
			cafeteria, err = hotMealCafeteria(ctx, tx, draft.CafeteriaID)
		} else {
			cafeteria, err = tx.CafeteriaByID(ctx, pkg.CafeteriaID)
			err = notFound(err, models.ReasonCafeteria, pkg.CafeteriaID)
		}
		if err != nil {
			return err
		}

		var products []models.Product
		if !slices.Equal(draft.ExampleProductIDs, pkg.ExampleProductIDs) {
			products, err = resolveProducts(ctx, tx, draft.ExampleProductIDs)
		} else {
			products, err = tx.ProductsByIDs(ctx, draft.ExampleProductIDs)
		}
		if err != nil {
			return err
		}

		if err := checkPickupWindow(draft, s.now()); err != nil {
			// update reports every time rule under one message
			err.Message = invalidUpdateTime
			return err
		}

		pkg.Name = strings.TrimSpace(draft.Name)
		pkg.ExampleProductIDs = slices.Clone(draft.ExampleProductIDs)
		pkg.PickupDateTime = draft.PickupDateTime
		pkg.LatestPickupTime = draft.LatestPickupTime
		pkg.Price = draft.Price
		pkg.MealType = draft.MealType
		pkg.CafeteriaID = cafeteria.ID
		pkg.IsAdultPackage = containsAlcohol(products)
		if err := tx.UpdatePackage(ctx, pkg); err != nil {
			return notFound(err, models.ReasonPackage, id)
		}
		view = &models.PackageView{Package: *pkg, Cafeteria: cafeteria.View()}
		return nil
	})
	if err != nil {
		return nil, fail("An error occurred while updating the package.", err)
	}

	logrus.WithField("package_id", id).Info("package updated")
	return view, nil
}

// Delete removes a package unless it is currently reserved.
func (s *PackageService) Delete(ctx context.Context, id int) error {
	err := s.store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.LockPackage(ctx, id); err != nil {
			return notFound(err, models.ReasonPackage, id)
		}
		pkg, err := tx.PackageByID(ctx, id)
		if err != nil {
			return notFound(err, models.ReasonPackage, id)
		}
		if pkg.ReservationStatus == models.StatusReserved {
			return models.NewError(models.KindConflict, models.ReasonAlreadyReserved,
				"Cannot delete package.", "Cannot delete a reserved package")
		}
		return notFound(tx.DeletePackage(ctx, id), models.ReasonPackage, id)
	})
	if err != nil {
		return fail("An error occurred while deleting the package.", err)
	}

	logrus.WithField("package_id", id).Info("package deleted")
	return nil
}

// hotMealCafeteria resolves the owning cafeteria, which must serve hot meals.
func hotMealCafeteria(ctx context.Context, r store.Reader, id int) (*models.Cafeteria, error) {
	cafeteria, err := r.CafeteriaByID(ctx, id)
	if err != nil {
		return nil, notFound(err, models.ReasonCafeteria, id)
	}
	if !cafeteria.HotMealsAvailable {
		return nil, models.NewError(models.KindUnsupported, models.ReasonHotMeals,
			"Hot meals are not available at the specified cafeteria.",
			fmt.Sprintf("Cafeteria with ID %d does not support hot meals.", id))
	}
	return cafeteria, nil
}

// resolveProducts loads ids and reports every unknown one in a single error.
func resolveProducts(ctx context.Context, r store.Reader, ids []int) ([]models.Product, error) {
	products, err := r.ProductsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	known := make(map[int]bool, len(products))
	for _, p := range products {
		known[p.ID] = true
	}

	var invalid []string
	reported := make(map[int]bool)
	for _, id := range ids {
		if known[id] || reported[id] {
			continue
		}
		reported[id] = true
		invalid = append(invalid, strconv.Itoa(id))
	}
	if len(invalid) > 0 {
		return nil, models.NewError(models.KindInvalidReference, models.ReasonProducts,
			"One or more of the specified products were not found.",
			"Invalid product IDs: "+strings.Join(invalid, ", "))
	}
	return products, nil
}

const invalidUpdateTime = "Invalid date or time provided. Please check your input."

// checkPickupWindow applies the time rules in order; the first failure wins.
func checkPickupWindow(draft models.PackageDraft, now time.Time) *models.AppError {
	switch {
	case draft.PickupDateTime.Before(now):
		msg := "Pickup date and time cannot be in the past."
		return models.NewError(models.KindInvalidTime, models.ReasonPastPickup, msg, msg)
	case !draft.LatestPickupTime.After(draft.PickupDateTime):
		msg := "Latest pickup time must be after the pickup date and time."
		return models.NewError(models.KindInvalidTime, models.ReasonOrderViolation, msg, msg)
	case draft.PickupDateTime.After(now.Add(MaxPlanningAhead)):
		msg := "Packages can be planned a maximum of 2 days in advance."
		return models.NewError(models.KindInvalidTime, models.ReasonTooFarAhead, msg, msg)
	}
	return nil
}

func validatePackageDraft(draft models.PackageDraft) error {
	var errs *multierror.Error
	if strings.TrimSpace(draft.Name) == "" {
		errs = multierror.Append(errs, errors.New("name is required"))
	}
	if draft.Price.IsNegative() {
		errs = multierror.Append(errs, errors.New("price must not be negative"))
	}
	if !draft.MealType.IsValid() {
		errs = multierror.Append(errs, fmt.Errorf("mealType %q is not one of Bread, HotDinner, Drinks, Other", draft.MealType))
	}
	return invalidFields("Invalid package data.", errs)
}

func containsAlcohol(products []models.Product) bool {
	for _, p := range products {
		if p.ContainsAlcohol {
			return true
		}
	}
	return false
}

func cafeteriaIndex(ctx context.Context, r store.Reader) (map[int]models.Cafeteria, error) {
	cafeterias, err := r.ListCafeterias(ctx)
	if err != nil {
		return nil, err
	}
	index := make(map[int]models.Cafeteria, len(cafeterias))
	for _, c := range cafeterias {
		index[c.ID] = c
	}
	return index, nil
}

func packageViews(ctx context.Context, r store.Reader, packages []models.Package) ([]models.PackageView, error) {
	cafeterias, err := cafeteriaIndex(ctx, r)
	if err != nil {
		return nil, err
	}
	views := make([]models.PackageView, 0, len(packages))
	for _, p := range packages {
		views = append(views, models.PackageView{Package: p, Cafeteria: cafeterias[p.CafeteriaID].View()})
	}
	return views, nil
}

func packageView(ctx context.Context, r store.Reader, p models.Package) (*models.PackageView, error) {
	cafeteria, err := r.CafeteriaByID(ctx, p.CafeteriaID)
	if err != nil {
		return nil, notFound(err, models.ReasonCafeteria, p.CafeteriaID)
	}
	return &models.PackageView{Package: p, Cafeteria: cafeteria.View()}, nil
}
