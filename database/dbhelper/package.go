package dbhelper

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/ray-remotestate/foodwaste/models"
)

const packageColumns = `p.id, p.name, p.example_product_ids, p.pickup_date_time, p.latest_pickup_time,
	p.is_adult_package, p.price, p.meal_type, p.reservation_status, p.no_show_status,
	p.reserved_by_id, p.cafeteria_id`

var packageOrderClauses = map[models.PackageOrder]string{
	models.OrderByName:           "p.name ASC, p.id ASC",
	models.OrderByNameDesc:       "p.name DESC, p.id ASC",
	models.OrderByPrice:          "p.price ASC, p.id ASC",
	models.OrderByPriceDesc:      "p.price DESC, p.id ASC",
	models.OrderByPickupDate:     "p.pickup_date_time ASC, p.id ASC",
	models.OrderByPickupDateDesc: "p.pickup_date_time DESC, p.id ASC",
}

func CreatePackage(ctx context.Context, db SQLExecutor, p *models.Package) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO packages (name, example_product_ids, pickup_date_time, latest_pickup_time, is_adult_package,
			price, meal_type, reservation_status, no_show_status, reserved_by_id, cafeteria_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		p.Name, pq.Array(toInt64s(p.ExampleProductIDs)), p.PickupDateTime, p.LatestPickupTime, p.IsAdultPackage,
		p.Price, p.MealType, p.ReservationStatus, p.NoShowStatus, p.ReservedByID, p.CafeteriaID).
		Scan(&p.ID)
}

// UpdatePackage writes the staff-editable fields. Reservation state is only
// changed through SetPackageReservation.
func UpdatePackage(ctx context.Context, db SQLExecutor, p *models.Package) (int64, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE packages
		SET name = $2, example_product_ids = $3, pickup_date_time = $4, latest_pickup_time = $5,
			is_adult_package = $6, price = $7, meal_type = $8, cafeteria_id = $9
		WHERE id = $1`,
		p.ID, p.Name, pq.Array(toInt64s(p.ExampleProductIDs)), p.PickupDateTime, p.LatestPickupTime,
		p.IsAdultPackage, p.Price, p.MealType, p.CafeteriaID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func DeletePackage(ctx context.Context, db SQLExecutor, id int) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// SetPackageReservation is a conditional status transition: it only applies
// while the row is still in status from.
func SetPackageReservation(ctx context.Context, db SQLExecutor, id int, from, to models.ReservationStatus, reservedBy *int) (int64, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE packages
		SET reservation_status = $3, reserved_by_id = $4
		WHERE id = $1 AND reservation_status = $2`,
		id, from, to, reservedBy)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func GetPackageByID(ctx context.Context, db SQLExecutor, id int) (*models.Package, error) {
	row := db.QueryRowContext(ctx, `SELECT `+packageColumns+` FROM packages p WHERE p.id = $1`, id)
	return scanPackage(row)
}

func PackageExists(ctx context.Context, db SQLExecutor, id int) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM packages WHERE id = $1)`, id).Scan(&exists)
	return exists, err
}

func LockPackage(ctx context.Context, db SQLExecutor, id int) error {
	var locked int
	return db.QueryRowContext(ctx, `SELECT id FROM packages WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
}

func ListPackages(ctx context.Context, db SQLExecutor, filter models.PackageFilter) ([]models.Package, error) {
	query, args := buildPackageQuery(filter)

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	packages := make([]models.Package, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, err
		}
		packages = append(packages, *p)
	}
	return packages, rows.Err()
}

func buildPackageQuery(filter models.PackageFilter) (string, []interface{}) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	query := `SELECT ` + packageColumns + ` FROM packages p`
	if filter.City != "" {
		query += ` JOIN cafeterias c ON c.id = p.cafeteria_id`
		where = append(where, "LOWER(c.city) = LOWER("+arg(filter.City)+")")
	}
	if filter.Status != "" {
		where = append(where, "p.reservation_status = "+arg(filter.Status))
	}
	if filter.MealType != "" {
		where = append(where, "p.meal_type = "+arg(filter.MealType))
	}
	if filter.IDs != nil {
		where = append(where, "p.id = ANY("+arg(pq.Array(toInt64s(filter.IDs)))+")")
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}

	order, ok := packageOrderClauses[filter.OrderBy]
	if !ok {
		order = "p.id ASC"
	}
	query += ` ORDER BY ` + order
	return query, args
}

func scanPackage(row rowScanner) (*models.Package, error) {
	var (
		p          models.Package
		productIDs []int64
		reservedBy sql.NullInt64
	)
	err := row.Scan(&p.ID, &p.Name, pq.Array(&productIDs), &p.PickupDateTime, &p.LatestPickupTime,
		&p.IsAdultPackage, &p.Price, &p.MealType, &p.ReservationStatus, &p.NoShowStatus,
		&reservedBy, &p.CafeteriaID)
	if err != nil {
		return nil, err
	}
	p.ExampleProductIDs = toInts(productIDs)
	p.ReservedByID = intPtr(reservedBy)
	return &p, nil
}
