package dbhelper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ray-remotestate/foodwaste/models"
)

func CreateReservation(ctx context.Context, db SQLExecutor, r *models.Reservation) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO reservations (student_id, package_id, reservation_date)
		VALUES ($1, $2, $3)
		RETURNING id`,
		r.StudentID, r.PackageID, r.ReservationDate).Scan(&r.ID)
}

func DeleteReservation(ctx context.Context, db SQLExecutor, id int) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM reservations WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func GetReservationByID(ctx context.Context, db SQLExecutor, id int) (*models.Reservation, error) {
	var r models.Reservation
	err := db.QueryRowContext(ctx, `
		SELECT id, student_id, package_id, reservation_date
		FROM reservations
		WHERE id = $1`, id).
		Scan(&r.ID, &r.StudentID, &r.PackageID, &r.ReservationDate)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func ListReservations(ctx context.Context, db SQLExecutor, filter models.ReservationFilter) ([]models.Reservation, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		where = append(where, fmt.Sprintf("student_id = $%d", len(args)))
	}
	if filter.PackageID != nil {
		args = append(args, *filter.PackageID)
		where = append(where, fmt.Sprintf("package_id = $%d", len(args)))
	}

	query := `SELECT id, student_id, package_id, reservation_date FROM reservations`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	reservations := make([]models.Reservation, 0)
	for rows.Next() {
		var r models.Reservation
		if err := rows.Scan(&r.ID, &r.StudentID, &r.PackageID, &r.ReservationDate); err != nil {
			return nil, err
		}
		reservations = append(reservations, r)
	}
	return reservations, rows.Err()
}

// HasReservationOnDate compares calendar dates in UTC.
func HasReservationOnDate(ctx context.Context, db SQLExecutor, studentID int, day time.Time) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reservations r
			JOIN packages p ON p.id = r.package_id
			WHERE r.student_id = $1
			AND (p.pickup_date_time AT TIME ZONE 'UTC')::date = $2::date
		)`, studentID, day.UTC().Format(time.DateOnly)).Scan(&exists)
	return exists, err
}
