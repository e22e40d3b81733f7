package dbhelper

import (
	"context"

	"github.com/ray-remotestate/foodwaste/models"
)

func CreateCafeteria(ctx context.Context, db SQLExecutor, c *models.Cafeteria) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO cafeterias (city, location_identifier, hot_meals_available, operating_hours)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		c.City, c.LocationIdentifier, c.HotMealsAvailable, c.OperatingHours).Scan(&c.ID)
}

func GetCafeteriaByID(ctx context.Context, db SQLExecutor, id int) (*models.Cafeteria, error) {
	var c models.Cafeteria
	err := db.QueryRowContext(ctx, `
		SELECT id, city, location_identifier, hot_meals_available, operating_hours
		FROM cafeterias
		WHERE id = $1`, id).
		Scan(&c.ID, &c.City, &c.LocationIdentifier, &c.HotMealsAvailable, &c.OperatingHours)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func ListCafeterias(ctx context.Context, db SQLExecutor) ([]models.Cafeteria, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT id, city, location_identifier, hot_meals_available, operating_hours
		FROM cafeterias
		ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cafeterias := make([]models.Cafeteria, 0)
	for rows.Next() {
		var c models.Cafeteria
		if err := rows.Scan(&c.ID, &c.City, &c.LocationIdentifier, &c.HotMealsAvailable, &c.OperatingHours); err != nil {
			return nil, err
		}
		cafeterias = append(cafeterias, c)
	}
	return cafeterias, rows.Err()
}

func CreateStaff(ctx context.Context, db SQLExecutor, s *models.CafeteriaStaff) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO cafeteria_staff (name, employee_number, cafeteria_id)
		VALUES ($1, $2, $3)
		RETURNING id`,
		s.Name, s.EmployeeNumber, s.CafeteriaID).Scan(&s.ID)
}
