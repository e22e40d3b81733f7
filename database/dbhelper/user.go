package dbhelper

import (
	"context"
	"database/sql"

	"github.com/ray-remotestate/foodwaste/models"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func CreateUser(ctx context.Context, db SQLExecutor, u *models.User) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO users (email, password, role, student_id, cafeteria_staff_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		u.Email, u.Password, u.Role, u.StudentID, u.CafeteriaStaffID).
		Scan(&u.ID, &u.CreatedAt)
}

func GetUserByEmail(ctx context.Context, db SQLExecutor, email string) (*models.User, error) {
	var u models.User
	var studentID, staffID sql.NullInt64

	err := db.QueryRowContext(ctx, `
		SELECT id, email, password, role, student_id, cafeteria_staff_id, created_at
		FROM users
		WHERE LOWER(email) = LOWER($1)`, email).
		Scan(&u.ID, &u.Email, &u.Password, &u.Role, &studentID, &staffID, &u.CreatedAt)
	if err != nil {
		return nil, err
	}

	u.StudentID = intPtr(studentID)
	u.CafeteriaStaffID = intPtr(staffID)
	return &u, nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}
