package dbhelper

import (
	"context"

	"github.com/ray-remotestate/foodwaste/models"
)

const studentColumns = `id, name, date_of_birth, student_number, email, study_city, phone_number, no_show_counter`

func CreateStudent(ctx context.Context, db SQLExecutor, s *models.Student) error {
	return db.QueryRowContext(ctx, `
		INSERT INTO students (name, date_of_birth, student_number, email, study_city, phone_number, no_show_counter)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		s.Name, s.DateOfBirth, s.StudentNumber, s.Email, s.StudyCity, s.PhoneNumber, s.NoShowCounter).Scan(&s.ID)
}

func UpdateStudent(ctx context.Context, db SQLExecutor, s *models.Student) (int64, error) {
	res, err := db.ExecContext(ctx, `
		UPDATE students
		SET name = $2, date_of_birth = $3, student_number = $4, email = $5, study_city = $6, phone_number = $7
		WHERE id = $1`,
		s.ID, s.Name, s.DateOfBirth, s.StudentNumber, s.Email, s.StudyCity, s.PhoneNumber)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func DeleteStudent(ctx context.Context, db SQLExecutor, id int) (int64, error) {
	res, err := db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func GetStudentByID(ctx context.Context, db SQLExecutor, id int) (*models.Student, error) {
	row := db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	return scanStudent(row)
}

func GetStudentByNumber(ctx context.Context, db SQLExecutor, number string) (*models.Student, error) {
	row := db.QueryRowContext(ctx, `SELECT `+studentColumns+` FROM students WHERE student_number = $1`, number)
	return scanStudent(row)
}

// LockStudent takes a row lock held until the surrounding transaction ends.
func LockStudent(ctx context.Context, db SQLExecutor, id int) error {
	var locked int
	return db.QueryRowContext(ctx, `SELECT id FROM students WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
}

func ListStudents(ctx context.Context, db SQLExecutor) ([]models.Student, error) {
	rows, err := db.QueryContext(ctx, `SELECT `+studentColumns+` FROM students ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	students := make([]models.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		students = append(students, *s)
	}
	return students, rows.Err()
}

func scanStudent(row rowScanner) (*models.Student, error) {
	var s models.Student
	err := row.Scan(&s.ID, &s.Name, &s.DateOfBirth, &s.StudentNumber, &s.Email, &s.StudyCity, &s.PhoneNumber, &s.NoShowCounter)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
