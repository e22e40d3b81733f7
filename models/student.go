package models

import "time"

type Student struct {
	ID            int       `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	DateOfBirth   time.Time `db:"date_of_birth" json:"dateOfBirth"`
	StudentNumber string    `db:"student_number" json:"studentNumber"`
	Email         string    `db:"email" json:"email"`
	StudyCity     string    `db:"study_city" json:"studyCity"`
	PhoneNumber   string    `db:"phone_number" json:"phoneNumber"`
	NoShowCounter int       `db:"no_show_counter" json:"noShowCounter"`
}

// StudentDraft carries the caller-editable student fields for create and update.
type StudentDraft struct {
	Name          string    `json:"name"`
	DateOfBirth   time.Time `json:"dateOfBirth"`
	StudentNumber string    `json:"studentNumber"`
	Email         string    `json:"email"`
	StudyCity     string    `json:"studyCity"`
	PhoneNumber   string    `json:"phoneNumber"`
}
