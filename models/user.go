package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
)

func (r Role) IsValid() bool {
	return r == RoleStudent || r == RoleStaff
}

func ParseRole(s string) Role {
	return Role(strings.ToLower(s))
}

type User struct {
	ID               uuid.UUID `db:"id" json:"id"`
	Email            string    `db:"email" json:"email"`
	Password         string    `db:"password" json:"-"`
	Role             Role      `db:"role" json:"role"`
	StudentID        *int      `db:"student_id" json:"studentId,omitempty"`
	CafeteriaStaffID *int      `db:"cafeteria_staff_id" json:"cafeteriaStaffId,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
}
