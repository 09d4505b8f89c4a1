package domain

import "time"

// StaffRole enumerates internal operator roles.
type StaffRole string

const (
	StaffRoleTechnician StaffRole = "TECHNICIAN"
	StaffRoleManager    StaffRole = "MANAGER"
	StaffRoleAdmin      StaffRole = "ADMIN"
)

// StaffUser models a dashboard operator (admin, manager or technician).
type StaffUser struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	TechnicianID *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
