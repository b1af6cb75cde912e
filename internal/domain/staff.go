package domain

import "time"

// StaffRole scopes what a staff member may do through the command API.
type StaffRole string

const (
	StaffRoleAdmin StaffRole = "ADMIN"
	StaffRoleAgent StaffRole = "AGENT"
)

// StaffMember is an operator acting on tickets.
type StaffMember struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         StaffRole
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
