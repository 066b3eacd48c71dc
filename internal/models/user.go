package models

import "time"

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	// RoleAdmin manages every business unit, posts and configurations.
	RoleAdmin UserRole = "ADMIN"
	// RoleSupervisor edits grids and novedades of its business unit.
	RoleSupervisor UserRole = "SUPERVISOR"
	// RoleOperator records ratings and novedades of its business unit.
	RoleOperator UserRole = "OPERATOR"
)

// User represents an application user stored in the users table.
type User struct {
	ID             string     `db:"id" json:"id"`
	Username       string     `db:"username" json:"username"`
	Email          string     `db:"email" json:"email"`
	PasswordHash   string     `db:"password_hash" json:"-"`
	FullName       string     `db:"full_name" json:"full_name"`
	Role           UserRole   `db:"role" json:"role"`
	BusinessUnitID *int64     `db:"business_unit_id" json:"business_unit_id,omitempty"`
	Active         bool       `db:"active" json:"active"`
	LastLogin      *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// UserFilter captures filters for listing accounts.
type UserFilter struct {
	Role           *UserRole
	BusinessUnitID *int64
	Active         *bool
	Search         string
	SortBy         string
	SortOrder      string
	Page           int
	PageSize       int
}
