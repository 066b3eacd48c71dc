package dto

// UserQuery captures GET /users parameters.
type UserQuery struct {
	Role       string `form:"role" validate:"omitempty,oneof=ADMIN SUPERVISOR OPERATOR"`
	BusinessID *int64 `form:"businessId" validate:"omitempty,gt=0"`
	Active     *bool  `form:"active"`
	Search     string `form:"search" validate:"max=100"`
	SortBy     string `form:"sortBy"`
	SortOrder  string `form:"sortOrder" validate:"omitempty,oneof=asc desc ASC DESC"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// CreateUserRequest registers a new account.
type CreateUserRequest struct {
	Username       string `json:"username" validate:"required,min=3,max=50"`
	Email          string `json:"email" validate:"required,email"`
	FullName       string `json:"fullName" validate:"required,max=150"`
	Role           string `json:"role" validate:"required,oneof=ADMIN SUPERVISOR OPERATOR"`
	BusinessUnitID *int64 `json:"businessUnitId" validate:"omitempty,gt=0"`
	Password       string `json:"password" validate:"required,min=8"`
	Active         *bool  `json:"active"`
}

// UpdateUserRequest changes the mutable attributes of an account.
type UpdateUserRequest struct {
	FullName       string `json:"fullName" validate:"required,max=150"`
	Role           string `json:"role" validate:"required,oneof=ADMIN SUPERVISOR OPERATOR"`
	BusinessUnitID *int64 `json:"businessUnitId" validate:"omitempty,gt=0"`
	Active         *bool  `json:"active"`
}
