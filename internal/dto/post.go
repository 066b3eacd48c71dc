package dto

// PostQuery captures GET /posts parameters.
type PostQuery struct {
	BusinessID *int64 `form:"businessId" validate:"omitempty,gt=0"`
	Active     *bool  `form:"active"`
	Search     string `form:"search" validate:"max=100"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" validate:"omitempty,min=1,max=500"`
}

// PostRequest creates or updates a post.
type PostRequest struct {
	Name           string  `json:"name" validate:"required,max=150"`
	BusinessUnitID int64   `json:"businessUnitId" validate:"required,gt=0"`
	Active         *bool   `json:"active"`
	StartDate      *string `json:"startDate" validate:"omitempty,datetime=2006-01-02"`
}
