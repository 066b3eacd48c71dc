package dto

// StatisticsQuery captures /statistics parameters. Dates default to the
// last 30 days.
type StatisticsQuery struct {
	BusinessID *int64 `form:"businessId" validate:"omitempty,gt=0"`
	From       string `form:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" validate:"omitempty,datetime=2006-01-02"`
}
