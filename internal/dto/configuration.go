package dto

// ConfigurationQuery captures GET /configurations parameters.
type ConfigurationQuery struct {
	BusinessID int64 `form:"businessId" validate:"required,gt=0"`
}

// ApplicableConfigurationQuery captures GET /configurations/applicable parameters.
type ApplicableConfigurationQuery struct {
	BusinessID int64  `form:"businessId" validate:"required,gt=0"`
	Date       string `form:"date" validate:"required,datetime=2006-01-02"`
}

// CreateConfigurationRequest adds a date-effective slot configuration.
type CreateConfigurationRequest struct {
	BusinessUnitID int64  `json:"businessUnitId" validate:"required,gt=0"`
	StartDate      string `json:"startDate" validate:"required,datetime=2006-01-02"`
	Day            int    `json:"day" validate:"min=0,max=24"`
	ShiftB         int    `json:"shiftB" validate:"min=0,max=24"`
	Night          int    `json:"night" validate:"min=0,max=24"`
}
