package dto

// Export modes and formats.
const (
	ExportModeDay   = "day"
	ExportModeRange = "range"

	ExportFormatXLSX = "xlsx"
	ExportFormatCSV  = "csv"
)

// ExportRequest is the POST /export payload. Date is used in day mode, From
// and To in range mode.
type ExportRequest struct {
	BusinessID int64  `json:"businessId" validate:"required,gt=0"`
	Mode       string `json:"mode" validate:"required,oneof=day range"`
	Date       string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	From       string `json:"from" validate:"omitempty,datetime=2006-01-02"`
	To         string `json:"to" validate:"omitempty,datetime=2006-01-02"`
	Format     string `json:"format" validate:"omitempty,oneof=xlsx csv"`
}

// ExportFile is a rendered export ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
