package models

import "time"

// Audit actions recorded for authentication and data changes.
const (
	AuditActionLogin          = "LOGIN"
	AuditActionLogout         = "LOGOUT"
	AuditActionTokenRefresh   = "TOKEN_REFRESH"
	AuditActionTokenReuse     = "TOKEN_REUSE"
	AuditActionPasswordChange = "PASSWORD_CHANGE"
	AuditActionGridSave       = "GRID_SAVE"
	AuditActionRecordCreate   = "RECORD_CREATE"
	AuditActionRecordUpdate   = "RECORD_UPDATE"
	AuditActionNoteUpdate     = "NOTE_UPDATE"
	AuditActionPostWrite      = "POST_WRITE"
	AuditActionConfigWrite    = "CONFIGURATION_WRITE"
	AuditActionNovedadWrite   = "NOVEDAD_WRITE"
	AuditActionExport         = "EXPORT"
	AuditActionEvidenceRead   = "EVIDENCE_DOWNLOAD"
	AuditActionUserCreate     = "USER_CREATE"
	AuditActionUserUpdate     = "USER_UPDATE"
	AuditActionUserDelete     = "USER_DELETE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	OldValues  []byte    `db:"old_values" json:"old_values,omitempty"`
	NewValues  []byte    `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
