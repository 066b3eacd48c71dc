package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// NovedadType classifies an incident report.
type NovedadType string

const (
	NovedadIntrusion   NovedadType = "INTRUSION"
	NovedadAbsence     NovedadType = "ABSENCE"
	NovedadIncident    NovedadType = "INCIDENT"
	NovedadMaintenance NovedadType = "MAINTENANCE"
	NovedadOther       NovedadType = "OTHER"
)

// EvidenceFile references a stored attachment of a novedad.
type EvidenceFile struct {
	Name        string    `json:"name"`
	Path        string    `json:"path"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// EvidenceFiles is stored as a JSONB array.
type EvidenceFiles []EvidenceFile

// Value implements driver.Valuer.
func (e EvidenceFiles) Value() (driver.Value, error) {
	if e == nil {
		return []byte("[]"), nil
	}
	payload, err := json.Marshal([]EvidenceFile(e))
	if err != nil {
		return nil, fmt.Errorf("marshal evidence: %w", err)
	}
	return payload, nil
}

// Scan implements sql.Scanner.
func (e *EvidenceFiles) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*e = EvidenceFiles{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported evidence source %T", src)
	}
	out := EvidenceFiles{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("decode evidence: %w", err)
		}
	}
	*e = out
	return nil
}

// Novedad is an incident report attached to a business unit and optionally a post.
type Novedad struct {
	ID               string        `db:"id" json:"id"`
	BusinessUnitID   int64         `db:"id_unidad" json:"business_unit_id"`
	BusinessUnitName string        `db:"nombre_unidad" json:"business_unit_name"`
	PostID           *int64        `db:"id_puesto" json:"post_id,omitempty"`
	PostName         *string       `db:"nombre_puesto" json:"post_name,omitempty"`
	OccurredAt       time.Time     `db:"fecha_hora" json:"occurred_at"`
	Type             NovedadType   `db:"tipo" json:"type"`
	Description      string        `db:"descripcion" json:"description"`
	ReportedBy       string        `db:"reportado_por" json:"reported_by"`
	Evidence         EvidenceFiles `db:"evidencias" json:"evidence"`
	NotifiedAt       *time.Time    `db:"notificado_en" json:"notified_at,omitempty"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// NovedadFilter captures listing filters.
type NovedadFilter struct {
	BusinessUnitID *int64
	PostID         *int64
	Type           *NovedadType
	From           *time.Time
	To             *time.Time
	Page           int
	PageSize       int
}
