package documents

import (
	"time"

	"github.com/google/uuid"
)

// Document types accepted on upload.
const (
	TypeLabReport    = "lab_report"
	TypeDoctorNote   = "doctor_note"
	TypePrescription = "prescription"
	TypeGeneral      = "general"
)

// Document maps to the document table. Extracted holds the type-specific
// extraction result as jsonb.
type Document struct {
	ID         uuid.UUID              `db:"id" json:"id"`
	PatientID  uuid.UUID              `db:"patient_id" json:"patient_id"`
	Filename   string                 `db:"filename" json:"filename"`
	DocType    string                 `db:"doc_type" json:"doc_type"`
	StorageKey string                 `db:"storage_key" json:"-"`
	SizeBytes  int64                  `db:"size_bytes" json:"size_bytes"`
	Extracted  map[string]interface{} `db:"extracted" json:"extracted,omitempty"`
	UploadedAt time.Time              `db:"uploaded_at" json:"uploaded_at"`
}
