package patient

import (
	"time"

	"github.com/google/uuid"

	"github.com/mediclinic/mediclinic/internal/domain/analysis"
)

// Patient maps to the patient table.
type Patient struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Age        int       `db:"age" json:"age"`
	Gender     string    `db:"gender" json:"gender,omitempty"`
	Email      string    `db:"email" json:"email,omitempty"`
	Conditions []string  `db:"conditions" json:"conditions,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// LabResult maps to the lab_result table. Values is a flat test-to-value
// snapshot stored as jsonb; TestDate is an ISO date string so lexical order
// is chronological order.
type LabResult struct {
	ID        uuid.UUID          `db:"id" json:"id"`
	PatientID uuid.UUID          `db:"patient_id" json:"patient_id"`
	TestDate  string             `db:"test_date" json:"test_date"`
	Values    map[string]float64 `db:"lab_data" json:"lab_data"`
	Source    string             `db:"source" json:"source,omitempty"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
}

// Medication maps to the medication table.
type Medication struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	Name         string    `db:"name" json:"name"`
	Dosage       string    `db:"dosage" json:"dosage,omitempty"`
	Frequency    string    `db:"frequency" json:"frequency,omitempty"`
	PrescribedBy string    `db:"prescribed_by" json:"prescribed_by,omitempty"`
	StartDate    string    `db:"start_date" json:"start_date,omitempty"`
	Active       bool      `db:"active" json:"active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Appointment maps to the appointment table. Date is an ISO date string.
type Appointment struct {
	ID         uuid.UUID `db:"id" json:"id"`
	PatientID  uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorName string    `db:"doctor_name" json:"doctor_name"`
	Date       string    `db:"date" json:"date"`
	Reason     string    `db:"reason" json:"reason,omitempty"`
	Status     string    `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// TimelineEvent is one entry in a patient summary timeline.
type TimelineEvent struct {
	Date   string `json:"date"`
	Event  string `json:"event"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// Summary is the aggregated dashboard view for one patient.
type Summary struct {
	PatientID            uuid.UUID                             `json:"patient_id"`
	Profile              *Patient                              `json:"profile"`
	HealthScore          analysis.HealthScore                  `json:"health_score"`
	LatestAnalysis       map[string]analysis.CategorizedResult `json:"latest_analysis,omitempty"`
	Medications          []*Medication                         `json:"medications"`
	DocumentCount        int                                   `json:"document_count"`
	LabHistoryCount      int                                   `json:"lab_history_count"`
	UpcomingAppointments int                                   `json:"upcoming_appointments"`
	Timeline             []TimelineEvent                       `json:"timeline"`
	GeneratedAt          time.Time                             `json:"summary_generated"`
}
