package patient

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mediclinic/mediclinic/internal/domain/analysis"
)

// DocumentInfo is the slice of the documents domain the summary needs.
type DocumentInfo struct {
	Filename   string
	UploadedAt time.Time
}

// DocumentSource supplies per-patient document data without coupling this
// package to the documents domain.
type DocumentSource interface {
	RecentForPatient(ctx context.Context, patientID uuid.UUID, limit int) ([]DocumentInfo, int, error)
}

// SessionScoper pins the queries of a multi-statement read to one database
// session. Nil disables pinning; the in-memory repositories do not need it.
type SessionScoper interface {
	Scope(ctx context.Context) (context.Context, func(), error)
}

type Service struct {
	patients     PatientRepository
	labResults   LabResultRepository
	medications  MedicationRepository
	appointments AppointmentRepository
	documents    DocumentSource
	analyzer     *analysis.Analyzer
	sessions     SessionScoper
}

func NewService(p PatientRepository, lr LabResultRepository, m MedicationRepository, a AppointmentRepository, docs DocumentSource, analyzer *analysis.Analyzer, sessions SessionScoper) *Service {
	return &Service{
		patients:     p,
		labResults:   lr,
		medications:  m,
		appointments: a,
		documents:    docs,
		analyzer:     analyzer,
		sessions:     sessions,
	}
}

// -- Patient --

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age < 0 || p.Age > 150 {
		return fmt.Errorf("invalid age: %d", p.Age)
	}
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if p.Age < 0 || p.Age > 150 {
		return fmt.Errorf("invalid age: %d", p.Age)
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	return s.patients.List(ctx, limit, offset)
}

// -- Lab results --

func (s *Service) AddLabResult(ctx context.Context, lr *LabResult) error {
	if lr.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if len(lr.Values) == 0 {
		return fmt.Errorf("lab_data is required")
	}
	if lr.TestDate == "" {
		lr.TestDate = time.Now().Format("2006-01-02")
	}
	if _, err := s.patients.GetByID(ctx, lr.PatientID); err != nil {
		return fmt.Errorf("patient lookup: %w", err)
	}
	return s.labResults.Create(ctx, lr)
}

func (s *Service) GetLabResult(ctx context.Context, id uuid.UUID) (*LabResult, error) {
	return s.labResults.GetByID(ctx, id)
}

func (s *Service) DeleteLabResult(ctx context.Context, id uuid.UUID) error {
	return s.labResults.Delete(ctx, id)
}

func (s *Service) ListLabResults(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*LabResult, int, error) {
	return s.labResults.ListByPatient(ctx, patientID, limit, offset)
}

// LabHistory converts a patient's stored results, oldest first, into the
// record form the trend analyzer consumes.
func (s *Service) LabHistory(ctx context.Context, patientID uuid.UUID, limit int) ([]analysis.HistoryRecord, error) {
	results, _, err := s.labResults.ListByPatient(ctx, patientID, limit, 0)
	if err != nil {
		return nil, err
	}
	history := make([]analysis.HistoryRecord, 0, len(results))
	for i := len(results) - 1; i >= 0; i-- {
		history = append(history, analysis.HistoryRecord{
			Date:   results[i].TestDate,
			Values: results[i].Values,
		})
	}
	return history, nil
}

// -- Medications --

func (s *Service) AddMedication(ctx context.Context, m *Medication) error {
	if m.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return s.medications.Create(ctx, m)
}

func (s *Service) UpdateMedication(ctx context.Context, m *Medication) error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("name is required")
	}
	return s.medications.Update(ctx, m)
}

func (s *Service) DeleteMedication(ctx context.Context, id uuid.UUID) error {
	return s.medications.Delete(ctx, id)
}

func (s *Service) ListMedications(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*Medication, error) {
	return s.medications.ListByPatient(ctx, patientID, activeOnly)
}

// -- Appointments --

var validAppointmentStatuses = map[string]bool{
	"scheduled": true, "completed": true, "cancelled": true, "no-show": true,
}

func (s *Service) AddAppointment(ctx context.Context, a *Appointment) error {
	if a.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if a.Date == "" {
		return fmt.Errorf("date is required")
	}
	if a.Status == "" {
		a.Status = "scheduled"
	}
	if !validAppointmentStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return s.appointments.Create(ctx, a)
}

func (s *Service) UpdateAppointment(ctx context.Context, a *Appointment) error {
	if a.Status != "" && !validAppointmentStatuses[a.Status] {
		return fmt.Errorf("invalid status: %s", a.Status)
	}
	return s.appointments.Update(ctx, a)
}

func (s *Service) DeleteAppointment(ctx context.Context, id uuid.UUID) error {
	return s.appointments.Delete(ctx, id)
}

func (s *Service) ListAppointments(ctx context.Context, patientID uuid.UUID, upcomingOnly bool) ([]*Appointment, error) {
	after := ""
	if upcomingOnly {
		after = time.Now().Format("2006-01-02")
	}
	return s.appointments.ListByPatient(ctx, patientID, after)
}

// -- Summary --

const (
	summaryLabLimit    = 5
	timelineLabEvents  = 3
	timelineApptEvents = 2
	timelineDocEvents  = 2
)

// Summary assembles the dashboard view: profile, analysis of the most
// recent labs, medications, counts and a merged timeline of recent and
// upcoming events.
func (s *Service) Summary(ctx context.Context, patientID uuid.UUID) (*Summary, error) {
	if s.sessions != nil {
		scoped, release, err := s.sessions.Scope(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire session: %w", err)
		}
		defer release()
		ctx = scoped
	}

	profile, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("patient lookup: %w", err)
	}

	labs, labTotal, err := s.labResults.ListByPatient(ctx, patientID, summaryLabLimit, 0)
	if err != nil {
		return nil, fmt.Errorf("lab history: %w", err)
	}

	medications, err := s.medications.ListByPatient(ctx, patientID, true)
	if err != nil {
		return nil, fmt.Errorf("medications: %w", err)
	}

	upcoming, err := s.appointments.ListByPatient(ctx, patientID, time.Now().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("appointments: %w", err)
	}

	var docs []DocumentInfo
	var docTotal int
	if s.documents != nil {
		docs, docTotal, err = s.documents.RecentForPatient(ctx, patientID, timelineDocEvents)
		if err != nil {
			return nil, fmt.Errorf("documents: %w", err)
		}
	}

	summary := &Summary{
		PatientID:            patientID,
		Profile:              profile,
		HealthScore:          analysis.HealthScore{Status: analysis.InsufficientData},
		Medications:          medications,
		DocumentCount:        docTotal,
		LabHistoryCount:      labTotal,
		UpcomingAppointments: len(upcoming),
		Timeline:             s.buildTimeline(labs, upcoming, docs),
		GeneratedAt:          time.Now(),
	}

	if len(labs) > 0 {
		latest := labs[0].Values
		summary.LatestAnalysis = s.analyzer.Categorize(latest)
		summary.HealthScore = s.analyzer.Score(latest)
	}

	return summary, nil
}

func (s *Service) buildTimeline(labs []*LabResult, upcoming []*Appointment, docs []DocumentInfo) []TimelineEvent {
	var events []TimelineEvent

	for i, lab := range labs {
		if i >= timelineLabEvents {
			break
		}
		events = append(events, TimelineEvent{
			Date:   lab.TestDate,
			Event:  fmt.Sprintf("Lab Test: %s", strings.Join(topTests(lab.Values, 3), ", ")),
			Type:   "lab",
			Status: "completed",
		})
	}
	for i, appt := range upcoming {
		if i >= timelineApptEvents {
			break
		}
		doctor := appt.DoctorName
		if doctor == "" {
			doctor = "Doctor"
		}
		events = append(events, TimelineEvent{
			Date:   appt.Date,
			Event:  fmt.Sprintf("Appointment: %s", doctor),
			Type:   "appointment",
			Status: "scheduled",
		})
	}
	for _, doc := range docs {
		events = append(events, TimelineEvent{
			Date:   doc.UploadedAt.Format("2006-01-02"),
			Event:  fmt.Sprintf("Document: %s", doc.Filename),
			Type:   "document",
			Status: "completed",
		})
	}

	sort.SliceStable(events, func(i, j int) bool { return events[i].Date < events[j].Date })
	return events
}

func topTests(values map[string]float64, n int) []string {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	if len(names) > n {
		names = names[:n]
	}
	return names
}
