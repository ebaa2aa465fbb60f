package patient

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mediclinic/mediclinic/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

func mapNoRows(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// =========== Patient Repository ===========

type patientRepoPG struct{ pool *pgxpool.Pool }

func NewPatientRepoPG(pool *pgxpool.Pool) PatientRepository {
	return &patientRepoPG{pool: pool}
}

func (r *patientRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const patientCols = `id, name, age, gender, email, conditions, created_at, updated_at`

func scanPatient(row pgx.Row) (*Patient, error) {
	var p Patient
	err := row.Scan(&p.ID, &p.Name, &p.Age, &p.Gender, &p.Email, &p.Conditions,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &p, nil
}

func (r *patientRepoPG) Create(ctx context.Context, p *Patient) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient (id, name, age, gender, email, conditions)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.Name, p.Age, p.Gender, p.Email, p.Conditions)
	return err
}

func (r *patientRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return scanPatient(r.conn(ctx).QueryRow(ctx, `SELECT `+patientCols+` FROM patient WHERE id = $1`, id))
}

func (r *patientRepoPG) Update(ctx context.Context, p *Patient) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient SET name=$2, age=$3, gender=$4, email=$5, conditions=$6, updated_at=NOW()
		WHERE id = $1`,
		p.ID, p.Name, p.Age, p.Gender, p.Email, p.Conditions)
	return err
}

func (r *patientRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM patient WHERE id = $1`, id)
	return err
}

func (r *patientRepoPG) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+patientCols+` FROM patient ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, p)
	}
	return items, total, nil
}

// =========== LabResult Repository ===========

type labResultRepoPG struct{ pool *pgxpool.Pool }

func NewLabResultRepoPG(pool *pgxpool.Pool) LabResultRepository {
	return &labResultRepoPG{pool: pool}
}

func (r *labResultRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const labResultCols = `id, patient_id, test_date, lab_data, source, created_at`

func scanLabResult(row pgx.Row) (*LabResult, error) {
	var lr LabResult
	err := row.Scan(&lr.ID, &lr.PatientID, &lr.TestDate, &lr.Values, &lr.Source, &lr.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &lr, nil
}

func (r *labResultRepoPG) Create(ctx context.Context, lr *LabResult) error {
	lr.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO lab_result (id, patient_id, test_date, lab_data, source)
		VALUES ($1,$2,$3,$4,$5)`,
		lr.ID, lr.PatientID, lr.TestDate, lr.Values, lr.Source)
	return err
}

func (r *labResultRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*LabResult, error) {
	return scanLabResult(r.conn(ctx).QueryRow(ctx, `SELECT `+labResultCols+` FROM lab_result WHERE id = $1`, id))
}

func (r *labResultRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM lab_result WHERE id = $1`, id)
	return err
}

func (r *labResultRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*LabResult, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM lab_result WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+labResultCols+` FROM lab_result WHERE patient_id = $1 ORDER BY test_date DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*LabResult
	for rows.Next() {
		lr, err := scanLabResult(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, lr)
	}
	return items, total, nil
}

// =========== Medication Repository ===========

type medicationRepoPG struct{ pool *pgxpool.Pool }

func NewMedicationRepoPG(pool *pgxpool.Pool) MedicationRepository {
	return &medicationRepoPG{pool: pool}
}

func (r *medicationRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const medicationCols = `id, patient_id, name, dosage, frequency, prescribed_by, start_date, active, created_at`

func scanMedication(row pgx.Row) (*Medication, error) {
	var m Medication
	err := row.Scan(&m.ID, &m.PatientID, &m.Name, &m.Dosage, &m.Frequency,
		&m.PrescribedBy, &m.StartDate, &m.Active, &m.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &m, nil
}

func (r *medicationRepoPG) Create(ctx context.Context, m *Medication) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medication (id, patient_id, name, dosage, frequency, prescribed_by, start_date, active)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		m.ID, m.PatientID, m.Name, m.Dosage, m.Frequency, m.PrescribedBy, m.StartDate, m.Active)
	return err
}

func (r *medicationRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return scanMedication(r.conn(ctx).QueryRow(ctx, `SELECT `+medicationCols+` FROM medication WHERE id = $1`, id))
}

func (r *medicationRepoPG) Update(ctx context.Context, m *Medication) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE medication SET name=$2, dosage=$3, frequency=$4, prescribed_by=$5, start_date=$6, active=$7
		WHERE id = $1`,
		m.ID, m.Name, m.Dosage, m.Frequency, m.PrescribedBy, m.StartDate, m.Active)
	return err
}

func (r *medicationRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM medication WHERE id = $1`, id)
	return err
}

func (r *medicationRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*Medication, error) {
	query := `SELECT ` + medicationCols + ` FROM medication WHERE patient_id = $1`
	if activeOnly {
		query += ` AND active`
	}
	query += ` ORDER BY created_at DESC`
	rows, err := r.conn(ctx).Query(ctx, query, patientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Medication
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, nil
}

// =========== Appointment Repository ===========

type appointmentRepoPG struct{ pool *pgxpool.Pool }

func NewAppointmentRepoPG(pool *pgxpool.Pool) AppointmentRepository {
	return &appointmentRepoPG{pool: pool}
}

func (r *appointmentRepoPG) conn(ctx context.Context) queryable {
	if c := db.ConnFromContext(ctx); c != nil {
		return c
	}
	return r.pool
}

const appointmentCols = `id, patient_id, doctor_name, date, reason, status, created_at`

func scanAppointment(row pgx.Row) (*Appointment, error) {
	var a Appointment
	err := row.Scan(&a.ID, &a.PatientID, &a.DoctorName, &a.Date, &a.Reason, &a.Status, &a.CreatedAt)
	if err != nil {
		return nil, mapNoRows(err)
	}
	return &a, nil
}

func (r *appointmentRepoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, patient_id, doctor_name, date, reason, status)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		a.ID, a.PatientID, a.DoctorName, a.Date, a.Reason, a.Status)
	return err
}

func (r *appointmentRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppointment(r.conn(ctx).QueryRow(ctx, `SELECT `+appointmentCols+` FROM appointment WHERE id = $1`, id))
}

func (r *appointmentRepoPG) Update(ctx context.Context, a *Appointment) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET doctor_name=$2, date=$3, reason=$4, status=$5
		WHERE id = $1`,
		a.ID, a.DoctorName, a.Date, a.Reason, a.Status)
	return err
}

func (r *appointmentRepoPG) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE id = $1`, id)
	return err
}

func (r *appointmentRepoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, after string) ([]*Appointment, error) {
	query := `SELECT ` + appointmentCols + ` FROM appointment WHERE patient_id = $1`
	args := []interface{}{patientID}
	if after != "" {
		query += ` AND date >= $2`
		args = append(args, after)
	}
	query += ` ORDER BY date ASC`
	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, a)
	}
	return items, nil
}
