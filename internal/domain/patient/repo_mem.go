package patient

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// In-memory repositories back the demo deployment when no database is
// configured. All stores are safe for concurrent use.

type patientRepoMem struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Patient
}

func NewPatientRepoMem() PatientRepository {
	return &patientRepoMem{items: make(map[uuid.UUID]*Patient)}
}

func (r *patientRepoMem) Create(ctx context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = uuid.New()
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *patientRepoMem) GetByID(ctx context.Context, id uuid.UUID) (*Patient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *patientRepoMem) Update(ctx context.Context, p *Patient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	r.items[p.ID] = &cp
	return nil
}

func (r *patientRepoMem) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *patientRepoMem) List(ctx context.Context, limit, offset int) ([]*Patient, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	all := make([]*Patient, 0, len(r.items))
	for _, p := range r.items {
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), len(all), nil
}

type labResultRepoMem struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*LabResult
}

func NewLabResultRepoMem() LabResultRepository {
	return &labResultRepoMem{items: make(map[uuid.UUID]*LabResult)}
}

func (r *labResultRepoMem) Create(ctx context.Context, lr *LabResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	lr.ID = uuid.New()
	lr.CreatedAt = time.Now()
	cp := *lr
	r.items[lr.ID] = &cp
	return nil
}

func (r *labResultRepoMem) GetByID(ctx context.Context, id uuid.UUID) (*LabResult, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lr, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *lr
	return &cp, nil
}

func (r *labResultRepoMem) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *labResultRepoMem) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*LabResult, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []*LabResult
	for _, lr := range r.items {
		if lr.PatientID == patientID {
			cp := *lr
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TestDate > all[j].TestDate })
	return page(all, limit, offset), len(all), nil
}

type medicationRepoMem struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Medication
}

func NewMedicationRepoMem() MedicationRepository {
	return &medicationRepoMem{items: make(map[uuid.UUID]*Medication)}
}

func (r *medicationRepoMem) Create(ctx context.Context, m *Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m.ID = uuid.New()
	m.CreatedAt = time.Now()
	cp := *m
	r.items[m.ID] = &cp
	return nil
}

func (r *medicationRepoMem) GetByID(ctx context.Context, id uuid.UUID) (*Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *medicationRepoMem) Update(ctx context.Context, m *Medication) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[m.ID]; !ok {
		return ErrNotFound
	}
	cp := *m
	r.items[m.ID] = &cp
	return nil
}

func (r *medicationRepoMem) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *medicationRepoMem) ListByPatient(ctx context.Context, patientID uuid.UUID, activeOnly bool) ([]*Medication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Medication
	for _, m := range r.items {
		if m.PatientID != patientID {
			continue
		}
		if activeOnly && !m.Active {
			continue
		}
		cp := *m
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) })
	return items, nil
}

type appointmentRepoMem struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Appointment
}

func NewAppointmentRepoMem() AppointmentRepository {
	return &appointmentRepoMem{items: make(map[uuid.UUID]*Appointment)}
}

func (r *appointmentRepoMem) Create(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = uuid.New()
	a.CreatedAt = time.Now()
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *appointmentRepoMem) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *appointmentRepoMem) Update(ctx context.Context, a *Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[a.ID]; !ok {
		return ErrNotFound
	}
	cp := *a
	r.items[a.ID] = &cp
	return nil
}

func (r *appointmentRepoMem) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *appointmentRepoMem) ListByPatient(ctx context.Context, patientID uuid.UUID, after string) ([]*Appointment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var items []*Appointment
	for _, a := range r.items {
		if a.PatientID != patientID {
			continue
		}
		if after != "" && a.Date < after {
			continue
		}
		cp := *a
		items = append(items, &cp)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Date < items[j].Date })
	return items, nil
}

func page[T any](all []*T, limit, offset int) []*T {
	if offset >= len(all) {
		return nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end]
}
