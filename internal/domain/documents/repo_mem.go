package documents

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type repoMem struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*Document
}

// NewRepoMem returns an in-memory repository for the demo deployment.
func NewRepoMem() Repository {
	return &repoMem{items: make(map[uuid.UUID]*Document)}
}

func (r *repoMem) Create(ctx context.Context, d *Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d.ID = uuid.New()
	d.UploadedAt = time.Now()
	cp := *d
	r.items[d.ID] = &cp
	return nil
}

func (r *repoMem) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *repoMem) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ErrNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *repoMem) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Document, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var all []*Document
	for _, d := range r.items {
		if d.PatientID == patientID {
			cp := *d
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UploadedAt.After(all[j].UploadedAt) })

	total := len(all)
	if offset >= total {
		return nil, total, nil
	}
	end := total
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], total, nil
}
