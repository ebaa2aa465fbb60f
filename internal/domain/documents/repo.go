package documents

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when no row matches.
var ErrNotFound = errors.New("not found")

type Repository interface {
	Create(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// ListByPatient returns documents newest first.
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Document, int, error)
}
