package documents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// text formats the extractor can read directly; other formats are stored
// without content extraction.
var textExtensions = map[string]bool{
	".txt": true,
	".md":  true,
}

var validDocTypes = map[string]bool{
	TypeLabReport:    true,
	TypeDoctorNote:   true,
	TypePrescription: true,
	TypeGeneral:      true,
}

type Service struct {
	repo      Repository
	uploadDir string
	log       zerolog.Logger
}

func NewService(repo Repository, uploadDir string, log zerolog.Logger) *Service {
	return &Service{repo: repo, uploadDir: uploadDir, log: log}
}

// Upload stores the file on disk, runs type-dispatched extraction on its
// text and records the document. Unknown doc types fall back to general
// extraction.
func (s *Service) Upload(ctx context.Context, patientID uuid.UUID, docType, filename string, content []byte) (*Document, error) {
	if patientID == uuid.Nil {
		return nil, fmt.Errorf("patient_id is required")
	}
	if filename == "" {
		return nil, fmt.Errorf("filename is required")
	}
	if docType == "" || !validDocTypes[docType] {
		docType = TypeGeneral
	}

	storageKey := fmt.Sprintf("%s_%s", uuid.New().String(), filepath.Base(filename))
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	path := filepath.Join(s.uploadDir, storageKey)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	var extracted map[string]interface{}
	ext := strings.ToLower(filepath.Ext(filename))
	if textExtensions[ext] {
		extracted = Extract(string(content), docType)
	}

	doc := &Document{
		PatientID:  patientID,
		Filename:   filepath.Base(filename),
		DocType:    docType,
		StorageKey: storageKey,
		SizeBytes:  int64(len(content)),
		Extracted:  extracted,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			s.log.Warn().Err(rmErr).Str("path", path).Msg("orphaned upload left on disk")
		}
		return nil, err
	}

	s.log.Info().
		Str("document_id", doc.ID.String()).
		Str("patient_id", patientID.String()).
		Str("doc_type", docType).
		Int64("size_bytes", doc.SizeBytes).
		Msg("document uploaded")
	return doc, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	return s.repo.GetByID(ctx, id)
}

// Delete removes the record and the stored file. A missing file is not an
// error; the record is authoritative.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	path := filepath.Join(s.uploadDir, doc.StorageKey)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn().Err(err).Str("path", path).Msg("could not remove stored file")
	}
	return nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Document, int, error) {
	return s.repo.ListByPatient(ctx, patientID, limit, offset)
}
