package documents

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewRepoMem(), t.TempDir(), zerolog.Nop())
}

func TestService_Upload(t *testing.T) {
	svc := newTestService(t)
	patientID := uuid.New()

	doc, err := svc.Upload(context.Background(), patientID, TypeLabReport, "labs.txt",
		[]byte("Glucose: 145 mg/dL\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.ID == uuid.Nil {
		t.Error("expected id to be assigned")
	}
	if doc.Filename != "labs.txt" {
		t.Errorf("unexpected filename: %s", doc.Filename)
	}
	if doc.Extracted == nil {
		t.Fatal("expected extraction for txt upload")
	}
	results := doc.Extracted["results"].(map[string]float64)
	if results["glucose"] != 145 {
		t.Errorf("expected glucose 145, got %v", results["glucose"])
	}

	stored := filepath.Join(svc.uploadDir, doc.StorageKey)
	if _, err := os.Stat(stored); err != nil {
		t.Errorf("expected stored file: %v", err)
	}
}

func TestService_Upload_BinaryFormatSkipsExtraction(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Upload(context.Background(), uuid.New(), TypeLabReport, "scan.pdf",
		[]byte{0x25, 0x50, 0x44, 0x46})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Extracted != nil {
		t.Errorf("expected no extraction for pdf, got %v", doc.Extracted)
	}
}

func TestService_Upload_UnknownTypeBecomesGeneral(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Upload(context.Background(), uuid.New(), "selfie", "note.txt", []byte("hello there"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.DocType != TypeGeneral {
		t.Errorf("expected general, got %s", doc.DocType)
	}
}

func TestService_Upload_RequiresPatient(t *testing.T) {
	svc := newTestService(t)
	if _, err := svc.Upload(context.Background(), uuid.Nil, TypeGeneral, "x.txt", []byte("x")); err == nil {
		t.Error("expected error for missing patient id")
	}
}

func TestService_Upload_StripsPathFromFilename(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Upload(context.Background(), uuid.New(), TypeGeneral, "../../etc/passwd", []byte("x"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Filename != "passwd" {
		t.Errorf("expected base name only, got %s", doc.Filename)
	}
}

func TestService_Delete_RemovesFile(t *testing.T) {
	svc := newTestService(t)

	doc, err := svc.Upload(context.Background(), uuid.New(), TypeGeneral, "note.txt", []byte("bye"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	stored := filepath.Join(svc.uploadDir, doc.StorageKey)

	if err := svc.Delete(context.Background(), doc.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Get(context.Background(), doc.ID); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := os.Stat(stored); !os.IsNotExist(err) {
		t.Error("expected stored file to be removed")
	}
}

func TestService_ListByPatient(t *testing.T) {
	svc := newTestService(t)
	patientID := uuid.New()

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := svc.Upload(context.Background(), patientID, TypeGeneral, name, []byte("x")); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := svc.Upload(context.Background(), uuid.New(), TypeGeneral, "other.txt", []byte("x")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, total, err := svc.ListByPatient(context.Background(), patientID, 2, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 3 {
		t.Errorf("expected total 3, got %d", total)
	}
	if len(items) != 2 {
		t.Errorf("expected page of 2, got %d", len(items))
	}
}
