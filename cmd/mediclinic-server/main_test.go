package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/mediclinic/mediclinic/internal/config"
	"github.com/mediclinic/mediclinic/internal/domain/documents"
	"github.com/mediclinic/mediclinic/internal/platform/ai"
)

func TestDemoDataHandler(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/demo/data", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := demoDataHandler(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	p, ok := body["patient"].(map[string]interface{})
	if !ok {
		t.Fatal("expected patient object")
	}
	if p["id"] != "demo-patient-001" {
		t.Errorf("expected demo-patient-001, got %v", p["id"])
	}
	labs, ok := body["lab_results"].(map[string]interface{})
	if !ok {
		t.Fatal("expected lab_results object")
	}
	if labs["glucose"] != 145.0 {
		t.Errorf("expected glucose 145, got %v", labs["glucose"])
	}
}

func TestDemoAnalyzeHandler_Fallback(t *testing.T) {
	aiSvc := ai.NewService(nil, zerolog.Nop())

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/demo/analyze", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := demoAnalyzeHandler(aiSvc)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["success"] != true {
		t.Errorf("expected success true, got %v", body["success"])
	}
	if _, ok := body["analysis"].(map[string]interface{}); !ok {
		t.Error("expected analysis object")
	}
	if body["note"] != "This is demo analysis using sample data" {
		t.Errorf("unexpected note: %v", body["note"])
	}
}

func TestHealthHandler_DemoMode(t *testing.T) {
	cfg := &config.Config{Env: "development"}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := healthHandler(cfg, nil, nil)(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("expected healthy, got %v", body["status"])
	}
	services, ok := body["services"].(map[string]interface{})
	if !ok {
		t.Fatal("expected services object")
	}
	if services["database"] != "demo" {
		t.Errorf("expected database demo, got %v", services["database"])
	}
	if services["language_model"] != "not_configured" {
		t.Errorf("expected language_model not_configured, got %v", services["language_model"])
	}
}

func TestDocumentSourceAdapter(t *testing.T) {
	svc := documents.NewService(documents.NewRepoMem(), t.TempDir(), zerolog.Nop())
	ctx := context.Background()

	patientID := uuid.New()
	doc, err := svc.Upload(ctx, patientID, "lab_report", "cbc.pdf", []byte("Hemoglobin: 14.2 g/dL"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}

	adapter := &documentSourceAdapter{svc: svc}
	infos, total, err := adapter.RecentForPatient(ctx, patientID, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 {
		t.Errorf("expected total 1, got %d", total)
	}
	if len(infos) != 1 {
		t.Fatalf("expected 1 document, got %d", len(infos))
	}
	if infos[0].Filename != doc.Filename {
		t.Errorf("expected %s, got %s", doc.Filename, infos[0].Filename)
	}
}
