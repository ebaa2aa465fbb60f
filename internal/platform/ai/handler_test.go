package ai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func newTestHandler() *Handler {
	return NewHandler(NewService(NewClient(ClientConfig{}), zerolog.Nop()))
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestHandler_Explain(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, rec := postJSON(e, "/ai/explain", `{"text":"hyperlipidemia"}`)

	if err := h.Explain(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["explanation"] != "'hyperlipidemia' means high cholesterol." {
		t.Errorf("unexpected explanation: %v", out["explanation"])
	}
}

func TestHandler_ExplainRequiresText(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, _ := postJSON(e, "/ai/explain", `{}`)

	err := h.Explain(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestHandler_ExplainDiagnosis(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, rec := postJSON(e, "/ai/diagnosis", `{"diagnosis":"high blood pressure","patient_age":70}`)

	if err := h.ExplainDiagnosis(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["normalized_diagnosis"] != "hypertension" {
		t.Errorf("unexpected normalization: %v", out["normalized_diagnosis"])
	}
	if _, present := out["age_considerations"]; !present {
		t.Error("expected age considerations for age 70")
	}
}

func TestHandler_ExplainMedication(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, rec := postJSON(e, "/ai/medication", `{"medication":"Atorvastatin","conditions":["hyperlipidemia"]}`)

	if err := h.ExplainMedication(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["medication"] != "Atorvastatin" {
		t.Errorf("unexpected medication: %v", out["medication"])
	}
	if _, present := out["patient_context"]; !present {
		t.Error("expected patient_context with conditions")
	}
}

func TestHandler_MedicationRequiresName(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, _ := postJSON(e, "/ai/medication", `{}`)

	err := h.ExplainMedication(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}
