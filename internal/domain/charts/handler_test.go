package charts

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mediclinic/mediclinic/internal/domain/analysis"
)

func newTestHandler() *Handler {
	return NewHandler(NewService(analysis.NewAnalyzer()))
}

func postChart(e *echo.Echo, kind, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/charts/"+kind, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("kind")
	c.SetParamValues(kind)
	return c, rec
}

func TestGenerate_BloodWork(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, rec := postChart(e, "blood_work", `{"lab_data":{"glucose":85,"hdl":55}}`)

	if err := h.Generate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["chart_type"] != "blood_work" {
		t.Errorf("unexpected chart_type: %v", out["chart_type"])
	}
	html, _ := out["chart_html"].(string)
	if !strings.Contains(html, "Blood Work Results Analysis") {
		t.Error("missing rendered chart html")
	}
	summary, _ := out["summary"].(map[string]interface{})
	if summary["total_tests"] != 2.0 {
		t.Errorf("unexpected summary: %v", summary)
	}
}

func TestGenerate_HealthScore(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, rec := postChart(e, "health_score", `{"lab_data":{"glucose":85}}`)

	if err := h.Generate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary, _ := out["summary"].(map[string]interface{})
	if summary["status"] != "Excellent Health" {
		t.Errorf("unexpected status: %v", summary["status"])
	}
}

func TestGenerate_LabTrends(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	body := `{"history":[
		{"date":"2024-01-15","glucose":100},
		{"date":"2024-03-15","glucose":115}
	]}`
	c, rec := postChart(e, "lab_trends", body)

	if err := h.Generate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary, _ := out["summary"].(map[string]interface{})
	if summary["trends_analyzed"] != 1.0 {
		t.Errorf("unexpected summary: %v", summary)
	}
}

func TestGenerate_LabTrendsInsufficient(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, _ := postChart(e, "lab_trends", `{"history":[{"date":"2024-01-15","glucose":100}]}`)

	err := h.Generate(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestGenerate_RiskAssessment(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, rec := postChart(e, "risk_assessment", `{"lab_data":{"hba1c":6.8},"patient_info":{"age":45}}`)

	if err := h.Generate(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	summary, _ := out["summary"].(map[string]interface{})
	if summary["highest_category"] != "Metabolic" {
		t.Errorf("unexpected summary: %v", summary)
	}
}

func TestGenerate_UnknownKind(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	c, _ := postChart(e, "pie_chart", `{"lab_data":{"glucose":85}}`)

	err := h.Generate(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestGenerate_MissingLabData(t *testing.T) {
	h := newTestHandler()
	e := echo.New()
	for _, kind := range []string{"blood_work", "health_score", "risk_assessment", "body_systems"} {
		c, _ := postChart(e, kind, `{}`)
		err := h.Generate(c)
		he, ok := err.(*echo.HTTPError)
		if !ok || he.Code != http.StatusBadRequest {
			t.Errorf("kind %s: expected 400, got %v", kind, err)
		}
	}
}
