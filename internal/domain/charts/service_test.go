package charts

import (
	"strings"
	"testing"

	"github.com/mediclinic/mediclinic/internal/domain/analysis"
)

func newTestService() *Service {
	return NewService(analysis.NewAnalyzer())
}

func TestBloodWork(t *testing.T) {
	svc := newTestService()
	bar, summary := svc.BloodWork(map[string]float64{
		"glucose": 85,
		"ldl":     110,
		"hdl":     55,
	})

	if bar == nil {
		t.Fatal("expected a chart")
	}
	if summary["total_tests"] != 3 {
		t.Errorf("expected 3 tests, got %v", summary["total_tests"])
	}
	if summary["normal"] != 2 || summary["abnormal"] != 1 {
		t.Errorf("unexpected counts: %v", summary)
	}
	if summary["critical"] != 0 {
		t.Errorf("unexpected critical count: %v", summary["critical"])
	}

	html, err := renderHTML(bar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "Blood Work Results Analysis") {
		t.Error("rendered chart missing title")
	}
	if !strings.Contains(html, "GLUCOSE") {
		t.Error("rendered chart missing test label")
	}
}

func TestBloodWork_SkipsUnknownTests(t *testing.T) {
	svc := newTestService()
	_, summary := svc.BloodWork(map[string]float64{
		"glucose":       85,
		"vitamin_d_399": 12,
	})
	if summary["total_tests"] != 1 {
		t.Errorf("expected unknown test skipped, got %v", summary["total_tests"])
	}
}

func TestHealthScore(t *testing.T) {
	svc := newTestService()
	gauge, summary := svc.HealthScore(map[string]float64{
		"glucose": 85,
		"hdl":     55,
	})

	if gauge == nil {
		t.Fatal("expected a chart")
	}
	if summary["score"] != 100.0 {
		t.Errorf("expected score 100, got %v", summary["score"])
	}
	if summary["status"] != "Excellent Health" || summary["color"] != colorGreen {
		t.Errorf("unexpected summary: %v", summary)
	}

	html, err := renderHTML(gauge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "Overall Health Score") {
		t.Error("rendered chart missing title")
	}
}

func TestScoreStatusText(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{90, "Excellent Health"},
		{75, "Good Health"},
		{55, "Fair Health"},
		{35, "Needs Improvement"},
		{10, "Needs Attention"},
	}
	for _, tc := range cases {
		if got := scoreStatusText(tc.score); got != tc.want {
			t.Errorf("scoreStatusText(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}

func TestLabTrends(t *testing.T) {
	svc := newTestService()
	history := []analysis.HistoryRecord{
		{Date: "2024-01-15", Values: map[string]float64{"glucose": 100, "ldl": 150}},
		{Date: "2024-03-15", Values: map[string]float64{"glucose": 110, "ldl": 120}},
	}

	line, summary, err := svc.LabTrends(history)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary["trends_analyzed"] != 2 {
		t.Errorf("expected 2 trends, got %v", summary["trends_analyzed"])
	}

	html, err := renderHTML(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(html, "GLUCOSE") || !strings.Contains(html, "LDL") {
		t.Error("rendered chart missing series")
	}
}

func TestLabTrends_InsufficientHistory(t *testing.T) {
	svc := newTestService()
	_, _, err := svc.LabTrends([]analysis.HistoryRecord{
		{Date: "2024-01-15", Values: map[string]float64{"glucose": 100}},
	})
	if err == nil {
		t.Error("expected error for single record")
	}
}

func TestRiskAssessment(t *testing.T) {
	svc := newTestService()
	radar, summary := svc.RiskAssessment(map[string]float64{
		"hba1c":      6.8,
		"creatinine": 1.5,
	}, 45)

	if radar == nil {
		t.Fatal("expected a chart")
	}
	// Diabetes high (85), kidney moderate (55), cardiovascular baseline (10).
	if summary["highest_risk"] != 85.0 || summary["highest_category"] != "Metabolic" {
		t.Errorf("unexpected summary: %v", summary)
	}
	if summary["overall_risk"] != 50.0 {
		t.Errorf("expected overall 50, got %v", summary["overall_risk"])
	}
	if summary["risk_level"] != "Medium" {
		t.Errorf("unexpected risk level: %v", summary["risk_level"])
	}
	if summary["detected_risks"] != 2 {
		t.Errorf("expected 2 findings, got %v", summary["detected_risks"])
	}
}

func TestRiskAssessment_CleanLabs(t *testing.T) {
	svc := newTestService()
	_, summary := svc.RiskAssessment(map[string]float64{"glucose": 85}, 45)

	if summary["overall_risk"] != 10.0 {
		t.Errorf("expected baseline overall, got %v", summary["overall_risk"])
	}
	if summary["risk_level"] != "Low" {
		t.Errorf("unexpected risk level: %v", summary["risk_level"])
	}
}

func TestBodySystems(t *testing.T) {
	svc := newTestService()
	bar, summary := svc.BodySystems(map[string]float64{
		"glucose": 85,
		"hba1c":   5.2,
		"ldl":     250,
		"hdl":     55,
	})

	if bar == nil {
		t.Fatal("expected a chart")
	}
	// Metabolic 100, Cardiovascular 50.
	if summary["systems_analyzed"] != 2 {
		t.Errorf("expected 2 systems, got %v", summary["systems_analyzed"])
	}
	if summary["average_score"] != 75.0 {
		t.Errorf("expected average 75, got %v", summary["average_score"])
	}
	if summary["best_system"] != "Metabolic" {
		t.Errorf("unexpected best system: %v", summary["best_system"])
	}
	if summary["total_issues"] != 1 {
		t.Errorf("expected 1 issue, got %v", summary["total_issues"])
	}
	needs, _ := summary["needs_attention"].([]string)
	if len(needs) != 1 || needs[0] != "Cardiovascular" {
		t.Errorf("unexpected needs_attention: %v", needs)
	}
}
