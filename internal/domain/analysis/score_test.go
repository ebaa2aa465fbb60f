package analysis

import "testing"

func TestScore_EmptySnapshot(t *testing.T) {
	a := NewAnalyzer()
	got := a.Score(map[string]float64{})

	if got.Score != 0 {
		t.Errorf("expected score 0, got %v", got.Score)
	}
	if got.Status != InsufficientData {
		t.Errorf("expected %q, got %q", InsufficientData, got.Status)
	}
	if got.CalculatedAt.IsZero() {
		t.Error("expected calculated_at to be set")
	}
}

func TestScore_AllNormal(t *testing.T) {
	a := NewAnalyzer()
	got := a.Score(map[string]float64{
		"glucose":    85,
		"ldl":        80,
		"creatinine": 0.9,
		"hemoglobin": 15,
		"sodium":     140,
	})

	if got.Score != 100 {
		t.Errorf("expected score 100, got %v", got.Score)
	}
	if got.Status != "Excellent" {
		t.Errorf("expected Excellent, got %s", got.Status)
	}
	if got.StatusColor != "#10B981" {
		t.Errorf("expected green, got %s", got.StatusColor)
	}
}

func TestScore_WeightedByCategory(t *testing.T) {
	a := NewAnalyzer()
	// glucose normal (100 pts, Metabolic 0.3), ldl critical (10 pts,
	// Cardiovascular 0.3): (100*0.3 + 10*0.3) / 0.6 = 55.
	got := a.Score(map[string]float64{"glucose": 85, "ldl": 145})

	if got.Score != 55 {
		t.Errorf("expected score 55, got %v", got.Score)
	}
	if got.Status != "Fair" {
		t.Errorf("expected Fair, got %s", got.Status)
	}
	if got.StatusColor != "#F59E0B" {
		t.Errorf("expected amber, got %s", got.StatusColor)
	}
}

func TestScore_DenominatorUsesOnlyPresentCategories(t *testing.T) {
	a := NewAnalyzer()
	// A single normal Hematology test must score 100, not 100*0.1.
	got := a.Score(map[string]float64{"platelets": 250})

	if got.Score != 100 {
		t.Errorf("expected score 100, got %v", got.Score)
	}
}

func TestScore_UnrecognizedTestsOnly(t *testing.T) {
	a := NewAnalyzer()
	got := a.Score(map[string]float64{"mystery_marker": 42})

	if got.Score != 0 {
		t.Errorf("expected score 0, got %v", got.Score)
	}
	if got.Status != "Needs Attention" {
		t.Errorf("expected Needs Attention, got %s", got.Status)
	}
}

func TestScore_IncludesBreakdown(t *testing.T) {
	a := NewAnalyzer()
	got := a.Score(map[string]float64{"glucose": 145})

	if len(got.CategoryBreakdown) != 1 {
		t.Fatalf("expected 1 breakdown entry, got %d", len(got.CategoryBreakdown))
	}
	if got.CategoryBreakdown["glucose"].Status != StatusCritical {
		t.Errorf("expected critical breakdown, got %s", got.CategoryBreakdown["glucose"].Status)
	}
}

func TestScore_OrderIndependent(t *testing.T) {
	a := NewAnalyzer()
	snapshot := map[string]float64{
		"glucose": 110, "hba1c": 6.0, "ldl": 120, "hdl": 45,
		"creatinine": 1.0, "sodium": 140, "wbc": 7.0,
	}

	first := a.Score(snapshot)
	for i := 0; i < 10; i++ {
		again := a.Score(snapshot)
		if again.Score != first.Score || again.Status != first.Status {
			t.Fatalf("score not deterministic: %v/%s vs %v/%s",
				first.Score, first.Status, again.Score, again.Status)
		}
	}
}
