package documents

import (
	"strings"
	"testing"
)

const sampleLabReport = `LABORATORY REPORT
Date: 2024-03-15
Glucose: 145 mg/dL
HbA1c: 6.8 %
Cholesterol: 210 mg/dL
LDL: 140 mg/dL
HDL: 42 mg/dL
Creatinine: 1.1 mg/dL
`

func TestExtract_LabReport(t *testing.T) {
	got := Extract(sampleLabReport, TypeLabReport)

	if got["type"] != TypeLabReport {
		t.Errorf("expected lab_report type, got %v", got["type"])
	}
	results := got["results"].(map[string]float64)
	want := map[string]float64{
		"glucose":     145,
		"hba1c":       6.8,
		"cholesterol": 210,
		"ldl":         140,
		"hdl":         42,
		"creatinine":  1.1,
	}
	for test, value := range want {
		if results[test] != value {
			t.Errorf("%s: expected %v, got %v", test, value, results[test])
		}
	}
	if got["extracted_values"] != len(want) {
		t.Errorf("expected %d extracted values, got %v", len(want), got["extracted_values"])
	}
	if got["test_date"] != "2024-03-15" {
		t.Errorf("expected date 2024-03-15, got %v", got["test_date"])
	}
}

func TestExtract_LabReport_CaseInsensitive(t *testing.T) {
	got := Extract("glucose: 99\nGLUCOSE 120", TypeLabReport)
	results := got["results"].(map[string]float64)
	if results["glucose"] != 99 {
		t.Errorf("expected first match 99, got %v", results["glucose"])
	}
}

func TestExtract_LabReport_NoMatches(t *testing.T) {
	got := Extract("nothing medical here", TypeLabReport)
	if got["extracted_values"] != 0 {
		t.Errorf("expected 0 values, got %v", got["extracted_values"])
	}
	if _, ok := got["test_date"]; ok {
		t.Error("expected no test_date")
	}
}

func TestExtract_DoctorNote(t *testing.T) {
	note := `Patient seen today for follow-up.
Diagnosis: Type 2 Diabetes Mellitus
Medications: Metformin 500mg, Lisinopril 10mg
Follow-up: 3 months
`
	got := Extract(note, TypeDoctorNote)

	if got["diagnosis"] != "Type 2 Diabetes Mellitus" {
		t.Errorf("unexpected diagnosis: %v", got["diagnosis"])
	}
	meds := got["medications"].([]string)
	if len(meds) == 0 {
		t.Fatal("expected medications to be extracted")
	}
	if meds[0] != "Metformin 500mg" {
		t.Errorf("unexpected first medication: %q", meds[0])
	}
	if got["follow_up"] != "3 months" {
		t.Errorf("unexpected follow-up: %v", got["follow_up"])
	}
}

func TestExtract_DoctorNote_ImpressionFallback(t *testing.T) {
	got := Extract("Impression: hypertension, well controlled", TypeDoctorNote)
	if got["diagnosis"] != "hypertension, well controlled" {
		t.Errorf("unexpected diagnosis: %v", got["diagnosis"])
	}
}

func TestExtract_Prescription(t *testing.T) {
	rx := "Take Metformin 500mg twice daily with meals."
	got := Extract(rx, TypePrescription)

	meds := got["medications"].([]string)
	if len(meds) != 1 || !strings.HasPrefix(meds[0], "Metformin") {
		t.Errorf("unexpected medications: %v", meds)
	}
	dosages := got["dosages"].([]string)
	if len(dosages) != 1 || dosages[0] != "500mg" {
		t.Errorf("unexpected dosages: %v", dosages)
	}
	freq := got["frequency"].([]string)
	if len(freq) != 2 {
		t.Errorf("expected twice and daily, got %v", freq)
	}
}

func TestExtract_General(t *testing.T) {
	got := Extract("short note about nothing", TypeGeneral)
	if got["word_count"] != 4 {
		t.Errorf("expected 4 words, got %v", got["word_count"])
	}
	if got["content_preview"] != "short note about nothing" {
		t.Errorf("unexpected preview: %v", got["content_preview"])
	}
}

func TestExtract_UnknownTypeFallsBackToGeneral(t *testing.T) {
	got := Extract("whatever", "x-ray")
	if got["type"] != TypeGeneral {
		t.Errorf("expected general fallback, got %v", got["type"])
	}
}

func TestExtract_PreviewTruncation(t *testing.T) {
	long := strings.Repeat("a", 600)
	got := Extract(long, TypeLabReport)
	previewText := got["raw_text_preview"].(string)
	if len(previewText) != 503 || !strings.HasSuffix(previewText, "...") {
		t.Errorf("expected 500-char preview with ellipsis, got %d chars", len(previewText))
	}
}
