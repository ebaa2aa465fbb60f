package documents

import (
	"regexp"
	"strconv"
	"strings"
)

// Regex-based extraction over plain document text, dispatched on the
// declared document type.

var labPatterns = map[string]*regexp.Regexp{
	"glucose":       regexp.MustCompile(`(?i)glucose[\s:]+([0-9.]+)`),
	"hba1c":         regexp.MustCompile(`(?i)\b(?:hba1c|a1c)[\s:]+([0-9.]+)`),
	"cholesterol":   regexp.MustCompile(`(?i)cholesterol[\s:]+([0-9.]+)`),
	"ldl":           regexp.MustCompile(`(?i)\bldl[\s:]+([0-9.]+)`),
	"hdl":           regexp.MustCompile(`(?i)\bhdl[\s:]+([0-9.]+)`),
	"triglycerides": regexp.MustCompile(`(?i)triglycerides[\s:]+([0-9.]+)`),
	"creatinine":    regexp.MustCompile(`(?i)creatinine[\s:]+([0-9.]+)`),
	"bun":           regexp.MustCompile(`(?i)\b(?:bun|blood urea nitrogen)[\s:]+([0-9.]+)`),
	"sodium":        regexp.MustCompile(`(?i)sodium[\s:]+([0-9.]+)`),
	"potassium":     regexp.MustCompile(`(?i)potassium[\s:]+([0-9.]+)`),
}

var datePattern = regexp.MustCompile(`\d{1,2}[/-]\d{1,2}[/-]\d{2,4}|\d{4}[/-]\d{1,2}[/-]\d{1,2}`)

var diagnosisPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)diagnosis:?\s*(.+)`),
	regexp.MustCompile(`(?i)impression:?\s*(.+)`),
	regexp.MustCompile(`(?i)assessment:?\s*(.+)`),
}

var (
	notesMedsPattern = regexp.MustCompile(`(?i)(?:medications|prescribed|rx)[:\s]+(.+)`)
	medNamePattern   = regexp.MustCompile(`\b[A-Z][a-z]+\b(?:\s+\d+(?:mg|MG)+)?`)
	followupPattern  = regexp.MustCompile(`(?i)(?:follow[-\s]?up|return|re[-\s]?evaluate)[:\s]+(.+)`)
	rxMedPattern     = regexp.MustCompile(`(?i)\b(?:take|use|apply)\s+([A-Z][a-z]+\s*(?:\d+(?:mg|MG|/)+)?)`)
	dosagePattern    = regexp.MustCompile(`(?i)\d+\s*(?:mg|mcg|g|ml|tablet|cap)s?`)
	freqPattern      = regexp.MustCompile(`(?i)once|twice|three times|four times|daily|weekly|monthly`)
)

// Extract dispatches on docType and returns the structured extraction as a
// JSON-ready map.
func Extract(text, docType string) map[string]interface{} {
	switch docType {
	case TypeLabReport:
		return extractLabReport(text)
	case TypeDoctorNote:
		return extractDoctorNote(text)
	case TypePrescription:
		return extractPrescription(text)
	default:
		return extractGeneral(text)
	}
}

func extractLabReport(text string) map[string]interface{} {
	results := make(map[string]float64)
	for test, pattern := range labPatterns {
		m := pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			results[test] = v
		}
	}

	out := map[string]interface{}{
		"type":             TypeLabReport,
		"results":          results,
		"raw_text_preview": preview(text, 500),
		"extracted_values": len(results),
	}
	if date := datePattern.FindString(text); date != "" {
		out["test_date"] = date
	}
	return out
}

func extractDoctorNote(text string) map[string]interface{} {
	var diagnosis string
	for _, pattern := range diagnosisPatterns {
		if m := pattern.FindStringSubmatch(text); m != nil {
			diagnosis = strings.TrimSpace(m[1])
			break
		}
	}

	var medications []string
	if m := notesMedsPattern.FindStringSubmatch(text); m != nil {
		medications = medNamePattern.FindAllString(m[1], -1)
	}
	if medications == nil {
		medications = []string{}
	}

	followup := ""
	if m := followupPattern.FindStringSubmatch(text); m != nil {
		followup = strings.TrimSpace(m[1])
	}

	return map[string]interface{}{
		"type":         TypeDoctorNote,
		"diagnosis":    diagnosis,
		"medications":  medications,
		"follow_up":    followup,
		"note_preview": preview(text, 300),
	}
}

func extractPrescription(text string) map[string]interface{} {
	var medications []string
	for _, m := range rxMedPattern.FindAllStringSubmatch(text, -1) {
		medications = append(medications, strings.TrimSpace(m[1]))
	}
	if medications == nil {
		medications = []string{}
	}

	dosages := dosagePattern.FindAllString(text, -1)
	if dosages == nil {
		dosages = []string{}
	}
	frequency := freqPattern.FindAllString(text, -1)
	if frequency == nil {
		frequency = []string{}
	}

	return map[string]interface{}{
		"type":              TypePrescription,
		"medications":       medications,
		"dosages":           dosages,
		"frequency":         frequency,
		"prescription_text": text,
	}
}

func extractGeneral(text string) map[string]interface{} {
	return map[string]interface{}{
		"type":            TypeGeneral,
		"content_preview": preview(text, 200),
		"word_count":      len(strings.Fields(text)),
	}
}

// preview truncates text for display, marking the cut with an ellipsis.
func preview(text string, n int) string {
	if len(text) > n {
		return text[:n] + "..."
	}
	return text
}
