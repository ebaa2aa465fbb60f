package analysis

import (
	"fmt"
	"sort"
	"time"
)

const defaultPatientAge = 50

var generalRecommendations = []string{
	"Schedule follow-up appointment with primary care physician",
	"Maintain healthy diet and regular exercise",
	"Monitor any symptoms and report changes to doctor",
}

// GenerateReport combines categorization, scoring and risk detection into a
// single health report. A zero PatientInfo.Age falls back to a default so
// the age rule still has something to work with.
func (a *Analyzer) GenerateReport(snapshot map[string]float64, patient PatientInfo) HealthReport {
	categorized := a.Categorize(snapshot)
	score := a.Score(snapshot)

	age := patient.Age
	if age == 0 {
		age = defaultPatientAge
	}
	risks := a.DetectRisks(snapshot, age)

	now := time.Now()
	return HealthReport{
		PatientInfo:       patient,
		LabResults:        categorized,
		HealthScore:       score,
		RiskFactors:       risks,
		Recommendations:   a.recommendations(categorized, risks),
		OverallAssessment: overallAssessment(score, risks),
		GeneratedAt:       now,
		ReportID:          fmt.Sprintf("MED_%s", now.Format("20060102_150405")),
	}
}

// recommendations lists follow-ups for abnormal tests, then deduplicated
// risk recommendations, then the general advice. Tests are visited in name
// order so the same snapshot always produces the same list.
func (a *Analyzer) recommendations(categorized map[string]CategorizedResult, risks RiskReport) []string {
	var recs []string
	seen := make(map[string]bool)
	add := func(rec string) {
		if !seen[rec] {
			seen[rec] = true
			recs = append(recs, rec)
		}
	}

	for _, test := range sortedKeys(categorized) {
		result := categorized[test]
		if result.Status == StatusWarning || result.Status == StatusCritical {
			add(fmt.Sprintf("Follow up on %s (%s %s) - %s",
				test, formatValue(result.Value), result.Unit, result.Interpretation))
		}
	}
	for _, risk := range risks.DetectedRisks {
		for _, rec := range risk.Recommendations {
			add(rec)
		}
	}
	for _, rec := range generalRecommendations {
		add(rec)
	}
	return recs
}

func overallAssessment(score HealthScore, risks RiskReport) string {
	s := score.Score
	switch {
	case s >= 85:
		return fmt.Sprintf("Excellent overall health with score of %s. Continue healthy lifestyle.", formatValue(s))
	case s >= 70:
		return fmt.Sprintf("Good health with score of %s. Some areas need monitoring.", formatValue(s))
	case s >= 50:
		return fmt.Sprintf("Fair health with score of %s. %d risk factor(s) identified. Medical attention recommended.",
			formatValue(s), risks.TotalRisks)
	default:
		return fmt.Sprintf("Health needs attention with score of %s. %d risk factor(s) identified. Urgent medical review recommended.",
			formatValue(s), risks.TotalRisks)
	}
}

// BodySystems groups categorized results by category and scores each system
// by its share of normal tests.
func (a *Analyzer) BodySystems(snapshot map[string]float64) map[string]SystemSummary {
	categorized := a.Categorize(snapshot)

	systems := make(map[string]SystemSummary)
	for _, test := range sortedKeys(categorized) {
		result := categorized[test]
		category := result.Category
		if category == "" {
			category = "Other"
		}
		summary := systems[category]
		summary.Tests = append(summary.Tests, SystemTest{
			Name:   test,
			Value:  result.Value,
			Status: result.StatusText,
		})
		if result.Status == StatusWarning || result.Status == StatusCritical {
			summary.Issues = append(summary.Issues,
				fmt.Sprintf("%s: %s %s (%s)", test, formatValue(result.Value), result.Unit, result.StatusText))
		}
		systems[category] = summary
	}

	for category, summary := range systems {
		normal := 0
		for _, t := range summary.Tests {
			if t.Status == "Normal" {
				normal++
			}
		}
		score := 100.0
		if len(summary.Tests) > 0 {
			score = float64(normal) / float64(len(summary.Tests)) * 100
		}
		summary.Score = round1(score)
		systems[category] = summary
	}
	return systems
}

func sortedKeys(m map[string]CategorizedResult) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
