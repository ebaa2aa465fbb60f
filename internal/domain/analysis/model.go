package analysis

import (
	"encoding/json"
	"time"
)

// Status is the tier assigned to a single lab value against its reference
// range.
type Status string

const (
	StatusNormal     Status = "normal"
	StatusBorderline Status = "borderline"
	StatusWarning    Status = "warning"
	StatusCritical   Status = "critical"
	// StatusGood is reserved for externally scored results; the categorizer
	// never produces it but the scorer accepts it.
	StatusGood Status = "good"
)

// RiskLevel orders risk findings: high > moderate > low.
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskModerate RiskLevel = "moderate"
	RiskHigh     RiskLevel = "high"
)

// rank is used to pick the highest level across findings.
func (r RiskLevel) rank() int {
	switch r {
	case RiskHigh:
		return 2
	case RiskModerate:
		return 1
	default:
		return 0
	}
}

// Polarity tags a test with its trend favorability: for LowerIsBetter tests
// an increasing trend is adverse, for HigherIsBetter the reverse.
type Polarity string

const (
	LowerIsBetter  Polarity = "lower_is_better"
	HigherIsBetter Polarity = "higher_is_better"
)

// Direction of a per-test trend across historical records.
type Direction string

const (
	DirectionIncreasing Direction = "increasing"
	DirectionDecreasing Direction = "decreasing"
	DirectionStable     Direction = "stable"
)

// ReferenceRange is the clinically normal interval for one lab test.
// Invariant: Min <= Max.
type ReferenceRange struct {
	Min      float64  `json:"min"`
	Max      float64  `json:"max"`
	Unit     string   `json:"unit"`
	Category string   `json:"category"`
	Polarity Polarity `json:"polarity"`
}

// CategorizedResult is one lab value classified against its reference range.
type CategorizedResult struct {
	Value            float64 `json:"value"`
	Unit             string  `json:"unit"`
	Category         string  `json:"category"`
	Status           Status  `json:"status"`
	Color            string  `json:"color"`
	StatusText       string  `json:"status_text"`
	MinReference     float64 `json:"min_reference"`
	MaxReference     float64 `json:"max_reference"`
	DeviationPercent float64 `json:"deviation_percent"`
	Interpretation   string  `json:"interpretation"`
}

// HealthScore is the weighted composite 0-100 score over a snapshot.
type HealthScore struct {
	Score             float64                      `json:"score"`
	Status            string                       `json:"status"`
	StatusColor       string                       `json:"status_color,omitempty"`
	CategoryBreakdown map[string]CategorizedResult `json:"category_breakdown,omitempty"`
	CalculatedAt      time.Time                    `json:"calculated_at"`
}

// RiskFinding is one rule-triggered condition flag.
type RiskFinding struct {
	Condition       string    `json:"condition"`
	RiskLevel       RiskLevel `json:"risk_level"`
	Indicators      []string  `json:"indicators"`
	Recommendations []string  `json:"recommendations"`
}

// RiskReport aggregates all findings for one snapshot.
type RiskReport struct {
	DetectedRisks []RiskFinding `json:"detected_risks"`
	TotalRisks    int           `json:"total_risks"`
	HighestRisk   RiskLevel     `json:"highest_risk"`
	AnalyzedAt    time.Time     `json:"analyzed_at"`
}

// TrendResult describes how one test moved between its first and last
// observation.
type TrendResult struct {
	Direction      Direction `json:"direction"`
	PercentChange  float64   `json:"percent_change"`
	FirstValue     float64   `json:"first_value"`
	LastValue      float64   `json:"last_value"`
	FirstDate      string    `json:"first_date"`
	LastDate       string    `json:"last_date"`
	DataPoints     int       `json:"data_points"`
	TrendColor     string    `json:"trend_color"`
	Recommendation string    `json:"recommendation"`
}

// TrendReport is the output of trend analysis over a history. When the
// history has fewer than two records Trends is nil and Message explains why.
type TrendReport struct {
	Trends         map[string]TrendResult `json:"trends,omitempty"`
	AnalyzedTests  int                    `json:"analyzed_tests"`
	AnalysisPeriod string                 `json:"analysis_period,omitempty"`
	Message        string                 `json:"message,omitempty"`
	GeneratedAt    time.Time              `json:"generated_at"`
}

// HistoryRecord is one dated set of lab values. The wire format is a flat
// JSON object whose "date" member is a string and whose remaining numeric
// members are test values; non-numeric members other than date are ignored.
type HistoryRecord struct {
	Date   string
	Values map[string]float64
}

func (r *HistoryRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Values = make(map[string]float64, len(raw))
	for key, val := range raw {
		if key == "date" {
			var d string
			if err := json.Unmarshal(val, &d); err == nil {
				r.Date = d
			}
			continue
		}
		var f float64
		if err := json.Unmarshal(val, &f); err == nil {
			r.Values[key] = f
		}
	}
	return nil
}

func (r HistoryRecord) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(r.Values)+1)
	if r.Date != "" {
		flat["date"] = r.Date
	}
	for k, v := range r.Values {
		flat[k] = v
	}
	return json.Marshal(flat)
}

// PatientInfo is the optional demographic context for risk detection and
// reports.
type PatientInfo struct {
	ID     string `json:"id,omitempty"`
	Name   string `json:"name,omitempty"`
	Age    int    `json:"age,omitempty"`
	Gender string `json:"gender,omitempty"`
}

// HealthReport is the composite per-snapshot report.
type HealthReport struct {
	PatientInfo       PatientInfo                  `json:"patient_info"`
	LabResults        map[string]CategorizedResult `json:"lab_results"`
	HealthScore       HealthScore                  `json:"health_score"`
	RiskFactors       RiskReport                   `json:"risk_factors"`
	Recommendations   []string                     `json:"recommendations"`
	OverallAssessment string                       `json:"overall_assessment"`
	GeneratedAt       time.Time                    `json:"generated_at"`
	ReportID          string                       `json:"report_id"`
}

// SystemTest is one test inside a body-system rollup.
type SystemTest struct {
	Name   string  `json:"name"`
	Value  float64 `json:"value"`
	Status string  `json:"status"`
}

// SystemSummary rolls categorized results up to one body system (category).
type SystemSummary struct {
	Score  float64      `json:"score"`
	Issues []string     `json:"issues"`
	Tests  []SystemTest `json:"tests"`
}
