package charts

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	echarts "github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/mediclinic/mediclinic/internal/domain/analysis"
)

const (
	colorGreen = "#10B981"
	colorBlue  = "#3B82F6"
	colorAmber = "#F59E0B"
	colorRed   = "#EF4444"
)

// Service builds dashboard charts from analyzer output.
type Service struct {
	analyzer *analysis.Analyzer
}

func NewService(analyzer *analysis.Analyzer) *Service {
	return &Service{analyzer: analyzer}
}

// scoreColor follows the health score palette: green from 85, blue from 70,
// amber from 50, red below.
func scoreColor(score float64) string {
	switch {
	case score >= 85:
		return colorGreen
	case score >= 70:
		return colorBlue
	case score >= 50:
		return colorAmber
	default:
		return colorRed
	}
}

func scoreStatusText(score float64) string {
	switch {
	case score >= 85:
		return "Excellent Health"
	case score >= 70:
		return "Good Health"
	case score >= 50:
		return "Fair Health"
	case score >= 30:
		return "Needs Improvement"
	default:
		return "Needs Attention"
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// renderHTML renders a chart to an embeddable HTML snippet.
func renderHTML(chart interface{ Render(w io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := chart.Render(&buf); err != nil {
		return "", fmt.Errorf("render chart: %w", err)
	}
	return buf.String(), nil
}

// BloodWork builds a bar chart of categorized lab values with their
// reference bounds alongside.
func (s *Service) BloodWork(snapshot map[string]float64) (*echarts.Bar, map[string]interface{}) {
	categorized := s.analyzer.Categorize(snapshot)

	tests := make([]string, 0, len(categorized))
	for name := range categorized {
		tests = append(tests, name)
	}
	sort.Strings(tests)

	labels := make([]string, 0, len(tests))
	values := make([]opts.BarData, 0, len(tests))
	refMin := make([]opts.BarData, 0, len(tests))
	refMax := make([]opts.BarData, 0, len(tests))
	normal, critical := 0, 0
	for _, name := range tests {
		result := categorized[name]
		labels = append(labels, strings.ToUpper(name))
		values = append(values, opts.BarData{
			Name:      result.StatusText,
			Value:     result.Value,
			ItemStyle: &opts.ItemStyle{Color: result.Color},
		})
		refMin = append(refMin, opts.BarData{Value: result.MinReference})
		refMax = append(refMax, opts.BarData{Value: result.MaxReference})
		switch result.Status {
		case analysis.StatusNormal:
			normal++
		case analysis.StatusCritical:
			critical++
		}
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			Width:   "100%",
			Height:  "500px",
			ChartID: "blood_work",
		}),
		echarts.WithTitleOpts(opts.Title{Title: "Blood Work Results Analysis"}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithXAxisOpts(opts.XAxis{
			Name:      "Test Type",
			AxisLabel: &opts.AxisLabel{Rotate: 45, HideOverlap: opts.Bool(true)},
		}),
		echarts.WithYAxisOpts(opts.YAxis{Name: "Value"}),
	)
	bar.SetXAxis(labels).
		AddSeries("Your Results", values).
		AddSeries("Reference Min", refMin).
		AddSeries("Reference Max", refMax)

	summary := map[string]interface{}{
		"total_tests": len(tests),
		"normal":      normal,
		"abnormal":    len(tests) - normal,
		"critical":    critical,
	}
	return bar, summary
}

// HealthScore builds a gauge for the weighted composite score.
func (s *Service) HealthScore(snapshot map[string]float64) (*echarts.Gauge, map[string]interface{}) {
	score := s.analyzer.Score(snapshot)

	gauge := echarts.NewGauge()
	gauge.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			Width:   "100%",
			Height:  "400px",
			ChartID: "health_score",
		}),
		echarts.WithTitleOpts(opts.Title{Title: "Overall Health Score"}),
	)
	gauge.AddSeries("Health Score", []opts.GaugeData{
		{Name: scoreStatusText(score.Score), Value: score.Score},
	})

	summary := map[string]interface{}{
		"score":     score.Score,
		"max_score": 100,
		"status":    scoreStatusText(score.Score),
		"color":     scoreColor(score.Score),
	}
	return gauge, summary
}

// LabTrends builds a per-test line chart across a lab history. It requires
// at least two dated records.
func (s *Service) LabTrends(history []analysis.HistoryRecord) (*echarts.Line, map[string]interface{}, error) {
	report := s.analyzer.AnalyzeTrends(history)
	if len(report.Trends) == 0 {
		return nil, nil, fmt.Errorf("no trend data available")
	}

	sorted := make([]analysis.HistoryRecord, len(history))
	copy(sorted, history)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	dates := make([]string, 0, len(sorted))
	for _, rec := range sorted {
		dates = append(dates, rec.Date)
	}

	tests := make([]string, 0, len(report.Trends))
	for name := range report.Trends {
		tests = append(tests, name)
	}
	sort.Strings(tests)

	line := echarts.NewLine()
	line.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			Width:   "100%",
			Height:  "500px",
			ChartID: "lab_trends",
		}),
		echarts.WithTitleOpts(opts.Title{Title: "Lab Results Trends Over Time"}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithXAxisOpts(opts.XAxis{Name: "Date"}),
		echarts.WithYAxisOpts(opts.YAxis{Name: "Value"}),
	)
	line.SetXAxis(dates)
	for _, name := range tests {
		points := make([]opts.LineData, 0, len(sorted))
		for _, rec := range sorted {
			if v, ok := rec.Values[name]; ok {
				points = append(points, opts.LineData{Value: v})
			} else {
				points = append(points, opts.LineData{Value: nil})
			}
		}
		line.AddSeries(strings.ToUpper(name), points)
	}
	line.SetSeriesOptions(
		echarts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(true)}),
	)

	summary := map[string]interface{}{
		"trends_analyzed": report.AnalyzedTests,
		"analysis_period": report.AnalysisPeriod,
	}
	return line, summary, nil
}

// riskCategories are the radar axes, in display order.
var riskCategories = []string{"Cardiovascular", "Metabolic", "Renal"}

var conditionCategory = map[string]string{
	"Diabetes":               "Metabolic",
	"Cardiovascular Disease": "Cardiovascular",
	"Kidney Disease":         "Renal",
}

const baselineRiskScore = 10

func riskLevelScore(level analysis.RiskLevel) float64 {
	switch level {
	case analysis.RiskHigh:
		return 85
	case analysis.RiskModerate:
		return 55
	default:
		return 25
	}
}

// RiskAssessment builds a radar of per-category risk scores derived from
// the rule findings.
func (s *Service) RiskAssessment(snapshot map[string]float64, age int) (*echarts.Radar, map[string]interface{}) {
	report := s.analyzer.DetectRisks(snapshot, age)

	scores := make(map[string]float64, len(riskCategories))
	for _, cat := range riskCategories {
		scores[cat] = baselineRiskScore
	}
	for _, finding := range report.DetectedRisks {
		cat, ok := conditionCategory[finding.Condition]
		if !ok {
			continue
		}
		if v := riskLevelScore(finding.RiskLevel); v > scores[cat] {
			scores[cat] = v
		}
	}

	indicators := make([]*opts.Indicator, 0, len(riskCategories))
	values := make([]float64, 0, len(riskCategories))
	total := 0.0
	highest, highestCategory := 0.0, "None"
	for _, cat := range riskCategories {
		indicators = append(indicators, &opts.Indicator{Name: cat, Max: 100})
		values = append(values, scores[cat])
		total += scores[cat]
		if scores[cat] > highest {
			highest = scores[cat]
			highestCategory = cat
		}
	}
	avg := round1(total / float64(len(riskCategories)))

	radar := echarts.NewRadar()
	radar.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			Width:   "100%",
			Height:  "500px",
			ChartID: "risk_assessment",
		}),
		echarts.WithTitleOpts(opts.Title{Title: "Health Risk Assessment"}),
		echarts.WithRadarComponentOpts(opts.RadarComponent{Indicator: indicators}),
	)
	radar.AddSeries("Risk Score", []opts.RadarData{{Name: "Risk Score", Value: values}})

	riskLevel := "Low"
	switch {
	case avg >= 60:
		riskLevel = "High"
	case avg >= 30:
		riskLevel = "Medium"
	}

	summary := map[string]interface{}{
		"overall_risk":     avg,
		"highest_risk":     highest,
		"highest_category": highestCategory,
		"risk_level":       riskLevel,
		"detected_risks":   report.TotalRisks,
	}
	return radar, summary
}

// BodySystems builds a bar chart of per-system scores.
func (s *Service) BodySystems(snapshot map[string]float64) (*echarts.Bar, map[string]interface{}) {
	systems := s.analyzer.BodySystems(snapshot)

	names := make([]string, 0, len(systems))
	for name := range systems {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make([]opts.BarData, 0, len(names))
	totalIssues := 0
	total := 0.0
	best, bestScore := "None", -1.0
	needsAttention := []string{}
	for _, name := range names {
		sys := systems[name]
		values = append(values, opts.BarData{
			Value:     sys.Score,
			ItemStyle: &opts.ItemStyle{Color: scoreColor(sys.Score)},
		})
		total += sys.Score
		totalIssues += len(sys.Issues)
		if len(sys.Issues) > 0 {
			needsAttention = append(needsAttention, name)
		}
		if sys.Score > bestScore {
			bestScore = sys.Score
			best = name
		}
	}

	bar := echarts.NewBar()
	bar.SetGlobalOptions(
		echarts.WithInitializationOpts(opts.Initialization{
			Width:   "100%",
			Height:  "500px",
			ChartID: "body_systems",
		}),
		echarts.WithTitleOpts(opts.Title{Title: "Body Systems Health Overview"}),
		echarts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		echarts.WithXAxisOpts(opts.XAxis{Name: "Body System"}),
		echarts.WithYAxisOpts(opts.YAxis{Name: "Health Score (0-100)", Max: 105}),
	)
	bar.SetXAxis(names).AddSeries("Health Score", values)

	avg := 0.0
	if len(names) > 0 {
		avg = round1(total / float64(len(names)))
	}
	summary := map[string]interface{}{
		"systems_analyzed": len(names),
		"average_score":    avg,
		"total_issues":     totalIssues,
		"best_system":      best,
		"needs_attention":  needsAttention,
	}
	return bar, summary
}
