package analysis

import (
	"fmt"
	"strconv"
	"time"
)

// Risk rule thresholds.
const (
	hba1cElevated     = 5.7
	hba1cDiabetic     = 6.5
	ldlHigh           = 130
	triglyceridesHigh = 150
	hdlLow            = 40
	creatinineHigh    = 1.2
	creatinineSevere  = 2.0
	ageEscalation     = 60
)

const ageRecommendation = "Age increases risk - more frequent monitoring needed"

// DetectRisks evaluates the fixed condition rules over raw lab values and
// patient age. Findings appear in rule order: diabetes, cardiovascular,
// kidney. Missing tests simply fail to trigger their rule.
func (a *Analyzer) DetectRisks(snapshot map[string]float64, patientAge int) RiskReport {
	var risks []RiskFinding

	if hba1c, ok := snapshot["hba1c"]; ok && hba1c >= hba1cElevated {
		level := RiskModerate
		if hba1c >= hba1cDiabetic {
			level = RiskHigh
		}
		risks = append(risks, RiskFinding{
			Condition:  "Diabetes",
			RiskLevel:  level,
			Indicators: []string{fmt.Sprintf("HbA1c: %s%%", formatValue(hba1c))},
			Recommendations: []string{
				"Consult endocrinologist",
				"Monitor blood sugar regularly",
				"Diet and exercise changes",
			},
		})
	}

	var cvIndicators []string
	if ldl, ok := snapshot["ldl"]; ok && ldl > ldlHigh {
		cvIndicators = append(cvIndicators, fmt.Sprintf("LDL: %s mg/dL", formatValue(ldl)))
	}
	if tg, ok := snapshot["triglycerides"]; ok && tg > triglyceridesHigh {
		cvIndicators = append(cvIndicators, fmt.Sprintf("Triglycerides: %s mg/dL", formatValue(tg)))
	}
	if hdl, ok := snapshot["hdl"]; ok && hdl < hdlLow {
		cvIndicators = append(cvIndicators, fmt.Sprintf("HDL: %s mg/dL", formatValue(hdl)))
	}
	if len(cvIndicators) > 0 {
		risks = append(risks, RiskFinding{
			Condition:  "Cardiovascular Disease",
			RiskLevel:  RiskModerate,
			Indicators: cvIndicators,
			Recommendations: []string{
				"Cardiology consultation",
				"Heart-healthy diet",
				"Regular exercise",
				"Cholesterol management",
			},
		})
	}

	if creatinine, ok := snapshot["creatinine"]; ok && creatinine > creatinineHigh {
		level := RiskModerate
		if creatinine > creatinineSevere {
			level = RiskHigh
		}
		risks = append(risks, RiskFinding{
			Condition:  "Kidney Disease",
			RiskLevel:  level,
			Indicators: []string{fmt.Sprintf("Creatinine: %s mg/dL", formatValue(creatinine))},
			Recommendations: []string{
				"Nephrology consultation",
				"Monitor kidney function",
				"Stay hydrated",
				"Avoid NSAIDs",
			},
		})
	}

	// Age adjustment: escalate remaining moderate findings for older patients.
	if patientAge > ageEscalation {
		for i := range risks {
			if risks[i].RiskLevel == RiskModerate {
				risks[i].RiskLevel = RiskHigh
				risks[i].Recommendations = append(risks[i].Recommendations, ageRecommendation)
			}
		}
	}

	highest := RiskLow
	for _, r := range risks {
		if r.RiskLevel.rank() > highest.rank() {
			highest = r.RiskLevel
		}
	}

	return RiskReport{
		DetectedRisks: risks,
		TotalRisks:    len(risks),
		HighestRisk:   highest,
		AnalyzedAt:    time.Now(),
	}
}

// formatValue renders a lab value the way it was supplied: no trailing
// zeros, no forced decimals.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
