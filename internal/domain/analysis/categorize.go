package analysis

import (
	"fmt"
	"math"
)

// Categorize classifies every recognized test in the snapshot against its
// reference range. Test names without a reference range are silently
// skipped; this is the documented contract for unrecognized keys, not an
// error.
func (a *Analyzer) Categorize(snapshot map[string]float64) map[string]CategorizedResult {
	categorized := make(map[string]CategorizedResult)

	for testName, value := range snapshot {
		ref, ok := a.ranges[testName]
		if !ok {
			continue
		}

		var deviation float64
		var status Status
		switch {
		case value < ref.Min:
			deviation = (ref.Min - value) / ref.Min * 100
			status = tierForDeviation(deviation)
		case value > ref.Max:
			deviation = (value - ref.Max) / ref.Max * 100
			status = tierForDeviation(deviation)
		default:
			deviation = 0
			status = StatusNormal
		}

		display, ok := a.statusDisplay[status]
		if !ok {
			display = statusDisplay{Color: colorGray, Text: "Unknown"}
		}

		categorized[testName] = CategorizedResult{
			Value:            value,
			Unit:             ref.Unit,
			Category:         ref.Category,
			Status:           status,
			Color:            display.Color,
			StatusText:       display.Text,
			MinReference:     ref.Min,
			MaxReference:     ref.Max,
			DeviationPercent: round2(deviation),
			Interpretation:   a.interpretation(testName, status),
		}
	}

	return categorized
}

// tierForDeviation maps an out-of-range deviation magnitude to a status
// tier. Boundaries are strict: exactly 15% is borderline, exactly 30% is
// warning.
func tierForDeviation(deviation float64) Status {
	switch {
	case deviation > 30:
		return StatusCritical
	case deviation > 15:
		return StatusWarning
	default:
		return StatusBorderline
	}
}

func (a *Analyzer) interpretation(testName string, status Status) string {
	if byStatus, ok := a.interpretations[testName]; ok {
		if text, ok := byStatus[status]; ok {
			return text
		}
	}
	return fmt.Sprintf("Value is %s compared to reference range.", status)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
