package analysis

import "time"

// InsufficientData is the sentinel status returned when a snapshot contains
// no recognized tests. It is distinct from the four score labels.
const InsufficientData = "Insufficient Data"

// Score computes the weighted composite health score for a snapshot.
//
// Each categorized result contributes its status points scaled by the weight
// of its category; the final score divides by the sum of weights actually
// used, so only categories present in the snapshot shape the denominator.
func (a *Analyzer) Score(snapshot map[string]float64) HealthScore {
	if len(snapshot) == 0 {
		return HealthScore{Score: 0, Status: InsufficientData, CalculatedAt: time.Now()}
	}

	categorized := a.Categorize(snapshot)

	var weightedSum, totalWeight float64
	for _, result := range categorized {
		points, ok := a.statusPoints[result.Status]
		if !ok {
			continue
		}
		weight, ok := a.categoryWeights[result.Category]
		if !ok {
			weight = defaultCategoryWeight
		}
		weightedSum += points * weight
		totalWeight += weight
	}

	var score float64
	if totalWeight > 0 {
		score = weightedSum / totalWeight
	}

	label, color := scoreLabel(score)

	return HealthScore{
		Score:             round1(score),
		Status:            label,
		StatusColor:       color,
		CategoryBreakdown: categorized,
		CalculatedAt:      time.Now(),
	}
}

func scoreLabel(score float64) (string, string) {
	switch {
	case score >= 85:
		return "Excellent", colorGreen
	case score >= 70:
		return "Good", colorBlue
	case score >= 50:
		return "Fair", colorAmber
	default:
		return "Needs Attention", colorRed
	}
}
