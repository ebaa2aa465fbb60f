package analysis

import (
	"fmt"
	"sort"
	"time"
)

const trendInsufficientData = "Insufficient historical data for trend analysis"

// Change smaller than this (in percent, either direction) counts as stable.
const stableThreshold = 5

type observation struct {
	date  string
	value float64
}

// AnalyzeTrends compares the earliest and latest value of every test that
// appears at least twice across the history. Dates are ISO strings, so
// lexical order is chronological order.
func (a *Analyzer) AnalyzeTrends(history []HistoryRecord) TrendReport {
	if len(history) < 2 {
		return TrendReport{
			Trends:      map[string]TrendResult{},
			Message:     trendInsufficientData,
			GeneratedAt: time.Now(),
		}
	}

	byTest := make(map[string][]observation)
	for _, record := range history {
		date := record.Date
		if date == "" {
			date = time.Now().Format(time.RFC3339)
		}
		for test, value := range record.Values {
			byTest[test] = append(byTest[test], observation{date: date, value: value})
		}
	}

	trends := make(map[string]TrendResult)
	var periodStart, periodEnd string
	for test, points := range byTest {
		if len(points) < 2 {
			continue
		}
		sort.SliceStable(points, func(i, j int) bool { return points[i].date < points[j].date })

		first, last := points[0], points[len(points)-1]
		var percentChange float64
		if first.value != 0 {
			percentChange = (last.value - first.value) / first.value * 100
		}

		direction, color := a.trendDirection(test, percentChange)
		trends[test] = TrendResult{
			Direction:      direction,
			PercentChange:  round1(percentChange),
			FirstValue:     first.value,
			LastValue:      last.value,
			FirstDate:      first.date,
			LastDate:       last.date,
			DataPoints:     len(points),
			TrendColor:     color,
			Recommendation: a.trendRecommendation(test, direction),
		}

		if periodStart == "" || first.date < periodStart {
			periodStart = first.date
		}
		if last.date > periodEnd {
			periodEnd = last.date
		}
	}

	var period string
	if len(trends) > 0 {
		period = fmt.Sprintf("%s to %s", periodStart, periodEnd)
	}

	return TrendReport{
		Trends:         trends,
		AnalyzedTests:  len(trends),
		AnalysisPeriod: period,
		GeneratedAt:    time.Now(),
	}
}

func (a *Analyzer) trendDirection(test string, percentChange float64) (Direction, string) {
	if percentChange < stableThreshold && percentChange > -stableThreshold {
		return DirectionStable, colorGray
	}

	lowerIsBetter := a.ranges[test].Polarity == LowerIsBetter
	if percentChange > 0 {
		if lowerIsBetter {
			return DirectionIncreasing, colorRed
		}
		return DirectionIncreasing, colorGreen
	}
	if lowerIsBetter {
		return DirectionDecreasing, colorGreen
	}
	return DirectionDecreasing, colorRed
}

func (a *Analyzer) trendRecommendation(test string, direction Direction) string {
	if byDirection, ok := a.trendRecs[test]; ok {
		if rec, ok := byDirection[direction]; ok {
			return rec
		}
	}
	return fmt.Sprintf("Value is %s. Discuss with healthcare provider.", direction)
}
