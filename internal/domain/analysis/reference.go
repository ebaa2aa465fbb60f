package analysis

// Static reference data: ranges, weights, tier points, display colors and
// interpretation/recommendation text. Built once by NewAnalyzer and never
// mutated afterwards, so an Analyzer is safe for concurrent use.

const (
	colorGreen  = "#10B981"
	colorBlue   = "#3B82F6"
	colorAmber  = "#F59E0B"
	colorOrange = "#F97316"
	colorRed    = "#EF4444"
	colorGray   = "#6B7280"
)

type statusDisplay struct {
	Color string
	Text  string
}

func defaultRanges() map[string]ReferenceRange {
	return map[string]ReferenceRange{
		"glucose":       {Min: 70, Max: 100, Unit: "mg/dL", Category: "Metabolic", Polarity: LowerIsBetter},
		"hba1c":         {Min: 4.0, Max: 5.6, Unit: "%", Category: "Metabolic", Polarity: HigherIsBetter},
		"cholesterol":   {Min: 125, Max: 200, Unit: "mg/dL", Category: "Cardiovascular", Polarity: HigherIsBetter},
		"ldl":           {Min: 0, Max: 100, Unit: "mg/dL", Category: "Cardiovascular", Polarity: LowerIsBetter},
		"hdl":           {Min: 40, Max: 60, Unit: "mg/dL", Category: "Cardiovascular", Polarity: HigherIsBetter},
		"triglycerides": {Min: 0, Max: 150, Unit: "mg/dL", Category: "Cardiovascular", Polarity: HigherIsBetter},
		"creatinine":    {Min: 0.6, Max: 1.2, Unit: "mg/dL", Category: "Renal", Polarity: LowerIsBetter},
		"bun":           {Min: 7, Max: 20, Unit: "mg/dL", Category: "Renal", Polarity: HigherIsBetter},
		"sodium":        {Min: 135, Max: 145, Unit: "mmol/L", Category: "Electrolytes", Polarity: HigherIsBetter},
		"potassium":     {Min: 3.5, Max: 5.0, Unit: "mmol/L", Category: "Electrolytes", Polarity: HigherIsBetter},
		"wbc":           {Min: 4.5, Max: 11.0, Unit: "10^3/uL", Category: "Hematology", Polarity: HigherIsBetter},
		"hemoglobin":    {Min: 13.5, Max: 17.5, Unit: "g/dL", Category: "Hematology", Polarity: HigherIsBetter},
		"platelets":     {Min: 150, Max: 450, Unit: "10^3/uL", Category: "Hematology", Polarity: HigherIsBetter},
	}
}

func defaultCategoryWeights() map[string]float64 {
	return map[string]float64{
		"Metabolic":      0.3,
		"Cardiovascular": 0.3,
		"Renal":          0.2,
		"Hematology":     0.1,
		"Electrolytes":   0.1,
	}
}

// defaultCategoryWeight applies to categories missing from the weight table.
const defaultCategoryWeight = 0.1

func defaultStatusPoints() map[Status]float64 {
	return map[Status]float64{
		StatusNormal:     100,
		StatusGood:       90,
		StatusBorderline: 70,
		StatusWarning:    40,
		StatusCritical:   10,
	}
}

func defaultStatusDisplay() map[Status]statusDisplay {
	return map[Status]statusDisplay{
		StatusNormal:     {Color: colorGreen, Text: "Normal"},
		StatusBorderline: {Color: colorAmber, Text: "Borderline"},
		StatusWarning:    {Color: colorOrange, Text: "Warning"},
		StatusCritical:   {Color: colorRed, Text: "Critical"},
		StatusGood:       {Color: colorBlue, Text: "Good"},
	}
}

func defaultInterpretations() map[string]map[Status]string {
	return map[string]map[Status]string{
		"glucose": {
			StatusNormal:     "Normal fasting blood glucose level.",
			StatusBorderline: "Slightly elevated blood glucose. Monitor diet.",
			StatusWarning:    "High blood glucose. May indicate prediabetes.",
			StatusCritical:   "Very high blood glucose. Possible diabetes.",
		},
		"hba1c": {
			StatusNormal:     "Good long-term blood sugar control.",
			StatusBorderline: "Moderate blood sugar control. Lifestyle changes recommended.",
			StatusWarning:    "Poor blood sugar control. May indicate diabetes.",
			StatusCritical:   "Very poor blood sugar control. Diabetes likely.",
		},
		"ldl": {
			StatusNormal:     "Optimal LDL cholesterol level.",
			StatusBorderline: "Borderline high LDL cholesterol.",
			StatusWarning:    "High LDL cholesterol. Increased heart disease risk.",
			StatusCritical:   "Very high LDL cholesterol. High heart disease risk.",
		},
		"hdl": {
			StatusNormal:     "Good HDL cholesterol level.",
			StatusBorderline: "Borderline low HDL cholesterol.",
			StatusWarning:    "Low HDL cholesterol. Increased heart disease risk.",
			StatusCritical:   "Very low HDL cholesterol. High heart disease risk.",
		},
		"creatinine": {
			StatusNormal:     "Normal kidney function.",
			StatusBorderline: "Slightly elevated creatinine. Monitor kidney function.",
			StatusWarning:    "High creatinine. Possible kidney impairment.",
			StatusCritical:   "Very high creatinine. Kidney dysfunction likely.",
		},
	}
}

func defaultTrendRecommendations() map[string]map[Direction]string {
	return map[string]map[Direction]string{
		"glucose": {
			DirectionIncreasing: "Blood sugar increasing. Review diet and medication.",
			DirectionDecreasing: "Blood sugar improving. Continue current management.",
			DirectionStable:     "Blood sugar stable. Maintain current regimen.",
		},
		"ldl": {
			DirectionIncreasing: "LDL cholesterol rising. Consider diet changes or medication adjustment.",
			DirectionDecreasing: "LDL cholesterol improving. Continue current treatment.",
			DirectionStable:     "LDL cholesterol stable. Maintain current approach.",
		},
		"hba1c": {
			DirectionIncreasing: "Long-term blood sugar control worsening. Review diabetes management.",
			DirectionDecreasing: "Blood sugar control improving. Good progress.",
			DirectionStable:     "Blood sugar control stable. Continue monitoring.",
		},
	}
}

// Analyzer evaluates lab snapshots against immutable reference data. All
// methods are pure functions; a single Analyzer may be shared by any number
// of goroutines.
type Analyzer struct {
	ranges          map[string]ReferenceRange
	categoryWeights map[string]float64
	statusPoints    map[Status]float64
	statusDisplay   map[Status]statusDisplay
	interpretations map[string]map[Status]string
	trendRecs       map[string]map[Direction]string
}

// NewAnalyzer builds an Analyzer over the built-in reference tables.
func NewAnalyzer() *Analyzer {
	return &Analyzer{
		ranges:          defaultRanges(),
		categoryWeights: defaultCategoryWeights(),
		statusPoints:    defaultStatusPoints(),
		statusDisplay:   defaultStatusDisplay(),
		interpretations: defaultInterpretations(),
		trendRecs:       defaultTrendRecommendations(),
	}
}

// ReferenceRanges returns a copy of the reference-range table.
func (a *Analyzer) ReferenceRanges() map[string]ReferenceRange {
	out := make(map[string]ReferenceRange, len(a.ranges))
	for name, r := range a.ranges {
		out[name] = r
	}
	return out
}
