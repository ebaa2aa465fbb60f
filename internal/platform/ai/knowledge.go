package ai

import "strings"

// Condition describes a medical condition in patient-friendly terms.
type Condition struct {
	CommonName    string   `json:"common_name"`
	Description   string   `json:"description"`
	Causes        []string `json:"causes"`
	Symptoms      []string `json:"symptoms"`
	Complications []string `json:"complications"`
	Note          string   `json:"note,omitempty"`
}

// Treatment lists the standard treatment options for a condition.
type Treatment struct {
	Lifestyle   []string `json:"lifestyle"`
	Medications []string `json:"medications"`
	Monitoring  []string `json:"monitoring"`
}

// Resource points a patient to further reading.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Type  string `json:"type,omitempty"`
}

var conditionKnowledge = map[string]Condition{
	"type_2_diabetes": {
		CommonName:  "Type 2 Diabetes",
		Description: "A chronic condition where the body doesn't use insulin properly.",
		Causes: []string{
			"Insulin resistance",
			"Genetic factors",
			"Obesity",
			"Physical inactivity",
			"Poor diet",
		},
		Symptoms: []string{
			"Increased thirst and urination",
			"Fatigue",
			"Blurred vision",
			"Slow healing wounds",
			"Tingling in hands/feet",
		},
		Complications: []string{
			"Heart disease",
			"Nerve damage (neuropathy)",
			"Kidney damage",
			"Eye damage (retinopathy)",
			"Foot problems",
		},
	},
	"hypertension": {
		CommonName:  "High Blood Pressure",
		Description: "Condition where blood pressure is consistently too high.",
		Causes: []string{
			"Genetic factors",
			"High salt diet",
			"Obesity",
			"Stress",
			"Lack of exercise",
		},
		Symptoms: []string{
			"Often no symptoms",
			"Headaches",
			"Shortness of breath",
			"Nosebleeds (rare)",
			"Dizziness",
		},
		Complications: []string{
			"Heart attack",
			"Stroke",
			"Heart failure",
			"Kidney disease",
			"Vision loss",
		},
	},
	"hyperlipidemia": {
		CommonName:  "High Cholesterol",
		Description: "High levels of fats (lipids) in the blood.",
		Causes: []string{
			"Poor diet",
			"Lack of exercise",
			"Obesity",
			"Genetics",
			"Diabetes",
		},
		Symptoms: []string{
			"Usually no symptoms",
			"Xanthomas (fatty deposits under skin)",
			"Corneal arcus (white ring around iris)",
		},
		Complications: []string{
			"Atherosclerosis",
			"Heart attack",
			"Stroke",
			"Peripheral artery disease",
		},
	},
	"coronary_artery_disease": {
		CommonName:  "Heart Disease",
		Description: "Narrowing of coronary arteries due to plaque buildup.",
		Causes: []string{
			"High cholesterol",
			"High blood pressure",
			"Smoking",
			"Diabetes",
			"Family history",
		},
		Symptoms: []string{
			"Chest pain (angina)",
			"Shortness of breath",
			"Fatigue",
			"Heart palpitations",
			"Dizziness",
		},
		Complications: []string{
			"Heart attack",
			"Heart failure",
			"Arrhythmia",
			"Sudden cardiac arrest",
		},
	},
	"copd": {
		CommonName:  "COPD (Chronic Obstructive Pulmonary Disease)",
		Description: "Chronic inflammatory lung disease causing obstructed airflow.",
		Causes: []string{
			"Smoking (primary cause)",
			"Air pollution",
			"Genetic factors",
			"Occupational exposure",
		},
		Symptoms: []string{
			"Chronic cough",
			"Shortness of breath",
			"Wheezing",
			"Chest tightness",
			"Frequent respiratory infections",
		},
		Complications: []string{
			"Respiratory infections",
			"Heart problems",
			"Lung cancer",
			"Pulmonary hypertension",
		},
	},
}

var treatmentOptions = map[string]Treatment{
	"type_2_diabetes": {
		Lifestyle: []string{
			"Healthy diet (low sugar, high fiber)",
			"Regular exercise (150 min/week)",
			"Weight management",
			"Blood sugar monitoring",
		},
		Medications: []string{
			"Metformin",
			"Sulfonylureas",
			"DPP-4 inhibitors",
			"GLP-1 receptor agonists",
			"Insulin",
		},
		Monitoring: []string{
			"HbA1c every 3-6 months",
			"Regular foot exams",
			"Annual eye exams",
			"Kidney function tests",
		},
	},
	"hypertension": {
		Lifestyle: []string{
			"Reduce salt intake",
			"DASH diet",
			"Regular exercise",
			"Stress management",
			"Limit alcohol",
		},
		Medications: []string{
			"ACE inhibitors",
			"ARBs",
			"Calcium channel blockers",
			"Diuretics",
			"Beta blockers",
		},
		Monitoring: []string{
			"Regular blood pressure checks",
			"Home monitoring recommended",
			"Annual kidney function tests",
		},
	},
	"hyperlipidemia": {
		Lifestyle: []string{
			"Heart-healthy diet",
			"Regular exercise",
			"Weight loss if needed",
			"Smoking cessation",
		},
		Medications: []string{
			"Statins",
			"Ezetimibe",
			"PCSK9 inhibitors",
			"Fibrates",
		},
		Monitoring: []string{
			"Lipid panel every 4-12 weeks initially",
			"Then every 3-12 months",
			"Liver function tests with statins",
		},
	},
}

var diagnosisAliases = map[string]string{
	"diabetes":                              "type_2_diabetes",
	"diabetes mellitus type 2":              "type_2_diabetes",
	"type ii diabetes":                      "type_2_diabetes",
	"high blood pressure":                   "hypertension",
	"htn":                                   "hypertension",
	"high cholesterol":                      "hyperlipidemia",
	"dyslipidemia":                          "hyperlipidemia",
	"heart disease":                         "coronary_artery_disease",
	"cad":                                   "coronary_artery_disease",
	"chronic obstructive pulmonary disease": "copd",
	"chronic bronchitis":                    "copd",
	"emphysema":                             "copd",
}

// normalizeDiagnosis maps free-text diagnoses onto knowledge base keys.
func normalizeDiagnosis(diagnosis string) string {
	lower := strings.ToLower(strings.TrimSpace(diagnosis))

	for alias, key := range diagnosisAliases {
		if strings.Contains(lower, alias) {
			return key
		}
	}
	for key := range conditionKnowledge {
		if strings.Contains(lower, key) || strings.Contains(key, lower) {
			return key
		}
	}
	return strings.ReplaceAll(lower, " ", "_")
}

func titleCase(key string) string {
	words := strings.Split(strings.ReplaceAll(key, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// conditionFor returns the knowledge entry for a normalized diagnosis, or a
// generic placeholder when the condition is unknown.
func conditionFor(key string) Condition {
	if cond, ok := conditionKnowledge[key]; ok {
		return cond
	}
	name := titleCase(key)
	return Condition{
		CommonName:    name,
		Description:   name + " is a medical condition that requires proper diagnosis and treatment by healthcare professionals.",
		Causes:        []string{"Consult with your doctor for specific causes"},
		Symptoms:      []string{"Symptoms vary - discuss with healthcare provider"},
		Complications: []string{"Proper management is important to prevent complications"},
		Note:          "This is a general explanation. Please consult your healthcare provider for personalized information.",
	}
}

func treatmentFor(key string) Treatment {
	if t, ok := treatmentOptions[key]; ok {
		return t
	}
	return Treatment{
		Lifestyle: []string{
			"Healthy diet",
			"Regular exercise",
			"Stress management",
			"Adequate sleep",
		},
		Medications: []string{"Consult doctor for appropriate medications"},
		Monitoring:  []string{"Regular follow-up with healthcare provider"},
	}
}

func nextStepsFor(key string) []string {
	steps := []string{
		"Schedule follow-up appointment with your doctor",
		"Discuss treatment plan options",
		"Get any recommended lab tests",
	}
	switch key {
	case "type_2_diabetes":
		steps = append(steps,
			"Get a glucose meter and learn to use it",
			"Schedule appointment with diabetes educator",
			"Get referral to nutritionist")
	case "hypertension":
		steps = append(steps,
			"Get a home blood pressure monitor",
			"Start tracking blood pressure daily",
			"Reduce salt intake immediately")
	case "hyperlipidemia":
		steps = append(steps,
			"Start heart-healthy diet",
			"Begin regular exercise program",
			"Schedule follow-up lipid panel")
	}
	return steps
}

func doctorQuestionsFor(key string) []string {
	questions := []string{
		"What is the expected progression of this condition?",
		"What treatment options are available?",
		"What are the side effects of recommended treatments?",
		"How will we monitor progress?",
		"What lifestyle changes are most important?",
		"What are the warning signs that require immediate attention?",
		"How often should I have follow-up appointments?",
		"Are there any support groups or resources you recommend?",
	}
	switch key {
	case "type_2_diabetes":
		questions = append(questions,
			"What should my target blood sugar levels be?",
			"How often should I check my blood sugar?",
			"What should I do if my blood sugar is too high or too low?")
	case "hypertension":
		questions = append(questions,
			"What should my target blood pressure be?",
			"How often should I check my blood pressure at home?",
			"What readings should prompt me to call you?")
	}
	return questions
}

func resourcesFor(key string) []Resource {
	switch key {
	case "type_2_diabetes":
		return []Resource{
			{Title: "American Diabetes Association", URL: "https://diabetes.org"},
			{Title: "Understanding Type 2 Diabetes", Type: "book"},
			{Title: "Blood Sugar Monitoring Guide", Type: "guide"},
		}
	case "hypertension":
		return []Resource{
			{Title: "American Heart Association", URL: "https://heart.org"},
			{Title: "DASH Diet Guide", Type: "guide"},
			{Title: "Blood Pressure Management", Type: "video_series"},
		}
	case "hyperlipidemia":
		return []Resource{
			{Title: "National Heart, Lung, and Blood Institute", URL: "https://nhlbi.nih.gov"},
			{Title: "Managing High Cholesterol", Type: "book"},
			{Title: "Heart-Healthy Recipes", Type: "cookbook"},
		}
	}
	return []Resource{{Title: "Talk to your healthcare provider for resources", Type: "advice"}}
}
