package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// medicalDictionary translates common medical jargon to plain language.
// Checked before any model call so frequent terms get instant answers.
var medicalDictionary = map[string]string{
	// Cardiovascular
	"myocardial infarction": "heart attack",
	"hypertension":          "high blood pressure",
	"arrhythmia":            "irregular heartbeat",
	"tachycardia":           "fast heart rate",
	"bradycardia":           "slow heart rate",
	"hyperlipidemia":        "high cholesterol",
	"edema":                 "swelling",
	"thrombosis":            "blood clot",

	// Diabetes
	"hyperglycemia": "high blood sugar",
	"hypoglycemia":  "low blood sugar",
	"polyuria":      "frequent urination",
	"polydipsia":    "excessive thirst",
	"polyphagia":    "excessive hunger",

	// General
	"prognosis":        "expected outcome",
	"etiology":         "cause",
	"pathology":        "disease process",
	"contraindication": "reason not to use",
	"benign":           "not cancerous",
	"malignant":        "cancerous",
	"chronic":          "long-lasting",
	"acute":            "sudden/severe",
	"remission":        "no symptoms period",
	"metastasis":       "cancer spread",
}

const explainSystemPrompt = "You are a medical expert explaining complex medical " +
	"information to patients in simple, easy-to-understand language. Use everyday " +
	"language, be accurate, include practical advice, and be reassuring but honest."

// Service produces patient-friendly explanations. It prefers the configured
// language model and falls back to the dictionary and knowledge base when the
// model is unavailable.
type Service struct {
	client *Client
	log    zerolog.Logger
}

func NewService(client *Client, log zerolog.Logger) *Service {
	return &Service{client: client, log: log}
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// lookupDictionary returns the plain-language sentence for the first known
// term contained in text, scanning terms in sorted order.
func lookupDictionary(text string) (string, bool) {
	lower := strings.ToLower(text)
	terms := make([]string, 0, len(medicalDictionary))
	for term := range medicalDictionary {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	for _, term := range terms {
		if strings.Contains(lower, term) {
			return fmt.Sprintf("'%s' means %s.", term, medicalDictionary[term]), true
		}
	}
	return "", false
}

// cleanExplanation strips clinical phrasing from model output.
func cleanExplanation(text string) string {
	replacements := [][2]string{
		{"it is important to note that", ""},
		{"in medical terms", ""},
		{"clinically speaking", ""},
		{"the patient should", "you should"},
		{"the individual", "you"},
	}
	for _, r := range replacements {
		text = strings.ReplaceAll(text, r[0], r[1])
	}
	return strings.TrimSpace(text)
}

// ExplainText explains a medical term or phrase in plain language.
func (s *Service) ExplainText(ctx context.Context, text, contextNote string) map[string]interface{} {
	if sentence, ok := lookupDictionary(text); ok {
		return map[string]interface{}{
			"original":    text,
			"explanation": sentence,
			"confidence":  "high",
			"source":      "dictionary",
			"timestamp":   timestamp(),
		}
	}

	if s.client.Enabled() {
		prompt := fmt.Sprintf("Explain in simple terms for a patient: %s", text)
		if contextNote != "" {
			prompt += fmt.Sprintf(" Context: %s", contextNote)
		}
		answer, err := s.client.Complete(ctx, explainSystemPrompt, prompt)
		if err == nil {
			return map[string]interface{}{
				"original":    text,
				"explanation": cleanExplanation(answer),
				"confidence":  "medium",
				"source":      "model",
				"model":       s.client.Model(),
				"timestamp":   timestamp(),
			}
		}
		s.log.Warn().Err(err).Msg("model explanation failed, using fallback")
	}

	return map[string]interface{}{
		"original": text,
		"explanation": fmt.Sprintf("This appears to be about '%s'. In medical terms, this relates to "+
			"health conditions or treatments that should be discussed with your healthcare provider.", text),
		"confidence": "low",
		"note":       "Using fallback explanation",
		"timestamp":  timestamp(),
	}
}

// ExplainDiagnosis builds a structured explanation of a diagnosis from the
// knowledge base, optionally enriched by the model.
func (s *Service) ExplainDiagnosis(ctx context.Context, diagnosis, notes string, age int) map[string]interface{} {
	key := normalizeDiagnosis(diagnosis)
	cond := conditionFor(key)

	out := map[string]interface{}{
		"diagnosis":             diagnosis,
		"normalized_diagnosis":  key,
		"explanation":           cond,
		"treatment_options":     treatmentFor(key),
		"next_steps":            nextStepsFor(key),
		"questions_for_doctor":  doctorQuestionsFor(key),
		"educational_resources": resourcesFor(key),
		"source":                "Medical Knowledge Base",
		"explained_at":          timestamp(),
	}

	switch {
	case age > 65:
		out["age_considerations"] = []string{
			"Higher risk of complications",
			"Medication adjustments may be needed",
			"Regular monitoring is important",
		}
	case age > 0 && age < 40:
		out["age_considerations"] = []string{
			"Early intervention is beneficial",
			"Focus on lifestyle changes",
			"Long-term management plan needed",
		}
	}

	if s.client.Enabled() {
		prompt := fmt.Sprintf("Diagnosis: %s\nDoctor's Notes: %s\n\n"+
			"Explain this diagnosis to a patient in simple terms: what it means, "+
			"main symptoms, causes, available treatments, and helpful lifestyle changes. "+
			"Keep explanations simple, clear, and reassuring.", diagnosis, notes)
		answer, err := s.client.Complete(ctx, explainSystemPrompt, prompt)
		if err == nil {
			out["simple_explanation"] = cleanExplanation(answer)
			out["model"] = s.client.Model()
			return out
		}
		s.log.Warn().Err(err).Str("diagnosis", diagnosis).Msg("model diagnosis explanation failed")
	}

	out["simple_explanation"] = fmt.Sprintf("%s is a medical condition that requires proper medical care. "+
		"Your doctor can provide detailed information about treatment options and management.", diagnosis)
	return out
}

// ExplainMedication explains what a medication does and how to take it.
func (s *Service) ExplainMedication(ctx context.Context, medication string, conditions []string) map[string]interface{} {
	out := map[string]interface{}{
		"medication":   medication,
		"explained_at": timestamp(),
	}

	explained := false
	if s.client.Enabled() {
		prompt := fmt.Sprintf("Medication: %s\n\nExplain this medication to a patient: "+
			"its main purpose, how it works, common side effects, important warnings, "+
			"and how to take it properly. Keep it simple and practical.", medication)
		answer, err := s.client.Complete(ctx, explainSystemPrompt, prompt)
		if err == nil {
			out["explanation"] = cleanExplanation(answer)
			out["model"] = s.client.Model()
			explained = true
		} else {
			s.log.Warn().Err(err).Str("medication", medication).Msg("model medication explanation failed")
		}
	}
	if !explained {
		out["explanation"] = fmt.Sprintf("%s is a medication prescribed by your doctor. "+
			"Take as directed and report any side effects.", medication)
	}

	if len(conditions) > 0 {
		out["patient_context"] = map[string]interface{}{
			"conditions": conditions,
			"note":       "This medication may interact with your conditions. Consult your doctor.",
		}
	}
	return out
}

// SummarizeLabs produces a patient-friendly narrative for a lab snapshot.
func (s *Service) SummarizeLabs(ctx context.Context, snapshot map[string]float64) (map[string]interface{}, error) {
	if s.client.Enabled() {
		labJSON, err := json.MarshalIndent(snapshot, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal lab snapshot: %w", err)
		}
		prompt := fmt.Sprintf("Analyze these lab results and provide a patient-friendly summary:\n\n"+
			"Lab Results:\n%s\n\nCover the overall health status, any concerning values, "+
			"what each abnormal value means, recommendations for follow-up, and questions "+
			"to ask the doctor. Use simple language that a patient can understand.", labJSON)
		answer, err := s.client.Complete(ctx, explainSystemPrompt, prompt)
		if err == nil {
			return map[string]interface{}{
				"analysis":    cleanExplanation(answer),
				"model":       s.client.Model(),
				"analyzed_at": timestamp(),
			}, nil
		}
		s.log.Warn().Err(err).Msg("model lab summary failed, using fallback")
	}

	return map[string]interface{}{
		"analysis":    "Please consult with your healthcare provider for proper analysis of these lab results.",
		"analyzed_at": timestamp(),
	}, nil
}
