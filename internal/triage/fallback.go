package triage

import (
	"fmt"
	"strings"
	"time"
)

// fallback.go is the deterministic triage path used whenever the generation
// client fails or returns something the validator rejects. The response
// content below is the safety contract shown to end users: do not reword it.
// Rules are evaluated in strict priority order because the keyword sets
// overlap — emergency always wins.

// FallbackVariant names one of the three pre-authored responses.
type FallbackVariant string

const (
	VariantEmergency FallbackVariant = "emergency"
	VariantGastro    FallbackVariant = "gastro"
	VariantRoutine   FallbackVariant = "routine"
)

var emergencyKeywords = []string{
	"chest pain", "chest pressure", "difficulty breathing", "shortness of breath",
	"severe bleeding", "stroke", "can't move arm", "face drooping",
	"seizure", "convulsion", "unconscious", "passed out", "fainted",
	"severe headache", "worst headache", "coughing blood", "vomiting blood",
	"severe abdominal pain", "severe stomach pain",
}

var gastroKeywords = []string{"vomiting", "diarrhea", "loose motion"}

var dehydrationKeywords = []string{"weakness", "dizzy", "faint"}

var gastroSevereSigns = []string{
	"can't keep down", "blood", "black stools", "fainting", "severe weakness", "no urine",
}

// Classify maps symptom text to exactly one fallback variant. First match
// wins: emergency keywords take precedence over the gastro conjunction, and
// everything else is routine. Matching is case-insensitive substring search.
func Classify(symptoms string) FallbackVariant {
	text := strings.ToLower(symptoms)

	if containsAny(text, emergencyKeywords) {
		return VariantEmergency
	}
	// Gastro requires both a gastro symptom and a dehydration sign.
	if containsAny(text, gastroKeywords) && containsAny(text, dehydrationKeywords) {
		return VariantGastro
	}
	return VariantRoutine
}

// FallbackResult builds the pre-authored response for the matched variant.
// Pure given (in, now), so two calls with identical arguments produce
// identical results.
func FallbackResult(in PatientInput, now time.Time) AnalysisResult {
	switch Classify(in.Symptoms) {
	case VariantEmergency:
		return emergencyResult(in, now)
	case VariantGastro:
		return gastroResult(in, now)
	default:
		return routineResult(in, now)
	}
}

func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

func emergencyResult(in PatientInput, now time.Time) AnalysisResult {
	return AnalysisResult{
		Timestamp: now.UTC(),
		Input:     in,
		Conditions: []Condition{{
			Name:        "⚠️ IMMEDIATE MEDICAL ATTENTION REQUIRED",
			Probability: ProbabilityNA,
			Description: "Your symptoms indicate a potentially serious, life-threatening condition that requires immediate professional evaluation.",
			Severity:    SeveritySerious,
		}},
		Urgency: UrgencyUrgent,
		Recommendations: []string{
			"🚨 Call emergency services (911/112) immediately",
			"🏥 Go to the nearest emergency room",
			"❌ Do NOT wait - seek help NOW",
			"📞 If alone, call someone to help you",
			"⏱️ Note when symptoms started",
			"💊 Bring list of current medications if possible",
		},
		Disclaimer: true,
		Source:     SourceFallbackEmergency,
		Note:       "AI analysis unavailable - Extreme Emergency response activated",
		Model:      "Fallback System (Extreme)",
	}
}

func gastroResult(in PatientInput, now time.Time) AnalysisResult {
	// A second scan over the same text decides urgency: any severe
	// dehydration sign escalates to urgent.
	urgency := UrgencySoon
	if containsAny(strings.ToLower(in.Symptoms), gastroSevereSigns) {
		urgency = UrgencyUrgent
	}

	return AnalysisResult{
		Timestamp: now.UTC(),
		Input:     in,
		Conditions: []Condition{
			{
				Name:        "Dehydration (Critical Risk)",
				Probability: ProbabilityHigh,
				Description: "Significant fluid and electrolyte loss from persistent vomiting/diarrhea, leading to weakness and dizziness. Requires immediate focus on rehydration.",
				Severity:    SeveritySerious,
			},
			{
				Name:        "Viral Gastroenteritis ('Stomach Flu')",
				Probability: ProbabilityModerate,
				Description: "Common viral infection of the digestive tract causing vomiting and diarrhea, often resolving within a few days.",
				Severity:    SeverityModerate,
			},
			{
				Name:        "Food Poisoning (Bacterial or Toxin-related)",
				Probability: ProbabilityModerate,
				Description: "Illness caused by consuming contaminated food or water. Symptoms often start quickly and can be intense.",
				Severity:    SeverityModerate,
			},
			{
				Name:        "Traveler's Diarrhea (if recent travel)",
				Probability: ProbabilityModerate,
				Description: "A form of gastroenteritis usually caused by bacteria, common after traveling to areas with different sanitation practices.",
				Severity:    SeverityMild,
			},
		},
		Urgency: urgency,
		Recommendations: []string{
			"Sip, Don't Gulp: Drink small amounts of clear fluids (water, ORS) frequently, even if you can only keep down a few sips.",
			"Electrolytes are Key: Use Oral Rehydration Solutions (ORS) over plain water or high-sugar sports drinks.",
			"Rest: Get plenty of rest to allow your body to recover.",
			"Eat Bland Foods: When vomiting stops, start slowly with bland, easy-to-digest foods (like Bananas, Rice, Applesauce, Toast).",
			"Avoid: Fruit juice, soda, coffee, alcohol, and fatty/spicy foods.",
			"🚨 **See a Doctor Immediately if:** persistent dizziness/fainting, no urine for 8+ hours, blood in stool/vomit, or inability to keep down liquids for 24 hours.",
			"📞 Consult a healthcare provider if vomiting or diarrhea lasts more than 48 hours.",
		},
		Disclaimer: true,
		Source:     SourceFallbackGastro,
		Note:       fmt.Sprintf("Hardcoded Safety Response (Gastro/Dehydration) - Urgency set to: %s", urgency),
		Model:      "Fallback System (Gastro)",
	}
}

func routineResult(in PatientInput, now time.Time) AnalysisResult {
	return AnalysisResult{
		Timestamp: now.UTC(),
		Input:     in,
		Conditions: []Condition{{
			Name:        "Professional Medical Evaluation Needed",
			Probability: ProbabilityNA,
			Description: "Your symptoms require in-person evaluation by a qualified healthcare provider for accurate assessment.",
			Severity:    SeverityUnknown,
		}},
		Urgency: UrgencySoon,
		Recommendations: []string{
			"📅 Schedule an appointment with your primary care physician",
			"📝 Write down all your symptoms in detail before the appointment",
			"⏰ Note when symptoms started and how they have changed",
			"💊 List all medications and supplements you are currently taking",
			"📊 Monitor symptoms and record any changes",
			"🚨 Seek immediate care if symptoms suddenly worsen or become severe",
		},
		Disclaimer: true,
		Source:     SourceFallbackRoutine,
		Note:       "AI analysis temporarily unavailable - General routine advice provided",
		Model:      "Fallback System (General)",
	}
}
