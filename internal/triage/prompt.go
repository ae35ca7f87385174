package triage

import "fmt"

// prompt.go holds the instruction text sent to the generation client.
// Keeping the fixed blocks as constants makes them easy to review without
// touching the assembly logic; the emergency list in particular is part of
// the safety contract and must stay in sync with the fallback keyword sets.

const notProvided = "Not provided"

const promptHeader = "You are an expert medical AI assistant providing preliminary symptom assessment for EDUCATIONAL PURPOSES ONLY."

const promptTask = `=== YOUR TASK ===
Analyze the symptoms and provide a preliminary assessment. The output MUST strictly adhere to the provided JSON Schema (SymptomAnalysisSchema).`

const promptGuidelines = `=== ANALYSIS GUIDELINES ===

1. POSSIBLE CONDITIONS:
    - List 2-4 most probable conditions based on symptoms
    - Order by probability (most likely first)
    - Use the defined probability and severity levels only.

2. URGENCY CLASSIFICATION:
    - Use "urgent", "soon", or "routine". Classify based on the severity of the most probable condition and the presence of emergency symptoms.

3. RECOMMENDATIONS:
    - Provide 5-7 specific, actionable steps.
    - Always emphasize consulting a qualified healthcare provider.`

const promptSafetyRules = `=== CRITICAL SAFETY RULES ===
1. BE CONSERVATIVE: When in doubt, recommend medical consultation
2. FLAG EMERGENCIES: Always mark serious symptoms as "urgent"
3. NO DIAGNOSIS: This is preliminary assessment only, not a diagnosis
4. EVIDENCE-BASED: Only suggest well-established possibilities`

const promptEmergencyList = `=== EMERGENCY SYMPTOMS (If any of these apply, Urgency MUST be URGENT) ===
- Chest pain or pressure
- Difficulty breathing or shortness of breath
- Severe bleeding that won't stop
- Sudden severe headache
- Sudden confusion or trouble speaking
- Sudden weakness or numbness (especially one side)
- Loss of consciousness or fainting
- Severe abdominal pain`

const promptClosing = "Now analyze the symptoms and respond ONLY with the requested JSON structure."

// BuildPrompt assembles the full instruction text for one analysis. Missing
// patient fields are substituted with a literal "Not provided" so the model
// never sees empty slots. Pure and deterministic.
func BuildPrompt(in PatientInput) string {
	return fmt.Sprintf(`%s

=== PATIENT INFORMATION ===
Symptoms: %s
Age: %s
Gender: %s
Duration: %s
Severity Level: %s

%s

%s

%s

%s

%s`,
		promptHeader,
		orNotProvided(in.Symptoms),
		orNotProvided(string(in.Age)),
		orNotProvided(in.Gender),
		orNotProvided(in.Duration),
		orNotProvided(in.Severity),
		promptTask,
		promptGuidelines,
		promptSafetyRules,
		promptEmergencyList,
		promptClosing,
	)
}

func orNotProvided(s string) string {
	if s == "" {
		return notProvided
	}
	return s
}
