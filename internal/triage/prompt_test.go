package triage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptIncludesPatientFields(t *testing.T) {
	in := PatientInput{
		Symptoms: "persistent dry cough for a week",
		Age:      "42",
		Gender:   "female",
		Duration: "7 days",
		Severity: "moderate",
	}
	prompt := BuildPrompt(in)

	assert.Contains(t, prompt, "Symptoms: persistent dry cough for a week")
	assert.Contains(t, prompt, "Age: 42")
	assert.Contains(t, prompt, "Gender: female")
	assert.Contains(t, prompt, "Duration: 7 days")
	assert.Contains(t, prompt, "Severity Level: moderate")
	assert.NotContains(t, prompt, notProvided)
}

func TestBuildPromptSubstitutesMissingFields(t *testing.T) {
	prompt := BuildPrompt(PatientInput{Symptoms: "headache behind the eyes"})
	// Age, gender, duration and severity are all absent.
	assert.Equal(t, 4, strings.Count(prompt, notProvided))
}

func TestBuildPromptCarriesSafetyInstructions(t *testing.T) {
	prompt := BuildPrompt(PatientInput{Symptoms: "anything"})

	assert.Contains(t, prompt, "EMERGENCY SYMPTOMS (If any of these apply, Urgency MUST be URGENT)")
	assert.Contains(t, prompt, "Chest pain or pressure")
	assert.Contains(t, prompt, "NO DIAGNOSIS")
	assert.True(t, strings.HasSuffix(prompt, promptClosing))
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	in := PatientInput{Symptoms: "sore throat", Age: "9"}
	assert.Equal(t, BuildPrompt(in), BuildPrompt(in))
}
