package triage

import (
	"bytes"
	"encoding/json"
	"time"
)

type Probability string

const (
	ProbabilityHigh     Probability = "High"
	ProbabilityModerate Probability = "Moderate"
	ProbabilityLow      Probability = "Low"
	ProbabilityNA       Probability = "N/A"
)

type Severity string

const (
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeveritySerious  Severity = "serious"
	SeverityUnknown  Severity = "unknown"
)

type Urgency string

const (
	UrgencyUrgent  Urgency = "urgent"
	UrgencySoon    Urgency = "soon"
	UrgencyRoutine Urgency = "routine"
)

// Source identifies which path produced an AnalysisResult.
type Source string

const (
	SourceModel             Source = "model"
	SourceFallbackEmergency Source = "fallback_emergency"
	SourceFallbackGastro    Source = "fallback_gastro"
	SourceFallbackRoutine   Source = "fallback_routine"
)

// FlexString is a string that also accepts a JSON number, since clients send
// fields like age as either "34" or 34.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

// PatientInput is one symptom report as submitted by the client. Only
// Symptoms is mandatory; everything else is context the model may use.
type PatientInput struct {
	Symptoms  string     `json:"symptoms"`
	Age       FlexString `json:"age,omitempty"`
	Gender    string     `json:"gender,omitempty"`
	Duration  string     `json:"duration,omitempty"`
	Severity  string     `json:"severity,omitempty"`
	SessionID string     `json:"session_id,omitempty"`
}

// Condition is a single candidate condition within an analysis.
type Condition struct {
	Name        string      `json:"name"`
	Probability Probability `json:"probability"`
	Description string      `json:"description"`
	Severity    Severity    `json:"severity"`
}

// AnalysisResult is the uniform answer returned for every analysis request,
// whether it came from the model or from a fallback variant. It is created
// once and never mutated afterwards.
type AnalysisResult struct {
	Timestamp       time.Time    `json:"timestamp"`
	Input           PatientInput `json:"input"`
	Conditions      []Condition  `json:"conditions"`
	Urgency         Urgency      `json:"urgency"`
	Recommendations []string     `json:"recommendations"`
	Disclaimer      bool         `json:"disclaimer"`
	Source          Source       `json:"source"`
	Note            string       `json:"note,omitempty"`
	Model           string       `json:"ai_model"`
}
