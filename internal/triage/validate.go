package triage

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ParseError means the generated text was not well-formed JSON.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("response is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ShapeError means the generated JSON parsed but is missing a required field.
type ShapeError struct {
	Field string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("response missing required field %q", e.Field)
}

// rawCondition uses pointer fields so absent keys are distinguishable from
// empty values.
type rawCondition struct {
	Name        *string `json:"name"`
	Probability *string `json:"probability"`
	Description *string `json:"description"`
	Severity    *string `json:"severity"`
}

type rawResponse struct {
	Conditions      []rawCondition `json:"conditions"`
	Urgency         *string        `json:"urgency"`
	Recommendations []string       `json:"recommendations"`
}

// ParseResponse validates and normalizes raw model output into an
// AnalysisResult echoing the original input. An urgency value outside the
// known set is coerced to "routine" rather than rejected; structural problems
// fail with ParseError or ShapeError so the caller can fall back.
func ParseResponse(raw string, in PatientInput, modelName string, now time.Time) (AnalysisResult, error) {
	var parsed rawResponse
	if err := json.Unmarshal([]byte(strings.TrimSpace(raw)), &parsed); err != nil {
		return AnalysisResult{}, &ParseError{Err: err}
	}

	if parsed.Conditions == nil {
		return AnalysisResult{}, &ShapeError{Field: "conditions"}
	}
	if parsed.Urgency == nil {
		return AnalysisResult{}, &ShapeError{Field: "urgency"}
	}
	if parsed.Recommendations == nil {
		return AnalysisResult{}, &ShapeError{Field: "recommendations"}
	}

	conditions := make([]Condition, 0, len(parsed.Conditions))
	for i, rc := range parsed.Conditions {
		switch {
		case rc.Name == nil:
			return AnalysisResult{}, &ShapeError{Field: fmt.Sprintf("conditions[%d].name", i)}
		case rc.Probability == nil:
			return AnalysisResult{}, &ShapeError{Field: fmt.Sprintf("conditions[%d].probability", i)}
		case rc.Description == nil:
			return AnalysisResult{}, &ShapeError{Field: fmt.Sprintf("conditions[%d].description", i)}
		case rc.Severity == nil:
			return AnalysisResult{}, &ShapeError{Field: fmt.Sprintf("conditions[%d].severity", i)}
		}
		conditions = append(conditions, Condition{
			Name:        *rc.Name,
			Probability: Probability(*rc.Probability),
			Description: *rc.Description,
			Severity:    Severity(*rc.Severity),
		})
	}

	urgency := Urgency(*parsed.Urgency)
	switch urgency {
	case UrgencyUrgent, UrgencySoon, UrgencyRoutine:
	default:
		// Safety-conservative default, not a failure.
		urgency = UrgencyRoutine
	}

	return AnalysisResult{
		Timestamp:       now.UTC(),
		Input:           in,
		Conditions:      conditions,
		Urgency:         urgency,
		Recommendations: parsed.Recommendations,
		Disclaimer:      true,
		Source:          SourceModel,
		Model:           modelName,
	}, nil
}
