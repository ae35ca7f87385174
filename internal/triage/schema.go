package triage

import "google.golang.org/genai"

// ResponseSchema is the structured-output schema the generation client asks
// the model to conform to. It mirrors the AnalysisResult subset the model is
// responsible for: conditions, urgency and recommendations. Everything else
// (timestamp, disclaimer, source) is attached server-side.
func ResponseSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"conditions": {
				Type:        genai.TypeArray,
				Description: "2 to 4 most probable conditions, ordered by probability.",
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"name": {
							Type:        genai.TypeString,
							Description: "Name of the possible condition, e.g. 'Common Cold'",
						},
						"probability": {
							Type: genai.TypeString,
							Enum: []string{"High", "Moderate", "Low"},
						},
						"description": {
							Type:        genai.TypeString,
							Description: "Clear 1-2 sentence description of this condition.",
						},
						"severity": {
							Type: genai.TypeString,
							Enum: []string{"mild", "moderate", "serious"},
						},
					},
					Required: []string{"name", "probability", "description", "severity"},
				},
			},
			"urgency": {
				Type:        genai.TypeString,
				Description: "Classification of required follow-up time.",
				Enum:        []string{"urgent", "soon", "routine"},
			},
			"recommendations": {
				Type:        genai.TypeArray,
				Description: "5 to 7 specific, actionable recommendations for the patient.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
		},
		Required: []string{"conditions", "urgency", "recommendations"},
	}
}
