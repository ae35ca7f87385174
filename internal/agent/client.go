package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/genai"
)

// ErrNotConfigured is returned at construction when no API key is available.
// The caller decides whether that is fatal or whether to run degraded with
// every request routed to the fallback classifier.
var ErrNotConfigured = errors.New("generation client not configured: GOOGLE_API_KEY is missing")

// GenerationError wraps any per-call failure of the generation service:
// transport errors, quota/auth errors, timeouts. Callers treat all of them
// the same way, so one type is enough.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed: %v", e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

const (
	// DefaultModel matches the GEMINI_MODEL default of the hosted service.
	DefaultModel = "gemini-2.5-flash"

	// Generation favors determinism and conservatism over creativity, and
	// bounds output length. Assessments must be reproducible, not inventive.
	temperature     = 0.3
	topP            = 0.8
	topK            = 40
	maxOutputTokens = 1024

	// defaultTimeout bounds the blocking generation call so the caller can
	// always fall back to a timely deterministic answer.
	defaultTimeout = 30 * time.Second
)

// GeminiClient calls the Gemini API requesting JSON output constrained to a
// schema. Safe for concurrent use.
type GeminiClient struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// NewGeminiClient constructs a Gemini-backed generation client. An empty API
// key is a configuration error, not a per-request failure.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, ErrNotConfigured
	}
	if model == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GeminiClient{
		client:  client,
		model:   model,
		timeout: defaultTimeout,
	}, nil
}

// Model reports the configured model name for health info and result tagging.
func (c *GeminiClient) Model() string { return c.model }

// GenerateStructured sends the prompt and returns the raw response text,
// which the schema constrains to JSON of the requested shape. Any failure,
// including timeout and cancellation, comes back as a GenerationError.
func (c *GeminiClient) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
		Temperature:      genai.Ptr[float32](temperature),
		TopP:             genai.Ptr[float32](topP),
		TopK:             genai.Ptr[float32](topK),
		MaxOutputTokens:  maxOutputTokens,
	})
	if err != nil {
		return "", &GenerationError{Err: err}
	}

	text := resp.Text()
	if text == "" {
		return "", &GenerationError{Err: errors.New("model returned no text")}
	}
	return text, nil
}
