package triage

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"google.golang.org/genai"
)

// Generator defines the structured-generation capability the orchestrator
// consumes. We define it here to decouple from the specific client
// implementation, and so tests can substitute deterministic fakes.
type Generator interface {
	GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (string, error)
	Model() string
}

// AlertService notifies a clinician about urgent cases.
type AlertService interface {
	SendUrgentAlert(ctx context.Context, res AnalysisResult) error
}

type Service interface {
	Analyze(ctx context.Context, in PatientInput) AnalysisResult
	History(ctx context.Context, sessionID string, limit int) ([]HistoryEntry, error)
	Stats(ctx context.Context) (*Stats, error)
	Ready() bool
}

type service struct {
	repo   Repository
	ai     Generator
	alerts AlertService
	log    *logrus.Logger
}

// NewService wires the orchestrator. A nil Generator marks the service
// degraded: every request routes straight to the fallback classifier. A nil
// AlertService disables urgent-case notification.
func NewService(repo Repository, ai Generator, alerts AlertService, log *logrus.Logger) Service {
	return &service{
		repo:   repo,
		ai:     ai,
		alerts: alerts,
		log:    log,
	}
}

// Ready reports whether the generation client is configured.
func (s *service) Ready() bool { return s.ai != nil }

// Analyze runs one symptom analysis and always returns a well-formed result:
// every internal failure resolves through the fallback classifier, never as
// an error past this boundary. Persistence is best-effort.
func (s *service) Analyze(ctx context.Context, in PatientInput) AnalysisResult {
	if in.SessionID == "" {
		in.SessionID = uuid.NewString()
	}

	res := s.resolve(ctx, in)

	// An abandoned caller context also stops persistence here, so no
	// partial result is stored for a cancelled request.
	if err := s.repo.SaveQuery(ctx, res); err != nil {
		s.log.WithError(err).WithField("session_id", in.SessionID).Warn("failed to store symptom query")
	}

	if res.Urgency == UrgencyUrgent && s.alerts != nil {
		go func(r AnalysisResult) {
			if err := s.alerts.SendUrgentAlert(context.Background(), r); err != nil {
				s.log.WithError(err).Warn("failed to send urgent case alert")
			}
		}(res)
	}

	return res
}

// resolve is the Attempting->Resolved transition: one generation attempt, no
// retries, and any failure of the client or validator falls through to the
// classifier.
func (s *service) resolve(ctx context.Context, in PatientInput) AnalysisResult {
	now := time.Now()

	if s.ai == nil {
		return FallbackResult(in, now)
	}

	raw, err := s.ai.GenerateStructured(ctx, BuildPrompt(in), ResponseSchema())
	if err != nil {
		s.log.WithError(err).Warn("generation failed, using fallback triage")
		return FallbackResult(in, now)
	}

	res, err := ParseResponse(raw, in, s.ai.Model(), now)
	if err != nil {
		s.log.WithError(err).Warn("model response rejected, using fallback triage")
		return FallbackResult(in, now)
	}

	return res
}

// History returns the most recent queries for a session, newest first, with
// symptom text truncated for listing.
func (s *service) History(ctx context.Context, sessionID string, limit int) ([]HistoryEntry, error) {
	entries, err := s.repo.HistoryBySession(ctx, sessionID, limit)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		if len(entries[i].Symptoms) > 100 {
			entries[i].Symptoms = entries[i].Symptoms[:100] + "..."
		}
	}
	return entries, nil
}

func (s *service) Stats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}
