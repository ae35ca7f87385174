package triage

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeGenerator struct {
	raw   string
	err   error
	calls int
}

func (f *fakeGenerator) GenerateStructured(ctx context.Context, prompt string, schema *genai.Schema) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.raw, nil
}

func (f *fakeGenerator) Model() string { return "test-model" }

type fakeRepo struct {
	saved   []AnalysisResult
	saveErr error
	history []HistoryEntry
	stats   *Stats
}

func (f *fakeRepo) SaveQuery(ctx context.Context, res AnalysisResult) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, res)
	return nil
}

func (f *fakeRepo) HistoryBySession(ctx context.Context, sessionID string, limit int) ([]HistoryEntry, error) {
	return f.history, nil
}

func (f *fakeRepo) Stats(ctx context.Context) (*Stats, error) { return f.stats, nil }

type fakeAlerts struct {
	sent chan AnalysisResult
}

func (f *fakeAlerts) SendUrgentAlert(ctx context.Context, res AnalysisResult) error {
	f.sent <- res
	return nil
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestAnalyzeUsesModelResult(t *testing.T) {
	gen := &fakeGenerator{raw: validResponse}
	repo := &fakeRepo{}
	svc := NewService(repo, gen, nil, testLogger())

	res := svc.Analyze(context.Background(), PatientInput{Symptoms: "runny nose and sneezing", SessionID: "s1"})

	assert.Equal(t, SourceModel, res.Source)
	assert.Equal(t, "test-model", res.Model)
	assert.Equal(t, 1, gen.calls)
	require.Len(t, repo.saved, 1)
	assert.Equal(t, res, repo.saved[0])
}

func TestAnalyzeFallsBackOnGenerationError(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("quota exceeded")}
	svc := NewService(&fakeRepo{}, gen, nil, testLogger())

	res := svc.Analyze(context.Background(), PatientInput{Symptoms: "mild sore throat for two days"})

	assert.Equal(t, SourceFallbackRoutine, res.Source)
	assert.Equal(t, UrgencySoon, res.Urgency)
}

func TestAnalyzeFallsBackOnMalformedResponse(t *testing.T) {
	gen := &fakeGenerator{raw: `{"conditions": [], "urgency": "soon"}`}
	svc := NewService(&fakeRepo{}, gen, nil, testLogger())

	res := svc.Analyze(context.Background(), PatientInput{Symptoms: "mild sore throat for two days"})

	assert.Equal(t, SourceFallbackRoutine, res.Source)
}

func TestAnalyzeDegradedModeSkipsGeneration(t *testing.T) {
	svc := NewService(&fakeRepo{}, nil, nil, testLogger())
	require.False(t, svc.Ready())

	res := svc.Analyze(context.Background(), PatientInput{Symptoms: "vomiting and dizzy since lunch"})

	assert.Equal(t, SourceFallbackGastro, res.Source)
}

func TestAnalyzeSurvivesStorageFailure(t *testing.T) {
	repo := &fakeRepo{saveErr: errors.New("db down")}
	svc := NewService(repo, &fakeGenerator{raw: validResponse}, nil, testLogger())

	res := svc.Analyze(context.Background(), PatientInput{Symptoms: "runny nose and sneezing"})

	assert.Equal(t, SourceModel, res.Source)
}

func TestAnalyzeAssignsSessionID(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo, &fakeGenerator{raw: validResponse}, nil, testLogger())

	res := svc.Analyze(context.Background(), PatientInput{Symptoms: "runny nose and sneezing"})

	assert.NotEmpty(t, res.Input.SessionID)
}

func TestAnalyzeSendsUrgentAlert(t *testing.T) {
	alerts := &fakeAlerts{sent: make(chan AnalysisResult, 1)}
	svc := NewService(&fakeRepo{}, &fakeGenerator{err: errors.New("down")}, alerts, testLogger())

	res := svc.Analyze(context.Background(), PatientInput{Symptoms: "severe bleeding from my leg"})
	require.Equal(t, UrgencyUrgent, res.Urgency)

	select {
	case sent := <-alerts.sent:
		assert.Equal(t, res.Urgency, sent.Urgency)
	case <-time.After(time.Second):
		t.Fatal("expected urgent alert to be sent")
	}
}

func TestAnalyzeDoesNotAlertNonUrgent(t *testing.T) {
	alerts := &fakeAlerts{sent: make(chan AnalysisResult, 1)}
	svc := NewService(&fakeRepo{}, &fakeGenerator{raw: validResponse}, alerts, testLogger())

	svc.Analyze(context.Background(), PatientInput{Symptoms: "runny nose and sneezing"})

	select {
	case <-alerts.sent:
		t.Fatal("no alert expected for routine result")
	case <-time.After(50 * time.Millisecond):
	}
}

// End-to-end: chest pain with generation unavailable must resolve to the
// fixed emergency response.
func TestAnalyzeEmergencyWithGenerationUnavailable(t *testing.T) {
	svc := NewService(&fakeRepo{}, &fakeGenerator{err: errors.New("network error")}, nil, testLogger())

	res := svc.Analyze(context.Background(), PatientInput{Symptoms: "I have chest pain and shortness of breath"})

	assert.Equal(t, UrgencyUrgent, res.Urgency)
	require.Len(t, res.Conditions, 1)
	assert.Equal(t, "⚠️ IMMEDIATE MEDICAL ATTENTION REQUIRED", res.Conditions[0].Name)
	require.Len(t, res.Recommendations, 6)
	assert.Equal(t, "🚨 Call emergency services (911/112) immediately", res.Recommendations[0])
}

func TestHistoryTruncatesSymptoms(t *testing.T) {
	long := ""
	for i := 0; i < 30; i++ {
		long += "very long "
	}
	repo := &fakeRepo{history: []HistoryEntry{{Symptoms: long}}}
	svc := NewService(repo, nil, nil, testLogger())

	entries, err := svc.History(context.Background(), "s1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Symptoms, 103)
	assert.True(t, len(entries[0].Symptoms) < len(long))
}
