package triage

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/sirupsen/logrus"

	"symptom-checker/internal/platform/ratelimit"
)

const (
	minSymptomsLen = 10
	maxSymptomsLen = 2000
	historyLimit   = 10
)

type Handler struct {
	svc       Service
	modelName string
	log       *logrus.Logger
}

func NewHandler(svc Service, modelName string, log *logrus.Logger) *Handler {
	return &Handler{svc: svc, modelName: modelName, log: log}
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, err, message string) {
	respondJSON(w, status, errorResponse{Error: err, Message: message})
}

// Analyze handles POST /api/analyze. Input length bounds are enforced here at
// the transport boundary; past this point the analysis itself never fails.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var in PatientInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respondError(w, http.StatusBadRequest, "No data provided", "Request body must contain JSON data")
		return
	}

	trimmed := strings.TrimSpace(in.Symptoms)
	switch {
	case trimmed == "":
		respondError(w, http.StatusBadRequest, "Symptoms field is required",
			`Please provide a "symptoms" field in your request`)
		return
	case len(trimmed) < minSymptomsLen:
		respondError(w, http.StatusBadRequest, "Symptoms description too short",
			"Please provide more detailed symptom description (at least 10 characters)")
		return
	case len(in.Symptoms) > maxSymptomsLen:
		respondError(w, http.StatusBadRequest, "Symptoms description too long",
			"Please limit symptom description to 2000 characters")
		return
	}

	h.log.WithFields(logrus.Fields{
		"session_id": in.SessionID,
		"age":        in.Age,
		"gender":     in.Gender,
	}).Info("new symptom analysis request")

	res := h.svc.Analyze(r.Context(), in)

	h.log.WithFields(logrus.Fields{
		"urgency":    res.Urgency,
		"source":     res.Source,
		"conditions": len(res.Conditions),
	}).Info("analysis completed")

	respondJSON(w, http.StatusOK, res)
}

// History handles GET /api/history/{sessionID}.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if sessionID == "" {
		respondError(w, http.StatusBadRequest, "Session ID is required", "Provide a session id in the path")
		return
	}

	history, err := h.svc.History(r.Context(), sessionID, historyLimit)
	if err != nil {
		h.log.WithError(err).Error("failed to fetch history")
		respondError(w, http.StatusInternalServerError, "Unable to fetch history", "Database error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"session_id": sessionID,
		"count":      len(history),
		"history":    history,
	})
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		h.log.WithError(err).Error("failed to fetch stats")
		respondError(w, http.StatusInternalServerError, "Unable to fetch statistics", "Database error")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	aiStatus := "ready"
	message := "All systems operational"
	if !h.svc.Ready() {
		aiStatus = "not configured"
		message = "Configure GOOGLE_API_KEY"
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"ai_status": aiStatus,
		"ai_model":  h.modelName,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"message":   message,
	})
}

// Info handles GET /.
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"name":     "Healthcare Symptom Checker API",
		"version":  "1.0.0",
		"status":   "running",
		"ai_model": h.modelName,
		"endpoints": map[string]string{
			"health":  "/health",
			"analyze": "/api/analyze (POST)",
			"history": "/api/history/{sessionID} (GET)",
			"stats":   "/api/stats (GET)",
		},
	})
}

// RegisterRoutes mounts the API routes with the same per-route rate limits
// the hosted service used.
func RegisterRoutes(r chi.Router, h *Handler) {
	r.With(ratelimit.New(10, 5).Middleware).Post("/analyze", h.Analyze)
	r.With(ratelimit.New(30, 10).Middleware).Get("/history/{sessionID}", h.History)
	r.With(ratelimit.New(10, 5).Middleware).Get("/stats", h.Stats)
}
