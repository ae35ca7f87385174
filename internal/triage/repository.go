package triage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"
)

// HistoryEntry is one row of a session's query history.
type HistoryEntry struct {
	Timestamp  time.Time   `json:"timestamp"`
	Symptoms   string      `json:"symptoms"`
	Conditions []Condition `json:"conditions"`
	Urgency    Urgency     `json:"urgency"`
	Age        string      `json:"age,omitempty"`
	Gender     string      `json:"gender,omitempty"`
}

// Stats aggregates stored queries by urgency.
type Stats struct {
	TotalQueries     int            `json:"total_queries"`
	UrgencyBreakdown map[string]int `json:"urgency_breakdown"`
	Timestamp        time.Time      `json:"timestamp"`
}

type Repository interface {
	SaveQuery(ctx context.Context, res AnalysisResult) error
	HistoryBySession(ctx context.Context, sessionID string, limit int) ([]HistoryEntry, error)
	Stats(ctx context.Context) (*Stats, error)
}

type postgresRepo struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) SaveQuery(ctx context.Context, res AnalysisResult) error {
	conditionsJSON, err := json.Marshal(res.Conditions)
	if err != nil {
		return fmt.Errorf("failed to marshal conditions: %w", err)
	}
	recommendationsJSON, err := json.Marshal(res.Recommendations)
	if err != nil {
		return fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	query := `
		INSERT INTO symptom_queries
			(ts, symptoms, age, gender, duration, severity,
			 conditions, recommendations, urgency_level, source, session_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err = r.db.ExecContext(ctx, query,
		res.Timestamp,
		res.Input.Symptoms,
		string(res.Input.Age),
		res.Input.Gender,
		res.Input.Duration,
		res.Input.Severity,
		conditionsJSON,
		recommendationsJSON,
		string(res.Urgency),
		string(res.Source),
		res.Input.SessionID,
	)
	return err
}

func (r *postgresRepo) HistoryBySession(ctx context.Context, sessionID string, limit int) ([]HistoryEntry, error) {
	query := `
		SELECT ts, symptoms, conditions, urgency_level, age, gender
		FROM symptom_queries
		WHERE session_id = $1
		ORDER BY ts DESC
		LIMIT $2
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []HistoryEntry{}
	for rows.Next() {
		var e HistoryEntry
		var conditionsJSON []byte
		var age, gender sql.NullString

		if err := rows.Scan(&e.Timestamp, &e.Symptoms, &conditionsJSON, &e.Urgency, &age, &gender); err != nil {
			return nil, err
		}
		if len(conditionsJSON) > 0 {
			if err := json.Unmarshal(conditionsJSON, &e.Conditions); err != nil {
				return nil, fmt.Errorf("failed to unmarshal conditions: %w", err)
			}
		}
		e.Age = age.String
		e.Gender = gender.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *postgresRepo) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		UrgencyBreakdown: map[string]int{},
		Timestamp:        time.Now().UTC(),
	}

	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM symptom_queries`).Scan(&stats.TotalQueries); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT urgency_level, COUNT(*)
		FROM symptom_queries
		GROUP BY urgency_level
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var urgency string
		var count int
		if err := rows.Scan(&urgency, &count); err != nil {
			return nil, err
		}
		stats.UrgencyBreakdown[urgency] = count
	}
	return stats, rows.Err()
}
