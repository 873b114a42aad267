package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"plant_buddy/internal/models"

	"github.com/google/uuid"
)

type CareLogSQLite struct {
	db *sql.DB
}

func NewCareLogSQLite(db *sql.DB) *CareLogSQLite { return &CareLogSQLite{db: db} }

var _ CareLogRepo = (*CareLogSQLite)(nil)

const (
	insertCareLogSQL = `
		INSERT INTO care_logs (id, plant_id, image_url, health_score, summary, analysis, raw_analysis, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	selectCareLogsSQL = `
		SELECT id, plant_id, image_url, health_score, summary, analysis, raw_analysis, created_at
		FROM care_logs WHERE plant_id = ? ORDER BY created_at DESC
	`
)

// careAdvice is the JSON shape of the analysis column.
type careAdvice struct {
	Issues               []string `json:"issues"`
	Recommendations      []string `json:"recommendations"`
	WateringSuggestion   string   `json:"wateringSuggestion,omitempty"`
	FertilizerSuggestion string   `json:"fertilizerSuggestion,omitempty"`
	TodayCare            string   `json:"todayCare,omitempty"`
}

func (r *CareLogSQLite) Create(ctx context.Context, l models.CareLog) (models.CareLog, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now()
	}
	l.CreatedAt = truncateMillis(l.CreatedAt)

	advice, err := json.Marshal(careAdvice{
		Issues:               l.Issues,
		Recommendations:      l.Recommendations,
		WateringSuggestion:   l.WateringSuggestion,
		FertilizerSuggestion: l.FertilizerSuggestion,
		TodayCare:            l.TodayCare,
	})
	if err != nil {
		return models.CareLog{}, fmt.Errorf("encode care advice: %w", err)
	}
	var raw any
	if len(l.RawAnalysis) > 0 {
		raw = string(l.RawAnalysis)
	}

	_, err = r.db.ExecContext(ctx, insertCareLogSQL,
		l.ID,
		l.PlantID,
		nullableString(l.ImageURL),
		l.HealthScore,
		nullableString(l.Summary),
		string(advice),
		raw,
		formatTime(l.CreatedAt),
	)
	if err != nil {
		return models.CareLog{}, fmt.Errorf("insert care log: %w", err)
	}
	return l, nil
}

// ListByPlant returns a plant's care logs, newest first.
func (r *CareLogSQLite) ListByPlant(ctx context.Context, plantID string) ([]models.CareLog, error) {
	rows, err := r.db.QueryContext(ctx, selectCareLogsSQL, plantID)
	if err != nil {
		return nil, fmt.Errorf("query care logs: %w", err)
	}
	defer rows.Close()

	out := make([]models.CareLog, 0, 16)
	for rows.Next() {
		var (
			l         models.CareLog
			imageURL  sql.NullString
			summary   sql.NullString
			advice    sql.NullString
			raw       sql.NullString
			createdAt string
		)
		if err := rows.Scan(&l.ID, &l.PlantID, &imageURL, &l.HealthScore, &summary, &advice, &raw, &createdAt); err != nil {
			return nil, fmt.Errorf("scan care log: %w", err)
		}
		l.ImageURL = imageURL.String
		l.Summary = summary.String
		if advice.Valid && advice.String != "" {
			var a careAdvice
			if err := json.Unmarshal([]byte(advice.String), &a); err == nil {
				l.Issues = a.Issues
				l.Recommendations = a.Recommendations
				l.WateringSuggestion = a.WateringSuggestion
				l.FertilizerSuggestion = a.FertilizerSuggestion
				l.TodayCare = a.TodayCare
			}
		}
		if raw.Valid && json.Valid([]byte(raw.String)) {
			l.RawAnalysis = json.RawMessage(raw.String)
		}
		if l.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
