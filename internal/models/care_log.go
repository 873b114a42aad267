package models

import (
	"encoding/json"
	"time"
)

// CareLog is one photo upload together with its health analysis.
type CareLog struct {
	ID                   string          `json:"id"`
	PlantID              string          `json:"plantId"`
	ImageURL             string          `json:"imageUrl"`
	HealthScore          int             `json:"healthScore"`
	Summary              string          `json:"summary"`
	Issues               []string        `json:"issues"`
	Recommendations      []string        `json:"recommendations"`
	WateringSuggestion   string          `json:"wateringSuggestion,omitempty"`
	FertilizerSuggestion string          `json:"fertilizerSuggestion,omitempty"`
	TodayCare            string          `json:"todayCare,omitempty"`
	RawAnalysis          json.RawMessage `json:"rawAnalysis,omitempty"`
	CreatedAt            time.Time       `json:"createdAt"`
}
