package service

import (
	"context"
	"encoding/json"
	"fmt"

	"plant_buddy/internal/metrics"
	"plant_buddy/internal/models"
	"plant_buddy/internal/repository"
)

type AlertService struct {
	repo repository.AlertRepo
}

func NewAlertService(repo repository.AlertRepo) *AlertService {
	return &AlertService{repo: repo}
}

// List returns alerts newest first, capped at repository.MaxAlertsPerList.
func (s *AlertService) List(ctx context.Context, f models.AlertFilter) ([]models.Alert, error) {
	if f.Limit < 0 {
		return nil, fmt.Errorf("%w: limit must be >= 0", ErrInvalidInput)
	}
	return s.repo.List(ctx, f)
}

func (s *AlertService) MarkRead(ctx context.Context, id string) (models.Alert, error) {
	a, err := s.repo.MarkRead(ctx, id)
	if err != nil {
		return models.Alert{}, err
	}
	if a == nil {
		return models.Alert{}, fmt.Errorf("alert %s: %w", id, ErrNotFound)
	}
	return *a, nil
}

// AlertEmitter persists evaluations at or above MinLevel. Lower levels are
// counted and dropped.
type AlertEmitter struct {
	repo     repository.AlertRepo
	MinLevel models.Level
	metrics  *metrics.Metrics
}

func NewAlertEmitter(repo repository.AlertRepo, minLevel models.Level, m *metrics.Metrics) *AlertEmitter {
	return &AlertEmitter{repo: repo, MinLevel: minLevel, metrics: m}
}

// Emit stores ev for plantID. It returns the stored alert, or nil when the
// evaluation is below the threshold.
func (e *AlertEmitter) Emit(ctx context.Context, plantID string, ev Evaluation) (*models.Alert, error) {
	if !ev.Level.AtLeast(e.MinLevel) {
		e.metrics.AlertSuppressed(string(ev.Level))
		return nil, nil
	}

	meta, err := json.Marshal(ev.Meta)
	if err != nil {
		return nil, fmt.Errorf("encode alert meta: %w", err)
	}
	a, err := e.repo.Create(ctx, models.Alert{
		PlantID: plantID,
		Title:   ev.Title,
		Message: ev.Message,
		Level:   ev.Level,
		Meta:    meta,
	})
	if err != nil {
		return nil, err
	}
	e.metrics.AlertEmitted(string(a.Level))
	return &a, nil
}
