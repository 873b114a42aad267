package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"plant_buddy/internal/models"
	"plant_buddy/internal/repository"
)

// ReminderInput is the create payload for a reminder.
type ReminderInput struct {
	PlantID    string     `json:"plantId"`
	Kind       string     `json:"type"`
	Note       string     `json:"note"`
	NextAt     *time.Time `json:"nextAt"`
	RepeatDays int        `json:"repeatDays"`
}

type ReminderService struct {
	repo repository.ReminderRepo
}

func NewReminderService(repo repository.ReminderRepo) *ReminderService {
	return &ReminderService{repo: repo}
}

// Create validates and stores a reminder. Kind defaults to water.
func (s *ReminderService) Create(ctx context.Context, in ReminderInput) (models.Reminder, error) {
	in.PlantID = strings.TrimSpace(in.PlantID)
	if in.PlantID == "" {
		return models.Reminder{}, fmt.Errorf("%w: plantId is required", ErrInvalidInput)
	}
	if in.NextAt == nil || in.NextAt.IsZero() {
		return models.Reminder{}, fmt.Errorf("%w: nextAt is required", ErrInvalidInput)
	}
	if in.RepeatDays < 0 || in.RepeatDays > models.MaxRepeatDays {
		return models.Reminder{}, fmt.Errorf("%w: repeatDays must be between 0 and %d", ErrInvalidInput, models.MaxRepeatDays)
	}
	kind := strings.ToLower(strings.TrimSpace(in.Kind))
	if kind == "" {
		kind = models.ReminderWater
	}
	if !models.IsValidReminderKind(kind) {
		return models.Reminder{}, fmt.Errorf("%w: type must be water, nutrient or custom", ErrInvalidInput)
	}

	return s.repo.Create(ctx, models.Reminder{
		PlantID:    in.PlantID,
		Kind:       kind,
		Note:       strings.TrimSpace(in.Note),
		NextAt:     in.NextAt.UTC(),
		RepeatDays: in.RepeatDays,
	})
}

// List returns every reminder, soonest first.
func (s *ReminderService) List(ctx context.Context) ([]models.Reminder, error) {
	return s.repo.List(ctx)
}

func (s *ReminderService) Delete(ctx context.Context, id string) error {
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("reminder %s: %w", id, ErrNotFound)
	}
	return nil
}
