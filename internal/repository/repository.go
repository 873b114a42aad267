package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"plant_buddy/internal/models"
)

var (
	// ErrStaleReminder is returned by Advance when the reminder was changed
	// or removed since it was read.
	ErrStaleReminder = errors.New("reminder changed since it was read")
)

type PlantRepo interface {
	Create(ctx context.Context, p models.Plant) (models.Plant, error)
	Get(ctx context.Context, id string) (*models.Plant, error)
	List(ctx context.Context) ([]models.Plant, error)
	ListActive(ctx context.Context) ([]models.Plant, error)
	Update(ctx context.Context, p models.Plant) error
	SetStatus(ctx context.Context, id, status string) (bool, error)
	SoftDelete(ctx context.Context, id string, at time.Time) (bool, error)
}

type ReminderRepo interface {
	Create(ctx context.Context, r models.Reminder) (models.Reminder, error)
	List(ctx context.Context) ([]models.Reminder, error)
	FindDue(ctx context.Context, now time.Time) ([]models.Reminder, error)
	Advance(ctx context.Context, id string, prev, next time.Time) error
	Delete(ctx context.Context, id string) (bool, error)
}

type AlertRepo interface {
	Create(ctx context.Context, a models.Alert) (models.Alert, error)
	List(ctx context.Context, f models.AlertFilter) ([]models.Alert, error)
	MarkRead(ctx context.Context, id string) (*models.Alert, error)
}

type CareLogRepo interface {
	Create(ctx context.Context, l models.CareLog) (models.CareLog, error)
	ListByPlant(ctx context.Context, plantID string) ([]models.CareLog, error)
}

type Repository struct {
	Plants    PlantRepo
	Reminders ReminderRepo
	Alerts    AlertRepo
	CareLogs  CareLogRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Plants:    NewPlantSQLite(db),
		Reminders: NewReminderSQLite(db),
		Alerts:    NewAlertSQLite(db),
		CareLogs:  NewCareLogSQLite(db),
	}
}
