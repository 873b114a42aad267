package service

import (
	"context"
	"errors"

	"plant_buddy/internal/analyzer"
	"plant_buddy/internal/config"
	"plant_buddy/internal/logger"
	"plant_buddy/internal/metrics"
	"plant_buddy/internal/models"
	"plant_buddy/internal/notify"
	"plant_buddy/internal/repository"
)

var (
	// ErrInvalidInput marks request validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound marks lookups of records that do not exist.
	ErrNotFound = errors.New("not found")
)

// WeatherFetcher provides current conditions for a location.
type WeatherFetcher interface {
	Ready() error
	Fetch(ctx context.Context, loc models.Location) (models.WeatherSnapshot, error)
}

// ImageAnalyzer assesses an uploaded plant photo.
type ImageAnalyzer interface {
	Analyze(ctx context.Context, imageURL string) (analyzer.Analysis, error)
}

// Plants manages the plant registry.
type Plants interface {
	Create(ctx context.Context, in PlantInput) (models.Plant, error)
	List(ctx context.Context) ([]models.Plant, error)
	Get(ctx context.Context, id string) (models.Plant, error)
	SetStatus(ctx context.Context, id, status string) (models.Plant, error)
	Delete(ctx context.Context, id string) error
}

// Reminders is plain CRUD over the records the reminder job mutates.
type Reminders interface {
	Create(ctx context.Context, in ReminderInput) (models.Reminder, error)
	List(ctx context.Context) ([]models.Reminder, error)
	Delete(ctx context.Context, id string) error
}

// Alerts exposes persisted alerts to readers.
type Alerts interface {
	List(ctx context.Context, f models.AlertFilter) ([]models.Alert, error)
	MarkRead(ctx context.Context, id string) (models.Alert, error)
}

// CareLogs records photo uploads together with their analysis.
type CareLogs interface {
	Upload(ctx context.Context, in UploadInput) (models.CareLog, error)
	ListByPlant(ctx context.Context, plantID string) ([]models.CareLog, error)
}

// Deps are the collaborators NewService wires together.
type Deps struct {
	Repos    *repository.Repository
	Weather  WeatherFetcher
	Analyzer ImageAnalyzer
	Notifier notify.Notifier
	Metrics  *metrics.Metrics
	Log      *logger.Logger
	Config   config.Config
}

// Service aggregates the request-facing services and the two background jobs.
type Service struct {
	Plants    Plants
	Reminders Reminders
	Alerts    Alerts
	CareLogs  CareLogs

	ReminderJob *ReminderJob
	WeatherJob  *WeatherJob
}

func NewService(d Deps) *Service {
	log := logger.OrNop(d.Log)
	notifier := d.Notifier
	if notifier == nil {
		notifier = notify.NewLogNotifier(log.Named("notify"))
	}

	minLevel, ok := models.ParseLevel(d.Config.Alerts.MinLevel)
	if !ok {
		minLevel = models.LevelWarning
	}
	emitter := NewAlertEmitter(d.Repos.Alerts, minLevel, d.Metrics)

	return &Service{
		Plants:    NewPlantService(d.Repos.Plants),
		Reminders: NewReminderService(d.Repos.Reminders),
		Alerts:    NewAlertService(d.Repos.Alerts),
		CareLogs:  NewCareLogService(d.Repos.CareLogs, d.Repos.Plants, d.Analyzer, d.Config.Uploads, log.Named("carelog")),
		ReminderJob: NewReminderJob(d.Repos.Reminders, d.Repos.Plants, notifier,
			log.Named("reminders"), d.Metrics),
		WeatherJob: NewWeatherJob(d.Repos.Plants, d.Weather, emitter, WeatherJobOptions{
			Concurrency:  d.Config.Weather.Concurrency,
			FetchTimeout: d.Config.Weather.Timeout,
		}, log.Named("weather")),
	}
}
