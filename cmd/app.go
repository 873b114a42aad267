package main

import (
	"database/sql"
	"fmt"

	"plant_buddy/internal/analyzer"
	"plant_buddy/internal/config"
	"plant_buddy/internal/logger"
	"plant_buddy/internal/metrics"
	"plant_buddy/internal/notify"
	"plant_buddy/internal/repository"
	"plant_buddy/internal/repository/db"
	"plant_buddy/internal/service"
	"plant_buddy/internal/weather"
)

// app holds everything the subcommands share.
type app struct {
	cfg      config.Config
	log      *logger.Logger
	db       *sql.DB
	metrics  *metrics.Metrics
	services *service.Service
	kafka    *notify.KafkaNotifier
}

// newApp loads configuration and wires storage, providers and services.
func newApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	log := logger.Get(cfg.LogLevel)

	conn, err := db.InitDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("init sqlite: %w", err)
	}

	a := &app{cfg: cfg, log: log, db: conn, metrics: metrics.New()}

	notifier, err := a.buildNotifier()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	wc := weather.NewClient(weather.Options{
		APIKey:          cfg.Weather.APIKey,
		BaseURL:         cfg.Weather.BaseURL,
		DefaultLocation: cfg.Weather.DefaultLocation,
		Timeout:         cfg.Weather.Timeout,
	})
	if err := wc.Ready(); err != nil {
		log.Warnw("weather checks disabled until a key is configured", "err", err)
	}

	ac := analyzer.NewClient(analyzer.Options{
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		BaseURL: cfg.AI.BaseURL,
	})
	if !ac.Enabled() {
		log.Infow("image analysis running in demo mode")
	}

	a.services = service.NewService(service.Deps{
		Repos:    repository.NewRepository(conn),
		Weather:  wc,
		Analyzer: ac,
		Notifier: notifier,
		Metrics:  a.metrics,
		Log:      log,
		Config:   cfg,
	})
	return a, nil
}

// buildNotifier always logs fired reminders and also publishes them to Kafka
// when brokers are configured.
func (a *app) buildNotifier() (notify.Notifier, error) {
	logSink := notify.NewLogNotifier(a.log.Named("notify"))
	if len(a.cfg.Notify.KafkaBrokers) == 0 {
		return logSink, nil
	}
	k, err := notify.NewKafkaNotifier(a.cfg.Notify.KafkaBrokers, a.cfg.Notify.KafkaTopic)
	if err != nil {
		return nil, fmt.Errorf("kafka notifier: %w", err)
	}
	a.kafka = k
	a.log.Infow("publishing reminders to kafka",
		"brokers", a.cfg.Notify.KafkaBrokers, "topic", a.cfg.Notify.KafkaTopic)
	return notify.Multi{logSink, k}, nil
}

// close releases the notifier and the database. Errors are logged only.
func (a *app) close() {
	if a.kafka != nil {
		if err := a.kafka.Close(); err != nil {
			a.log.Errorw("failed to close kafka writer", "err", err)
		}
	}
	if err := a.db.Close(); err != nil {
		a.log.Errorw("failed to close sqlite", "err", err)
	}
	_ = a.log.Sync()
}
