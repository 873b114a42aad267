package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"plant_buddy/internal/logger"
	"plant_buddy/internal/models"
	"plant_buddy/internal/repository"

	"golang.org/x/sync/errgroup"
)

const (
	WeatherJobName = "weather"

	defaultWeatherConcurrency = 4
	defaultFetchTimeout       = 10 * time.Second
)

// WeatherJobOptions caps simultaneous provider calls and bounds each
// plant's fetch.
type WeatherJobOptions struct {
	Concurrency  int
	FetchTimeout time.Duration
}

// WeatherJob evaluates weather risk for every active plant and emits alerts.
type WeatherJob struct {
	plants  repository.PlantRepo
	weather WeatherFetcher
	emitter *AlertEmitter
	opts    WeatherJobOptions
	log     *logger.Logger
	now     func() time.Time
}

func NewWeatherJob(
	plants repository.PlantRepo,
	weather WeatherFetcher,
	emitter *AlertEmitter,
	opts WeatherJobOptions,
	log *logger.Logger,
) *WeatherJob {
	if opts.Concurrency < 1 {
		opts.Concurrency = defaultWeatherConcurrency
	}
	if opts.FetchTimeout <= 0 {
		opts.FetchTimeout = defaultFetchTimeout
	}
	return &WeatherJob{
		plants:  plants,
		weather: weather,
		emitter: emitter,
		opts:    opts,
		log:     logger.OrNop(log),
		now:     time.Now,
	}
}

// Run is the scheduler entry point.
func (j *WeatherJob) Run(ctx context.Context) error {
	return j.RunOnce(ctx).Error()
}

// RunOnce performs one evaluation pass. A missing provider credential aborts
// the pass before any plant is fetched. Per-plant failures are isolated.
func (j *WeatherJob) RunOnce(ctx context.Context) *BatchReport {
	rep := newReport(WeatherJobName, j.now())
	defer func() { rep.FinishedAt = time.Now() }()

	if err := j.weather.Ready(); err != nil {
		rep.Err = fmt.Errorf("weather pass aborted: %w", err)
		j.log.Errorw("weather_pass_aborted", "error", err)
		return rep
	}

	plants, err := j.plants.ListActive(ctx)
	if err != nil {
		rep.Err = fmt.Errorf("list active plants: %w", err)
		j.log.Errorw("weather_pass_failed", "error", err)
		return rep
	}

	results := make([]ItemResult, len(plants))
	var g errgroup.Group
	g.SetLimit(j.opts.Concurrency)
	for i, p := range plants {
		i, p := i, p
		g.Go(func() error {
			results[i] = j.evaluate(ctx, p)
			return nil
		})
	}
	_ = g.Wait()
	rep.Items = results

	j.log.Infow("weather_pass",
		"plants", len(plants),
		"ok", rep.Count(ItemOK),
		"failed", rep.Count(ItemFailed),
	)
	return rep
}

func (j *WeatherJob) evaluate(ctx context.Context, p models.Plant) ItemResult {
	fetchCtx, cancel := context.WithTimeout(ctx, j.opts.FetchTimeout)
	snap, err := j.weather.Fetch(fetchCtx, resolveLocation(p))
	cancel()
	if err != nil {
		j.log.Warnw("weather_plant_failed", "plant_id", p.ID, "error", err)
		return ItemResult{ID: p.ID, Status: ItemFailed, Detail: err.Error(), Err: err}
	}

	ev := EvaluateRisk(p, snap)
	a, err := j.emitter.Emit(ctx, p.ID, ev)
	if err != nil {
		j.log.Errorw("weather_alert_failed", "plant_id", p.ID, "error", err)
		return ItemResult{ID: p.ID, Status: ItemFailed, Detail: err.Error(), Err: err}
	}
	if a == nil {
		return ItemResult{ID: p.ID, Status: ItemOK, Detail: string(ev.Level) + " suppressed"}
	}
	j.log.Infow("weather_alert", "plant_id", p.ID, "level", a.Level, "message", a.Message)
	return ItemResult{ID: p.ID, Status: ItemOK, Detail: string(a.Level) + " alert " + a.ID}
}

// resolveLocation picks coordinates over a city. A zero Location tells the
// fetcher to use its default.
func resolveLocation(p models.Plant) models.Location {
	if p.Geo == nil {
		return models.Location{}
	}
	if p.Geo.Lat != nil && p.Geo.Lon != nil {
		return models.Location{Lat: p.Geo.Lat, Lon: p.Geo.Lon}
	}
	if city := strings.TrimSpace(p.Geo.City); city != "" {
		return models.Location{City: city}
	}
	return models.Location{}
}
