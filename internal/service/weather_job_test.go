package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"plant_buddy/internal/logger"
	"plant_buddy/internal/metrics"
	"plant_buddy/internal/models"
	"plant_buddy/internal/weather"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observedLogger() (*logger.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return &logger.Logger{SugaredLogger: zap.New(core).Sugar()}, logs
}

func newTestWeatherJob(plants *fakePlantRepo, w *fakeWeather, alerts *fakeAlertRepo, minLevel models.Level, log *logger.Logger) *WeatherJob {
	return NewWeatherJob(plants, w, NewAlertEmitter(alerts, minLevel, metrics.New()), WeatherJobOptions{
		Concurrency:  2,
		FetchTimeout: time.Second,
	}, log)
}

func activePlant(id, name string, geo *models.GeoLocation) models.Plant {
	return models.Plant{ID: id, Name: name, Status: models.PlantActive, Geo: geo}
}

func TestWeatherJob_MissingCredentialAbortsPass(t *testing.T) {
	plants := newFakePlantRepo(activePlant("p1", "Basil", nil), activePlant("p2", "Mint", nil))
	w := &fakeWeather{readyErr: weather.ErrMissingAPIKey}
	alerts := &fakeAlertRepo{}
	log, logs := observedLogger()

	rep := newTestWeatherJob(plants, w, alerts, models.LevelWarning, log).RunOnce(context.Background())

	if !errors.Is(rep.Err, weather.ErrMissingAPIKey) {
		t.Fatalf("want configuration error, got %v", rep.Err)
	}
	if len(w.calls()) != 0 || len(alerts.created) != 0 || len(rep.Items) != 0 {
		t.Fatalf("no plant may be fetched or alerted: calls=%v alerts=%d items=%d", w.calls(), len(alerts.created), len(rep.Items))
	}
	if n := logs.FilterMessage("weather_pass_aborted").Len(); n != 1 {
		t.Fatalf("want the abort logged once, got %d", n)
	}
	if logs.FilterMessage("weather_plant_failed").Len() != 0 {
		t.Fatalf("no per-plant failures expected")
	}
}

func TestWeatherJob_InfoIsNotPersistedByDefault(t *testing.T) {
	plants := newFakePlantRepo(activePlant("p1", "Basil", &models.GeoLocation{City: "Pune"}))
	w := &fakeWeather{snaps: map[string]models.WeatherSnapshot{"Pune": snapshot(22, 60, 0, 1)}}
	alerts := &fakeAlertRepo{}

	rep := newTestWeatherJob(plants, w, alerts, models.LevelWarning, nil).RunOnce(context.Background())

	if len(alerts.created) != 0 {
		t.Fatalf("info evaluation must not be persisted: %+v", alerts.created)
	}
	if rep.Count(ItemOK) != 1 || rep.Items[0].Detail != "info suppressed" {
		t.Fatalf("unexpected report: %+v", rep.Items)
	}
}

func TestWeatherJob_InfoPersistedWhenPolicyAllows(t *testing.T) {
	plants := newFakePlantRepo(activePlant("p1", "Basil", nil))
	w := &fakeWeather{snaps: map[string]models.WeatherSnapshot{"": snapshot(22, 60, 0, 1)}}
	alerts := &fakeAlertRepo{}

	newTestWeatherJob(plants, w, alerts, models.LevelInfo, nil).RunOnce(context.Background())

	if len(alerts.created) != 1 || alerts.created[0].Level != models.LevelInfo {
		t.Fatalf("info digest policy should persist: %+v", alerts.created)
	}
}

func TestWeatherJob_PerPlantFailuresAreIsolated(t *testing.T) {
	plants := newFakePlantRepo(
		activePlant("p1", "Basil", &models.GeoLocation{City: "Delhi"}),
		activePlant("p2", "Chili", &models.GeoLocation{City: "Nowhere"}),
		activePlant("p3", "Fern", &models.GeoLocation{City: "Oslo"}),
	)
	w := &fakeWeather{
		snaps: map[string]models.WeatherSnapshot{
			"Delhi": snapshot(42, 50, 0, 2),
			"Oslo":  snapshot(-1, 80, 0, 3),
		},
		errs: map[string]error{"Nowhere": weather.ErrUpstream},
	}
	alerts := &fakeAlertRepo{}

	rep := newTestWeatherJob(plants, w, alerts, models.LevelWarning, nil).RunOnce(context.Background())

	if rep.Err != nil {
		t.Fatalf("per-plant failures must not fail the pass: %v", rep.Err)
	}
	if rep.Count(ItemFailed) != 1 || rep.Count(ItemOK) != 2 {
		t.Fatalf("unexpected report: %+v", rep.Items)
	}
	if len(alerts.created) != 2 {
		t.Fatalf("want 2 alerts, got %+v", alerts.created)
	}
	for _, a := range alerts.created {
		if a.Level != models.LevelCritical || len(a.Meta) == 0 {
			t.Fatalf("unexpected alert: %+v", a)
		}
	}
}

func TestWeatherJob_EmitErrorIsPerPlant(t *testing.T) {
	plants := newFakePlantRepo(activePlant("p1", "Basil", nil))
	w := &fakeWeather{snaps: map[string]models.WeatherSnapshot{"": snapshot(41, 50, 0, 0)}}
	alerts := &fakeAlertRepo{createErr: errors.New("database is locked")}

	rep := newTestWeatherJob(plants, w, alerts, models.LevelWarning, nil).RunOnce(context.Background())
	if rep.Count(ItemFailed) != 1 || rep.Err != nil {
		t.Fatalf("unexpected report: err=%v items=%+v", rep.Err, rep.Items)
	}
}

func TestWeatherJob_LocationPrecedence(t *testing.T) {
	plants := newFakePlantRepo(
		activePlant("coords", "A", &models.GeoLocation{Lat: ptr(28.6), Lon: ptr(77.2), City: "ignored"}),
		activePlant("city", "B", &models.GeoLocation{City: " Pune "}),
		activePlant("latonly", "C", &models.GeoLocation{Lat: ptr(1.0)}),
		activePlant("none", "D", nil),
	)
	calm := snapshot(22, 60, 0, 1)
	w := &fakeWeather{snaps: map[string]models.WeatherSnapshot{"28.6,77.2": calm, "Pune": calm, "": calm}}

	newTestWeatherJob(plants, w, &fakeAlertRepo{}, models.LevelWarning, nil).RunOnce(context.Background())

	got := w.calls()
	want := []string{"", "", "28.6,77.2", "Pune"}
	if len(got) != len(want) {
		t.Fatalf("calls = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("calls = %q, want %q", got, want)
		}
	}
}

func TestWeatherJob_InactivePlantsAreSkipped(t *testing.T) {
	harvested := activePlant("p2", "Corn", nil)
	harvested.Status = models.PlantHarvested
	plants := newFakePlantRepo(activePlant("p1", "Basil", nil), harvested)
	w := &fakeWeather{snaps: map[string]models.WeatherSnapshot{"": snapshot(22, 60, 0, 1)}}

	rep := newTestWeatherJob(plants, w, &fakeAlertRepo{}, models.LevelWarning, nil).RunOnce(context.Background())
	if len(rep.Items) != 1 || rep.Items[0].ID != "p1" {
		t.Fatalf("only active plants are evaluated: %+v", rep.Items)
	}
}

func TestWeatherJob_BoundedConcurrencyAndTimeout(t *testing.T) {
	var ps []models.Plant
	snaps := map[string]models.WeatherSnapshot{}
	for _, city := range []string{"a", "b", "c", "d", "e", "f"} {
		ps = append(ps, activePlant("p-"+city, city, &models.GeoLocation{City: city}))
		snaps[city] = snapshot(22, 60, 0, 1)
	}
	w := &fakeWeather{snaps: snaps, delay: 20 * time.Millisecond}

	job := newTestWeatherJob(newFakePlantRepo(ps...), w, &fakeAlertRepo{}, models.LevelWarning, nil)
	rep := job.RunOnce(context.Background())

	if rep.Count(ItemOK) != 6 {
		t.Fatalf("unexpected report: %+v", rep.Items)
	}
	if m := w.maxSeen.Load(); m > 2 {
		t.Fatalf("concurrency limit exceeded: %d in flight", m)
	}

	w.delay = time.Hour
	job.opts.FetchTimeout = 10 * time.Millisecond
	rep = job.RunOnce(context.Background())
	if rep.Count(ItemFailed) != 6 {
		t.Fatalf("hung fetches must fail per plant: %+v", rep.Items)
	}
	for _, it := range rep.Items {
		if !errors.Is(it.Err, context.DeadlineExceeded) {
			t.Fatalf("want deadline exceeded, got %v", it.Err)
		}
	}
}

func TestWeatherJob_ListErrorFailsPass(t *testing.T) {
	plants := newFakePlantRepo()
	plants.listErr = errors.New("no such table: plants")
	w := &fakeWeather{}

	if err := newTestWeatherJob(plants, w, &fakeAlertRepo{}, models.LevelWarning, nil).Run(context.Background()); err == nil {
		t.Fatalf("expected pass error")
	}
}
