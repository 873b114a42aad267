package service

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"plant_buddy/internal/analyzer"
	"plant_buddy/internal/models"
	"plant_buddy/internal/notify"
	"plant_buddy/internal/repository"
)

type fakeReminderRepo struct {
	items      map[string]models.Reminder
	findErr    error
	advanceErr map[string]error
	deleteErr  map[string]error
	created    []models.Reminder
}

func newFakeReminderRepo(rs ...models.Reminder) *fakeReminderRepo {
	f := &fakeReminderRepo{
		items:      map[string]models.Reminder{},
		advanceErr: map[string]error{},
		deleteErr:  map[string]error{},
	}
	for _, r := range rs {
		f.items[r.ID] = r
	}
	return f
}

func (f *fakeReminderRepo) Create(_ context.Context, r models.Reminder) (models.Reminder, error) {
	if r.ID == "" {
		r.ID = "rem-new"
	}
	f.created = append(f.created, r)
	f.items[r.ID] = r
	return r, nil
}

func (f *fakeReminderRepo) List(_ context.Context) ([]models.Reminder, error) {
	out := make([]models.Reminder, 0, len(f.items))
	for _, r := range f.items {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].NextAt.Before(out[j].NextAt) })
	return out, nil
}

func (f *fakeReminderRepo) FindDue(_ context.Context, now time.Time) ([]models.Reminder, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	var out []models.Reminder
	for _, r := range f.items {
		if !r.NextAt.After(now) {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeReminderRepo) Advance(_ context.Context, id string, prev, next time.Time) error {
	if err := f.advanceErr[id]; err != nil {
		return err
	}
	r, ok := f.items[id]
	if !ok || !r.NextAt.Equal(prev) {
		return repository.ErrStaleReminder
	}
	r.NextAt = next
	f.items[id] = r
	return nil
}

func (f *fakeReminderRepo) Delete(_ context.Context, id string) (bool, error) {
	if err := f.deleteErr[id]; err != nil {
		return false, err
	}
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

type fakePlantRepo struct {
	mu        sync.Mutex
	plants    map[string]models.Plant
	getErr    error
	listErr   error
	updateErr error
	updated   []models.Plant
}

func newFakePlantRepo(ps ...models.Plant) *fakePlantRepo {
	f := &fakePlantRepo{plants: map[string]models.Plant{}}
	for _, p := range ps {
		f.plants[p.ID] = p
	}
	return f
}

func (f *fakePlantRepo) Create(_ context.Context, p models.Plant) (models.Plant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p.ID == "" {
		p.ID = "plant-new"
	}
	f.plants[p.ID] = p
	return p, nil
}

func (f *fakePlantRepo) Get(_ context.Context, id string) (*models.Plant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.plants[id]
	if !ok || p.DeletedAt != nil {
		return nil, nil
	}
	return &p, nil
}

func (f *fakePlantRepo) List(_ context.Context) ([]models.Plant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Plant
	for _, p := range f.plants {
		if p.DeletedAt == nil {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakePlantRepo) ListActive(ctx context.Context) ([]models.Plant, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	all, _ := f.List(ctx)
	var out []models.Plant
	for _, p := range all {
		if p.Status == models.PlantActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePlantRepo) Update(_ context.Context, p models.Plant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.plants[p.ID] = p
	f.updated = append(f.updated, p)
	return nil
}

func (f *fakePlantRepo) SetStatus(_ context.Context, id, status string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plants[id]
	if !ok || p.DeletedAt != nil {
		return false, nil
	}
	p.Status = status
	f.plants[id] = p
	return true, nil
}

func (f *fakePlantRepo) SoftDelete(_ context.Context, id string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.plants[id]
	if !ok || p.DeletedAt != nil {
		return false, nil
	}
	p.DeletedAt = &at
	f.plants[id] = p
	return true, nil
}

type fakeAlertRepo struct {
	mu        sync.Mutex
	created   []models.Alert
	createErr error
	listed    []models.AlertFilter
	read      map[string]models.Alert
}

func (f *fakeAlertRepo) Create(_ context.Context, a models.Alert) (models.Alert, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return models.Alert{}, f.createErr
	}
	a.ID = "alert-" + a.PlantID
	f.created = append(f.created, a)
	return a, nil
}

func (f *fakeAlertRepo) List(_ context.Context, filter models.AlertFilter) ([]models.Alert, error) {
	f.listed = append(f.listed, filter)
	return f.created, nil
}

func (f *fakeAlertRepo) MarkRead(_ context.Context, id string) (*models.Alert, error) {
	a, ok := f.read[id]
	if !ok {
		return nil, nil
	}
	a.Read = true
	return &a, nil
}

type fakeCareLogRepo struct {
	created   []models.CareLog
	createErr error
}

func (f *fakeCareLogRepo) Create(_ context.Context, l models.CareLog) (models.CareLog, error) {
	if f.createErr != nil {
		return models.CareLog{}, f.createErr
	}
	l.ID = "log-1"
	f.created = append(f.created, l)
	return l, nil
}

func (f *fakeCareLogRepo) ListByPlant(_ context.Context, plantID string) ([]models.CareLog, error) {
	var out []models.CareLog
	for _, l := range f.created {
		if l.PlantID == plantID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeNotifier struct {
	got     []notify.Notification
	failFor map[string]error
}

func (f *fakeNotifier) Notify(_ context.Context, n notify.Notification) error {
	if err := f.failFor[n.ReminderID]; err != nil {
		return err
	}
	f.got = append(f.got, n)
	return nil
}

// fakeWeather answers by location key: "lat,lon", the city name, or "" for
// the default location.
type fakeWeather struct {
	readyErr error
	snaps    map[string]models.WeatherSnapshot
	errs     map[string]error
	delay    time.Duration

	mu       sync.Mutex
	asked    []string
	inFlight atomic.Int32
	maxSeen  atomic.Int32
}

func locKey(loc models.Location) string {
	if loc.HasCoordinates() {
		return num(*loc.Lat) + "," + num(*loc.Lon)
	}
	return loc.City
}

func (f *fakeWeather) Ready() error { return f.readyErr }

func (f *fakeWeather) Fetch(ctx context.Context, loc models.Location) (models.WeatherSnapshot, error) {
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		seen := f.maxSeen.Load()
		if n <= seen || f.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}

	key := locKey(loc)
	f.mu.Lock()
	f.asked = append(f.asked, key)
	f.mu.Unlock()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return models.WeatherSnapshot{}, ctx.Err()
		}
	}
	if err := f.errs[key]; err != nil {
		return models.WeatherSnapshot{}, err
	}
	return f.snaps[key], nil
}

func (f *fakeWeather) calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := append([]string(nil), f.asked...)
	sort.Strings(out)
	return out
}

type fakeAnalyzer struct {
	result analyzer.Analysis
	err    error
	urls   []string
}

func (f *fakeAnalyzer) Analyze(_ context.Context, imageURL string) (analyzer.Analysis, error) {
	f.urls = append(f.urls, imageURL)
	if f.err != nil {
		return analyzer.Failsafe(f.err), f.err
	}
	return f.result, nil
}

func ptr[T any](v T) *T { return &v }
