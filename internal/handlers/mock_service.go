package handlers

import (
	"context"
	"io"
	"sync"

	"plant_buddy/internal/models"
	"plant_buddy/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockPlants struct {
	plant  models.Plant
	plants []models.Plant
	err    error

	lastInput  service.PlantInput
	lastID     string
	lastStatus string
}

func (m *mockPlants) Create(ctx context.Context, in service.PlantInput) (models.Plant, error) {
	m.lastInput = in
	return m.plant, m.err
}
func (m *mockPlants) List(ctx context.Context) ([]models.Plant, error) {
	return m.plants, m.err
}
func (m *mockPlants) Get(ctx context.Context, id string) (models.Plant, error) {
	m.lastID = id
	return m.plant, m.err
}
func (m *mockPlants) SetStatus(ctx context.Context, id, status string) (models.Plant, error) {
	m.lastID = id
	m.lastStatus = status
	return m.plant, m.err
}
func (m *mockPlants) Delete(ctx context.Context, id string) error {
	m.lastID = id
	return m.err
}

type mockReminders struct {
	reminder  models.Reminder
	reminders []models.Reminder
	err       error

	lastInput service.ReminderInput
	lastID    string
}

func (m *mockReminders) Create(ctx context.Context, in service.ReminderInput) (models.Reminder, error) {
	m.lastInput = in
	return m.reminder, m.err
}
func (m *mockReminders) List(ctx context.Context) ([]models.Reminder, error) {
	return m.reminders, m.err
}
func (m *mockReminders) Delete(ctx context.Context, id string) error {
	m.lastID = id
	return m.err
}

// mockAlerts is also read from the websocket goroutine, hence the lock.
type mockAlerts struct {
	alert  models.Alert
	alerts []models.Alert
	err    error

	mu         sync.Mutex
	lastFilter models.AlertFilter
	lastID     string
}

func (m *mockAlerts) List(ctx context.Context, f models.AlertFilter) ([]models.Alert, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastFilter = f
	return m.alerts, m.err
}
func (m *mockAlerts) filter() models.AlertFilter {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastFilter
}
func (m *mockAlerts) MarkRead(ctx context.Context, id string) (models.Alert, error) {
	m.lastID = id
	return m.alert, m.err
}

type mockCareLogs struct {
	log  models.CareLog
	logs []models.CareLog
	err  error

	lastPlantID  string
	lastFileName string
	lastBody     []byte
}

func (m *mockCareLogs) Upload(ctx context.Context, in service.UploadInput) (models.CareLog, error) {
	m.lastPlantID = in.PlantID
	m.lastFileName = in.FileName
	if in.Body != nil {
		m.lastBody, _ = io.ReadAll(in.Body)
	}
	return m.log, m.err
}
func (m *mockCareLogs) ListByPlant(ctx context.Context, plantID string) ([]models.CareLog, error) {
	m.lastPlantID = plantID
	return m.logs, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, Options{})
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
