package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"plant_buddy/internal/models"
	"plant_buddy/internal/service"
)

func TestPlantHandlers_CreateListGet(t *testing.T) {
	pl := &mockPlants{
		plant:  models.Plant{ID: "p1", Name: "Basil", Status: models.PlantActive, GrowthStage: "seedling"},
		plants: []models.Plant{{ID: "p1", Name: "Basil"}, {ID: "p2", Name: "Mint"}},
	}
	r := newTestRouter(&service.Service{Plants: pl})

	// POST → 200, input passed through
	body := bytes.NewBufferString(`{"name":"Basil","geo":{"city":"Lisbon"},"wateringIntervalDays":3}`)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/plants", body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("create status=%d, body=%s", w.Code, w.Body.String())
	}
	if pl.lastInput.Name != "Basil" || pl.lastInput.Geo == nil || pl.lastInput.Geo.City != "Lisbon" {
		t.Fatalf("unexpected input: %+v", pl.lastInput)
	}
	if pl.lastInput.WateringIntervalDays == nil || *pl.lastInput.WateringIntervalDays != 3 {
		t.Fatalf("wateringIntervalDays not passed: %+v", pl.lastInput.WateringIntervalDays)
	}
	var created models.Plant
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("unmarshal plant: %v", err)
	}
	if created.ID != "p1" || created.GrowthStage != "seedling" {
		t.Fatalf("unexpected plant: %+v", created)
	}

	// GET list → 200
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/plants", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("list status=%d", w.Code)
	}
	var list []models.Plant
	_ = json.Unmarshal(w.Body.Bytes(), &list)
	if len(list) != 2 {
		t.Fatalf("expected 2 plants, got %d", len(list))
	}

	// GET by id → 200, id forwarded
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/plants/p1", nil))
	if w.Code != http.StatusOK || pl.lastID != "p1" {
		t.Fatalf("get status=%d lastID=%q", w.Code, pl.lastID)
	}
}

func TestPlantHandlers_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		method   string
		path     string
		body     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "malformed json",
			method:   http.MethodPost,
			path:     "/api/plants",
			body:     `{"name":`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "validation error shown",
			method:   http.MethodPost,
			path:     "/api/plants",
			body:     `{}`,
			err:      fmt.Errorf("%w: plant name is required", service.ErrInvalidInput),
			wantCode: http.StatusBadRequest,
			wantMsg:  "invalid input: plant name is required",
		},
		{
			name:     "unknown plant",
			method:   http.MethodGet,
			path:     "/api/plants/nope",
			err:      fmt.Errorf("plant nope: %w", service.ErrNotFound),
			wantCode: http.StatusNotFound,
			wantMsg:  "plant nope: not found",
		},
		{
			name:     "storage failure hidden",
			method:   http.MethodGet,
			path:     "/api/plants",
			err:      errors.New("disk I/O error"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  errInternal,
		},
		{
			name:     "status without body",
			method:   http.MethodPatch,
			path:     "/api/plants/p1/status",
			body:     `{}`,
			wantCode: http.StatusBadRequest,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Plants: &mockPlants{err: tc.err}})

			w := httptest.NewRecorder()
			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			if w.Code != tc.wantCode {
				t.Fatalf("status: got %d, want %d (body=%s)", w.Code, tc.wantCode, w.Body.String())
			}
			var out errorResponse
			_ = json.Unmarshal(w.Body.Bytes(), &out)
			if out.Error == "" {
				t.Fatalf("expected error body, got %s", w.Body.String())
			}
			if tc.wantMsg != "" && out.Error != tc.wantMsg {
				t.Fatalf("error message: got %q, want %q", out.Error, tc.wantMsg)
			}
		})
	}
}

func TestPlantHandlers_SetStatusAndDelete(t *testing.T) {
	pl := &mockPlants{plant: models.Plant{ID: "p1", Status: models.PlantHarvested}}
	r := newTestRouter(&service.Service{Plants: pl})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/plants/p1/status", bytes.NewBufferString(`{"status":"harvested"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status code=%d, body=%s", w.Code, w.Body.String())
	}
	if pl.lastID != "p1" || pl.lastStatus != models.PlantHarvested {
		t.Fatalf("SetStatus got id=%q status=%q", pl.lastID, pl.lastStatus)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/plants/p2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("delete code=%d", w.Code)
	}
	var ok okResponse
	_ = json.Unmarshal(w.Body.Bytes(), &ok)
	if !ok.OK || pl.lastID != "p2" {
		t.Fatalf("delete response=%+v lastID=%q", ok, pl.lastID)
	}
}
