package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"plant_buddy/internal/models"
)

func TestAlertEmitter_Threshold(t *testing.T) {
	tests := []struct {
		min     models.Level
		level   models.Level
		persist bool
	}{
		{models.LevelWarning, models.LevelInfo, false},
		{models.LevelWarning, models.LevelWarning, true},
		{models.LevelWarning, models.LevelCritical, true},
		{models.LevelCritical, models.LevelWarning, false},
		{models.LevelInfo, models.LevelInfo, true},
	}
	for _, tc := range tests {
		repo := &fakeAlertRepo{}
		e := NewAlertEmitter(repo, tc.min, nil)

		a, err := e.Emit(context.Background(), "p1", Evaluation{Level: tc.level, Title: "t", Message: "m"})
		if err != nil {
			t.Fatalf("Emit: %v", err)
		}
		if got := a != nil; got != tc.persist || len(repo.created) != boolToInt(tc.persist) {
			t.Fatalf("min=%s level=%s: persisted=%v, want %v", tc.min, tc.level, got, tc.persist)
		}
	}
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func TestAlertEmitter_StoresSnapshotAsMeta(t *testing.T) {
	repo := &fakeAlertRepo{}
	e := NewAlertEmitter(repo, models.LevelWarning, nil)

	snap := snapshot(42, 50, 0, 2)
	snap.Raw = json.RawMessage(`{"name":"Delhi"}`)
	ev := EvaluateRisk(models.Plant{ID: "p1", Name: "Basil"}, snap)

	a, err := e.Emit(context.Background(), "p1", ev)
	if err != nil || a == nil {
		t.Fatalf("Emit: %v %v", a, err)
	}
	var meta models.WeatherSnapshot
	if err := json.Unmarshal(a.Meta, &meta); err != nil {
		t.Fatalf("meta: %v", err)
	}
	if meta.TempC != 42 || string(meta.Raw) != `{"name":"Delhi"}` {
		t.Fatalf("unexpected meta: %+v", meta)
	}
	if a.PlantID != "p1" || a.Title != "Weather alert for Basil" || a.Level != models.LevelCritical {
		t.Fatalf("unexpected alert: %+v", a)
	}
}

func TestAlertService_MarkRead(t *testing.T) {
	repo := &fakeAlertRepo{read: map[string]models.Alert{"a1": {ID: "a1", Title: "x"}}}
	s := NewAlertService(repo)

	a, err := s.MarkRead(context.Background(), "a1")
	if err != nil || !a.Read {
		t.Fatalf("MarkRead: %+v %v", a, err)
	}
	if _, err := s.MarkRead(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestAlertService_List(t *testing.T) {
	repo := &fakeAlertRepo{}
	s := NewAlertService(repo)

	if _, err := s.List(context.Background(), models.AlertFilter{Limit: -1}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("want ErrInvalidInput, got %v", err)
	}
	f := models.AlertFilter{PlantID: "p1", UnreadOnly: true, Limit: 20}
	if _, err := s.List(context.Background(), f); err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(repo.listed) != 1 || repo.listed[0] != f {
		t.Fatalf("filter not passed through: %+v", repo.listed)
	}
}
