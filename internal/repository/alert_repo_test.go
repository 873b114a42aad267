package repository

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"

	"plant_buddy/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
)

var alertCols = []string{"id", "plant_id", "title", "message", "level", "meta", "created_at", "read"}

func TestAlertCreate_DefaultsAndMeta(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAlertSQLite(db)

	meta := json.RawMessage(`{"tempC":42}`)
	mock.ExpectExec(regexp.QuoteMeta(insertAlertSQL)).
		WithArgs(sqlmock.AnyArg(), "p1", "Weather alert for Fern", "hot", "critical",
			`{"tempC":42}`, sqlmock.AnyArg(), false).
		WillReturnResult(sqlmock.NewResult(0, 1))

	got, err := repo.Create(ctx(t), models.Alert{
		PlantID: "p1",
		Title:   "Weather alert for Fern",
		Message: "hot",
		Level:   models.LevelCritical,
		Meta:    meta,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if got.ID == "" || got.CreatedAt.IsZero() || got.Read {
		t.Fatalf("unexpected defaults: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertCreate_RejectsInvalidMeta(t *testing.T) {
	db, _ := newMock(t)
	_, err := NewAlertSQLite(db).Create(ctx(t), models.Alert{Title: "x", Meta: json.RawMessage(`{bad`)})
	if err == nil {
		t.Fatalf("expected error for invalid meta")
	}
}

func TestAlertList_NoFilters_DefaultCap(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAlertSQLite(db)

	rows := sqlmock.NewRows(alertCols).
		AddRow("a2", "p1", "t2", "m2", "warning", `{"rainMm":12}`, "2025-03-02T00:00:00.000Z", false).
		AddRow("a1", nil, "t1", nil, "critical", "not-json", "2025-03-01T00:00:00.000Z", true)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT ` + alertColumns + ` FROM alerts ORDER BY created_at DESC LIMIT ?`)).
		WithArgs(MaxAlertsPerList).
		WillReturnRows(rows)

	got, err := repo.List(ctx(t), models.AlertFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 2 || got[0].ID != "a2" || got[1].ID != "a1" {
		t.Fatalf("unexpected: %+v", got)
	}
	if string(got[0].Meta) != `{"rainMm":12}` {
		t.Fatalf("meta = %s", got[0].Meta)
	}
	if string(got[1].Meta) != `"not-json"` {
		t.Fatalf("malformed meta should be kept as string, got %s", got[1].Meta)
	}
	if got[1].PlantID != "" || !got[1].Read || got[1].Level != models.LevelCritical {
		t.Fatalf("unexpected second row: %+v", got[1])
	}
	if !got[0].CreatedAt.Equal(time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("created_at = %v", got[0].CreatedAt)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertList_WithFilters(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAlertSQLite(db)

	q := `SELECT ` + alertColumns + ` FROM alerts WHERE plant_id = ? AND read = 0 ORDER BY created_at DESC LIMIT ?`
	mock.ExpectQuery(regexp.QuoteMeta(q)).
		WithArgs("p9", 5).
		WillReturnRows(sqlmock.NewRows(alertCols))

	got, err := repo.List(ctx(t), models.AlertFilter{PlantID: " p9 ", UnreadOnly: true, Limit: 5})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("want empty, got %d", len(got))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("mock expectations: %v", err)
	}
}

func TestAlertMarkRead(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(markAlertReadSQL)).WithArgs("a1").
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectQuery(regexp.QuoteMeta(selectAlertSQL)).WithArgs("a1").
			WillReturnRows(sqlmock.NewRows(alertCols).
				AddRow("a1", "p1", "t", "m", "warning", nil, "2025-03-01T00:00:00.000Z", true))

		a, err := NewAlertSQLite(db).MarkRead(ctx(t), "a1")
		if err != nil || a == nil || !a.Read {
			t.Fatalf("MarkRead: a=%+v err=%v", a, err)
		}
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(markAlertReadSQL)).WithArgs("nope").
			WillReturnResult(sqlmock.NewResult(0, 0))

		a, err := NewAlertSQLite(db).MarkRead(ctx(t), "nope")
		if err != nil || a != nil {
			t.Fatalf("want (nil, nil), got a=%+v err=%v", a, err)
		}
	})

	t.Run("db_error", func(t *testing.T) {
		db, mock := newMock(t)
		mock.ExpectExec(regexp.QuoteMeta(markAlertReadSQL)).WillReturnError(errors.New("down"))

		if _, err := NewAlertSQLite(db).MarkRead(ctx(t), "a1"); err == nil || !strings.Contains(err.Error(), "down") {
			t.Fatalf("expected wrapped error, got %v", err)
		}
	})
}
