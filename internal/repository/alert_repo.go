package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"plant_buddy/internal/models"

	"github.com/google/uuid"
)

type AlertSQLite struct {
	db *sql.DB
}

func NewAlertSQLite(db *sql.DB) *AlertSQLite { return &AlertSQLite{db: db} }

var _ AlertRepo = (*AlertSQLite)(nil)

// MaxAlertsPerList caps alert listings.
const MaxAlertsPerList = 200

const (
	alertColumns = `id, plant_id, title, message, level, meta, created_at, read`

	insertAlertSQL = `
		INSERT INTO alerts (id, plant_id, title, message, level, meta, created_at, read)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	markAlertReadSQL = `UPDATE alerts SET read = 1 WHERE id = ?`
	selectAlertSQL   = `SELECT ` + alertColumns + ` FROM alerts WHERE id = ?`
)

// Create inserts an alert. ID and CreatedAt are set when empty.
func (r *AlertSQLite) Create(ctx context.Context, a models.Alert) (models.Alert, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	a.CreatedAt = truncateMillis(a.CreatedAt)
	if a.Level == "" {
		a.Level = models.LevelInfo
	}

	var meta any
	if len(a.Meta) > 0 {
		if !json.Valid(a.Meta) {
			return models.Alert{}, fmt.Errorf("insert alert: metadata is not valid JSON")
		}
		meta = string(a.Meta)
	}

	_, err := r.db.ExecContext(ctx, insertAlertSQL,
		a.ID,
		nullableString(a.PlantID),
		a.Title,
		a.Message,
		string(a.Level),
		meta,
		formatTime(a.CreatedAt),
		a.Read,
	)
	if err != nil {
		return models.Alert{}, fmt.Errorf("insert alert: %w", err)
	}
	return a, nil
}

// List returns alerts newest first, optionally filtered by plant and unread
// state. Limit is clamped to (0, MaxAlertsPerList].
func (r *AlertSQLite) List(ctx context.Context, f models.AlertFilter) ([]models.Alert, error) {
	var (
		conds []string
		args  []any
	)
	if id := strings.TrimSpace(f.PlantID); id != "" {
		conds = append(conds, "plant_id = ?")
		args = append(args, id)
	}
	if f.UnreadOnly {
		conds = append(conds, "read = 0")
	}

	limit := f.Limit
	if limit <= 0 || limit > MaxAlertsPerList {
		limit = MaxAlertsPerList
	}

	q := `SELECT ` + alertColumns + ` FROM alerts`
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY created_at DESC LIMIT ?"
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	out := make([]models.Alert, 0, 32)
	for rows.Next() {
		a, err := scanAlert(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkRead flags an alert as read and returns it, or (nil, nil) if absent.
func (r *AlertSQLite) MarkRead(ctx context.Context, id string) (*models.Alert, error) {
	res, err := r.db.ExecContext(ctx, markAlertReadSQL, id)
	if err != nil {
		return nil, fmt.Errorf("mark alert %s read: %w", id, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, fmt.Errorf("mark alert %s read: rows affected: %w", id, err)
	} else if n == 0 {
		return nil, nil
	}

	a, err := scanAlert(r.db.QueryRowContext(ctx, selectAlertSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAlert(s rowScanner) (models.Alert, error) {
	var (
		a         models.Alert
		plantID   sql.NullString
		message   sql.NullString
		level     string
		meta      sql.NullString
		createdAt string
	)
	if err := s.Scan(&a.ID, &plantID, &a.Title, &message, &level, &meta, &createdAt, &a.Read); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Alert{}, err
		}
		return models.Alert{}, fmt.Errorf("scan alert: %w", err)
	}
	a.PlantID = plantID.String
	a.Message = message.String
	a.Level = models.Level(level)

	if meta.Valid && meta.String != "" {
		if json.Valid([]byte(meta.String)) {
			a.Meta = json.RawMessage(meta.String)
		} else {
			// keep malformed metadata visible instead of failing the listing
			quoted, _ := json.Marshal(meta.String)
			a.Meta = quoted
		}
	}

	t, err := parseTime(createdAt)
	if err != nil {
		return models.Alert{}, err
	}
	a.CreatedAt = t
	return a, nil
}
