package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"plant_buddy/internal/models"

	"github.com/google/uuid"
)

type ReminderSQLite struct {
	db *sql.DB
}

func NewReminderSQLite(db *sql.DB) *ReminderSQLite { return &ReminderSQLite{db: db} }

var _ ReminderRepo = (*ReminderSQLite)(nil)

const (
	reminderColumns = `id, plant_id, kind, note, next_at, repeat_days, created_at`

	insertReminderSQL = `
		INSERT INTO reminders (id, plant_id, kind, note, next_at, repeat_days, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	selectRemindersSQL = `SELECT ` + reminderColumns + ` FROM reminders ORDER BY next_at ASC`
	selectDueSQL       = `SELECT ` + reminderColumns + ` FROM reminders WHERE next_at <= ?`

	// the next_at guard makes the advance a compare-and-swap on the row
	advanceReminderSQL = `UPDATE reminders SET next_at = ? WHERE id = ? AND next_at = ?`
	deleteReminderSQL  = `DELETE FROM reminders WHERE id = ?`
)

// Create inserts a reminder, filling ID and CreatedAt when empty.
func (r *ReminderSQLite) Create(ctx context.Context, rem models.Reminder) (models.Reminder, error) {
	if rem.ID == "" {
		rem.ID = uuid.NewString()
	}
	if rem.CreatedAt.IsZero() {
		rem.CreatedAt = time.Now()
	}
	rem.CreatedAt = truncateMillis(rem.CreatedAt)
	rem.NextAt = truncateMillis(rem.NextAt)

	_, err := r.db.ExecContext(ctx, insertReminderSQL,
		rem.ID,
		rem.PlantID,
		rem.Kind,
		nullableString(rem.Note),
		formatTime(rem.NextAt),
		rem.RepeatDays,
		formatTime(rem.CreatedAt),
	)
	if err != nil {
		return models.Reminder{}, fmt.Errorf("insert reminder: %w", err)
	}
	return rem, nil
}

// List returns all reminders, soonest first.
func (r *ReminderSQLite) List(ctx context.Context) ([]models.Reminder, error) {
	return r.query(ctx, selectRemindersSQL)
}

// FindDue returns every reminder whose next_at is at or before now.
func (r *ReminderSQLite) FindDue(ctx context.Context, now time.Time) ([]models.Reminder, error) {
	return r.query(ctx, selectDueSQL, formatTime(now))
}

// Advance moves next_at from prev to next. It returns ErrStaleReminder if
// the row no longer holds prev.
func (r *ReminderSQLite) Advance(ctx context.Context, id string, prev, next time.Time) error {
	res, err := r.db.ExecContext(ctx, advanceReminderSQL, formatTime(next), id, formatTime(prev))
	if err != nil {
		return fmt.Errorf("advance reminder %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("advance reminder %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return ErrStaleReminder
	}
	return nil
}

// Delete removes a reminder; it reports whether a row existed.
func (r *ReminderSQLite) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteReminderSQL, id)
	if err != nil {
		return false, fmt.Errorf("delete reminder %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete reminder %s: rows affected: %w", id, err)
	}
	return n > 0, nil
}

func (r *ReminderSQLite) query(ctx context.Context, q string, args ...any) ([]models.Reminder, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query reminders: %w", err)
	}
	defer rows.Close()

	out := make([]models.Reminder, 0, 16)
	for rows.Next() {
		var (
			rem       models.Reminder
			note      sql.NullString
			nextAt    string
			createdAt string
		)
		if err := rows.Scan(&rem.ID, &rem.PlantID, &rem.Kind, &note, &nextAt, &rem.RepeatDays, &createdAt); err != nil {
			return nil, fmt.Errorf("scan reminder: %w", err)
		}
		rem.Note = note.String
		if rem.NextAt, err = parseTime(nextAt); err != nil {
			return nil, err
		}
		if rem.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		out = append(out, rem)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
