// Package notify delivers reminder notifications to pluggable sinks.
package notify

import (
	"context"
	"errors"
	"time"

	"plant_buddy/internal/logger"
)

// Notification is the payload produced when a reminder fires.
type Notification struct {
	ReminderID string    `json:"reminderId"`
	PlantID    string    `json:"plantId"`
	PlantName  string    `json:"plantName"`
	Kind       string    `json:"kind"`
	Note       string    `json:"note"`
	FiredAt    time.Time `json:"firedAt"`
}

// Notifier delivers one notification.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the application log.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: logger.OrNop(log)}
}

func (l *LogNotifier) Notify(_ context.Context, n Notification) error {
	l.log.Infow("reminder_fired",
		"plant", n.PlantName,
		"kind", n.Kind,
		"note", n.Note,
		"reminder_id", n.ReminderID,
	)
	return nil
}

// Multi fans a notification out to every sink and joins their errors.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, sink := range m {
		if sink == nil {
			continue
		}
		if err := sink.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
