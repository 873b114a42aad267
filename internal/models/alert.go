package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Level is an alert severity. Levels are ordered: info < warning < critical.
type Level string

const (
	LevelInfo     Level = "info"
	LevelWarning  Level = "warning"
	LevelCritical Level = "critical"
)

func (l Level) rank() int {
	switch l {
	case LevelWarning:
		return 1
	case LevelCritical:
		return 2
	default:
		return 0
	}
}

// AtLeast reports whether l is as severe as other or more.
func (l Level) AtLeast(other Level) bool {
	return l.rank() >= other.rank()
}

// Max returns the more severe of l and other.
func (l Level) Max(other Level) Level {
	if other.rank() > l.rank() {
		return other
	}
	return l
}

// ParseLevel normalizes s into a Level; ok is false for unknown values.
func ParseLevel(s string) (Level, bool) {
	switch lv := Level(strings.ToLower(strings.TrimSpace(s))); lv {
	case LevelInfo, LevelWarning, LevelCritical:
		return lv, true
	}
	return "", false
}

// Alert is one emitted risk or informational event.
type Alert struct {
	ID        string          `json:"id"`
	PlantID   string          `json:"plantId,omitempty"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Level     Level           `json:"level"`
	Meta      json.RawMessage `json:"meta,omitempty"`
	CreatedAt time.Time       `json:"createdAt"`
	Read      bool            `json:"read"`
}

// AlertFilter narrows alert listings.
type AlertFilter struct {
	PlantID    string
	UnreadOnly bool
	Limit      int
}
