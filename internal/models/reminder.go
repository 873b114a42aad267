package models

import "time"

// Reminder kinds.
const (
	ReminderWater    = "water"
	ReminderNutrient = "nutrient"
	ReminderCustom   = "custom"
)

// Reminder is one scheduled care action for a plant.
type Reminder struct {
	ID         string    `json:"id"`
	PlantID    string    `json:"plantId"`
	Kind       string    `json:"type"` // water | nutrient | custom
	Note       string    `json:"note,omitempty"`
	NextAt     time.Time `json:"nextAt"`
	RepeatDays int       `json:"repeatDays"` // 0 => one-off
	CreatedAt  time.Time `json:"createdAt"`
}

// Recurring reports whether the reminder is rescheduled after firing.
func (r Reminder) Recurring() bool {
	return r.RepeatDays > 0
}

// MaxRepeatDays bounds RepeatDays accepted on create.
const MaxRepeatDays = 3650

// FollowingAt returns the next fire time after NextAt, anchored on NextAt
// itself rather than on the time the reminder actually fired. Days are
// calendar days in UTC.
func (r Reminder) FollowingAt() time.Time {
	return r.NextAt.UTC().AddDate(0, 0, r.RepeatDays)
}

// IsValidReminderKind reports whether k is a known reminder kind.
func IsValidReminderKind(k string) bool {
	switch k {
	case ReminderWater, ReminderNutrient, ReminderCustom:
		return true
	}
	return false
}
