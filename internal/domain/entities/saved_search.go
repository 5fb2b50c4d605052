package entities

import (
	"time"
)

// SavedSearch is a named filter snapshot a user can return to, optionally
// with an alert when new listings match it.
type SavedSearch struct {
	ID             string    `json:"id" db:"id"`
	SessionID      string    `json:"session_id,omitempty" db:"session_id"`
	Name           string    `json:"name" db:"name"`
	Query          string    `json:"query" db:"query"`
	FilterSnapshot string    `json:"filter_snapshot" db:"filter_snapshot"`
	AlertEnabled   bool      `json:"alert_enabled" db:"alert_enabled"`
	AlertFrequency string    `json:"alert_frequency,omitempty" db:"alert_frequency"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}
