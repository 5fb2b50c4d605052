package entities

import (
	"time"
)

// SearchEvent represents a single search interaction for analytics.
type SearchEvent struct {
	ID          string    `json:"id" db:"id"`
	Query       string    `json:"query" db:"query"`
	Category    Category  `json:"category" db:"category"`
	ResultCount int       `json:"result_count" db:"result_count"`
	LatencyMs   int64     `json:"latency_ms" db:"latency_ms"`
	SessionID   string    `json:"session_id,omitempty" db:"session_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// PopularQuery is an aggregated query with its search count.
type PopularQuery struct {
	Query string `json:"query" db:"query"`
	Count int    `json:"count" db:"count"`
}
