package entities

import (
	"time"
)

// ListingEventType classifies listing change events.
type ListingEventType string

const (
	ListingEventCreated ListingEventType = "listing.created"
	ListingEventUpdated ListingEventType = "listing.updated"
	ListingEventDeleted ListingEventType = "listing.deleted"
)

// ListingEvent is published on the event bus whenever a listing changes,
// so connected clients can refresh their snapshot.
type ListingEvent struct {
	ID         string           `json:"id"`
	Type       ListingEventType `json:"type"`
	ListingID  string           `json:"listing_id"`
	Category   Category         `json:"category"`
	OccurredAt time.Time        `json:"occurred_at"`
}
