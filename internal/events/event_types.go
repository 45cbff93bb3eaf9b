package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered    EventType = "user_registered"
	EventSpecialistCreated EventType = "specialist_created"
	EventSpecialistDeleted EventType = "specialist_deleted"
	EventMediaRemoved      EventType = "media_removed"
)

// Event represents a domain event emitted by services.
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// SpecialistCreatedPayload payload.
type SpecialistCreatedPayload struct {
	SpecialistID string  `json:"specialist_id"`
	Slug         string  `json:"slug"`
	FinalPrice   float64 `json:"final_price"`
}

// SpecialistDeletedPayload payload.
type SpecialistDeletedPayload struct {
	SpecialistID string `json:"specialist_id"`
}

// MediaRemovedPayload lists storage keys whose objects should be cleaned
// up after the corresponding rows were soft-deleted.
type MediaRemovedPayload struct {
	SpecialistID string   `json:"specialist_id,omitempty"`
	StorageKeys  []string `json:"storage_keys"`
}
