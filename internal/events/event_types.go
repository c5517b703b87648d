package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered    EventType = "user_registered"
	EventUserAuthenticated EventType = "user_authenticated"
	EventTokenRefreshed    EventType = "token_refreshed"
)

// Event represents a domain event emitted by the auth flows.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Principal string      `json:"principal"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

// TokenRefreshedPayload payload.
type TokenRefreshedPayload struct {
	Rotated bool `json:"rotated"`
}
