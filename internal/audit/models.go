package audit

import "time"

// EventName identifies what happened.
type EventName string

const (
	// EventUserRegistered is emitted once a new user has been written.
	EventUserRegistered EventName = "user_registered"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	Action    EventName `json:"action"`
	Subject   string    `json:"subject"`
	UserID    int64     `json:"user_id,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	ClientIP  string    `json:"client_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}
