package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Session lifecycle event codes.
const (
	TypeSessionCompleted = "SESSION_COMPLETED"
	TypeSessionFailed    = "SESSION_FAILED"
)

// NewSessionCompleted builds the event published when a processing run
// finishes with artifacts ready. Counts carries the per-artifact totals
// shown in the notification email.
func NewSessionCompleted(sessionId, userId, sessionName, email string, notify bool, counts map[string]int) Event {
	return BaseEvent{
		Type: TypeSessionCompleted,
		Data: map[string]interface{}{
			"session_id":   sessionId,
			"user_id":      userId,
			"session_name": sessionName,
			"email":        email,
			"notify":       notify,
			"counts":       counts,
		},
		OccurredAt: time.Now(),
	}
}

func NewSessionFailed(sessionId, userId, sessionName, email string, notify bool, userMessage string) Event {
	return BaseEvent{
		Type: TypeSessionFailed,
		Data: map[string]interface{}{
			"session_id":   sessionId,
			"user_id":      userId,
			"session_name": sessionName,
			"email":        email,
			"notify":       notify,
			"message":      userMessage,
		},
		OccurredAt: time.Now(),
	}
}
