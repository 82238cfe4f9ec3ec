package service

import (
	"context"
	"testing"
	"time"

	"ai-studyprep-be/pkg/events"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmailService struct {
	completions []string
	failures    []string
	lastCounts  map[string]int
	lastReason  string
}

func (f *fakeEmailService) SendCompletionEmail(toEmail, sessionName string, counts map[string]int) error {
	f.completions = append(f.completions, toEmail)
	f.lastCounts = counts
	return nil
}

func (f *fakeEmailService) SendFailureEmail(toEmail, sessionName, reason string) error {
	f.failures = append(f.failures, toEmail)
	f.lastReason = reason
	return nil
}

func completedEvent(notify bool, email string) events.Event {
	// Mirror a bus round-trip: counts arrive as JSON-decoded float64s.
	return events.BaseEvent{
		Type: events.TypeSessionCompleted,
		Data: map[string]interface{}{
			"session_name": "Anatomy Review",
			"email":        email,
			"notify":       notify,
			"counts": map[string]interface{}{
				"questions": float64(12),
				"mnemonics": float64(3),
			},
		},
		OccurredAt: time.Now(),
	}
}

func TestNotificationServiceSendsCompletionEmail(t *testing.T) {
	emails := &fakeEmailService{}
	svc := NewNotificationService(nil, emails, nopLogger{})

	err := svc.handleEvent(context.Background(), completedEvent(true, "student@example.com"))
	require.NoError(t, err)

	require.Len(t, emails.completions, 1)
	assert.Equal(t, "student@example.com", emails.completions[0])
	assert.Equal(t, 12, emails.lastCounts["questions"])
	assert.Equal(t, 3, emails.lastCounts["mnemonics"])
}

func TestNotificationServiceRespectsOptOut(t *testing.T) {
	emails := &fakeEmailService{}
	svc := NewNotificationService(nil, emails, nopLogger{})

	require.NoError(t, svc.handleEvent(context.Background(), completedEvent(false, "student@example.com")))
	require.NoError(t, svc.handleEvent(context.Background(), completedEvent(true, "")))

	assert.Empty(t, emails.completions)
}

func TestNotificationServiceSendsFailureEmail(t *testing.T) {
	emails := &fakeEmailService{}
	svc := NewNotificationService(nil, emails, nopLogger{})

	event := events.BaseEvent{
		Type: events.TypeSessionFailed,
		Data: map[string]interface{}{
			"session_name": "Anatomy Review",
			"email":        "student@example.com",
			"notify":       true,
			"message":      "We could not read any text from this document.",
		},
		OccurredAt: time.Now(),
	}
	require.NoError(t, svc.handleEvent(context.Background(), event))

	require.Len(t, emails.failures, 1)
	assert.Equal(t, "We could not read any text from this document.", emails.lastReason)
}

func TestNotificationServiceIgnoresForeignEvents(t *testing.T) {
	emails := &fakeEmailService{}
	svc := NewNotificationService(nil, emails, nopLogger{})

	event := events.BaseEvent{Type: "USER_REGISTERED", Data: map[string]interface{}{}, OccurredAt: time.Now()}
	require.NoError(t, svc.handleEvent(context.Background(), event))
	assert.Empty(t, emails.completions)
	assert.Empty(t, emails.failures)
}
