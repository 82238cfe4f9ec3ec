package service

import (
	"context"
	"fmt"

	"ai-studyprep-be/internal/pkg/logger"
	"ai-studyprep-be/internal/pkg/mailer"
	"ai-studyprep-be/pkg/events"
	pktNats "ai-studyprep-be/pkg/nats"
)

// NotificationService turns session lifecycle events into user-facing
// notifications. Today that means completion and failure emails for
// sessions that opted in.
type NotificationService struct {
	subscriber   *pktNats.Subscriber
	emailService mailer.IEmailService
	logger       logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, emailService mailer.IEmailService, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber:   sub,
		emailService: emailService,
		logger:       log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	payload := event.Payload()

	switch event.EventType() {
	case events.TypeSessionCompleted:
		return s.handleCompleted(payload)
	case events.TypeSessionFailed:
		return s.handleFailed(payload)
	default:
		// Not ours; other consumers may care.
		return nil
	}
}

func (s *NotificationService) handleCompleted(payload map[string]interface{}) error {
	notify, _ := payload["notify"].(bool)
	email, _ := payload["email"].(string)
	if !notify || email == "" {
		return nil
	}
	sessionName, _ := payload["session_name"].(string)

	counts := make(map[string]int)
	if raw, ok := payload["counts"].(map[string]interface{}); ok {
		for key, value := range raw {
			if n, ok := value.(float64); ok { // JSON numbers decode as float64
				counts[key] = int(n)
			}
		}
	}

	if err := s.emailService.SendCompletionEmail(email, sessionName, counts); err != nil {
		s.logger.Error("NotificationService", "Failed to send completion email", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return fmt.Errorf("send completion email: %w", err)
	}

	s.logger.Info("NotificationService", "Completion email sent", map[string]interface{}{"email": email})
	return nil
}

func (s *NotificationService) handleFailed(payload map[string]interface{}) error {
	notify, _ := payload["notify"].(bool)
	email, _ := payload["email"].(string)
	if !notify || email == "" {
		return nil
	}
	sessionName, _ := payload["session_name"].(string)
	reason, _ := payload["message"].(string)

	if err := s.emailService.SendFailureEmail(email, sessionName, reason); err != nil {
		s.logger.Error("NotificationService", "Failed to send failure email", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return fmt.Errorf("send failure email: %w", err)
	}
	return nil
}
