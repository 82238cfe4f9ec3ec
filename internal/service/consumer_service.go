package service

import (
	"context"
	"encoding/json"
	"log"

	"ai-studyprep-be/internal/dto"
	"ai-studyprep-be/pkg/pipeline/recovery"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	processingService IProcessingService
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	processingService IProcessingService,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		processingService: processingService,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishProcessSessionMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing study session %s", payload.SessionId)

	if err := cs.processingService.Process(ctx, payload.SessionId); err != nil {
		decision := recovery.Classify(err, "session_processing")
		if recovery.ShouldRetry(decision.Action, 1, 2) {
			log.Printf("[ERROR] Session %s failed retriably: %v", payload.SessionId, err)
			msg.Nack()
			return
		}
		// Terminal failure was already recorded on the session row.
		log.Printf("[ERROR] Session %s failed: %v", payload.SessionId, err)
		msg.Ack()
		return
	}

	log.Printf("[INFO] Session %s processed", payload.SessionId)
	msg.Ack()
}
