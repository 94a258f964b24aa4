package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"elecciones-rag-be/internal/dto"
	"elecciones-rag-be/pkg/trace"
)

// FeedbackTopicName is the pub/sub topic carrying user feedback events.
const FeedbackTopicName = "USER_FEEDBACK"

type IFeedbackService interface {
	Submit(ctx context.Context, req *dto.FeedbackRequest) error
}

// feedbackService publishes feedback asynchronously so a slow trace sink
// can never delay the HTTP response.
type feedbackService struct {
	pubSub *gochannel.GoChannel
	logger *log.Logger
}

func NewFeedbackService(pubSub *gochannel.GoChannel, logger *log.Logger) IFeedbackService {
	return &feedbackService{
		pubSub: pubSub,
		logger: logger,
	}
}

func (s *feedbackService) Submit(ctx context.Context, req *dto.FeedbackRequest) error {
	payload, err := json.Marshal(dto.FeedbackMessage{
		TraceID: req.TraceID,
		Score:   req.Score,
		Comment: req.Comment,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(FeedbackTopicName, msg); err != nil {
		return fmt.Errorf("failed to publish feedback: %w", err)
	}

	s.logger.Printf("[FEEDBACK] Feedback queued for trace %s: score=%d", req.TraceID, req.Score)
	return nil
}

type IFeedbackConsumer interface {
	Consume(ctx context.Context) error
}

// feedbackConsumer drains the feedback topic and scores traces in the sink.
type feedbackConsumer struct {
	pubSub *gochannel.GoChannel
	sink   trace.Sink
	logger *log.Logger
}

func NewFeedbackConsumer(pubSub *gochannel.GoChannel, sink trace.Sink, logger *log.Logger) IFeedbackConsumer {
	return &feedbackConsumer{
		pubSub: pubSub,
		sink:   sink,
		logger: logger,
	}
}

func (c *feedbackConsumer) Consume(ctx context.Context) error {
	messages, err := c.pubSub.Subscribe(ctx, FeedbackTopicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			c.processMessage(msg)
		}
	}()

	return nil
}

func (c *feedbackConsumer) processMessage(msg *message.Message) {
	var payload dto.FeedbackMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		c.logger.Printf("[FEEDBACK] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	c.sink.Score(payload.TraceID, payload.Score, payload.Comment)
	msg.Ack()
}
