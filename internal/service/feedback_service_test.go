package service

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"elecciones-rag-be/internal/dto"
)

type scoreCall struct {
	traceID string
	value   int
	comment string
}

type recordingSink struct {
	mu     sync.Mutex
	scores []scoreCall
}

func (s *recordingSink) StartTrace(ctx context.Context, name, sessionID, userID string) (context.Context, string, func(map[string]string)) {
	return ctx, "", func(map[string]string) {}
}

func (s *recordingSink) StartSpan(ctx context.Context, name string) (context.Context, func(map[string]string)) {
	return ctx, func(map[string]string) {}
}

func (s *recordingSink) Score(traceID string, value int, comment string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scores = append(s.scores, scoreCall{traceID: traceID, value: value, comment: comment})
}

func (s *recordingSink) recorded() []scoreCall {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]scoreCall(nil), s.scores...)
}

func TestFeedback_SubmitReachesSink(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	sink := &recordingSink{}
	quiet := log.New(io.Discard, "", 0)

	consumer := NewFeedbackConsumer(pubSub, sink, quiet)
	require.NoError(t, consumer.Consume(context.Background()))

	svc := NewFeedbackService(pubSub, quiet)
	require.NoError(t, svc.Submit(context.Background(), &dto.FeedbackRequest{
		TraceID: "trace-123",
		Score:   1,
		Comment: "muy útil",
	}))

	assert.Eventually(t, func() bool {
		return len(sink.recorded()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	got := sink.recorded()[0]
	assert.Equal(t, "trace-123", got.traceID)
	assert.Equal(t, 1, got.value)
	assert.Equal(t, "muy útil", got.comment)
}

func TestFeedback_InvalidPayloadIsAckedAndSkipped(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	sink := &recordingSink{}
	quiet := log.New(io.Discard, "", 0)

	consumer := NewFeedbackConsumer(pubSub, sink, quiet)
	require.NoError(t, consumer.Consume(context.Background()))

	publishRaw(t, pubSub, []byte("not json"))

	svc := NewFeedbackService(pubSub, quiet)
	require.NoError(t, svc.Submit(context.Background(), &dto.FeedbackRequest{TraceID: "after-bad", Score: -1}))

	assert.Eventually(t, func() bool {
		return len(sink.recorded()) == 1
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, "after-bad", sink.recorded()[0].traceID)
}

func publishRaw(t *testing.T, pubSub *gochannel.GoChannel, payload []byte) {
	t.Helper()
	msg := message.NewMessage(watermill.NewUUID(), payload)
	require.NoError(t, pubSub.Publish(FeedbackTopicName, msg))
}
