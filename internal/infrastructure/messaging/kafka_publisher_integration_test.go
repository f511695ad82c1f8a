package messaging_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfcare/prognosis/internal/domain/event"
	"github.com/cfcare/prognosis/internal/infrastructure/messaging"
	"github.com/cfcare/prognosis/pkg/kafka"
	"github.com/cfcare/prognosis/pkg/testutil"
)

func TestKafkaPublisher_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container := testutil.NewKafkaContainer(ctx, t)
	defer container.Cleanup(t)

	const topic = "prognosis.events.test"
	cfg := kafka.Config{
		Brokers:       container.Brokers,
		ConsumerGroup: "prognosis-integration-test",
	}

	producer := kafka.NewProducer(cfg)
	defer producer.Close()

	logger := slog.Default()
	publisher := messaging.NewKafkaPublisher(producer, topic, logger)

	evaluationID := uuid.New()
	evt := event.NewLowSurvivalDetected(
		evaluationID, uuid.New(), uuid.New(), "8.45", time.Now().UTC())
	require.NoError(t, publisher.Publish(ctx, evt))

	received := make(chan kafka.Message, 1)
	consumer := kafka.NewConsumer(cfg, topic, func(_ context.Context, msg kafka.Message) error {
		received <- msg
		return nil
	}, logger)
	defer consumer.Close()

	consumeCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		_ = consumer.Start(consumeCtx)
	}()

	select {
	case msg := <-received:
		assert.Equal(t, evaluationID.String(), string(msg.Key))
		assert.Equal(t, event.EventTypeLowSurvivalDetected, msg.Headers["event_type"])
		assert.JSONEq(t, string(evt.Payload()), string(msg.Value))
	case <-time.After(30 * time.Second):
		t.Fatal("timed out waiting for published event")
	}
}
