package messaging

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cfcare/prognosis/pkg/events"
	"github.com/cfcare/prognosis/pkg/kafka"
)

// KafkaPublisher implements port.EventPublisher on top of pkg/kafka.
// Events are keyed by aggregate ID so all events for one evaluation land on
// the same partition.
type KafkaPublisher struct {
	producer *kafka.Producer
	topic    string
	logger   *slog.Logger
}

// NewKafkaPublisher creates a new Kafka event publisher.
func NewKafkaPublisher(producer *kafka.Producer, topic string, logger *slog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		topic:    topic,
		logger:   logger,
	}
}

// Publish sends domain events to Kafka.
func (p *KafkaPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}

	messages := make([]kafka.Message, 0, len(evts))
	for _, evt := range evts {
		messages = append(messages, kafka.Message{
			Key:   []byte(evt.AggregateID().String()),
			Value: evt.Payload(),
			Headers: map[string]string{
				"event_id":   evt.EventID().String(),
				"event_type": evt.EventType(),
			},
		})

		p.logger.Info("publishing event",
			slog.String("event_type", evt.EventType()),
			slog.String("aggregate_id", evt.AggregateID().String()),
			slog.String("topic", p.topic),
		)
	}

	if err := p.producer.Publish(ctx, p.topic, messages...); err != nil {
		return fmt.Errorf("failed to publish events: %w", err)
	}

	return nil
}
