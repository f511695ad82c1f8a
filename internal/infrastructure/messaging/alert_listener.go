package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cfcare/prognosis/internal/domain/event"
	"github.com/cfcare/prognosis/pkg/kafka"
)

// AlertListener consumes evaluation events and surfaces low-survival alerts
// for clinical follow-up. Other event types on the topic are ignored.
type AlertListener struct {
	consumer *kafka.Consumer
	logger   *slog.Logger
}

// NewAlertListener creates a listener on the given topic.
func NewAlertListener(cfg kafka.Config, topic string, logger *slog.Logger) *AlertListener {
	l := &AlertListener{logger: logger}
	l.consumer = kafka.NewConsumer(cfg, topic, l.handle, logger)
	return l
}

// Start blocks consuming messages until the context is canceled.
func (l *AlertListener) Start(ctx context.Context) error {
	return l.consumer.Start(ctx)
}

// Close closes the underlying consumer.
func (l *AlertListener) Close() error {
	return l.consumer.Close()
}

func (l *AlertListener) handle(_ context.Context, msg kafka.Message) error {
	if msg.Headers["event_type"] != event.EventTypeLowSurvivalDetected {
		return nil
	}

	var alert event.LowSurvivalDetected
	if err := json.Unmarshal(msg.Value, &alert); err != nil {
		return fmt.Errorf("failed to decode low survival alert: %w", err)
	}

	l.logger.Warn("low survival alert",
		slog.String("evaluation_id", alert.EvaluationID.String()),
		slog.String("patient_id", alert.PatientID.String()),
		slog.String("first_year_survival_percent", alert.FirstYearSurvivalPercent),
	)
	return nil
}
