package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/aldennoronha2228/postharvest/internal/config"
	"github.com/aldennoronha2228/postharvest/internal/engine"
	"github.com/aldennoronha2228/postharvest/internal/observability"
)

// Publisher forwards incident notifications to a Kafka topic so downstream
// consumers (dashboards, alerting) can react to trip events. It implements
// engine.IncidentNotifier.
type Publisher struct {
	writer  *kafkago.Writer
	timeout time.Duration
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewPublisher creates a Kafka producer for the configured incident topic.
func NewPublisher(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaIncidentTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Publisher{writer: w, timeout: cfg.KafkaWriteTimeout, logger: logger, metrics: metrics}
}

// IncidentAppended publishes one notification. Publishing is best-effort:
// the engine transaction has already committed, so a broker failure is
// logged and counted rather than surfaced to the caller.
func (p *Publisher) IncidentAppended(n engine.IncidentNotification) {
	msg, err := serializeToMessage(n)
	if err != nil {
		p.logger.Error("serialize incident notification failed", "error", err, "incident_id", n.Incident.ID)
		p.metrics.NotificationPublishes.WithLabelValues("error").Inc()
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("publish incident notification failed",
			"error", err,
			"incident_id", n.Incident.ID,
			"trip_id", n.TripID,
		)
		p.metrics.NotificationPublishes.WithLabelValues("error").Inc()
		return
	}
	p.metrics.NotificationPublishes.WithLabelValues("success").Inc()
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a notification into a Kafka message keyed by
// trip id, so one trip's incidents stay ordered within a partition.
func serializeToMessage(n engine.IncidentNotification) (kafkago.Message, error) {
	data, err := json.Marshal(n)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize incident notification: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(n.TripID),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "severity", Value: []byte(n.Incident.Severity)},
			{Key: "origin", Value: []byte(n.Incident.Origin)},
			{Key: "incident_time", Value: []byte(n.Incident.Time.Format(time.RFC3339))},
		},
	}, nil
}
