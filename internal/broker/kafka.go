package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"gstrelay/internal/config"
	"gstrelay/internal/constants"
	"gstrelay/internal/logger"
	"gstrelay/pkg/metrics"
	"gstrelay/pkg/models"
	"gstrelay/pkg/tracing"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type KafkaProducer struct {
	writer messageWriter
	topic  string
	logger logger.Logger
}

func NewKafkaProducer(cfg config.KafkaConfig, log logger.Logger) *KafkaProducer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           constants.KafkaBatchTimeout,
		WriteTimeout:           constants.KafkaWriteTimeout,
		AllowAutoTopicCreation: true,
		Async:                  false,
	}
	return &KafkaProducer{writer: w, topic: cfg.OutcomeTopic, logger: log}
}

// Publish writes event keyed by sender so one conversation stays on one partition.
func (p *KafkaProducer) Publish(ctx context.Context, event models.RelayEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal relay event: %w", err)
	}

	headers := tracing.InjectTraceContext(ctx, []kafka.Header{
		{Key: "event_type", Value: []byte("relay_outcome")},
		{Key: "outcome", Value: []byte(event.Outcome)},
	})

	start := time.Now()
	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic:   p.topic,
		Key:     []byte(event.Sender),
		Value:   body,
		Headers: headers,
		Time:    event.At,
	})
	metrics.ObserveKafkaWriteDuration(p.topic, time.Since(start))

	if err != nil {
		metrics.KafkaMessagesWrittenTotal.WithLabelValues(p.topic, "error").Inc()
		return fmt.Errorf("failed to write kafka message: %w", err)
	}

	metrics.KafkaMessagesWrittenTotal.WithLabelValues(p.topic, "ok").Inc()
	p.logger.DebugwCtx(ctx, "Relay event published",
		"topic", p.topic,
		"event_id", event.ID,
		"outcome", event.Outcome,
	)
	return nil
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
