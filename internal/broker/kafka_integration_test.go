//go:build integration

package broker

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"

	"gstrelay/internal/config"
	"gstrelay/internal/logger"
	"gstrelay/pkg/models"
)

func setupKafka(t *testing.T) []string {
	t.Helper()
	ctx := context.Background()

	if os.Getenv("TESTCONTAINERS_RYUK_DISABLED") == "" {
		os.Setenv("TESTCONTAINERS_RYUK_DISABLED", "true")
	}

	container, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0",
		kafkamodule.WithClusterID("gstrelay-test"),
	)
	if err != nil {
		t.Fatalf("failed to start kafka container: %v", err)
	}
	t.Cleanup(func() {
		container.Terminate(ctx)
	})

	brokers, err := container.Brokers(ctx)
	require.NoError(t, err)
	return brokers
}

func TestKafkaProducer_Integration(t *testing.T) {
	brokers := setupKafka(t)
	topic := "gst.relay.outcomes.it"

	producer := NewKafkaProducer(config.KafkaConfig{
		Brokers:      brokers,
		OutcomeTopic: topic,
	}, logger.NopLogger())
	t.Cleanup(func() { producer.Close() })

	event := models.NewRelayEventBuilder().
		WithSource("poll").
		WithMessage("msg-1", "919999999999@c.us").
		WithIdentifier("27AAPFU0939F1ZV").
		WithOutcome(models.OutcomeReported).
		Build()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	require.Eventually(t, func() bool {
		return producer.Publish(ctx, event) == nil
	}, 30*time.Second, time.Second)

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:   brokers,
		Topic:     topic,
		Partition: 0,
		MinBytes:  1,
		MaxBytes:  1 << 20,
	})
	t.Cleanup(func() { reader.Close() })

	msg, err := reader.ReadMessage(ctx)
	require.NoError(t, err)

	assert.Equal(t, []byte("919999999999@c.us"), msg.Key)

	var got models.RelayEvent
	require.NoError(t, json.Unmarshal(msg.Value, &got))
	assert.Equal(t, event.ID, got.ID)
	assert.Equal(t, models.OutcomeReported, got.Outcome)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "relay_outcome", headers["event_type"])
	assert.Equal(t, string(models.OutcomeReported), headers["outcome"])
}
