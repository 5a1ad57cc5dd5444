package broker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstrelay/internal/config"
	"gstrelay/internal/logger"
	"gstrelay/pkg/models"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaProducer{writer: w, topic: "gst.relay.outcomes", logger: logger.NopLogger()}

	ev := models.NewRelayEventBuilder().
		WithSource("webhook").
		WithMessage("wamid.1", "919876543210").
		WithIdentifier("29AADCB2230M1Z2").
		WithOutcome(models.OutcomeReported).
		Build()

	require.NoError(t, p.Publish(context.Background(), ev))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "gst.relay.outcomes", msg.Topic)
	assert.Equal(t, "919876543210", string(msg.Key))

	var decoded models.RelayEvent
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, ev.ID, decoded.ID)
	assert.Equal(t, models.OutcomeReported, decoded.Outcome)

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "relay_outcome", headers["event_type"])
	assert.Equal(t, "reported", headers["outcome"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaProducer_PublishError(t *testing.T) {
	p := &KafkaProducer{writer: &fakeWriter{err: errors.New("broker down")}, topic: "t", logger: logger.NopLogger()}
	err := p.Publish(context.Background(), models.NewRelayEventBuilder().Build())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
}

func TestNewProducer(t *testing.T) {
	p, err := NewProducer(config.BrokerConfig{}, logger.NopLogger())
	require.NoError(t, err)
	assert.IsType(t, NopProducer{}, p)
	assert.NoError(t, p.Publish(context.Background(), models.RelayEvent{}))

	p, err = NewProducer(config.BrokerConfig{Type: "kafka", Kafka: config.KafkaConfig{Brokers: []string{"localhost:9092"}, OutcomeTopic: "t"}}, logger.NopLogger())
	require.NoError(t, err)
	assert.IsType(t, &KafkaProducer{}, p)
	require.NoError(t, p.Close())

	_, err = NewProducer(config.BrokerConfig{Type: "nats"}, logger.NopLogger())
	assert.Error(t, err)
}
