package broker

import (
	"context"

	"gstrelay/pkg/models"
)

// Producer publishes relay outcome events.
type Producer interface {
	Publish(ctx context.Context, event models.RelayEvent) error
	Close() error
}

// NopProducer drops every event. It is used when no broker is configured.
type NopProducer struct{}

func (NopProducer) Publish(context.Context, models.RelayEvent) error { return nil }

func (NopProducer) Close() error { return nil }
