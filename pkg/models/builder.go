package models

import (
	"time"

	"github.com/google/uuid"
)

type RelayEventBuilder struct {
	event *RelayEvent
}

func NewRelayEventBuilder() *RelayEventBuilder {
	return &RelayEventBuilder{
		event: &RelayEvent{},
	}
}

func (b *RelayEventBuilder) WithSource(source string) *RelayEventBuilder {
	b.event.Source = source
	return b
}

func (b *RelayEventBuilder) WithMessage(messageID, sender string) *RelayEventBuilder {
	b.event.MessageID = messageID
	b.event.Sender = sender
	return b
}

func (b *RelayEventBuilder) WithIdentifier(identifier string) *RelayEventBuilder {
	b.event.Identifier = identifier
	return b
}

func (b *RelayEventBuilder) WithOutcome(outcome Outcome) *RelayEventBuilder {
	b.event.Outcome = outcome
	return b
}

func (b *RelayEventBuilder) WithFiled(filed bool) *RelayEventBuilder {
	b.event.Filed = &filed
	return b
}

func (b *RelayEventBuilder) WithAlerted(alerted bool) *RelayEventBuilder {
	b.event.Alerted = alerted
	return b
}

func (b *RelayEventBuilder) WithTraceID(traceID string) *RelayEventBuilder {
	b.event.TraceID = traceID
	return b
}

func (b *RelayEventBuilder) WithTimestamp(at time.Time) *RelayEventBuilder {
	b.event.At = at
	return b
}

// Build fills a fresh id and the current time when they were not set.
func (b *RelayEventBuilder) Build() RelayEvent {
	if b.event.ID == "" {
		b.event.ID = uuid.NewString()
	}
	if b.event.At.IsZero() {
		b.event.At = time.Now().UTC()
	}
	return *b.event
}
