package relay

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"gstrelay/internal/broker"
	"gstrelay/internal/formatter"
	"gstrelay/internal/gstin"
	"gstrelay/internal/logger"
	"gstrelay/internal/lookup"
	"gstrelay/internal/messaging"
	"gstrelay/pkg/logging"
	"gstrelay/pkg/metrics"
	"gstrelay/pkg/models"
	"gstrelay/pkg/tracing"
)

const (
	SourceWebhook = "webhook"
	SourcePoll    = "poll"
)

// InboundMessage is one text message taken from the platform.
type InboundMessage struct {
	Source    string
	Sender    string
	Text      string
	MessageID string
}

// Result describes how a message was answered.
type Result struct {
	Outcome    models.Outcome
	Identifier string
	Filed      *bool
	Alerted    bool
}

// Pipeline answers one inbound message: extract, validate, look up, format, send.
// Send and publish failures are logged and never returned.
type Pipeline struct {
	provider  lookup.Provider
	sender    messaging.Sender
	formatter *formatter.Formatter
	producer  broker.Producer
	logger    logger.Logger
	tracer    trace.Tracer
}

func NewPipeline(provider lookup.Provider, sender messaging.Sender, f *formatter.Formatter, producer broker.Producer, log logger.Logger) *Pipeline {
	if producer == nil {
		producer = broker.NopProducer{}
	}
	return &Pipeline{
		provider:  provider,
		sender:    sender,
		formatter: f,
		producer:  producer,
		logger:    log,
		tracer:    tracing.GetTracer("gstrelay/relay"),
	}
}

func (p *Pipeline) Handle(ctx context.Context, msg InboundMessage) Result {
	start := time.Now()

	ctx, span := tracing.StartMessageSpan(ctx, p.tracer, msg.Source, msg.MessageID)
	defer span.End()

	ctx = logging.WithSender(ctx, msg.Sender)
	if msg.MessageID != "" {
		ctx = logging.WithMessageID(ctx, msg.MessageID)
	}

	metrics.InboundMessagesTotal.WithLabelValues(msg.Source).Inc()
	p.logger.InfowCtx(ctx, "Processing inbound message", "text", messaging.Preview(msg.Text))

	res := p.route(ctx, strings.TrimSpace(msg.Text), msg.Sender)

	span.SetAttributes(attribute.String("relay.outcome", string(res.Outcome)))
	if res.Outcome == models.OutcomeUnavailable {
		span.SetStatus(codes.Error, "lookup unavailable")
	}
	metrics.RelayOutcomesTotal.WithLabelValues(string(res.Outcome)).Inc()
	metrics.ObservePipelineDuration(time.Since(start), string(res.Outcome))

	p.publish(ctx, msg, res)
	return res
}

func (p *Pipeline) route(ctx context.Context, text, to string) Result {
	id, ok := gstin.Extract(text)
	if !ok {
		p.logger.InfowCtx(ctx, "No GST number in message, sending help")
		p.send(ctx, to, p.formatter.Help())
		return Result{Outcome: models.OutcomeNoCandidate}
	}

	res := Result{Identifier: id}
	p.logger.InfowCtx(ctx, "Processing GST number", "gstin", id)

	if p.formatter.SendsProcessingNotice() {
		p.send(ctx, to, p.formatter.Processing(id))
	}

	if !gstin.Valid(id) {
		p.send(ctx, to, p.formatter.InvalidFormat(id))
		res.Outcome = models.OutcomeInvalidFormat
		return res
	}

	lookupStart := time.Now()
	rec, err := p.provider.Lookup(ctx, id)
	switch {
	case err == nil && rec != nil:
		metrics.ObserveLookupDuration(time.Since(lookupStart), "found")
	case err == nil, lookup.IsNotFound(err):
		metrics.ObserveLookupDuration(time.Since(lookupStart), "not_found")
		p.logger.InfowCtx(ctx, "GST number not found", "gstin", id)
		p.send(ctx, to, p.formatter.NotFound(id))
		res.Outcome = models.OutcomeNotFound
		return res
	default:
		metrics.ObserveLookupDuration(time.Since(lookupStart), "unavailable")
		p.logger.ErrorwCtx(ctx, "GST lookup failed", "gstin", id, "error", err)
		p.send(ctx, to, p.formatter.Unavailable(id))
		res.Outcome = models.OutcomeUnavailable
		return res
	}

	res.Outcome = models.OutcomeReported
	filed := rec.IsFiled
	res.Filed = &filed
	p.send(ctx, to, p.formatter.Report(id, rec))

	if alert, due := p.formatter.Alert(id, rec); due {
		res.Alerted = true
		metrics.AlertsSentTotal.Inc()
		p.logger.InfowCtx(ctx, "Filing deadline near, sending alert", "gstin", id, "due_date", rec.DueDate.String())
		p.send(ctx, to, alert)
	}

	return res
}

func (p *Pipeline) send(ctx context.Context, to, body string) {
	if err := p.sender.Send(ctx, to, body); err != nil {
		p.logger.ErrorwCtx(ctx, "Failed to send message", "to", to, "error", err)
	}
}

func (p *Pipeline) publish(ctx context.Context, msg InboundMessage, res Result) {
	b := models.NewRelayEventBuilder().
		WithSource(msg.Source).
		WithMessage(msg.MessageID, msg.Sender).
		WithIdentifier(res.Identifier).
		WithOutcome(res.Outcome).
		WithAlerted(res.Alerted).
		WithTraceID(logging.GetTraceID(ctx))
	if res.Filed != nil {
		b = b.WithFiled(*res.Filed)
	}

	if err := p.producer.Publish(ctx, b.Build()); err != nil {
		p.logger.WarnwCtx(ctx, "Failed to publish relay event", "error", err)
	}
}
