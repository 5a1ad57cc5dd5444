package poller

import (
	"context"
	"strings"
	"sync"
	"time"

	"gstrelay/internal/dedup"
	"gstrelay/internal/logger"
	"gstrelay/internal/messaging"
	"gstrelay/internal/relay"
	apperrors "gstrelay/pkg/errors"
	"gstrelay/pkg/logging"
	"gstrelay/pkg/metrics"
)

// Queue is the platform-hosted notification queue.
type Queue interface {
	ReceiveNotification(ctx context.Context) (*messaging.Notification, error)
	DeleteNotification(ctx context.Context, receiptID int64) error
}

type Dispatcher interface {
	Handle(ctx context.Context, msg relay.InboundMessage) relay.Result
}

type Config struct {
	Interval        time.Duration
	PipelineTimeout time.Duration
}

// Poller fetches at most one notification per tick. Ticks never overlap; the
// pipelines they start run detached and may outlive the tick.
type Poller struct {
	queue      Queue
	dispatcher Dispatcher
	seen       dedup.Set
	cfg        Config
	logger     logger.Logger
	inflight   sync.WaitGroup
}

func New(queue Queue, dispatcher Dispatcher, seen dedup.Set, cfg Config, log logger.Logger) *Poller {
	return &Poller{
		queue:      queue,
		dispatcher: dispatcher,
		seen:       seen,
		cfg:        cfg,
		logger:     log,
	}
}

// Run ticks until ctx is done.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	p.logger.InfowCtx(ctx, "Polling started", "interval", p.cfg.Interval)

	for {
		select {
		case <-ctx.Done():
			p.logger.InfowCtx(ctx, "Polling stopped", "reason", ctx.Err())
			return nil
		case <-ticker.C:
			p.Tick(ctx)
		}
	}
}

// Tick fetches one notification, routes it if it is a new text message, and deletes it.
func (p *Poller) Tick(ctx context.Context) {
	n, err := p.queue.ReceiveNotification(ctx)
	if err != nil {
		metrics.PollTicksTotal.WithLabelValues("error").Inc()
		p.logger.ErrorwCtx(ctx, "Failed to receive notification", "error", err)
		return
	}
	if n == nil {
		metrics.PollTicksTotal.WithLabelValues("empty").Inc()
		return
	}
	metrics.PollTicksTotal.WithLabelValues("notification").Inc()

	msgCtx := logging.WithMessageID(ctx, n.Body.IDMessage)
	p.route(msgCtx, n)
	p.delete(msgCtx, n.ReceiptID)
}

func (p *Poller) route(ctx context.Context, n *messaging.Notification) {
	text, ok := n.Text()
	if !ok {
		p.logger.DebugwCtx(ctx, "Skipping non-text notification",
			"type_webhook", n.Body.TypeWebhook,
			"type_message", n.Body.MessageData.TypeMessage,
		)
		return
	}

	id := n.Body.IDMessage
	if id != "" && !p.seen.Add(id) {
		metrics.DedupDuplicatesTotal.Inc()
		p.logger.InfowCtx(ctx, "Skipping already processed message")
		return
	}
	metrics.SetDedupSetSize(p.seen.Len())

	p.dispatch(ctx, relay.InboundMessage{
		Source:    relay.SourcePoll,
		Sender:    n.Body.SenderData.ChatID,
		Text:      strings.TrimSpace(text),
		MessageID: id,
	})
}

func (p *Poller) dispatch(ctx context.Context, msg relay.InboundMessage) {
	pipeCtx := context.WithoutCancel(ctx)
	cancel := context.CancelFunc(func() {})
	if p.cfg.PipelineTimeout > 0 {
		pipeCtx, cancel = context.WithTimeout(pipeCtx, p.cfg.PipelineTimeout)
	}

	p.inflight.Add(1)
	go func() {
		defer p.inflight.Done()
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				p.logger.ErrorwCtx(pipeCtx, "Panic recovered in poll pipeline", "error", apperrors.RecoverPanic(r))
			}
		}()
		p.dispatcher.Handle(pipeCtx, msg)
	}()
}

func (p *Poller) delete(ctx context.Context, receiptID int64) {
	if err := p.queue.DeleteNotification(ctx, receiptID); err != nil {
		metrics.NotificationDeletesTotal.WithLabelValues("error").Inc()
		p.logger.ErrorwCtx(ctx, "Failed to delete notification", "receipt_id", receiptID, "error", err)
		return
	}
	metrics.NotificationDeletesTotal.WithLabelValues("ok").Inc()
}

// Wait blocks until every dispatched pipeline has returned or ctx is done.
func (p *Poller) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
