package webhook

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"gstrelay/internal/config"
	"gstrelay/internal/logger"
	"gstrelay/internal/relay"
	apperrors "gstrelay/pkg/errors"
	"gstrelay/pkg/metrics"
)

const maxBodyBytes = 1 << 20

// Dispatcher runs the relay pipeline for one message.
type Dispatcher interface {
	Handle(ctx context.Context, msg relay.InboundMessage) relay.Result
}

type Handler struct {
	verifyToken string
	appSecret   string
	dispatcher  Dispatcher
	logger      logger.Logger
	inflight    sync.WaitGroup
}

func NewHandler(cfg config.WhatsAppConfig, dispatcher Dispatcher, log logger.Logger) *Handler {
	return &Handler{
		verifyToken: cfg.VerifyToken,
		appSecret:   cfg.AppSecret,
		dispatcher:  dispatcher,
		logger:      log,
	}
}

// RegisterRoutes mounts GET and POST /webhook. receiveMiddlewares run before
// Receive only, so they must not answer anything but 200.
func (h *Handler) RegisterRoutes(router gin.IRouter, receiveMiddlewares ...gin.HandlerFunc) {
	router.GET("/webhook", h.Verify)
	router.POST("/webhook", append(receiveMiddlewares, h.Receive)...)
}

// Verify answers the subscription handshake.
func (h *Handler) Verify(c *gin.Context) {
	ctx := c.Request.Context()
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	h.logger.InfowCtx(ctx, "Webhook verification attempt", "mode", mode)

	if mode == "subscribe" && h.verifyToken != "" && token == h.verifyToken {
		metrics.WebhookVerificationsTotal.WithLabelValues("verified").Inc()
		h.logger.InfowCtx(ctx, "Webhook verified successfully")
		c.String(http.StatusOK, challenge)
		return
	}

	metrics.WebhookVerificationsTotal.WithLabelValues("rejected").Inc()
	h.logger.WarnwCtx(ctx, "Webhook verification failed, check the verify token")
	c.Status(http.StatusForbidden)
}

// Receive acknowledges with 200 before anything else, then hands the first text
// message to the pipeline in its own goroutine.
func (h *Handler) Receive(c *gin.Context) {
	body, readErr := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))

	c.Status(http.StatusOK)
	c.Writer.WriteHeaderNow()

	ctx := context.WithoutCancel(c.Request.Context())

	if readErr != nil {
		h.reject(ctx, "read_error", "Failed to read webhook body", "error", readErr)
		return
	}

	if h.appSecret != "" && !ValidSignature(body, c.GetHeader(SignatureHeader), h.appSecret) {
		h.reject(ctx, "bad_signature", "Invalid webhook signature")
		return
	}

	var payload Payload
	if err := json.Unmarshal(body, &payload); err != nil {
		h.reject(ctx, "invalid_json", "Malformed webhook payload", "error", err)
		return
	}

	msg, ok := payload.FirstMessage()
	if !ok {
		h.reject(ctx, "no_message", "No message found in webhook payload")
		return
	}

	var text string
	if msg.Text != nil {
		text = strings.TrimSpace(msg.Text.Body)
	}
	if text == "" {
		h.reject(ctx, "no_text", "No text in message", "type", msg.Type, "message_id", msg.ID)
		return
	}

	metrics.WebhookEventsTotal.WithLabelValues("dispatched").Inc()
	inbound := relay.InboundMessage{
		Source:    relay.SourceWebhook,
		Sender:    msg.From,
		Text:      text,
		MessageID: msg.ID,
	}

	h.inflight.Add(1)
	go func() {
		defer h.inflight.Done()
		defer func() {
			if r := recover(); r != nil {
				h.logger.ErrorwCtx(ctx, "Panic recovered in webhook pipeline", "error", apperrors.RecoverPanic(r))
			}
		}()
		h.dispatcher.Handle(ctx, inbound)
	}()
}

func (h *Handler) reject(ctx context.Context, result, msg string, keysAndValues ...interface{}) {
	metrics.WebhookEventsTotal.WithLabelValues(result).Inc()
	h.logger.WarnwCtx(ctx, msg, keysAndValues...)
}

// Wait blocks until every dispatched pipeline has returned or ctx is done.
func (h *Handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
