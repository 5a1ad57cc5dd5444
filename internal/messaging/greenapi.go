package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"gstrelay/internal/config"
	"gstrelay/internal/constants"
	"gstrelay/internal/logger"
	"gstrelay/pkg/metrics"
)

const (
	WebhookIncomingMessage = "incomingMessageReceived"

	MessageTypeText         = "textMessage"
	MessageTypeExtendedText = "extendedTextMessage"
)

// Notification is one entry of the instance notification queue.
type Notification struct {
	ReceiptID int64            `json:"receiptId"`
	Body      NotificationBody `json:"body"`
}

type NotificationBody struct {
	TypeWebhook string      `json:"typeWebhook"`
	IDMessage   string      `json:"idMessage"`
	Timestamp   int64       `json:"timestamp"`
	SenderData  SenderData  `json:"senderData"`
	MessageData MessageData `json:"messageData"`
}

type SenderData struct {
	ChatID     string `json:"chatId"`
	Sender     string `json:"sender"`
	SenderName string `json:"senderName,omitempty"`
}

type MessageData struct {
	TypeMessage             string                   `json:"typeMessage"`
	TextMessageData         *TextMessageData         `json:"textMessageData,omitempty"`
	ExtendedTextMessageData *ExtendedTextMessageData `json:"extendedTextMessageData,omitempty"`
}

type TextMessageData struct {
	TextMessage string `json:"textMessage"`
}

type ExtendedTextMessageData struct {
	Text string `json:"text"`
}

// Text returns the message text when the notification is an incoming text message.
func (n *Notification) Text() (string, bool) {
	if n.Body.TypeWebhook != WebhookIncomingMessage {
		return "", false
	}

	data := n.Body.MessageData
	switch data.TypeMessage {
	case MessageTypeText:
		if data.TextMessageData != nil {
			return data.TextMessageData.TextMessage, true
		}
	case MessageTypeExtendedText:
		if data.ExtendedTextMessageData != nil {
			return data.ExtendedTextMessageData.Text, true
		}
	}
	return "", false
}

// GreenAPIClient talks to one Green API instance.
type GreenAPIClient struct {
	client  *http.Client
	baseURL string
	token   string
	logger  logger.Logger
}

func NewGreenAPIClient(cfg config.GreenAPIConfig, client *http.Client, log logger.Logger) *GreenAPIClient {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = constants.DefaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultGreenAPIBaseURL
	}

	return &GreenAPIClient{
		client:  client,
		baseURL: fmt.Sprintf("%s/waInstance%s", strings.TrimRight(baseURL, "/"), cfg.InstanceID),
		token:   cfg.Token,
		logger:  log,
	}
}

func (c *GreenAPIClient) methodURL(method string, extra ...string) string {
	parts := append([]string{c.baseURL, method, c.token}, extra...)
	return strings.Join(parts, "/")
}

type greenSendRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

type greenSendResponse struct {
	IDMessage string `json:"idMessage"`
}

func (c *GreenAPIClient) Send(ctx context.Context, to, body string) error {
	c.logger.InfowCtx(ctx, "Sending message",
		"to", to,
		"preview", Preview(body),
	)

	var resp greenSendResponse
	err := doJSON(ctx, c.client, "green-api sendMessage", http.MethodPost, c.methodURL("sendMessage"), nil,
		greenSendRequest{ChatID: to, Message: body}, &resp)
	if err != nil {
		metrics.OutboundMessagesTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.OutboundMessagesTotal.WithLabelValues("sent").Inc()
	c.logger.InfowCtx(ctx, "Message sent successfully",
		"to", to,
		"platform_message_id", resp.IDMessage,
	)
	return nil
}

// ReceiveNotification fetches the oldest pending notification. It returns nil when the queue is empty.
func (c *GreenAPIClient) ReceiveNotification(ctx context.Context) (*Notification, error) {
	var raw json.RawMessage
	if err := doJSON(ctx, c.client, "green-api receiveNotification", http.MethodGet, c.methodURL("receiveNotification"), nil, nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("green-api receiveNotification: failed to decode notification: %w", err)
	}
	return &n, nil
}

type greenDeleteResponse struct {
	Result bool `json:"result"`
}

func (c *GreenAPIClient) DeleteNotification(ctx context.Context, receiptID int64) error {
	var resp greenDeleteResponse
	url := c.methodURL("deleteNotification", fmt.Sprintf("%d", receiptID))
	if err := doJSON(ctx, c.client, "green-api deleteNotification", http.MethodDelete, url, nil, nil, &resp); err != nil {
		return err
	}
	if !resp.Result {
		return fmt.Errorf("green-api deleteNotification: receipt %d was not deleted", receiptID)
	}
	return nil
}

// StateInstance returns the raw account state document.
func (c *GreenAPIClient) StateInstance(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := doJSON(ctx, c.client, "green-api getStateInstance", http.MethodGet, c.methodURL("getStateInstance"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Settings returns the raw instance settings document.
func (c *GreenAPIClient) Settings(ctx context.Context) (map[string]interface{}, error) {
	var out map[string]interface{}
	if err := doJSON(ctx, c.client, "green-api getSettings", http.MethodGet, c.methodURL("getSettings"), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
