package messaging

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"gstrelay/internal/config"
	"gstrelay/internal/constants"
	"gstrelay/internal/logger"
	"gstrelay/pkg/metrics"
)

type cloudTextBody struct {
	Body       string `json:"body"`
	PreviewURL bool   `json:"preview_url"`
}

type cloudTextMessage struct {
	MessagingProduct string        `json:"messaging_product"`
	RecipientType    string        `json:"recipient_type"`
	To               string        `json:"to"`
	Type             string        `json:"type"`
	Text             cloudTextBody `json:"text"`
}

type cloudSendResponse struct {
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// CloudAPISender sends text messages through the WhatsApp Cloud API.
type CloudAPISender struct {
	client   *http.Client
	endpoint string
	token    string
	logger   logger.Logger
}

func NewCloudAPISender(cfg config.WhatsAppConfig, client *http.Client, log logger.Logger) *CloudAPISender {
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = constants.DefaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = constants.DefaultGraphAPIBaseURL
	}
	version := cfg.APIVersion
	if version == "" {
		version = constants.DefaultGraphAPIVersion
	}

	return &CloudAPISender{
		client:   client,
		endpoint: fmt.Sprintf("%s/%s/%s/messages", strings.TrimRight(baseURL, "/"), version, cfg.PhoneNumberID),
		token:    cfg.AccessToken,
		logger:   log,
	}
}

func (s *CloudAPISender) Send(ctx context.Context, to, body string) error {
	s.logger.InfowCtx(ctx, "Sending message",
		"to", to,
		"preview", Preview(body),
	)

	msg := cloudTextMessage{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             cloudTextBody{Body: body, PreviewURL: false},
	}

	var resp cloudSendResponse
	err := doJSON(ctx, s.client, "whatsapp send", http.MethodPost, s.endpoint,
		map[string]string{"Authorization": "Bearer " + s.token}, msg, &resp)
	if err != nil {
		metrics.OutboundMessagesTotal.WithLabelValues("error").Inc()
		return err
	}

	metrics.OutboundMessagesTotal.WithLabelValues("sent").Inc()
	var messageID string
	if len(resp.Messages) > 0 {
		messageID = resp.Messages[0].ID
	}
	s.logger.InfowCtx(ctx, "Message sent successfully",
		"to", to,
		"platform_message_id", messageID,
	)
	return nil
}
