package messaging

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gstrelay/internal/config"
	"gstrelay/internal/logger"
)

func TestCloudAPISender_Send(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v19.0/1234567890/messages", r.URL.Path)
		assert.Equal(t, "Bearer wa-token", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"messaging_product":"whatsapp","messages":[{"id":"wamid.ABC"}]}`))
	}))
	defer srv.Close()

	s := NewCloudAPISender(config.WhatsAppConfig{
		AccessToken:   "wa-token",
		PhoneNumberID: "1234567890",
		BaseURL:       srv.URL,
	}, srv.Client(), logger.NopLogger())

	require.NoError(t, s.Send(context.Background(), "919876543210", "hello"))
	assert.Equal(t, "whatsapp", got["messaging_product"])
	assert.Equal(t, "individual", got["recipient_type"])
	assert.Equal(t, "919876543210", got["to"])
	assert.Equal(t, "text", got["type"])
	assert.Equal(t, map[string]interface{}{"body": "hello", "preview_url": false}, got["text"])
}

func TestCloudAPISender_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
	}))
	defer srv.Close()

	s := NewCloudAPISender(config.WhatsAppConfig{BaseURL: srv.URL, APIVersion: "v20.0", PhoneNumberID: "1"}, srv.Client(), logger.NopLogger())
	err := s.Send(context.Background(), "919876543210", "hello")
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Contains(t, statusErr.Body, "Invalid OAuth")
}

func TestNewCloudAPISender_Defaults(t *testing.T) {
	s := NewCloudAPISender(config.WhatsAppConfig{PhoneNumberID: "42"}, nil, logger.NopLogger())
	assert.Equal(t, "https://graph.facebook.com/v19.0/42/messages", s.endpoint)
	assert.NotNil(t, s.client)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "short", Preview("short"))

	long := strings.Repeat("ab", 40)
	p := Preview(long)
	assert.True(t, strings.HasSuffix(p, "..."))
	assert.Len(t, []rune(p), 53)

	emoji := strings.Repeat("🔍", 60)
	assert.Len(t, []rune(Preview(emoji)), 53)
}
