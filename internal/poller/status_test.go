package poller

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"gstrelay/internal/config"
	"gstrelay/internal/logger"
	"gstrelay/internal/messaging"
)

type fakeStatus struct {
	stateErr    error
	settingsErr error
}

func (f fakeStatus) StateInstance(context.Context) (map[string]interface{}, error) {
	if f.stateErr != nil {
		return nil, f.stateErr
	}
	return map[string]interface{}{"stateInstance": "authorized"}, nil
}

func (f fakeStatus) Settings(context.Context) (map[string]interface{}, error) {
	if f.settingsErr != nil {
		return nil, f.settingsErr
	}
	return map[string]interface{}{"incomingWebhook": "yes"}, nil
}

func serveStatus(source StatusSource) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/check-status", StatusHandler(source, logger.NopLogger()))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/check-status", nil))
	return w
}

func TestStatusHandler(t *testing.T) {
	w := serveStatus(fakeStatus{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"state":{"stateInstance":"authorized"},"settings":{"incomingWebhook":"yes"}}`, w.Body.String())
}

func TestStatusHandler_Failures(t *testing.T) {
	w := serveStatus(fakeStatus{stateErr: errors.New("unauthorized")})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"failed to fetch instance status"}`, w.Body.String())

	w = serveStatus(fakeStatus{settingsErr: errors.New("timeout")})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"failed to fetch instance status"}`, w.Body.String())
}

func TestStatusHandler_NeverExposesInstanceToken(t *testing.T) {
	client := messaging.NewGreenAPIClient(config.GreenAPIConfig{
		InstanceID: "1101",
		Token:      "SUPERSECRETTOKEN",
		BaseURL:    "http://127.0.0.1:1",
		Timeout:    time.Second,
	}, nil, logger.NopLogger())

	w := serveStatus(client)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "SUPERSECRETTOKEN")
	assert.NotContains(t, w.Body.String(), "waInstance1101")
}
