package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"gstrelay/pkg/logging"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("verbose"))
}

func TestNew(t *testing.T) {
	log, err := New("debug", "console")
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestContextFields_ServiceNameFallback(t *testing.T) {
	l := &SugaredLogger{}
	l.SetServiceName("poll-service")

	fields := l.getContextFields(context.Background())
	assert.Equal(t, []interface{}{"service_name", "poll-service"}, fields)

	ctx := logging.WithServiceName(context.Background(), "webhook-service")
	fields = l.getContextFields(ctx)
	assert.Equal(t, []interface{}{"service_name", "webhook-service"}, fields)
}
