package poller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"gstrelay/internal/logger"
)

// StatusSource reports the platform account state and instance settings.
type StatusSource interface {
	StateInstance(ctx context.Context) (map[string]interface{}, error)
	Settings(ctx context.Context) (map[string]interface{}, error)
}

const statusErrorMessage = "failed to fetch instance status"

// StatusHandler serves GET /check-status. Failures answer 500 with a fixed
// message; the cause is only logged.
func StatusHandler(source StatusSource, log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		state, err := source.StateInstance(ctx)
		if err != nil {
			log.ErrorwCtx(ctx, "Failed to fetch instance state", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": statusErrorMessage})
			return
		}

		settings, err := source.Settings(ctx)
		if err != nil {
			log.ErrorwCtx(ctx, "Failed to fetch instance settings", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": statusErrorMessage})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"state":    state,
			"settings": settings,
		})
	}
}
