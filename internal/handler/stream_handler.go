package handler

import (
	"io"

	"github.com/gin-gonic/gin"

	"github.com/avenues-school/site-api/internal/models"
	"github.com/avenues-school/site-api/internal/service"
	"github.com/avenues-school/site-api/pkg/response"
)

// StreamHandler pushes live event feed updates over server-sent events.
type StreamHandler struct {
	events  *service.EventService
	metrics *service.MetricsService
}

// NewStreamHandler constructs StreamHandler.
func NewStreamHandler(events *service.EventService, metrics *service.MetricsService) *StreamHandler {
	return &StreamHandler{events: events, metrics: metrics}
}

// Stream godoc
// @Summary Stream event feed updates as server-sent events
// @Tags Events
// @Produce text/event-stream
// @Success 200 {string} string "SSE stream"
// @Router /events/stream [get]
func (h *StreamHandler) Stream(c *gin.Context) {
	ctx := c.Request.Context()
	updates := make(chan []models.Event, 4)

	unsubscribe, err := h.events.Subscribe(ctx, func(events []models.Event) {
		// Drop intermediate snapshots for slow clients; the next update
		// carries the full state anyway.
		select {
		case updates <- events:
		default:
		}
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	defer unsubscribe()

	h.metrics.StreamClientConnected()
	defer h.metrics.StreamClientDisconnected()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case events := <-updates:
			c.SSEvent("events", events)
			return true
		case <-ctx.Done():
			return false
		}
	})
}
