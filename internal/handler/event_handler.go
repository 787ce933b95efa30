package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avenues-school/site-api/internal/service"
	"github.com/avenues-school/site-api/pkg/response"
)

// EventHandler exposes the public news feed.
type EventHandler struct {
	events *service.EventService
}

// NewEventHandler constructs EventHandler.
func NewEventHandler(events *service.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// Feed godoc
// @Summary List news events, newest first
// @Tags Events
// @Produce json
// @Param page query int false "Page"
// @Success 200 {object} response.Envelope
// @Router /events [get]
func (h *EventHandler) Feed(c *gin.Context) {
	events, pagination, err := h.events.Feed(c.Request.Context(), pageQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, pagination)
}

// Upcoming godoc
// @Summary List the homepage strip of upcoming events
// @Tags Events
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /events/upcoming [get]
func (h *EventHandler) Upcoming(c *gin.Context) {
	events, err := h.events.Upcoming(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events, nil)
}

// Get godoc
// @Summary Get a single event
// @Tags Events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Router /events/{id} [get]
func (h *EventHandler) Get(c *gin.Context) {
	event, err := h.events.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event, nil)
}
