package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avenues-school/site-api/internal/service"
	"github.com/avenues-school/site-api/pkg/response"
)

// AlertHandler exposes the homepage alert banner feed.
type AlertHandler struct {
	alerts *service.AlertService
}

// NewAlertHandler constructs AlertHandler.
func NewAlertHandler(alerts *service.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// Feed godoc
// @Summary List banner alerts, highest priority first
// @Tags Alerts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /alerts [get]
func (h *AlertHandler) Feed(c *gin.Context) {
	alerts, err := h.alerts.Feed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, alerts, nil)
}
