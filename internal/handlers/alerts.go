package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"plant_buddy/internal/models"

	"github.com/gin-gonic/gin"
)

const errLimitInvalid = "invalid 'limit'; use a positive integer"

// alertFilterFromQuery reads ?plantId=&unread=true&limit=.
func alertFilterFromQuery(c *gin.Context) (models.AlertFilter, bool) {
	f := models.AlertFilter{
		PlantID:    strings.TrimSpace(c.Query("plantId")),
		UnreadOnly: c.Query("unread") == "true",
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return f, false
		}
		f.Limit = n
	}
	return f, true
}

// @Summary      List alerts
// @Description  Newest first, at most 200.
// @Tags         alerts
// @Produce      json
// @Param        plantId  query     string  false  "Only alerts for this plant"
// @Param        unread   query     string  false  "true to hide read alerts"
// @Param        limit    query     int     false  "Page size (max 200)"
// @Success      200      {array}   models.Alert
// @Failure      400      {object}  errorResponse
// @Failure      500      {object}  errorResponse
// @Router       /api/alerts [get]
func (h *Handler) listAlerts(c *gin.Context) {
	f, ok := alertFilterFromQuery(c)
	if !ok {
		c.JSON(http.StatusBadRequest, errorResponse{Error: errLimitInvalid})
		return
	}
	alerts, err := h.services.Alerts.List(c.Request.Context(), f)
	if err != nil {
		h.respondServiceError(c, "alert_list_failed", err)
		return
	}
	c.JSON(http.StatusOK, alerts)
}

// @Summary      Mark alert read
// @Tags         alerts
// @Produce      json
// @Param        id   path      string  true  "Alert ID"
// @Success      200  {object}  models.Alert
// @Failure      404  {object}  errorResponse
// @Router       /api/alerts/{id}/read [post]
func (h *Handler) markAlertRead(c *gin.Context) {
	a, err := h.services.Alerts.MarkRead(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondServiceError(c, "alert_mark_read_failed", err, "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, a)
}
